package middleware

import (
	"strings"
	"time"

	"godev-candidate-bot/internal/metrics"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// commands whose arguments carry credentials
var redactedCommands = []string{"/login", "/register", "/profile"}

// Logger middleware for logging all incoming msgs
func Logger(logger *zap.Logger, m *metrics.Metrics) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()

			// get user info
			user := c.Sender()
			var userID int64
			var username string

			if user != nil {
				userID = user.ID
				username = user.Username
			}

			// get msg info
			var messageText string
			messageType := "message"

			if message := c.Message(); message != nil {
				messageText = redact(message.Text)
				switch {
				case message.Document != nil:
					messageType = "document"
				case strings.HasPrefix(message.Text, "/"):
					messageType = "command"
				}
			}

			if callback := c.Callback(); callback != nil {
				messageText = strings.TrimPrefix(callback.Data, "\f")
				messageType = "callback"
			}

			err := next(c)

			duration := time.Since(start)

			fields := []zap.Field{
				zap.Int64("user_id", userID),
				zap.String("username", username),
				zap.String("type", messageType),
				zap.String("text", messageText),
				zap.Duration("duration", duration),
			}

			if err != nil {
				m.BotUpdate(messageType, "error")
				fields = append(fields, zap.Error(err))
				logger.Error("handler error", fields...)
			} else {
				m.BotUpdate(messageType, "ok")
				logger.Info("request handled", fields...)
			}

			return err
		}
	}
}

func redact(text string) string {
	for _, cmd := range redactedCommands {
		if text == cmd || strings.HasPrefix(text, cmd+" ") || strings.HasPrefix(text, cmd+"@") {
			return cmd + " [redacted]"
		}
	}
	return text
}
