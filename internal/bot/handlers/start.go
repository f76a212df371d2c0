package handlers

import (
	"context"

	"godev-candidate-bot/internal/bot/utils"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// /start command
func HandleStart(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		sender := c.Sender()

		ctx.Logger.Info("user started bot",
			zap.Int64("user_id", sender.ID),
			zap.String("username", sender.Username),
		)

		dbCtx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		if _, err := ctx.ensureUser(dbCtx, sender); err != nil {
			return c.Send("😔 Erro ao iniciar. Tente novamente mais tarde.")
		}

		ws := ctx.workspace(c)

		name := sender.FirstName
		if user := ws.Session.User(); user != nil {
			name = user.Name
		}

		return c.Send(
			utils.FormatWelcomeMessage(name),
			utils.MainMenuKeyboard(),
			tele.ModeMarkdownV2,
		)
	}
}
