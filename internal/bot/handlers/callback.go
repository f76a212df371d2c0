package handlers

import (
	"godev-candidate-bot/internal/bot/utils"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// HandleCallback processes all callback queries from inline buttons
func HandleCallback(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil {
			ctx.Logger.Warn("callback is nil")
			return nil
		}

		action, arg := utils.ParseCallback(cb.Data)

		ctx.Logger.Debug("routing callback",
			zap.String("action", action),
			zap.String("arg", arg),
			zap.Int64("user_id", c.Sender().ID),
		)

		switch action {
		case utils.CbJobsPage:
			return handleJobsPage(ctx, c, arg)
		case utils.CbJobDetails:
			return handleJobDetailsCallback(ctx, c, arg)
		case utils.CbApply:
			return handleApplyCallback(ctx, c, arg)
		case utils.CbApplyResume:
			return handleApplyResume(ctx, c, arg)
		case utils.CbApplyCancel:
			return handleApplyCancel(ctx, c)
		case utils.CbAppsPage:
			return handleApplicationsPage(ctx, c, arg)
		case utils.CbResumeGet:
			return handleResumeDownloadCallback(ctx, c, arg)
		case utils.CbResumeDel:
			return handleResumeDeleteCallback(ctx, c, arg)
		case utils.CbWatchToggle:
			return handleWatchToggle(ctx, c)
		case utils.CbNoop:
			return c.Respond()
		default:
			ctx.Logger.Warn("unknown callback action",
				zap.String("action", action),
				zap.String("data", cb.Data),
			)
			return c.Respond(&tele.CallbackResponse{Text: "❓ Ação desconhecida"})
		}
	}
}
