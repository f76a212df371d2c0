package handlers

import (
	"context"

	"godev-candidate-bot/internal/bot/utils"
	"godev-candidate-bot/internal/models"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// /premium
func HandlePremium(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		ws := ctx.workspace(c)

		dbCtx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		plan := ctx.plan(dbCtx, c.Sender().ID)
		if plan.IsPremium {
			return c.Send(utils.FormatPremiumMessage(true, ws.Quota.Limit()), tele.ModeMarkdownV2)
		}

		return c.Send(
			utils.FormatPremiumMessage(false, ws.Quota.Limit()),
			utils.PremiumKeyboard(ctx.Config.PremiumCheckoutURL),
			tele.ModeMarkdownV2,
		)
	}
}

// /watch shows and toggles status change notifications.
func HandleWatch(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		ws := ctx.workspace(c)
		if !ctx.requireAuth(c, ws) {
			return nil
		}

		dbCtx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		user, err := ctx.ensureUser(dbCtx, c.Sender())
		if err != nil {
			return c.Send("😔 Erro ao carregar configurações")
		}

		return c.Send(watchText(user.WatchEnabled), utils.WatchKeyboard(user.WatchEnabled))
	}
}

func handleWatchToggle(ctx *Context, c tele.Context) error {
	ws := ctx.workspace(c)
	if !ctx.requireAuth(c, ws) {
		return nil
	}
	userID := c.Sender().ID

	dbCtx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	user, err := ctx.ensureUser(dbCtx, c.Sender())
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "😔 Erro ao salvar"})
	}

	enabled := !user.WatchEnabled
	if err := ctx.Store.SetWatchEnabled(dbCtx, userID, enabled); err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "😔 Erro ao salvar"})
	}

	ctx.Logger.Info("watch toggled", zap.Int64("user_id", userID), zap.Bool("enabled", enabled))

	_ = c.Respond(&tele.CallbackResponse{Text: "✅ Salvo"})
	return editOrSend(c, ctx.Logger, watchText(enabled), utils.WatchKeyboard(enabled))
}

func watchText(enabled bool) string {
	if enabled {
		return "🔔 Avisos de mudança de status: ativados\n\nVocê recebe uma mensagem quando o status de uma candidatura muda."
	}
	return "🔕 Avisos de mudança de status: desativados"
}

// ensureUser returns the sender's bot user, creating it if needed.
func (ctx *Context) ensureUser(dbCtx context.Context, sender *tele.User) (*models.User, error) {
	user, err := ctx.Store.GetOrCreateUser(dbCtx, &models.User{
		ID:        sender.ID,
		Username:  stringPtr(sender.Username),
		FirstName: stringPtr(sender.FirstName),
		LastName:  stringPtr(sender.LastName),
	})
	if err != nil {
		ctx.Logger.Error("get or create user failed", zap.Int64("user_id", sender.ID), zap.Error(err))
		return nil, err
	}
	return user, nil
}
