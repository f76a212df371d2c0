package handlers

import (
	"context"
	"strings"

	"godev-candidate-bot/internal/bot/utils"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// /login email senha
func HandleLogin(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		var payload string

		// the message carries a password
		if c.Message() != nil {
			payload = c.Message().Payload
			if err := c.Delete(); err != nil {
				ctx.Logger.Debug("failed to delete login message", zap.Error(err))
			}
		}

		email, password, ok := parseLoginArgs(payload)
		if !ok {
			return c.Send("Uso: /login email senha")
		}

		ws := ctx.workspace(c)

		reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		user, err := ws.Login(reqCtx, email, password)
		if err != nil {
			ctx.Logger.Info("login failed", zap.Int64("user_id", c.Sender().ID), zap.Error(err))
			return ctx.sendError(c, ws, err, "Não foi possível entrar. Verifique email e senha.")
		}

		ctx.Logger.Info("candidate logged in", zap.Int64("user_id", c.Sender().ID))

		return c.Send(
			"✅ Olá, "+utils.Bold(user.Name)+"\\! Você está conectado\\.\n\nUse /jobs para ver as vagas\\.",
			utils.MainMenuKeyboard(),
			tele.ModeMarkdownV2,
		)
	}
}

// parseLoginArgs splits "email senha" once; the password may contain spaces.
func parseLoginArgs(payload string) (email, password string, ok bool) {
	email, password, _ = strings.Cut(strings.TrimSpace(payload), " ")
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return "", "", false
	}
	return email, password, true
}

// /register nome | email | senha
func HandleRegister(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Message() != nil {
			if err := c.Delete(); err != nil {
				ctx.Logger.Debug("failed to delete register message", zap.Error(err))
			}
		}

		name, email, password, ok := parseRegisterArgs(c.Message().Payload)
		if !ok {
			return c.Send("Uso: /register nome | email | senha")
		}

		ws := ctx.workspace(c)

		reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		user, err := ws.Register(reqCtx, name, email, password)
		if err != nil {
			ctx.Logger.Info("register failed", zap.Int64("user_id", c.Sender().ID), zap.Error(err))
			return ctx.sendError(c, ws, err, "Não foi possível criar sua conta.")
		}

		return c.Send(
			"🎉 Conta criada, "+utils.Bold(user.Name)+"\\!\n\nEnvie um currículo em PDF e use /jobs para ver as vagas\\.",
			utils.MainMenuKeyboard(),
			tele.ModeMarkdownV2,
		)
	}
}

func parseRegisterArgs(payload string) (name, email, password string, ok bool) {
	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		return "", "", "", false
	}

	name = strings.TrimSpace(parts[0])
	email = strings.TrimSpace(parts[1])
	password = strings.TrimSpace(parts[2])
	if name == "" || email == "" || password == "" {
		return "", "", "", false
	}

	return name, email, password, true
}

// /logout
func HandleLogout(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		ws := ctx.workspace(c)

		dbCtx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		ws.Logout(dbCtx)
		if err := ctx.Cache.DeletePendingApply(dbCtx, c.Sender().ID); err != nil {
			ctx.Logger.Warn("failed to delete pending apply", zap.Error(err))
		}

		return c.Send("👋 Você saiu da sua conta.")
	}
}

// /profile, /profile nome <nome>, /profile senha <senha>
func HandleProfile(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		ws := ctx.workspace(c)
		if !ctx.requireAuth(c, ws) {
			return nil
		}

		field, value, _ := strings.Cut(strings.TrimSpace(c.Message().Payload), " ")
		value = strings.TrimSpace(value)

		var name, password string
		switch strings.ToLower(field) {
		case "":
			dbCtx, cancel := context.WithTimeout(context.Background(), dbTimeout)
			defer cancel()

			plan := ctx.plan(dbCtx, c.Sender().ID)
			remaining := ws.Quota.CanApply(dbCtx, plan).Remaining

			return c.Send(utils.FormatProfile(ws.Session.User(), plan.IsPremium, remaining), tele.ModeMarkdownV2)
		case "nome":
			name = value
		case "senha":
			if err := c.Delete(); err != nil {
				ctx.Logger.Debug("failed to delete profile message", zap.Error(err))
			}
			password = value
		default:
			return c.Send("Uso: /profile nome <novo nome> ou /profile senha <nova senha>")
		}

		if value == "" {
			return c.Send("Informe o novo valor.")
		}

		reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if _, err := ws.UpdateProfile(reqCtx, name, password); err != nil {
			return ctx.sendError(c, ws, err, "Erro ao atualizar perfil.")
		}

		return c.Send("✅ Perfil atualizado.")
	}
}
