package handlers

import (
	"context"
	"errors"
	"time"

	"godev-candidate-bot/internal/api/godev"
	"godev-candidate-bot/internal/config"
	"godev-candidate-bot/internal/quota"
	"godev-candidate-bot/internal/storage/postgres"
	"godev-candidate-bot/internal/storage/redis"
	"godev-candidate-bot/internal/workspace"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	dbTimeout      = 10 * time.Second
	requestTimeout = 45 * time.Second
)

// Context contains deps for all handlers
type Context struct {
	Store      *postgres.Store
	Cache      *redis.Cache
	Workspaces *workspace.Registry
	Config     *config.Config
	Logger     *zap.Logger
}

// workspace opens (or returns) the sender's workspace.
func (ctx *Context) workspace(c tele.Context) *workspace.Workspace {
	openCtx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()
	return ctx.Workspaces.Get(openCtx, c.Sender().ID)
}

// requireAuth replies with a login hint when the sender has no session.
func (ctx *Context) requireAuth(c tele.Context, ws *workspace.Workspace) bool {
	if ws.Session.IsAuthenticated() {
		return true
	}

	if c.Callback() != nil {
		_ = c.Respond(&tele.CallbackResponse{Text: workspace.ErrNotAuthenticated.Text})
	}
	_ = c.Send("🔒 Faça login para continuar: /login email senha\nAinda não tem conta? /register nome | email | senha")
	return false
}

// plan reads the sender's plan; lookup failures count as the free plan.
func (ctx *Context) plan(dbCtx context.Context, userID int64) quota.Plan {
	premium, err := ctx.Store.IsPremium(dbCtx, userID)
	if err != nil {
		ctx.Logger.Warn("failed to read plan, using free plan",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return quota.Plan{}
	}
	return quota.Plan{IsPremium: premium}
}

// sendError reports err to the candidate. An expired token ends the session.
func (ctx *Context) sendError(c tele.Context, ws *workspace.Workspace, err error, fallback string) error {
	var apiErr *godev.APIError
	if errors.As(err, &apiErr) && apiErr.Unauthorized() && ws.Session.IsAuthenticated() {
		logoutCtx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		ws.Logout(logoutCtx)
		return c.Send("🔒 Sua sessão expirou. Entre novamente com /login")
	}

	return c.Send("😔 " + workspace.UserMessage(err, fallback))
}

// sendState reports a store error message, if any. It returns true when it did.
func sendState(c tele.Context, errMsg string) bool {
	if errMsg == "" {
		return false
	}
	_ = c.Send("😔 " + errMsg)
	return true
}

// editOrSend edits the callback's message, falling back to a new message.
func editOrSend(c tele.Context, logger *zap.Logger, what interface{}, opts ...interface{}) error {
	if c.Callback() != nil {
		err := c.Edit(what, opts...)
		if err == nil || errors.Is(err, tele.ErrSameMessageContent) {
			return nil
		}
		logger.Warn("failed to edit message", zap.Error(err))
	}
	return c.Send(what, opts...)
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
