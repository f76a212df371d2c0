package handlers

import (
	"context"
	"strconv"
	"strings"

	"godev-candidate-bot/internal/bot/utils"
	"godev-candidate-bot/internal/models"
	"godev-candidate-bot/internal/workspace"

	tele "gopkg.in/telebot.v3"
)

// /applications [status]
func HandleApplications(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		ws := ctx.workspace(c)
		if !ctx.requireAuth(c, ws) {
			return nil
		}

		var arg string
		if c.Message() != nil {
			arg = strings.TrimSpace(c.Message().Payload)
		}

		switch strings.ToLower(arg) {
		case "":
		case "todas":
			ws.Applications.ResetFilters()
		default:
			status, ok := models.ParseStatus(arg)
			if !ok {
				return c.Send("❌ Status inválido. Use um destes: " +
					strings.Join(models.StatusOptions(), ", ") + " ou todas")
			}
			ws.Applications.SetStatus(status)
		}

		ws.Applications.SetPage(1)
		return ctx.loadApplications(c, ws)
	}
}

func (ctx *Context) loadApplications(c tele.Context, ws *workspace.Workspace) error {
	reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	ws.Applications.Fetch(reqCtx)

	state := ws.Applications.State()
	if sendState(c, state.Error) {
		return nil
	}

	p := ws.Applications.Pagination()
	return editOrSend(c, ctx.Logger,
		utils.FormatTasks(state.Data, p),
		utils.InlinePaginationKeyboard(p.Page, p.TotalPages, utils.CbAppsPage),
		tele.ModeMarkdownV2,
	)
}

func handleApplicationsPage(ctx *Context, c tele.Context, arg string) error {
	page, err := strconv.Atoi(arg)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Página inválida"})
	}

	ws := ctx.workspace(c)
	if !ctx.requireAuth(c, ws) {
		return nil
	}

	_ = c.Respond()
	ws.Applications.SetPage(page)
	return ctx.loadApplications(c, ws)
}

// /dashboard
func HandleDashboard(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		ws := ctx.workspace(c)
		if !ctx.requireAuth(c, ws) {
			return nil
		}

		reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		ws.Dashboard.Fetch(reqCtx)

		state := ws.Dashboard.State()
		if sendState(c, state.Error) {
			return nil
		}
		if state.Data == nil {
			return c.Send("📊 Ainda não há dados no seu painel.")
		}

		return c.Send(utils.FormatDashboard(state.Data), tele.ModeMarkdownV2)
	}
}
