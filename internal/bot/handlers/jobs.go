package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"godev-candidate-bot/internal/api/godev"
	"godev-candidate-bot/internal/bot/utils"
	"godev-candidate-bot/internal/models"
	"godev-candidate-bot/internal/storage/redis"
	"godev-candidate-bot/internal/store"
	"godev-candidate-bot/internal/workspace"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// /jobs
func HandleJobs(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		ws := ctx.workspace(c)
		ws.Jobs.SetPage(1)
		return ctx.loadJobs(c, ws)
	}
}

// /search texto
func HandleSearch(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		text := strings.TrimSpace(c.Message().Payload)
		if text == "" {
			return c.Send("Uso: /search texto\nExemplo: /search golang")
		}

		ws := ctx.workspace(c)
		userID := c.Sender().ID

		ws.Jobs.SetFilters(func(f *store.JobsFilters) {
			f.Search = text
		})

		dbCtx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		err := ctx.Store.SaveFilter(dbCtx, &models.UserFilter{
			UserID:      userID,
			FilterType:  models.FilterTypeSearch,
			FilterValue: text,
		})
		if err != nil {
			ctx.Logger.Warn("failed to save search filter", zap.Int64("user_id", userID), zap.Error(err))
		}

		return ctx.loadJobs(c, ws)
	}
}

// loadJobs fetches the current page and renders it.
func (ctx *Context) loadJobs(c tele.Context, ws *workspace.Workspace) error {
	reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	ws.Jobs.Fetch(reqCtx)
	return ctx.renderJobs(c, ws)
}

func (ctx *Context) renderJobs(c tele.Context, ws *workspace.Workspace) error {
	state := ws.Jobs.State()
	if sendState(c, state.Error) {
		return nil
	}

	if len(state.Data) == 0 {
		return editOrSend(c, ctx.Logger, utils.FormatNoJobsMessage(), tele.ModeMarkdownV2)
	}

	ids := godev.ExtractJobIDs(state.Data)

	dbCtx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if err := ctx.Cache.SetLastJobIDs(dbCtx, c.Sender().ID, ids); err != nil {
		ctx.Logger.Warn("failed to cache job ids", zap.Error(err))
	}

	p := ws.Jobs.Pagination()
	return editOrSend(c, ctx.Logger,
		utils.FormatJobList(state.Data, p),
		utils.InlineJobsKeyboard(ids, p.Page, p.TotalPages),
		tele.ModeMarkdownV2,
	)
}

// /job N or /job <id>
func HandleJobDetails(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		arg := strings.TrimSpace(c.Message().Payload)
		if arg == "" {
			return c.Send("Uso: /job N (número da vaga na última lista)")
		}

		jobID, ok := ctx.resolveJobID(c.Sender().ID, arg)
		if !ok {
			return c.Send(msgJobNotListed)
		}

		return ctx.showJob(c, jobID)
	}
}

func (ctx *Context) showJob(c tele.Context, jobID string) error {
	ws := ctx.workspace(c)

	reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	job, err := ws.Client().GetJob(reqCtx, jobID)
	if err != nil {
		return ctx.sendError(c, ws, err, "Erro ao carregar vaga")
	}

	return c.Send(
		utils.FormatJob(job),
		utils.InlineJobKeyboard(job.ID, job.AppliedByCurrentUser),
		tele.ModeMarkdownV2,
		tele.NoPreview,
	)
}

const msgJobNotListed = "❌ Vaga não encontrada na última lista. Use /jobs para listar novamente."

// resolveJobID maps a list number from the last /jobs page to a job id.
// Anything that is not a number is taken as an id.
func (ctx *Context) resolveJobID(userID int64, arg string) (string, bool) {
	if _, err := strconv.Atoi(arg); err != nil {
		return arg, true
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	ids, err := ctx.Cache.GetLastJobIDs(dbCtx, userID)
	if err != nil && !errors.Is(err, redis.ErrKeyNotFound) {
		ctx.Logger.Warn("failed to read cached job ids", zap.Int64("user_id", userID), zap.Error(err))
	}

	return pickJobID(ids, arg)
}

func pickJobID(ids []string, arg string) (string, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return arg, arg != ""
	}
	if n < 1 || n > len(ids) {
		return "", false
	}
	return ids[n-1], true
}

func handleJobsPage(ctx *Context, c tele.Context, arg string) error {
	page, err := strconv.Atoi(arg)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Página inválida"})
	}

	ws := ctx.workspace(c)
	ws.Jobs.SetPage(page)

	_ = c.Respond()
	return ctx.loadJobs(c, ws)
}

func handleJobDetailsCallback(ctx *Context, c tele.Context, jobID string) error {
	_ = c.Respond()
	return ctx.showJob(c, jobID)
}
