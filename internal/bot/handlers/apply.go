package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"godev-candidate-bot/internal/api/godev"
	"godev-candidate-bot/internal/bot/utils"
	"godev-candidate-bot/internal/quota"
	"godev-candidate-bot/internal/storage/redis"
	"godev-candidate-bot/internal/workspace"

	"github.com/ecodeclub/ekit/slice"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// /apply N [mensagem]
func HandleApply(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		arg, coverLetter, _ := strings.Cut(strings.TrimSpace(c.Message().Payload), " ")
		if arg == "" {
			return c.Send("Uso: /apply N [mensagem]\nN é o número da vaga na última lista de /jobs")
		}

		jobID, ok := ctx.resolveJobID(c.Sender().ID, arg)
		if !ok {
			return c.Send(msgJobNotListed)
		}

		return ctx.startQuickApply(c, jobID, strings.TrimSpace(coverLetter))
	}
}

func handleApplyCallback(ctx *Context, c tele.Context, jobID string) error {
	_ = c.Respond()
	return ctx.startQuickApply(c, jobID, "")
}

// startQuickApply checks the quota and asks which resume to send.
func (ctx *Context) startQuickApply(c tele.Context, jobID, coverLetter string) error {
	ws := ctx.workspace(c)
	if !ctx.requireAuth(c, ws) {
		return nil
	}
	userID := c.Sender().ID

	dbCtx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	plan := ctx.plan(dbCtx, userID)
	decision := ws.Quota.CanApply(dbCtx, plan)
	if !decision.OK {
		return ctx.sendQuotaExceeded(c)
	}

	reqCtx, reqCancel := context.WithTimeout(context.Background(), requestTimeout)
	defer reqCancel()

	job, ok := slice.Find(ws.Jobs.Jobs(), func(j godev.Job) bool { return j.ID == jobID })
	if !ok {
		fetched, err := ws.Client().GetJob(reqCtx, jobID)
		if err != nil {
			return ctx.sendError(c, ws, err, "Erro ao carregar vaga")
		}
		job = *fetched
	}

	if job.AppliedByCurrentUser {
		return c.Send("✅ Você já se candidatou a esta vaga.")
	}

	options := ws.ResumeOptions(reqCtx)
	if sendState(c, ws.Resumes.State().Error) {
		return nil
	}
	if len(options) == 0 {
		return c.Send("📄 Você ainda não tem currículos cadastrados.\nEnvie um arquivo PDF nesta conversa para cadastrar um.")
	}

	pending := redis.PendingApply{
		JobID:       job.ID,
		JobTitle:    job.Title,
		CoverLetter: coverLetter,
	}
	if err := ctx.Cache.SetPendingApply(dbCtx, userID, pending); err != nil {
		ctx.Logger.Error("failed to save pending apply", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send("😔 Erro ao iniciar candidatura. Tente novamente.")
	}

	return c.Send(
		utils.FormatQuickApplyPrompt(job.Title, decision.Remaining, plan.IsPremium),
		utils.ResumeChoiceKeyboard(options),
		tele.ModeMarkdownV2,
	)
}

func (ctx *Context) sendQuotaExceeded(c tele.Context) error {
	text := fmt.Sprintf("⛔ %s\n\nAssine o Premium para candidaturas ilimitadas.", workspace.ErrQuotaExceeded.Text)
	return editOrSend(c, ctx.Logger, text, utils.PremiumKeyboard(ctx.Config.PremiumCheckoutURL))
}

// apply_resume:<resumeID> submits the pending quick apply.
func handleApplyResume(ctx *Context, c tele.Context, resumeID string) error {
	_ = c.Respond()

	ws := ctx.workspace(c)
	if !ctx.requireAuth(c, ws) {
		return nil
	}
	userID := c.Sender().ID

	dbCtx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	// claimed up front so a double tap submits once
	pending, err := ctx.Cache.TakePendingApply(dbCtx, userID)
	if err != nil {
		if errors.Is(err, redis.ErrKeyNotFound) {
			return editOrSend(c, ctx.Logger, "⌛ Esta candidatura expirou. Use /apply novamente.")
		}
		ctx.Logger.Error("failed to get pending apply", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send("😔 Erro ao enviar candidatura. Tente novamente.")
	}

	plan := ctx.plan(dbCtx, userID)

	reqCtx, reqCancel := context.WithTimeout(context.Background(), requestTimeout)
	defer reqCancel()

	result, err := ws.QuickApply(reqCtx, workspace.QuickApplyForm{
		JobID:       pending.JobID,
		ResumeID:    resumeID,
		CoverLetter: pending.CoverLetter,
	}, plan)
	if err != nil {
		if errors.Is(err, workspace.ErrQuotaExceeded) {
			return ctx.sendQuotaExceeded(c)
		}
		// put it back so the candidate can tap again
		restoreCtx, restoreCancel := context.WithTimeout(context.Background(), dbTimeout)
		defer restoreCancel()
		if err := ctx.Cache.SetPendingApply(restoreCtx, userID, *pending); err != nil {
			ctx.Logger.Warn("failed to restore pending apply", zap.Error(err))
		}
		return ctx.sendError(c, ws, err, workspace.MsgApplyFailed)
	}

	ctx.Logger.Info("quick apply sent",
		zap.Int64("user_id", userID),
		zap.String("job_id", pending.JobID),
		zap.String("resume_id", resumeID),
	)

	text := fmt.Sprintf("✅ %s\n\nVaga: %s", result.Message, pending.JobTitle)
	if extra := remainingText(plan, result.Remaining); extra != "" {
		text += "\n" + extra
	}

	return editOrSend(c, ctx.Logger, text)
}

func handleApplyCancel(ctx *Context, c tele.Context) error {
	_ = c.Respond()

	dbCtx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if err := ctx.Cache.DeletePendingApply(dbCtx, c.Sender().ID); err != nil {
		ctx.Logger.Warn("failed to delete pending apply", zap.Error(err))
	}

	return editOrSend(c, ctx.Logger, "❌ Candidatura cancelada.")
}

// remainingText is shown on the free plan only.
func remainingText(plan quota.Plan, remaining int) string {
	if plan.IsPremium {
		return ""
	}
	return fmt.Sprintf("Candidaturas rápidas restantes hoje: %d", remaining)
}
