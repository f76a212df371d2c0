package handlers

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"godev-candidate-bot/internal/bot/utils"
	"godev-candidate-bot/internal/store"
	"godev-candidate-bot/internal/viewmodel"
	"godev-candidate-bot/internal/workspace"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// /resumes
func HandleResumes(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		ws := ctx.workspace(c)
		if !ctx.requireAuth(c, ws) {
			return nil
		}

		reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		ws.Resumes.Fetch(reqCtx)
		return ctx.renderResumes(c, ws)
	}
}

func (ctx *Context) renderResumes(c tele.Context, ws *workspace.Workspace) error {
	if sendState(c, ws.Resumes.State().Error) {
		return nil
	}

	options := ws.Resumes.Options()
	return editOrSend(c, ctx.Logger,
		utils.FormatResumes(options),
		utils.ResumesKeyboard(options),
		tele.ModeMarkdownV2,
	)
}

// /resume N sends the download link of the N-th resume.
func HandleResumeDownload(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		ws := ctx.workspace(c)
		if !ctx.requireAuth(c, ws) {
			return nil
		}

		option, ok := ctx.pickResume(ws, c.Message().Payload)
		if !ok {
			return c.Send("Uso: /resume N (número do currículo em /resumes)")
		}

		return ctx.sendResumeLink(c, ws, option.ID)
	}
}

// /delresume N
func HandleResumeDelete(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		ws := ctx.workspace(c)
		if !ctx.requireAuth(c, ws) {
			return nil
		}

		option, ok := ctx.pickResume(ws, c.Message().Payload)
		if !ok {
			return c.Send("Uso: /delresume N (número do currículo em /resumes)")
		}

		return ctx.deleteResume(c, ws, option.ID)
	}
}

// pickResume resolves a 1-based number against the listed resumes.
func (ctx *Context) pickResume(ws *workspace.Workspace, arg string) (viewmodel.ResumeOption, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return viewmodel.ResumeOption{}, false
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	options := ws.ResumeOptions(reqCtx)
	if n < 1 || n > len(options) {
		return viewmodel.ResumeOption{}, false
	}
	return options[n-1], true
}

func (ctx *Context) sendResumeLink(c tele.Context, ws *workspace.Workspace, resumeID string) error {
	reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	link, err := ws.ResumeDownloadURL(reqCtx, resumeID)
	if err != nil {
		return ctx.sendError(c, ws, err, "Erro ao baixar currículo.")
	}

	return c.Send("⬇️ Baixe seu currículo: "+link, tele.NoPreview)
}

func (ctx *Context) deleteResume(c tele.Context, ws *workspace.Workspace, resumeID string) error {
	reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := ws.Resumes.Delete(reqCtx, resumeID); err != nil {
		return ctx.sendError(c, ws, err, "Erro ao excluir currículo.")
	}

	ctx.Logger.Info("resume deleted",
		zap.Int64("user_id", c.Sender().ID),
		zap.String("resume_id", resumeID),
	)

	if c.Callback() != nil {
		return ctx.renderResumes(c, ws)
	}
	return c.Send("🗑 Currículo excluído.")
}

func handleResumeDownloadCallback(ctx *Context, c tele.Context, resumeID string) error {
	ws := ctx.workspace(c)
	if !ctx.requireAuth(c, ws) {
		return nil
	}

	_ = c.Respond()
	return ctx.sendResumeLink(c, ws, resumeID)
}

func handleResumeDeleteCallback(ctx *Context, c tele.Context, resumeID string) error {
	ws := ctx.workspace(c)
	if !ctx.requireAuth(c, ws) {
		return nil
	}

	_ = c.Respond(&tele.CallbackResponse{Text: "🗑 Excluindo..."})
	return ctx.deleteResume(c, ws, resumeID)
}

// HandleDocument uploads a PDF sent to the chat as a new resume.
func HandleDocument(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		doc := c.Message().Document
		if doc == nil {
			return nil
		}

		ws := ctx.workspace(c)
		if !ctx.requireAuth(c, ws) {
			return nil
		}

		content := &telegramFile{fetcher: c.Bot(), file: doc.File}
		defer content.Close()

		reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		resume, err := ws.Resumes.Upload(reqCtx, &store.File{
			Name:     doc.FileName,
			MimeType: doc.MIME,
			Size:     int64(doc.FileSize),
			Content:  content,
		})
		if err != nil {
			ctx.Logger.Info("resume upload rejected",
				zap.Int64("user_id", c.Sender().ID),
				zap.String("mime", doc.MIME),
				zap.Error(err),
			)
			return ctx.sendError(c, ws, err, "Erro ao enviar currículo.")
		}

		option := viewmodel.ResumeToOption(*resume)
		return c.Send(fmt.Sprintf("✅ Currículo cadastrado: %s (%s)\n\nVeja todos em /resumes", option.DisplayName, option.FileSize))
	}
}

type fileFetcher interface {
	File(file *tele.File) (io.ReadCloser, error)
}

// telegramFile downloads the document on first Read, so rejected uploads
// never hit Telegram.
type telegramFile struct {
	fetcher fileFetcher
	file    tele.File
	body    io.ReadCloser
}

func (f *telegramFile) Read(p []byte) (int, error) {
	if f.body == nil {
		body, err := f.fetcher.File(&f.file)
		if err != nil {
			return 0, fmt.Errorf("download telegram file: %w", err)
		}
		f.body = body
	}
	return f.body.Read(p)
}

func (f *telegramFile) Close() error {
	if f.body == nil {
		return nil
	}
	return f.body.Close()
}
