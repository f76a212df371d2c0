package handlers

import (
	"strings"

	"godev-candidate-bot/internal/bot/utils"

	tele "gopkg.in/telebot.v3"
)

// HandleText processes all text messages
func HandleText(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		switch strings.TrimSpace(c.Text()) {
		case utils.BtnJobs:
			return HandleJobs(ctx)(c)
		case utils.BtnApplications:
			return HandleApplications(ctx)(c)
		case utils.BtnResumes:
			return HandleResumes(ctx)(c)
		case utils.BtnDashboard:
			return HandleDashboard(ctx)(c)
		case utils.BtnFilters:
			return HandleFilters(ctx)(c)
		case utils.BtnHelp:
			return HandleHelp(ctx)(c)
		default:
			return c.Send("🤔 Não entendi. Use os botões do menu ou /help")
		}
	}
}
