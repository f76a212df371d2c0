package utils

import (
	"strconv"
	"strings"

	"godev-candidate-bot/internal/viewmodel"

	tele "gopkg.in/telebot.v3"
)

// Reply keyboard labels
const (
	BtnJobs         = "💼 Vagas"
	BtnApplications = "📨 Candidaturas"
	BtnResumes      = "📄 Currículos"
	BtnDashboard    = "📊 Painel"
	BtnFilters      = "🔧 Filtros"
	BtnHelp         = "❓ Ajuda"
)

// Callback actions, sent as "action:arg"
const (
	CbJobsPage    = "jobs_page"
	CbAppsPage    = "apps_page"
	CbJobDetails  = "job"
	CbApply       = "apply"
	CbApplyResume = "apply_resume"
	CbApplyCancel = "apply_cancel"
	CbResumeGet   = "resume_dl"
	CbResumeDel   = "resume_del"
	CbWatchToggle = "watch_toggle"
	CbNoop        = "noop"
)

func callbackData(action string, arg string) string {
	if arg == "" {
		return action
	}
	return action + ":" + arg
}

// ParseCallback splits callback data into action and argument. Telebot
// prefixes inline button data with \f.
func ParseCallback(data string) (action, arg string) {
	data = strings.TrimPrefix(data, "\f")
	action, arg, _ = strings.Cut(data, ":")
	return action, arg
}

func MainMenuKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}

	menu.Reply(
		menu.Row(menu.Text(BtnJobs), menu.Text(BtnApplications)),
		menu.Row(menu.Text(BtnResumes), menu.Text(BtnDashboard)),
		menu.Row(menu.Text(BtnFilters), menu.Text(BtnHelp)),
	)

	return menu
}

func RemoveKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}

// InlinePaginationKeyboard renders prev / current / next for 1-based pages.
func InlinePaginationKeyboard(page, totalPages int, action string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	// no pagination needed
	if totalPages <= 1 {
		return menu
	}

	menu.Inline(menu.Row(paginationButtons(menu, page, totalPages, action)...))
	return menu
}

func paginationButtons(menu *tele.ReplyMarkup, page, totalPages int, action string) []tele.Btn {
	var buttons []tele.Btn

	if page > 1 {
		buttons = append(buttons, menu.Data("⬅️ Anterior", callbackData(action, strconv.Itoa(page-1))))
	}

	buttons = append(buttons, menu.Data(strconv.Itoa(page)+"/"+strconv.Itoa(totalPages), CbNoop))

	if page < totalPages {
		buttons = append(buttons, menu.Data("Próxima ➡️", callbackData(action, strconv.Itoa(page+1))))
	}

	return buttons
}

// InlineJobsKeyboard has a details button per listed job plus pagination.
func InlineJobsKeyboard(jobIDs []string, page, totalPages int) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	var rows []tele.Row
	var row []tele.Btn
	for i, id := range jobIDs {
		row = append(row, menu.Data(strconv.Itoa(i+1), callbackData(CbJobDetails, id)))
		if len(row) == 5 {
			rows = append(rows, menu.Row(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, menu.Row(row...))
	}

	if totalPages > 1 {
		rows = append(rows, menu.Row(paginationButtons(menu, page, totalPages, CbJobsPage)...))
	}

	menu.Inline(rows...)
	return menu
}

func InlineJobKeyboard(jobID string, applied bool) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	if applied {
		menu.Inline(menu.Row(menu.Data("✅ Candidatura enviada", CbNoop)))
		return menu
	}

	menu.Inline(menu.Row(menu.Data("⚡ Candidatura rápida", callbackData(CbApply, jobID))))
	return menu
}

// ResumeChoiceKeyboard lists resumes for a pending quick apply.
func ResumeChoiceKeyboard(options []viewmodel.ResumeOption) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	rows := make([]tele.Row, 0, len(options)+1)
	for _, cv := range options {
		label := "📄 " + TruncateString(cv.DisplayName, 40)
		rows = append(rows, menu.Row(menu.Data(label, callbackData(CbApplyResume, cv.ID))))
	}
	rows = append(rows, menu.Row(menu.Data("❌ Cancelar", CbApplyCancel)))

	menu.Inline(rows...)
	return menu
}

func ResumesKeyboard(options []viewmodel.ResumeOption) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	rows := make([]tele.Row, 0, len(options))
	for i, cv := range options {
		n := strconv.Itoa(i + 1)
		rows = append(rows, menu.Row(
			menu.Data("⬇️ "+n, callbackData(CbResumeGet, cv.ID)),
			menu.Data("🗑 "+n, callbackData(CbResumeDel, cv.ID)),
		))
	}

	if len(rows) > 0 {
		menu.Inline(rows...)
	}
	return menu
}

func PremiumKeyboard(checkoutURL string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(menu.URL("⭐ Assinar Premium", checkoutURL)))
	return menu
}

func WatchKeyboard(enabled bool) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	label := "🔔 Ativar avisos"
	if enabled {
		label = "🔕 Desativar avisos"
	}

	menu.Inline(menu.Row(menu.Data(label, CbWatchToggle)))
	return menu
}
