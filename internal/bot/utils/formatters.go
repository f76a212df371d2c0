package utils

import (
	"fmt"
	"strings"

	"godev-candidate-bot/internal/api/godev"
	"godev-candidate-bot/internal/models"
	"godev-candidate-bot/internal/store"
	"godev-candidate-bot/internal/viewmodel"
)

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// EscapeMarkdown escapes special characters for Telegram MarkdownV2
func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

func Bold(text string) string {
	return "*" + EscapeMarkdown(text) + "*"
}

// TruncateString cuts s to maxLen runes.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// Format job card for Telegram
func FormatJob(job *godev.Job) string {
	var sb strings.Builder

	sb.WriteString(Bold(job.Title) + "\n\n")

	if job.Company.Name != "" {
		sb.WriteString(fmt.Sprintf("🏢 *Empresa:* %s\n", EscapeMarkdown(job.Company.Name)))
	}

	sb.WriteString(fmt.Sprintf("💰 *Salário:* %s\n", EscapeMarkdown(viewmodel.FormatSalary(job.SalaryMin, job.SalaryMax))))

	if job.Location != nil && *job.Location != "" {
		sb.WriteString(fmt.Sprintf("📍 *Local:* %s\n", EscapeMarkdown(*job.Location)))
	}

	sb.WriteString(fmt.Sprintf("🏠 *Modelo:* %s\n", EscapeMarkdown(viewmodel.WorkModelLabel(job.WorkModel))))
	sb.WriteString(fmt.Sprintf("📋 *Contrato:* %s\n", EscapeMarkdown(viewmodel.EmploymentLabel(job.EmploymentType))))

	if len(job.TechStack) > 0 {
		sb.WriteString(fmt.Sprintf("🛠 *Stack:* %s\n", EscapeMarkdown(strings.Join(job.TechStack, ", "))))
	}

	if published := viewmodel.FormatDate(viewmodel.ParseTime(job.PublishedAt)); published != "" {
		sb.WriteString(fmt.Sprintf("📅 *Publicada em:* %s\n", EscapeMarkdown(published)))
	}

	if job.Description != "" {
		sb.WriteString("\n" + EscapeMarkdown(TruncateString(job.Description, 600)) + "\n")
	}

	writeList(&sb, "Requisitos", job.RequirementsMust)
	writeList(&sb, "Diferenciais", job.RequirementsNice)
	writeList(&sb, "Benefícios", job.Benefits)

	if job.AppliedByCurrentUser {
		sb.WriteString("\n✅ Você já se candidatou a esta vaga\\.\n")
	}

	return sb.String()
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n" + Bold(title) + "\n")
	for _, item := range items {
		sb.WriteString("• " + EscapeMarkdown(item) + "\n")
	}
}

// FormatJobList renders one page of jobs, numbered so /job N and /apply N work.
func FormatJobList(jobs []godev.Job, p store.Pagination) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("💼 *Vagas encontradas:* %d\n", p.Total))
	sb.WriteString(EscapeMarkdown(fmt.Sprintf("Página %d de %d", p.Page, max(p.TotalPages, 1))) + "\n\n")

	for i, job := range jobs {
		applied := ""
		if job.AppliedByCurrentUser {
			applied = " ✅"
		}
		sb.WriteString(fmt.Sprintf("*%d\\. %s*%s\n", i+1, EscapeMarkdown(job.Title), applied))

		if job.Company.Name != "" {
			sb.WriteString(fmt.Sprintf("   🏢 %s\n", EscapeMarkdown(job.Company.Name)))
		}
		sb.WriteString(fmt.Sprintf("   💰 %s\n", EscapeMarkdown(viewmodel.FormatSalary(job.SalaryMin, job.SalaryMax))))
		sb.WriteString(fmt.Sprintf("   🏠 %s • %s\n",
			EscapeMarkdown(viewmodel.WorkModelLabel(job.WorkModel)),
			EscapeMarkdown(viewmodel.EmploymentLabel(job.EmploymentType)),
		))
		sb.WriteString("\n")
	}

	sb.WriteString("Detalhes: /job N • Candidatura rápida: /apply N")

	return sb.String()
}

func FormatNoJobsMessage() string {
	return "😔 *Nenhuma vaga encontrada*\n\nTente ajustar os filtros com /filter"
}

func FormatTasks(tasks []viewmodel.Task, p store.Pagination) string {
	if len(tasks) == 0 {
		return "📭 Você ainda não tem candidaturas\\. Use /jobs para encontrar vagas\\."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📨 *Suas candidaturas:* %d\n", p.Total))
	sb.WriteString(EscapeMarkdown(fmt.Sprintf("Página %d de %d", p.Page, max(p.TotalPages, 1))) + "\n\n")

	for _, task := range tasks {
		sb.WriteString(fmt.Sprintf("%s %s\n", StatusEmoji(task.Status), Bold(task.Title)))
		if task.Company != "" {
			sb.WriteString(fmt.Sprintf("   🏢 %s\n", EscapeMarkdown(task.Company)))
		}
		sb.WriteString(fmt.Sprintf("   📌 %s", EscapeMarkdown(task.Status.Label())))
		if applied := viewmodel.FormatDate(task.AppliedAt); applied != "" {
			sb.WriteString(fmt.Sprintf(" • %s", EscapeMarkdown(applied)))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("   💰 %s\n\n", EscapeMarkdown(task.SalaryRange)))
	}

	return sb.String()
}

var statusEmoji = map[viewmodel.Status]string{
	viewmodel.StatusApplied:     "🟢",
	viewmodel.StatusUnderReview: "🟡",
	viewmodel.StatusInterview:   "🔵",
	viewmodel.StatusOffer:       "🎉",
	viewmodel.StatusRejected:    "🔴",
	viewmodel.StatusWithdrawn:   "⚪",
}

func StatusEmoji(s viewmodel.Status) string {
	if e, ok := statusEmoji[s]; ok {
		return e
	}
	return "⚫"
}

var monthNames = []string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

func FormatDashboard(o *godev.ApplicationsOverview) string {
	var sb strings.Builder

	sb.WriteString("📊 *Painel de candidaturas*\n\n")
	sb.WriteString(fmt.Sprintf("Ativas: *%d*\n", o.KPIs.TotalActive))
	sb.WriteString(fmt.Sprintf("Em análise: *%d*\n", o.KPIs.UnderReview))
	sb.WriteString(fmt.Sprintf("Entrevistas: *%d*\n", o.KPIs.Interviews))
	sb.WriteString(fmt.Sprintf("Mensagens novas: *%d*\n", o.KPIs.NewMessages))

	if len(o.MonthlyApplications) > 0 {
		sb.WriteString("\n*Por mês*\n")
		for _, m := range o.MonthlyApplications {
			name := fmt.Sprintf("%d", m.Month)
			if m.Month >= 1 && m.Month <= 12 {
				name = monthNames[m.Month-1]
			}
			sb.WriteString(fmt.Sprintf("%s: %d\n", EscapeMarkdown(name), m.Total))
		}
	}

	if len(o.LastApplications) > 0 {
		sb.WriteString("\n*Últimas candidaturas*\n")
		for _, last := range o.LastApplications {
			company := ""
			if last.CompanyName != nil {
				company = " • " + *last.CompanyName
			}
			sb.WriteString(fmt.Sprintf("%s %s%s\n",
				StatusEmoji(viewmodel.StatusOf(last.Status)),
				EscapeMarkdown(last.JobTitle),
				EscapeMarkdown(company),
			))
		}
	}

	return sb.String()
}

func FormatResumes(options []viewmodel.ResumeOption) string {
	if len(options) == 0 {
		return "📄 Você ainda não cadastrou nenhum currículo\\.\n\nEnvie um arquivo PDF de até 15 MB nesta conversa\\."
	}

	var sb strings.Builder
	sb.WriteString("📄 *Seus currículos*\n\n")
	for i, cv := range options {
		sb.WriteString(fmt.Sprintf("*%d\\. %s*\n", i+1, EscapeMarkdown(cv.DisplayName)))
		sb.WriteString(fmt.Sprintf("   %s\n", EscapeMarkdown(strings.Join(nonEmpty(cv.FileName, cv.FileSize, cv.UploadedAt), " • "))))
	}
	sb.WriteString("\nPara enviar outro, mande um PDF nesta conversa\\.")
	return sb.String()
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func FormatQuickApplyPrompt(jobTitle string, remaining int, premium bool) string {
	var sb strings.Builder
	sb.WriteString("⚡ *Candidatura rápida*\n\n")
	sb.WriteString(fmt.Sprintf("Vaga: %s\n\n", Bold(jobTitle)))
	sb.WriteString("Escolha o currículo que deseja enviar\\.")
	if !premium {
		sb.WriteString(fmt.Sprintf("\n\n_Candidaturas rápidas restantes hoje: %d_", remaining))
	}
	return sb.String()
}

var filterNames = map[string]string{
	models.FilterTypeSearch:         "Busca",
	models.FilterTypeEmploymentType: "Contrato",
	models.FilterTypeWorkModel:      "Modelo",
	models.FilterTypeLocation:       "Local",
	models.FilterTypeMinSalary:      "Salário mínimo",
	models.FilterTypeMaxSalary:      "Salário máximo",
	models.FilterTypeCompany:        "Empresa",
}

var filterOrder = []string{
	models.FilterTypeSearch,
	models.FilterTypeEmploymentType,
	models.FilterTypeWorkModel,
	models.FilterTypeLocation,
	models.FilterTypeMinSalary,
	models.FilterTypeMaxSalary,
	models.FilterTypeCompany,
}

func FormatFilters(filters map[string]string) string {
	var sb strings.Builder
	sb.WriteString("*🔧 Seus filtros*\n\n")

	shown := 0
	for _, key := range filterOrder {
		value, ok := filters[key]
		if !ok || value == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("• *%s:* %s\n", EscapeMarkdown(filterNames[key]), EscapeMarkdown(formatFilterValue(key, value))))
		shown++
	}

	if shown == 0 {
		sb.WriteString("_Nenhum filtro definido_\n")
	}

	sb.WriteString("\n" + EscapeMarkdown(filterUsage))
	return sb.String()
}

const filterUsage = `Uso: /filter <tipo> <valor>
Tipos: busca, contrato (CLT, PJ, Freelancer, Estágio), modelo (Remoto, Híbrido, Presencial), local, salario_min, salario_max
/filter limpar remove todos os filtros`

func formatFilterValue(key, value string) string {
	switch key {
	case models.FilterTypeEmploymentType:
		return viewmodel.EmploymentLabel(godev.EmploymentType(value))
	case models.FilterTypeWorkModel:
		return viewmodel.WorkModelLabel(godev.WorkModel(value))
	case models.FilterTypeMinSalary, models.FilterTypeMaxSalary:
		var v float64
		if _, err := fmt.Sscanf(value, "%g", &v); err == nil {
			return viewmodel.FormatBRL(v)
		}
		return value
	default:
		return value
	}
}

func FormatStatusChange(change models.StatusChange) string {
	from := viewmodel.StatusLabel(godev.ApplicationStatus(change.From))
	to := viewmodel.StatusOf(godev.ApplicationStatus(change.To))

	return fmt.Sprintf("🔔 *Atualização de candidatura*\n\n%s\n%s → %s %s",
		Bold(change.JobTitle),
		EscapeMarkdown(from),
		StatusEmoji(to),
		Bold(to.Label()),
	)
}

func FormatProfile(user *godev.AuthUser, premium bool, remaining int) string {
	var sb strings.Builder
	sb.WriteString("👤 *Seu perfil*\n\n")
	sb.WriteString(fmt.Sprintf("Nome: %s\n", EscapeMarkdown(user.Name)))
	sb.WriteString(fmt.Sprintf("Email: %s\n", EscapeMarkdown(user.Email)))

	if premium {
		sb.WriteString("Plano: *Premium* ⭐\n")
	} else {
		sb.WriteString("Plano: *Gratuito*\n")
		sb.WriteString(fmt.Sprintf("Candidaturas rápidas restantes hoje: %d\n", remaining))
	}

	sb.WriteString("\n" + EscapeMarkdown("Para mudar o nome: /profile nome <novo nome>\nPara mudar a senha: /profile senha <nova senha>"))
	return sb.String()
}

func FormatPremiumMessage(premium bool, limit int) string {
	if premium {
		return "⭐ *Você é Premium\\!*\n\nCandidaturas rápidas ilimitadas \\(sem limite diário\\)\\."
	}

	return fmt.Sprintf("⭐ *Go Dev Premium*\n\n"+
		"• Candidaturas ilimitadas \\(sem limite diário\\)\n"+
		"• Notificações de mudança de status\n\n"+
		"No plano gratuito você tem %d candidatura\\(s\\) rápida\\(s\\) por dia\\.", limit)
}

func FormatWelcomeMessage(firstName string) string {
	name := firstName
	if name == "" {
		name = "dev"
	}

	return fmt.Sprintf(`👋 Olá, *%s*\!

Eu sou o bot de candidatos da *Go Dev*\.

*O que eu faço:*
• Busco vagas com os seus filtros
• Envio candidaturas rápidas com o seu currículo
• Aviso quando o status de uma candidatura mudar

Comece entrando na sua conta com /login ou crie uma com /register\.
Veja todos os comandos em /help`, EscapeMarkdown(name))
}

func FormatHelpMessage() string {
	return `*📖 Ajuda*

*Conta*
/login email senha \- entrar
/register nome \| email \| senha \- criar conta
/logout \- sair
/profile \- ver ou alterar perfil

*Vagas*
/jobs \- listar vagas
/search texto \- buscar vagas
/filter \- ver e alterar filtros
/job N \- detalhes da vaga N da lista
/apply N \[mensagem\] \- candidatura rápida

*Candidaturas*
/applications \[status\] \- suas candidaturas
/dashboard \- painel
/watch \- avisos de mudança de status

*Currículos*
/resumes \- listar currículos
/resume N \- baixar currículo
/delresume N \- excluir currículo
Envie um PDF nesta conversa para cadastrar um novo currículo\.

/premium \- plano Premium`
}
