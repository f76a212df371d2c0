package viewmodel

import (
	"fmt"
	"time"

	"godev-candidate-bot/internal/api/godev"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

var employmentLabels = map[godev.EmploymentType]string{
	godev.EmploymentCLT:        "CLT",
	godev.EmploymentPJ:         "PJ",
	godev.EmploymentFreelance:  "Freelancer",
	godev.EmploymentInternship: "Estágio",
}

var workModelLabels = map[godev.WorkModel]string{
	godev.WorkModelRemote: "100% Remoto",
	godev.WorkModelHybrid: "Híbrido",
	godev.WorkModelOnSite: "Presencial",
}

// FormatBRL renders v as Brazilian reais, e.g. "R$ 1.234,56".
func FormatBRL(v float64) string {
	return "R$ " + brl.Sprintf("%.2f", v)
}

// FormatSalary renders a salary range. Bounds are not reordered.
func FormatSalary(from, to *float64) string {
	switch {
	case from != nil && to != nil:
		return fmt.Sprintf("%s - %s", FormatBRL(*from), FormatBRL(*to))
	case from != nil:
		return "A partir de " + FormatBRL(*from)
	case to != nil:
		return "Até " + FormatBRL(*to)
	default:
		return "A combinar"
	}
}

func EmploymentLabel(t godev.EmploymentType) string {
	if label, ok := employmentLabels[t]; ok {
		return label
	}
	return string(t)
}

func WorkModelLabel(m godev.WorkModel) string {
	if label, ok := workModelLabels[m]; ok {
		return label
	}
	return string(m)
}

// FormatSize renders a byte count as "N KB" or "N.NN MB"; zero renders empty.
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return ""
	}
	kb := float64(bytes) / 1024
	if kb < 1024 {
		return fmt.Sprintf("%.0f KB", kb)
	}
	return fmt.Sprintf("%.2f MB", kb/1024)
}

// FormatDate renders t as dd/mm/yyyy; the zero time renders empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("02/01/2006")
}

// ParseTime parses backend timestamps into local time. Unparseable input
// yields the zero time.
func ParseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Local()
		}
	}
	return time.Time{}
}
