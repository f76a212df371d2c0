package models

import (
	"strings"

	"godev-candidate-bot/internal/api/godev"
)

var EmploymentTypeMapping = map[string]godev.EmploymentType{
	"clt":        godev.EmploymentCLT,
	"pj":         godev.EmploymentPJ,
	"freelancer": godev.EmploymentFreelance,
	"freelance":  godev.EmploymentFreelance,
	"estágio":    godev.EmploymentInternship,
	"estagio":    godev.EmploymentInternship,
}

var WorkModelMapping = map[string]godev.WorkModel{
	"remoto":     godev.WorkModelRemote,
	"remote":     godev.WorkModelRemote,
	"híbrido":    godev.WorkModelHybrid,
	"hibrido":    godev.WorkModelHybrid,
	"presencial": godev.WorkModelOnSite,
}

var StatusMapping = map[string]godev.ApplicationStatus{
	"candidatado": godev.StatusPending,
	"análise":     godev.StatusUnderReview,
	"analise":     godev.StatusUnderReview,
	"entrevista":  godev.StatusInterview,
	"oferta":      godev.StatusApproved,
	"reprovado":   godev.StatusRejected,
	"cancelado":   godev.StatusWithdrawn,
}

func EmploymentTypeOptions() []string {
	return []string{"CLT", "PJ", "Freelancer", "Estágio"}
}

func WorkModelOptions() []string {
	return []string{"Remoto", "Híbrido", "Presencial"}
}

func StatusOptions() []string {
	return []string{"Candidatado", "Análise", "Entrevista", "Oferta", "Reprovado", "Cancelado"}
}

// ParseEmploymentType accepts a display name or the raw enum value.
func ParseEmploymentType(text string) (godev.EmploymentType, bool) {
	key := strings.ToLower(strings.TrimSpace(text))
	if t, ok := EmploymentTypeMapping[key]; ok {
		return t, true
	}
	t := godev.EmploymentType(strings.ToUpper(key))
	return t, t.Valid()
}

func ParseWorkModel(text string) (godev.WorkModel, bool) {
	key := strings.ToLower(strings.TrimSpace(text))
	if m, ok := WorkModelMapping[key]; ok {
		return m, true
	}
	m := godev.WorkModel(strings.ToUpper(key))
	return m, m.Valid()
}

func ParseStatus(text string) (godev.ApplicationStatus, bool) {
	key := strings.ToLower(strings.TrimSpace(text))
	if s, ok := StatusMapping[key]; ok {
		return s, true
	}
	s := godev.ApplicationStatus(strings.ToUpper(key))
	return s, s.Valid()
}
