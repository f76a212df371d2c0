package viewmodel

import "godev-candidate-bot/internal/api/godev"

// Status is the row status shown to the candidate. Values outside the known
// set are carried as the raw backend text.
type Status string

const (
	StatusApplied     Status = "candidatado"
	StatusUnderReview Status = "em_analise"
	StatusInterview   Status = "entrevista"
	StatusOffer       Status = "oferta"
	StatusRejected    Status = "reprovado"
	StatusWithdrawn   Status = "cancelado"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const NeutralColor = "muted"

var statusByAPI = map[godev.ApplicationStatus]Status{
	godev.StatusPending:     StatusApplied,
	godev.StatusUnderReview: StatusUnderReview,
	godev.StatusInterview:   StatusInterview,
	godev.StatusApproved:    StatusOffer,
	godev.StatusRejected:    StatusRejected,
	godev.StatusWithdrawn:   StatusWithdrawn,
}

var statusLabels = map[Status]string{
	StatusApplied:     "Candidatado",
	StatusUnderReview: "Em análise",
	StatusInterview:   "Entrevista",
	StatusOffer:       "Oferta",
	StatusRejected:    "Reprovado",
	StatusWithdrawn:   "Cancelado",
}

var statusColors = map[Status]string{
	StatusApplied:     "emerald-500",
	StatusUnderReview: "amber-500",
	StatusInterview:   "sky-500",
	StatusOffer:       "emerald-600",
	StatusRejected:    "red-500",
	StatusWithdrawn:   "slate-400",
}

func StatusOf(raw godev.ApplicationStatus) Status {
	if s, ok := statusByAPI[raw]; ok {
		return s
	}
	return Status(raw)
}

func (s Status) Known() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s Status) Color() string {
	if color, ok := statusColors[s]; ok {
		return color
	}
	return NeutralColor
}

// StatusLabel maps a backend status straight to its display text.
func StatusLabel(raw godev.ApplicationStatus) string {
	return StatusOf(raw).Label()
}

func PriorityOf(raw godev.ApplicationStatus) Priority {
	switch raw {
	case godev.StatusApproved, godev.StatusInterview:
		return PriorityHigh
	case godev.StatusRejected, godev.StatusWithdrawn:
		return PriorityLow
	default:
		return PriorityMedium
	}
}
