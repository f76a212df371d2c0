package viewmodel

import (
	"testing"
	"time"

	"godev-candidate-bot/internal/api/godev"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestStatusMapping(t *testing.T) {
	testCases := []struct {
		raw      godev.ApplicationStatus
		label    string
		priority Priority
		known    bool
	}{
		{raw: godev.StatusPending, label: "Candidatado", priority: PriorityMedium, known: true},
		{raw: godev.StatusUnderReview, label: "Em análise", priority: PriorityMedium, known: true},
		{raw: godev.StatusInterview, label: "Entrevista", priority: PriorityHigh, known: true},
		{raw: godev.StatusApproved, label: "Oferta", priority: PriorityHigh, known: true},
		{raw: godev.StatusRejected, label: "Reprovado", priority: PriorityLow, known: true},
		{raw: godev.StatusWithdrawn, label: "Cancelado", priority: PriorityLow, known: true},
		{raw: "ON_HOLD", label: "ON_HOLD", priority: PriorityMedium, known: false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.raw), func(t *testing.T) {
			s := StatusOf(tc.raw)
			assert.Equal(t, tc.label, s.Label())
			assert.Equal(t, tc.label, StatusLabel(tc.raw))
			assert.Equal(t, tc.priority, PriorityOf(tc.raw))
			assert.Equal(t, tc.known, s.Known())
			if !tc.known {
				assert.Equal(t, NeutralColor, s.Color())
			} else {
				assert.NotEqual(t, NeutralColor, s.Color())
			}
		})
	}
}

func TestFormatSalary(t *testing.T) {
	testCases := []struct {
		name     string
		from, to *float64
		want     string
	}{
		{name: "range", from: ptr(5000.0), to: ptr(8000.0), want: "R$ 5.000,00 - R$ 8.000,00"},
		{name: "only min", from: ptr(1234.56), want: "A partir de R$ 1.234,56"},
		{name: "only max", to: ptr(900.5), want: "Até R$ 900,50"},
		{name: "none", want: "A combinar"},
		{name: "inverted bounds kept", from: ptr(9000.0), to: ptr(3000.0), want: "R$ 9.000,00 - R$ 3.000,00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatSalary(tc.from, tc.to))
		})
	}
}

func TestLabelsPassThroughUnknown(t *testing.T) {
	assert.Equal(t, "Estágio", EmploymentLabel(godev.EmploymentInternship))
	assert.Equal(t, "Freelancer", EmploymentLabel(godev.EmploymentFreelance))
	assert.Equal(t, "TEMPORARY", EmploymentLabel("TEMPORARY"))
	assert.Equal(t, "100% Remoto", WorkModelLabel(godev.WorkModelRemote))
	assert.Equal(t, "Presencial", WorkModelLabel(godev.WorkModelOnSite))
	assert.Equal(t, "NOMAD", WorkModelLabel("NOMAD"))
}

func TestApplicationToTask(t *testing.T) {
	app := godev.Application{
		ID:        "A1",
		JobID:     "J1",
		Status:    godev.StatusInterview,
		AppliedAt: "2025-03-10T12:00:00.000Z",
		UpdatedAt: "garbage",
		Job: godev.Job{
			Title:          "Go Developer",
			Location:       ptr("São Paulo"),
			WorkModel:      godev.WorkModelHybrid,
			EmploymentType: godev.EmploymentPJ,
			SalaryMin:      ptr(10000.0),
			Company:        godev.Company{Name: "Acme", LogoURL: ptr("https://cdn/acme.png")},
		},
	}

	task := ApplicationToTask(app)

	assert.Equal(t, "A1", task.ID)
	assert.Equal(t, "J1", task.JobID)
	assert.Equal(t, "Go Developer", task.Title)
	assert.Equal(t, StatusInterview, task.Status)
	assert.Equal(t, PriorityHigh, task.Priority)
	assert.Equal(t, "application", task.Label)
	assert.Equal(t, "Go Dev", task.Source)
	assert.Equal(t, "Acme", task.Company)
	assert.Equal(t, "https://cdn/acme.png", *task.CompanyLogoURL)
	assert.Equal(t, "São Paulo", task.Location)
	assert.Equal(t, "Híbrido", task.Model)
	assert.Equal(t, "PJ", task.Type)
	assert.Equal(t, "A partir de R$ 10.000,00", task.SalaryRange)
	assert.True(t, task.AppliedAt.Equal(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)))
	assert.True(t, task.LastUpdate.IsZero())
}

func TestSortTasksByAppliedAt(t *testing.T) {
	tasks := ApplicationsToTasks([]godev.Application{
		{ID: "old", AppliedAt: "2025-01-01T10:00:00Z"},
		{ID: "new", AppliedAt: "2025-03-01T10:00:00Z"},
		{ID: "mid", AppliedAt: "2025-02-01T10:00:00Z"},
	})
	require.Len(t, tasks, 3)

	SortTasksByAppliedAt(tasks, true)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{tasks[0].ID, tasks[1].ID, tasks[2].ID})

	SortTasksByAppliedAt(tasks, false)
	assert.Equal(t, []string{"old", "mid", "new"}, []string{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}

func TestResumeToOption(t *testing.T) {
	opts := ResumesToOptions([]godev.Resume{
		{ID: "R1", OriginalName: "cv.pdf", Filename: "abc.pdf", Size: 200 * 1024, UploadedAt: "2025-03-10T12:00:00Z"},
		{ID: "R2", Filename: "def.pdf", Size: 3 * 1024 * 1024},
	})
	require.Len(t, opts, 2)

	assert.Equal(t, "cv.pdf", opts[0].DisplayName)
	assert.Equal(t, "200 KB", opts[0].FileSize)
	assert.Equal(t, FormatDate(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)), opts[0].UploadedAt)

	assert.Equal(t, "def.pdf", opts[1].DisplayName)
	assert.Equal(t, "3.00 MB", opts[1].FileSize)
	assert.Empty(t, opts[1].UploadedAt)
}

func TestFormatSizeAndDate(t *testing.T) {
	assert.Empty(t, FormatSize(0))
	assert.Equal(t, "1 KB", FormatSize(1024))
	assert.Equal(t, "1.50 MB", FormatSize(1536*1024))
	assert.Empty(t, FormatDate(time.Time{}))

	d := time.Date(2025, 12, 5, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "05/12/2025", FormatDate(d))
	assert.True(t, ParseTime("2025-12-05").Equal(time.Date(2025, 12, 5, 0, 0, 0, 0, time.UTC)))
}
