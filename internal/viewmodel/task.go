package viewmodel

import (
	"slices"
	"time"

	"godev-candidate-bot/internal/api/godev"

	"github.com/ecodeclub/ekit/slice"
)

const (
	TaskLabel  = "application"
	TaskSource = "Go Dev"
)

// Task is one row of the candidate's applications list.
type Task struct {
	ID             string
	JobID          string
	Title          string
	Status         Status
	Label          string
	Priority       Priority
	Company        string
	CompanyLogoURL *string
	Location       string
	Model          string
	Type           string
	AppliedAt      time.Time
	LastUpdate     time.Time
	SalaryRange    string
	Source         string
}

func ApplicationToTask(app godev.Application) Task {
	job := app.Job

	location := ""
	if job.Location != nil {
		location = *job.Location
	}

	return Task{
		ID:             app.ID,
		JobID:          app.JobID,
		Title:          job.Title,
		Status:         StatusOf(app.Status),
		Label:          TaskLabel,
		Priority:       PriorityOf(app.Status),
		Company:        job.Company.Name,
		CompanyLogoURL: job.Company.LogoURL,
		Location:       location,
		Model:          WorkModelLabel(job.WorkModel),
		Type:           EmploymentLabel(job.EmploymentType),
		AppliedAt:      ParseTime(app.AppliedAt),
		LastUpdate:     ParseTime(app.UpdatedAt),
		SalaryRange:    FormatSalary(job.SalaryMin, job.SalaryMax),
		Source:         TaskSource,
	}
}

func ApplicationsToTasks(apps []godev.Application) []Task {
	return slice.Map(apps, func(_ int, app godev.Application) Task {
		return ApplicationToTask(app)
	})
}

// SortTasksByAppliedAt sorts in place; ties keep their order.
func SortTasksByAppliedAt(tasks []Task, desc bool) {
	slices.SortStableFunc(tasks, func(a, b Task) int {
		if desc {
			return b.AppliedAt.Compare(a.AppliedAt)
		}
		return a.AppliedAt.Compare(b.AppliedAt)
	})
}
