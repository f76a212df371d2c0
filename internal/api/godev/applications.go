package godev

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

type CreateApplicationPayload struct {
	JobID       string `json:"jobId" validate:"required"`
	ResumeID    string `json:"resumeId" validate:"required"`
	CoverLetter string `json:"coverLetter,omitempty"`
}

// ApplicationsQuery mirrors GET /applications. Zero values are not sent.
type ApplicationsQuery struct {
	Page      int
	Limit     int
	Status    ApplicationStatus
	JobID     string
	SortBy    ApplicationsSortBy
	SortOrder SortOrder
}

func (q ApplicationsQuery) values() url.Values {
	params := url.Values{}

	params.Set("page", strconv.Itoa(max(q.Page, 1)))
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	if q.Status != "" {
		params.Set("status", string(q.Status))
	}

	if q.JobID != "" {
		params.Set("jobId", q.JobID)
	}

	if q.SortBy != "" {
		params.Set("sortBy", string(q.SortBy))
	}

	if q.SortOrder != "" {
		params.Set("sortOrder", string(q.SortOrder))
	}

	return params
}

func (c *Client) CreateApplication(ctx context.Context, payload CreateApplicationPayload) (*Application, error) {
	var app Application
	if err := c.sendJSON(ctx, http.MethodPost, "/applications", "/applications", payload, &app); err != nil {
		c.logger.Error("failed to create application",
			zap.String("job_id", payload.JobID),
			zap.String("resume_id", payload.ResumeID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create application: %w", err)
	}

	c.logger.Info("application created",
		zap.String("application_id", app.ID),
		zap.String("job_id", payload.JobID),
	)

	return &app, nil
}

func (c *Client) ListApplications(ctx context.Context, q ApplicationsQuery) (*Page[Application], error) {
	var page Page[Application]
	if err := c.get(ctx, "/applications", "/applications", q.values(), &page); err != nil {
		c.logger.Error("failed to list applications",
			zap.String("status", string(q.Status)),
			zap.Int("page", q.Page),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list applications: %w", err)
	}

	c.logger.Debug("applications found",
		zap.Int("total", page.Meta.Total),
		zap.Int("returned", len(page.Items)),
	)

	return &page, nil
}
