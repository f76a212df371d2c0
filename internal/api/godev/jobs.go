package godev

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ecodeclub/ekit/slice"
	"go.uber.org/zap"
)

// JobsQuery mirrors GET /jobs. Zero values are not sent.
type JobsQuery struct {
	Page           int
	Limit          int
	CompanyID      string
	Search         string
	EmploymentType EmploymentType
	WorkModel      WorkModel
	Location       string
	MinSalary      float64
	MaxSalary      float64
	SortBy         JobsSortBy
	SortOrder      SortOrder
}

func (q JobsQuery) values() url.Values {
	params := url.Values{}

	params.Set("page", strconv.Itoa(max(q.Page, 1)))
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	if q.CompanyID != "" {
		params.Set("companyId", q.CompanyID)
	}

	if q.Search != "" {
		params.Set("search", q.Search)
	}

	if q.EmploymentType != "" {
		params.Set("employmentType", string(q.EmploymentType))
	}

	if q.WorkModel != "" {
		params.Set("workModel", string(q.WorkModel))
	}

	if q.Location != "" {
		params.Set("location", q.Location)
	}

	if q.MinSalary > 0 {
		params.Set("minSalary", strconv.FormatFloat(q.MinSalary, 'f', -1, 64))
	}

	if q.MaxSalary > 0 {
		params.Set("maxSalary", strconv.FormatFloat(q.MaxSalary, 'f', -1, 64))
	}

	if q.SortBy != "" {
		params.Set("sortBy", string(q.SortBy))
	}

	if q.SortOrder != "" {
		params.Set("sortOrder", string(q.SortOrder))
	}

	return params
}

func (c *Client) ListJobs(ctx context.Context, q JobsQuery) (*Page[Job], error) {
	var page Page[Job]
	if err := c.get(ctx, "/jobs", "/jobs", q.values(), &page); err != nil {
		c.logger.Error("failed to list jobs",
			zap.String("search", q.Search),
			zap.Int("page", q.Page),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	c.logger.Debug("jobs found",
		zap.Int("total", page.Meta.Total),
		zap.Int("returned", len(page.Items)),
		zap.String("search", q.Search),
	)

	return &page, nil
}

func (c *Client) GetJob(ctx context.Context, jobID string) (*Job, error) {
	path := fmt.Sprintf("/jobs/%s", url.PathEscape(jobID))

	var job Job
	if err := c.get(ctx, path, "/jobs/:id", nil, &job); err != nil {
		c.logger.Error("failed to get job",
			zap.String("job_id", jobID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get job: %w", err)
	}

	c.logger.Debug("job retrieved",
		zap.String("job_id", jobID),
		zap.String("title", job.Title),
	)

	return &job, nil
}

// ExtractJobIDs returns the job ids in order.
func ExtractJobIDs(jobs []Job) []string {
	return slice.Map(jobs, func(_ int, job Job) string {
		return job.ID
	})
}
