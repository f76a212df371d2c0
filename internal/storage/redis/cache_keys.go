package redis

import (
	"context"
	"fmt"
	"time"
)

const (
	RateLimitWindowTTL = 1 * time.Minute
	PendingApplyTTL    = 15 * time.Minute
	JobsPageCacheTTL   = 2 * time.Minute

	ClientStatePrefix = "state:"
)

func RateLimitKey(userID int64) string {
	return fmt.Sprintf("ratelimit:user:%d", userID)
}

func PendingApplyKey(userID int64) string {
	return fmt.Sprintf("temp:user:%d:apply", userID)
}

func JobsPageKey(userID int64) string {
	return fmt.Sprintf("jobs:user:%d", userID)
}

// PendingApply is a quick-apply waiting for the candidate to pick a resume.
type PendingApply struct {
	JobID       string `json:"jobId"`
	JobTitle    string `json:"jobTitle"`
	CoverLetter string `json:"coverLetter,omitempty"`
}

func (c *Cache) IncrementUserRateLimit(ctx context.Context, userID int64) (int64, error) {
	return c.IncrementWithExpiry(ctx, RateLimitKey(userID), RateLimitWindowTTL)
}

func (c *Cache) SetPendingApply(ctx context.Context, userID int64, pending PendingApply) error {
	return c.SetJSON(ctx, PendingApplyKey(userID), pending, PendingApplyTTL)
}

// GetPendingApply returns ErrKeyNotFound once the pending apply expired.
func (c *Cache) GetPendingApply(ctx context.Context, userID int64) (*PendingApply, error) {
	var pending PendingApply
	if err := c.GetJSON(ctx, PendingApplyKey(userID), &pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

// TakePendingApply claims the pending apply: a second tap gets ErrKeyNotFound.
func (c *Cache) TakePendingApply(ctx context.Context, userID int64) (*PendingApply, error) {
	var pending PendingApply
	if err := c.TakeJSON(ctx, PendingApplyKey(userID), &pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

func (c *Cache) DeletePendingApply(ctx context.Context, userID int64) error {
	return c.Delete(ctx, PendingApplyKey(userID))
}

// SetLastJobIDs remembers the job ids shown on the last listed page so that
// "/apply 2" can refer to the second job.
func (c *Cache) SetLastJobIDs(ctx context.Context, userID int64, ids []string) error {
	return c.SetJSON(ctx, JobsPageKey(userID), ids, JobsPageCacheTTL)
}

func (c *Cache) GetLastJobIDs(ctx context.Context, userID int64) ([]string, error) {
	var ids []string
	if err := c.GetJSON(ctx, JobsPageKey(userID), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
