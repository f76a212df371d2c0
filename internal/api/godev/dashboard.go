package godev

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

func (c *Client) ApplicationsOverview(ctx context.Context) (*ApplicationsOverview, error) {
	var overview ApplicationsOverview
	route := "/dashboards/applications/overview"
	if err := c.get(ctx, route, route, nil, &overview); err != nil {
		c.logger.Error("failed to get applications overview", zap.Error(err))
		return nil, fmt.Errorf("applications overview: %w", err)
	}

	return &overview, nil
}
