package godev

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

type UpdateProfilePayload struct {
	Name     string `json:"name,omitempty" validate:"required_without=Password"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6"`
}

func (c *Client) UpdateMyProfile(ctx context.Context, payload UpdateProfilePayload) (*APIUser, error) {
	var user APIUser
	if err := c.sendJSON(ctx, http.MethodPut, "/users/me", "/users/me", payload, &user); err != nil {
		c.logger.Error("failed to update profile", zap.Error(err))
		return nil, fmt.Errorf("update profile: %w", err)
	}

	c.logger.Info("profile updated", zap.String("user_id", user.ID))

	return &user, nil
}
