package godev

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterPayload struct {
	Name     string   `json:"name" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Role     UserRole `json:"role" validate:"required,oneof=CANDIDATE RECRUITER COMPANY_ADMIN ADMIN"`
}

// AuthResult is returned by login and register.
type AuthResult struct {
	User  APIUser `json:"user"`
	Token string  `json:"token"`
}

func (c *Client) Login(ctx context.Context, payload LoginPayload) (*AuthResult, error) {
	var result AuthResult
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/login", "/auth/login", payload, &result); err != nil {
		c.logger.Warn("login failed",
			zap.String("email", payload.Email),
			zap.Error(err),
		)
		return nil, fmt.Errorf("login: %w", err)
	}

	c.logger.Info("user logged in", zap.String("user_id", result.User.ID))

	return &result, nil
}

func (c *Client) Register(ctx context.Context, payload RegisterPayload) (*AuthResult, error) {
	if payload.Role == "" {
		payload.Role = RoleCandidate
	}

	var result AuthResult
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/register", "/auth/register", payload, &result); err != nil {
		c.logger.Warn("register failed",
			zap.String("email", payload.Email),
			zap.Error(err),
		)
		return nil, fmt.Errorf("register: %w", err)
	}

	c.logger.Info("user registered", zap.String("user_id", result.User.ID))

	return &result, nil
}
