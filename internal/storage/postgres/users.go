package postgres

import (
	"context"
	"fmt"
	"time"

	"godev-candidate-bot/internal/models"

	"github.com/gocraft/dbr/v2"
	"go.uber.org/zap"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.sess.
		InsertInto("users").
		Columns("id", "username", "first_name", "last_name", "created_at", "watch_enabled", "is_premium").
		Values(user.ID, user.Username, user.FirstName, user.LastName, time.Now(), user.WatchEnabled, user.IsPremium).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to create user",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
		return fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created",
		zap.Int64("user_id", user.ID),
		zap.Stringp("username", user.Username),
	)

	return nil
}

func (s *Store) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User

	err := s.sess.
		Select("*").
		From("users").
		Where("id = ?", userID).
		LoadOneContext(ctx, &user)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (s *Store) GetOrCreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	existing, err := s.GetUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return existing, nil
	}

	if err := s.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Store) UpdateLastCheck(ctx context.Context, userID int64) error {
	_, err := s.sess.
		Update("users").
		Set("last_check", time.Now()).
		Where("id = ?", userID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to update last check",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("update last check: %w", err)
	}

	return nil
}

func (s *Store) SetWatchEnabled(ctx context.Context, userID int64, enabled bool) error {
	_, err := s.sess.
		Update("users").
		Set("watch_enabled", enabled).
		Where("id = ?", userID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to set watch enabled",
			zap.Int64("user_id", userID),
			zap.Bool("enabled", enabled),
			zap.Error(err),
		)
		return fmt.Errorf("set watch enabled: %w", err)
	}

	s.logger.Info("watch setting updated",
		zap.Int64("user_id", userID),
		zap.Bool("enabled", enabled),
	)

	return nil
}

func (s *Store) SetPremium(ctx context.Context, userID int64, premium bool) error {
	_, err := s.sess.
		Update("users").
		Set("is_premium", premium).
		Where("id = ?", userID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to set premium",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("set premium: %w", err)
	}

	s.logger.Info("premium flag updated",
		zap.Int64("user_id", userID),
		zap.Bool("premium", premium),
	)

	return nil
}

// IsPremium reports false for unknown users.
func (s *Store) IsPremium(ctx context.Context, userID int64) (bool, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return user != nil && user.IsPremium, nil
}

// GetUsersToWatch returns users with watching enabled that were not checked
// within interval.
func (s *Store) GetUsersToWatch(ctx context.Context, interval time.Duration) ([]models.User, error) {
	var users []models.User

	query := `
		SELECT * FROM users
		WHERE watch_enabled = true
		AND (
			last_check IS NULL
			OR NOW() - last_check >= (? || ' seconds')::interval
		)
	`

	_, err := s.sess.
		SelectBySql(query, int64(interval.Seconds())).
		LoadContext(ctx, &users)

	if err != nil {
		s.logger.Error("failed to get users to watch", zap.Error(err))
		return nil, fmt.Errorf("get users to watch: %w", err)
	}

	s.logger.Debug("users to watch",
		zap.Int("count", len(users)),
	)

	return users, nil
}

func (s *Store) DeleteUser(ctx context.Context, userID int64) error {
	_, err := s.sess.
		DeleteFrom("users").
		Where("id = ?", userID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to delete user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info("user deleted", zap.Int64("user_id", userID))
	return nil
}
