package postgres

import (
	"context"
	"fmt"
	"time"

	"godev-candidate-bot/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

func (s *Store) GetWatchedApplications(ctx context.Context, userID int64) ([]models.WatchedApplication, error) {
	var watched []models.WatchedApplication

	_, err := s.sess.
		Select("*").
		From("watched_applications").
		Where("user_id = ?", userID).
		LoadContext(ctx, &watched)

	if err != nil {
		s.logger.Error("failed to get watched applications",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get watched applications: %w", err)
	}

	return watched, nil
}

func (s *Store) UpsertWatchedApplications(ctx context.Context, userID int64, apps []models.WatchedApplication) error {
	if len(apps) == 0 {
		return nil
	}

	query := `
		INSERT INTO watched_applications (user_id, application_id, status, job_title, seen_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, application_id) DO UPDATE SET
			status    = EXCLUDED.status,
			job_title = EXCLUDED.job_title,
			seen_at   = EXCLUDED.seen_at
	`

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.RollbackUnlessCommitted()

	now := time.Now()
	for _, app := range apps {
		if _, err := tx.InsertBySql(query, userID, app.ApplicationID, app.Status, app.JobTitle, now).ExecContext(ctx); err != nil {
			s.logger.Error("failed to upsert watched application",
				zap.Int64("user_id", userID),
				zap.String("application_id", app.ApplicationID),
				zap.Error(err),
			)
			return fmt.Errorf("upsert watched application: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit watched applications: %w", err)
	}

	return nil
}

// PruneWatchedApplications forgets applications that are no longer listed.
func (s *Store) PruneWatchedApplications(ctx context.Context, userID int64, keepIDs []string) (int64, error) {
	stmt := s.sess.
		DeleteFrom("watched_applications").
		Where("user_id = ?", userID)
	if len(keepIDs) > 0 {
		stmt = stmt.Where("NOT (application_id = ANY(?))", pq.Array(keepIDs))
	}

	result, err := stmt.ExecContext(ctx)
	if err != nil {
		s.logger.Error("failed to prune watched applications",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return 0, fmt.Errorf("prune watched applications: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		s.logger.Debug("watched applications pruned",
			zap.Int64("user_id", userID),
			zap.Int64("count", rowsAffected),
		)
	}

	return rowsAffected, nil
}
