package postgres

import (
	"context"
	"fmt"

	"godev-candidate-bot/internal/models"

	"go.uber.org/zap"
)

func (s *Store) SaveFilter(ctx context.Context, filter *models.UserFilter) error {
	query := `
		INSERT INTO user_filters (user_id, filter_type, filter_value, created_at)
		VALUES (?, ?, ?, NOW())
		ON CONFLICT (user_id, filter_type)
		DO UPDATE SET
			filter_value = EXCLUDED.filter_value,
			created_at   = NOW()
		RETURNING id
	`

	var id int64
	err := s.sess.
		SelectBySql(query, filter.UserID, filter.FilterType, filter.FilterValue).
		LoadOneContext(ctx, &id)
	if err != nil {
		s.logger.Error("failed to save filter",
			zap.Int64("user_id", filter.UserID),
			zap.String("filter_type", filter.FilterType),
			zap.Error(err),
		)
		return fmt.Errorf("save filter: %w", err)
	}

	filter.ID = id

	s.logger.Debug("filter saved",
		zap.Int64("user_id", filter.UserID),
		zap.String("filter_type", filter.FilterType),
	)

	return nil
}

// SaveFilters replaces the saved filter set of a user in one transaction.
// Empty values are not stored.
func (s *Store) SaveFilters(ctx context.Context, userID int64, filters map[string]string) error {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.RollbackUnlessCommitted()

	if _, err := tx.DeleteFrom("user_filters").Where("user_id = ?", userID).ExecContext(ctx); err != nil {
		s.logger.Error("failed to clear filters",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("clear filters: %w", err)
	}

	for filterType, value := range filters {
		if value == "" {
			continue
		}
		_, err := tx.
			InsertInto("user_filters").
			Columns("user_id", "filter_type", "filter_value").
			Values(userID, filterType, value).
			ExecContext(ctx)
		if err != nil {
			s.logger.Error("failed to insert filter",
				zap.Int64("user_id", userID),
				zap.String("filter_type", filterType),
				zap.Error(err),
			)
			return fmt.Errorf("insert filter: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit filters: %w", err)
	}

	return nil
}

func (s *Store) GetUserFilters(ctx context.Context, userID int64) ([]models.UserFilter, error) {
	var filters []models.UserFilter

	_, err := s.sess.
		Select("*").
		From("user_filters").
		Where("user_id = ?", userID).
		OrderBy("filter_type").
		LoadContext(ctx, &filters)

	if err != nil {
		s.logger.Error("failed to get user filters",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get user filters: %w", err)
	}

	return filters, nil
}

func (s *Store) GetFiltersMap(ctx context.Context, userID int64) (map[string]string, error) {
	filters, err := s.GetUserFilters(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtersMap := make(map[string]string, len(filters))
	for _, filter := range filters {
		filtersMap[filter.FilterType] = filter.FilterValue
	}

	return filtersMap, nil
}

func (s *Store) ClearUserFilters(ctx context.Context, userID int64) error {
	result, err := s.sess.
		DeleteFrom("user_filters").
		Where("user_id = ?", userID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to clear user filters",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("clear user filters: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()

	s.logger.Info("user filters cleared",
		zap.Int64("user_id", userID),
		zap.Int64("count", rowsAffected),
	)

	return nil
}
