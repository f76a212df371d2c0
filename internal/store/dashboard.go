package store

import (
	"context"

	"godev-candidate-bot/internal/api/godev"
	"godev-candidate-bot/internal/metrics"

	"go.uber.org/zap"
)

type DashboardAPI interface {
	ApplicationsOverview(ctx context.Context) (*godev.ApplicationsOverview, error)
}

type DashboardStore struct {
	res *Resource[struct{}, *godev.ApplicationsOverview]
}

func NewDashboardStore(api DashboardAPI, logger *zap.Logger, m *metrics.Metrics) *DashboardStore {
	return &DashboardStore{
		res: NewResource(ResourceConfig[struct{}, *godev.ApplicationsOverview]{
			Name:     "dashboard",
			Fallback: "Erro ao carregar painel de candidaturas",
			Load: func(ctx context.Context, _ struct{}) (*godev.ApplicationsOverview, error) {
				return api.ApplicationsOverview(ctx)
			},
			Logger:  logger,
			Metrics: m,
		}),
	}
}

func (s *DashboardStore) Fetch(ctx context.Context) {
	s.res.Fetch(ctx, struct{}{})
}

func (s *DashboardStore) State() State[*godev.ApplicationsOverview] {
	return s.res.Snapshot()
}
