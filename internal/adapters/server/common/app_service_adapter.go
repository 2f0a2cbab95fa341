package common

import (
	"context"
	"fmt"
	"time"

	"github.com/skiva/tidvis/internal/app"
)

// ServiceSource adapts the app service to the PortfolioSource contract.
type ServiceSource struct {
	svc *app.Service
}

// NewServiceSource builds one portfolio source over an app.Service instance.
func NewServiceSource(svc *app.Service) *ServiceSource {
	return &ServiceSource{svc: svc}
}

// Portfolio revalidates against the upstream API and quietly serves the
// cached snapshot when the API is unreachable. It fails only when no
// snapshot exists at all.
func (s *ServiceSource) Portfolio(ctx context.Context) (app.Snapshot, error) {
	if s == nil || s.svc == nil {
		return app.Snapshot{}, ErrSourceUnavailable
	}
	snap, _, err := s.svc.RefreshOrFallback(ctx)
	if err != nil && snap.SyncedAt.IsZero() {
		return app.Snapshot{}, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return snap, nil
}

// Now returns the service clock's current time.
func (s *ServiceSource) Now() time.Time {
	if s == nil || s.svc == nil {
		return time.Now()
	}
	return s.svc.Now()
}
