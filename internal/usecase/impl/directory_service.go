package impl

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"ciquest/internal/domain/entity"
	"ciquest/internal/domain/service"
	"ciquest/internal/usecase"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
)

// directoryService implements the StoreDirectoryUsecase interface.
type directoryService struct {
	api    service.PhoneAPI
	logger *slog.Logger

	mu     sync.Mutex
	stores []*entity.Store
}

// NewDirectoryService is the constructor for directoryService.
func NewDirectoryService(api service.PhoneAPI, logger *slog.Logger) usecase.StoreDirectoryUsecase {
	return &directoryService{
		api:    api,
		logger: logger,
	}
}

// Refresh replaces the cache from the remote store list.
func (srv *directoryService) Refresh(ctx context.Context, loc *service.LatLon) error {
	stores, err := srv.api.FetchStores(ctx, loc)
	if err != nil {
		srv.logger.Error("Failed to refresh store directory", slog.Any("error", err))

		return errors.Wrap(err, "failed to refresh store directory")
	}

	srv.mu.Lock()
	srv.stores = stores
	srv.mu.Unlock()

	srv.logger.Debug("Store directory refreshed", slog.Int("count", len(stores)))

	return nil
}

// Stores returns the cached list in server order.
func (srv *directoryService) Stores() []*entity.Store {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return append([]*entity.Store(nil), srv.stores...)
}

// Nearby returns the cached stores with distances recomputed from the
// device location, sorted nearest first. Stores without coordinates
// sort last, ordered by listing priority.
func (srv *directoryService) Nearby(loc service.LatLon) []*entity.Store {
	srv.mu.Lock()
	cached := append([]*entity.Store(nil), srv.stores...)
	srv.mu.Unlock()

	device := orb.Point{loc.Lon, loc.Lat}

	out := make([]*entity.Store, 0, len(cached))
	for _, store := range cached {
		copied := *store
		if store.HasLocation() {
			distanceKm := geo.Distance(device, orb.Point{*store.Lon, *store.Lat}) / 1000
			copied.DistanceKm = &distanceKm
		} else {
			copied.DistanceKm = nil
		}
		out = append(out, &copied)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.DistanceKm != nil && b.DistanceKm != nil:
			return *a.DistanceKm < *b.DistanceKm
		case a.DistanceKm != nil:
			return true
		case b.DistanceKm != nil:
			return false
		default:
			return a.Priority > b.Priority
		}
	})

	return out
}

// FindByID looks a store up in the cache.
func (srv *directoryService) FindByID(storeID string) (*entity.Store, bool) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	for _, store := range srv.stores {
		if store.ID == storeID {
			return store, true
		}
	}

	return nil, false
}
