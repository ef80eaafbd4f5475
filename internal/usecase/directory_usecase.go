// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"ciquest/internal/domain/entity"
	"ciquest/internal/domain/service"
)

// StoreDirectoryUsecase caches the public store list for the session
// and answers location-aware lookups against it.
type StoreDirectoryUsecase interface {
	// Refresh replaces the cache from the remote store list. The
	// optional location lets the server pre-compute distances.
	Refresh(ctx context.Context, loc *service.LatLon) error

	// Stores returns the cached list in server order.
	Stores() []*entity.Store

	// Nearby returns the cached stores with distances recomputed from
	// the given device location, sorted nearest first. Stores without
	// coordinates sort last, ordered by listing priority.
	Nearby(loc service.LatLon) []*entity.Store

	// FindByID looks a store up in the cache.
	FindByID(storeID string) (*entity.Store, bool)
}
