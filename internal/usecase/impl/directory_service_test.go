package impl

import (
	"context"
	"testing"

	"ciquest/internal/domain/entity"
	"ciquest/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePhoneAPI implements only the store listing; the embedded interface
// panics on anything else, which would mark a test using an endpoint it
// should not.
type fakePhoneAPI struct {
	service.PhoneAPI

	stores []*entity.Store
	err    error
	calls  int
}

func (f *fakePhoneAPI) FetchStores(_ context.Context, _ *service.LatLon) ([]*entity.Store, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	return f.stores, nil
}

func coord(v float64) *float64 { return &v }

// Utsunomiya city center and three stores from the seed data.
var testStores = []*entity.Store{
	{ID: "1", Name: "カフェ・リベルタ", Lat: coord(36.557), Lon: coord(139.883), Priority: 1},
	{ID: "2", Name: "宇都宮餃子館", Lat: coord(36.556), Lon: coord(139.907)},
	{ID: "3", Name: "Book & Chill", Lat: coord(36.554), Lon: coord(139.885)},
	{ID: "4", Name: "通販専門店", Priority: 5},
	{ID: "5", Name: "移動販売", Priority: 2},
}

func TestDirectoryService_Refresh(t *testing.T) {
	api := &fakePhoneAPI{stores: testStores}
	srv := NewDirectoryService(api, newDiscardLogger())

	require.NoError(t, srv.Refresh(context.Background(), nil))
	assert.Equal(t, 1, api.calls)
	assert.Len(t, srv.Stores(), len(testStores))
}

func TestDirectoryService_RefreshError(t *testing.T) {
	api := &fakePhoneAPI{err: errors.New("network down")}
	srv := NewDirectoryService(api, newDiscardLogger())

	err := srv.Refresh(context.Background(), nil)

	require.Error(t, err)
	assert.Empty(t, srv.Stores(), "a failed refresh leaves the cache unchanged")
}

func TestDirectoryService_Nearby(t *testing.T) {
	api := &fakePhoneAPI{stores: testStores}
	srv := NewDirectoryService(api, newDiscardLogger())
	require.NoError(t, srv.Refresh(context.Background(), nil))

	// Device next to Book & Chill.
	nearby := srv.Nearby(service.LatLon{Lat: 36.554, Lon: 139.885})

	require.Len(t, nearby, len(testStores))
	assert.Equal(t, "3", nearby[0].ID)
	require.NotNil(t, nearby[0].DistanceKm)
	assert.Less(t, *nearby[0].DistanceKm, 0.1)

	// Distances are ascending among located stores.
	for i := 1; i < 3; i++ {
		require.NotNil(t, nearby[i].DistanceKm)
		assert.GreaterOrEqual(t, *nearby[i].DistanceKm, *nearby[i-1].DistanceKm)
	}

	// Stores without coordinates sort last, by priority.
	assert.Nil(t, nearby[3].DistanceKm)
	assert.Equal(t, "4", nearby[3].ID)
	assert.Equal(t, "5", nearby[4].ID)
}

func TestDirectoryService_NearbyDoesNotMutateCache(t *testing.T) {
	api := &fakePhoneAPI{stores: testStores}
	srv := NewDirectoryService(api, newDiscardLogger())
	require.NoError(t, srv.Refresh(context.Background(), nil))

	_ = srv.Nearby(service.LatLon{Lat: 36.554, Lon: 139.885})

	cached := srv.Stores()
	assert.Equal(t, "1", cached[0].ID, "server order preserved")
	assert.Nil(t, cached[0].DistanceKm, "distance is computed on copies")
}

func TestDirectoryService_FindByID(t *testing.T) {
	api := &fakePhoneAPI{stores: testStores}
	srv := NewDirectoryService(api, newDiscardLogger())
	require.NoError(t, srv.Refresh(context.Background(), nil))

	store, ok := srv.FindByID("2")
	require.True(t, ok)
	assert.Equal(t, "宇都宮餃子館", store.Name)

	_, ok = srv.FindByID("missing")
	assert.False(t, ok)
}
