package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"ciquest/internal/domain/service"

	"github.com/pkg/errors"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStorage is an in-memory SecureStorage with switchable failure
// modes for exercising the swallow-on-error paths.
type fakeStorage struct {
	mu       sync.Mutex
	items    map[string]string
	failGet  bool
	failSet  bool
	failDel  bool
	setCalls int
	delCalls int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{items: make(map[string]string)}
}

func (f *fakeStorage) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failGet {
		return "", errors.New("storage read failed")
	}
	value, ok := f.items[key]
	if !ok {
		return "", service.ErrItemNotFound
	}

	return value, nil
}

func (f *fakeStorage) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.setCalls++
	if f.failSet {
		return errors.New("storage write failed")
	}
	f.items[key] = value

	return nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.delCalls++
	if f.failDel {
		return errors.New("storage delete failed")
	}
	delete(f.items, key)

	return nil
}

// fakeCarrier records token propagation and the registered expiry
// handler so tests can fire it.
type fakeCarrier struct {
	mu      sync.Mutex
	access  string
	refresh string
	handler func()
	setLog  []string
}

func (f *fakeCarrier) SetAuthTokens(access, refresh string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.access = access
	f.refresh = refresh
	f.setLog = append(f.setLog, access+"|"+refresh)
}

func (f *fakeCarrier) SetAuthExpiredHandler(handler func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.handler = handler
}

func (f *fakeCarrier) tokens() (string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.access, f.refresh
}

func (f *fakeCarrier) fireExpired() {
	f.mu.Lock()
	handler := f.handler
	f.mu.Unlock()

	if handler != nil {
		handler()
	}
}
