// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"ciquest/internal/domain/entity"
	"ciquest/internal/domain/service"
	"ciquest/internal/usecase"

	"github.com/pkg/errors"
)

// authRecord is the JSON shape persisted under service.AuthStorageKey.
type authRecord struct {
	User    entity.Profile `json:"user"`
	Access  string         `json:"access"`
	Refresh string         `json:"refresh"`
}

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	storage service.SecureStorage
	carrier service.TokenCarrier
	logger  *slog.Logger
	now     func() time.Time

	mu           sync.Mutex
	loggedIn     bool
	user         entity.Profile
	access       string
	refresh      string
	coupons      []*entity.Coupon
	userHistory  []*entity.CouponUsage
	storeHistory []*entity.CouponUsage
}

// NewSessionService is the constructor for sessionService. It registers
// the auth-expired handler on the token carrier so that an
// unrecoverable 401 logs the session out; this is the only place token
// refresh failure surfaces into application state.
func NewSessionService(
	storage service.SecureStorage,
	carrier service.TokenCarrier,
	logger *slog.Logger,
) usecase.SessionUsecase {
	srv := &sessionService{
		storage: storage,
		carrier: carrier,
		logger:  logger,
		now:     time.Now,
	}

	carrier.SetAuthExpiredHandler(func() {
		srv.logger.Info("Auth expired, logging out")
		srv.Logout(context.Background())
	})

	return srv
}

// Login marks the session authenticated and persists it.
func (srv *sessionService) Login(ctx context.Context, user entity.Profile, tokens usecase.TokenPair) {
	srv.mu.Lock()
	srv.loggedIn = true
	srv.user = user.Clone()
	srv.access = tokens.Access
	srv.refresh = tokens.Refresh
	persistUser := srv.user.Clone()
	srv.mu.Unlock()

	srv.carrier.SetAuthTokens(tokens.Access, tokens.Refresh)
	srv.persist(ctx, persistUser, tokens.Access, tokens.Refresh)

	srv.logger.Info("Logged in", slog.String("username", user.Username()))
}

// Logout resets every field to its initial value and deletes the
// persisted record.
func (srv *sessionService) Logout(ctx context.Context) {
	srv.mu.Lock()
	srv.loggedIn = false
	srv.user = nil
	srv.access = ""
	srv.refresh = ""
	srv.coupons = nil
	srv.userHistory = nil
	srv.storeHistory = nil
	srv.mu.Unlock()

	srv.carrier.SetAuthTokens("", "")
	srv.persist(ctx, nil, "", "")

	srv.logger.Info("Logged out")
}

// UpdateUser shallow-merges the partial record into the cached profile
// and re-persists with the current tokens.
func (srv *sessionService) UpdateUser(ctx context.Context, partial entity.Profile) {
	if len(partial) == 0 {
		return
	}

	srv.mu.Lock()
	srv.user = srv.user.Merge(partial)
	persistUser := srv.user.Clone()
	access, refresh := srv.access, srv.refresh
	srv.mu.Unlock()

	srv.persist(ctx, persistUser, access, refresh)
}

// Restore repopulates the session from the persisted record at process
// start. Any failure yields a clean logged-out state, never a partial one.
func (srv *sessionService) Restore(ctx context.Context) bool {
	stored, err := srv.storage.Get(ctx, service.AuthStorageKey)
	if err != nil {
		if !errors.Is(err, service.ErrItemNotFound) {
			srv.logger.Warn("Failed to read persisted session", slog.Any("error", err))
		}
		srv.resetToLoggedOut()

		return false
	}

	var record authRecord
	if err := json.Unmarshal([]byte(stored), &record); err != nil {
		srv.logger.Warn("Failed to parse persisted session", slog.Any("error", err))
		srv.resetToLoggedOut()

		return false
	}

	loggedIn := record.Access != "" || record.Refresh != ""

	srv.mu.Lock()
	srv.user = record.User
	srv.access = record.Access
	srv.refresh = record.Refresh
	srv.loggedIn = loggedIn
	srv.mu.Unlock()

	srv.carrier.SetAuthTokens(record.Access, record.Refresh)

	srv.logger.Debug("Session restored", slog.Bool("logged_in", loggedIn))

	return loggedIn
}

// resetToLoggedOut clears the in-memory state and the carrier tokens
// without touching storage.
func (srv *sessionService) resetToLoggedOut() {
	srv.mu.Lock()
	srv.loggedIn = false
	srv.user = nil
	srv.access = ""
	srv.refresh = ""
	srv.mu.Unlock()

	srv.carrier.SetAuthTokens("", "")
}

// LoggedIn reports whether the session is authenticated.
func (srv *sessionService) LoggedIn() bool {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.loggedIn
}

// User returns a copy of the cached profile, or nil when absent.
func (srv *sessionService) User() entity.Profile {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.user.Clone()
}

// Tokens returns the current token pair.
func (srv *sessionService) Tokens() usecase.TokenPair {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return usecase.TokenPair{Access: srv.access, Refresh: srv.refresh}
}

// AddUserCoupon appends the coupon unless one with the same id is
// already owned.
func (srv *sessionService) AddUserCoupon(coupon *entity.Coupon) {
	if coupon == nil || coupon.ID == "" {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	for _, owned := range srv.coupons {
		if owned.ID == coupon.ID {
			return
		}
	}
	srv.coupons = append(srv.coupons, coupon.Clone())
}

// MarkUserCouponUsed flags the owned coupon as used with the current
// timestamp.
func (srv *sessionService) MarkUserCouponUsed(couponID string) {
	if couponID == "" {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	for _, owned := range srv.coupons {
		if owned.ID == couponID {
			usedAt := srv.now()
			owned.Used = true
			owned.UsedAt = &usedAt

			return
		}
	}
}

// UserCoupons returns a copy of the owned coupon list.
func (srv *sessionService) UserCoupons() []*entity.Coupon {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	out := make([]*entity.Coupon, 0, len(srv.coupons))
	for _, coupon := range srv.coupons {
		out = append(out, coupon.Clone())
	}

	return out
}

// AddUserCouponHistory prepends one entry to the user-facing history.
func (srv *sessionService) AddUserCouponHistory(entry *entity.CouponUsage) {
	if entry == nil {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.userHistory = append([]*entity.CouponUsage{entry}, srv.userHistory...)
}

// SetUserCouponHistory replaces the user-facing history; nil input is
// ignored.
func (srv *sessionService) SetUserCouponHistory(entries []*entity.CouponUsage) {
	if entries == nil {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.userHistory = append([]*entity.CouponUsage(nil), entries...)
}

// UserCouponHistory returns a copy of the user-facing history.
func (srv *sessionService) UserCouponHistory() []*entity.CouponUsage {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return append([]*entity.CouponUsage(nil), srv.userHistory...)
}

// AddStoreCouponHistory prepends one entry to the store-facing history.
func (srv *sessionService) AddStoreCouponHistory(entry *entity.CouponUsage) {
	if entry == nil {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.storeHistory = append([]*entity.CouponUsage{entry}, srv.storeHistory...)
}

// SetStoreCouponHistory replaces the store-facing history; nil input is
// ignored.
func (srv *sessionService) SetStoreCouponHistory(entries []*entity.CouponUsage) {
	if entries == nil {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.storeHistory = append([]*entity.CouponUsage(nil), entries...)
}

// StoreCouponHistory returns a copy of the store-facing history.
func (srv *sessionService) StoreCouponHistory() []*entity.CouponUsage {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return append([]*entity.CouponUsage(nil), srv.storeHistory...)
}

// persist writes the auth record to secure storage, deleting it when
// both tokens are absent. Failures are logged and swallowed so that a
// broken secure store never blocks login or logout.
func (srv *sessionService) persist(ctx context.Context, user entity.Profile, access, refresh string) {
	if access == "" && refresh == "" {
		if err := srv.storage.Delete(ctx, service.AuthStorageKey); err != nil {
			srv.logger.Warn("Failed to delete persisted session", slog.Any("error", err))
		}

		return
	}

	payload, err := json.Marshal(authRecord{User: user, Access: access, Refresh: refresh})
	if err != nil {
		srv.logger.Warn("Failed to encode session for persistence", slog.Any("error", err))

		return
	}

	if err := srv.storage.Set(ctx, service.AuthStorageKey, string(payload)); err != nil {
		srv.logger.Warn("Failed to persist session", slog.Any("error", err))
	}
}
