// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"ciquest/internal/domain/entity"
)

// TokenPair carries the opaque access/refresh tokens issued at login.
// An empty string means the token is absent.
type TokenPair struct {
	Access  string
	Refresh string
}

// SessionUsecase is the single source of truth for "is this device
// logged in as whom, with what tokens", plus the local cache of coupon
// ownership and usage mirrored from server responses.
//
// Mutations never fail from the caller's perspective: persistence
// errors are swallowed so that login/logout UX is never blocked by a
// broken secure store. All methods are safe for concurrent use.
type SessionUsecase interface {
	// Login marks the session authenticated, propagates the tokens to
	// the HTTP layer and persists the record.
	Login(ctx context.Context, user entity.Profile, tokens TokenPair)

	// Logout resets every field to its initial value, clears the tokens
	// on the HTTP layer and deletes the persisted record.
	Logout(ctx context.Context)

	// UpdateUser shallow-merges the partial record into the cached
	// profile (creating it if absent) and re-persists. No-op on nil.
	UpdateUser(ctx context.Context, partial entity.Profile)

	// Restore repopulates the session from the persisted record at
	// process start. Any read or parse failure yields a clean
	// logged-out state. Returns whether the session is logged in.
	Restore(ctx context.Context) bool

	LoggedIn() bool
	User() entity.Profile
	Tokens() TokenPair

	// AddUserCoupon appends unless a coupon with the same id is already
	// owned; no-op for nil coupons or coupons without an id.
	AddUserCoupon(coupon *entity.Coupon)

	// MarkUserCouponUsed flags the owned coupon as used with the
	// current timestamp; no-op when the id is empty or not owned.
	MarkUserCouponUsed(couponID string)

	UserCoupons() []*entity.Coupon

	AddUserCouponHistory(entry *entity.CouponUsage)
	SetUserCouponHistory(entries []*entity.CouponUsage)
	UserCouponHistory() []*entity.CouponUsage

	AddStoreCouponHistory(entry *entity.CouponUsage)
	SetStoreCouponHistory(entries []*entity.CouponUsage)
	StoreCouponHistory() []*entity.CouponUsage
}
