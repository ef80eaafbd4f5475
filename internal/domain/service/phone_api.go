package service

import (
	"context"

	"ciquest/internal/domain/entity"
)

// LatLon is a device location passed to location-aware endpoints.
type LatLon struct {
	Lat float64
	Lon float64
}

// LoginResult is the payload of a successful login call.
type LoginResult struct {
	User    entity.Profile
	Access  string
	Refresh string
}

// CouponQuery narrows the public coupon listing.
type CouponQuery struct {
	StoreID string // Only coupons of this store; empty for all.
	Type    string // "common" or "store_specific"; empty for both.
}

// ChallengeClearInput is the payload for the server-side challenge
// clear. The server enforces the geofence and daily limits; the client
// only reflects the confirmed outcome into its stores.
type ChallengeClearInput struct {
	ChallengeID string
	QRCode      string
	Lat         float64
	Lon         float64
}

// ChallengeClearOutcome is the server's confirmation of a cleared
// challenge, including any granted reward.
type ChallengeClearOutcome struct {
	ChallengeID       string
	Status            string
	ClearedAt         string
	RewardType        string
	RewardPoints      int
	RewardDetail      string
	RewardCouponID    string
	RewardCouponTitle string
	RewardGranted     bool
	UserPoints        int
}

// CouponUseOutcome is the server's confirmation of a redeemed coupon.
type CouponUseOutcome struct {
	CouponID    string
	CouponTitle string
	CouponType  string
	StoreID     string
	StoreName   string
	UsedAt      string
}

// StampScanOutcome is the server's confirmation of a stamp scan.
type StampScanOutcome struct {
	StoreID     string
	StoreName   string
	StampsCount int
	MaxStamps   int
	RewardGiven bool
}

// PhoneAPI is the remote CRUD surface the app consumes. Implementations
// own authentication headers, token refresh and error mapping; business
// rules stay on the server.
type PhoneAPI interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// LoginWithGoogle exchanges a Google ID token (or OAuth access
	// token) for a session; at least one of the two must be set.
	LoginWithGoogle(ctx context.Context, idToken, accessToken string) (*LoginResult, error)
	RegisterUser(ctx context.Context, username, email, password string) (entity.Profile, error)
	FetchMe(ctx context.Context) (entity.Profile, error)
	Logout(ctx context.Context) error

	FetchStores(ctx context.Context, loc *LatLon) ([]*entity.Store, error)
	FetchCoupons(ctx context.Context, query CouponQuery) ([]*entity.Coupon, error)
	// FetchChallenges returns the raw challenge records; screens feed
	// them unmodified into the challenge store, which normalizes them.
	FetchChallenges(ctx context.Context, storeID string) ([]map[string]any, error)
	FetchNotices(ctx context.Context, target string) ([]*entity.Notice, error)
	FetchStampSetting(ctx context.Context, storeID string) (*entity.StampSetting, error)

	ClearChallenge(ctx context.Context, input ChallengeClearInput) (*ChallengeClearOutcome, error)
	UseCoupon(ctx context.Context, couponID, storeQR string) (*CouponUseOutcome, error)
	FetchUserCouponHistory(ctx context.Context) ([]*entity.CouponUsage, error)
	FetchStoreCouponHistory(ctx context.Context, storeID string) ([]*entity.CouponUsage, error)
	ScanStamp(ctx context.Context, storeQR string, loc LatLon) (*StampScanOutcome, error)
}
