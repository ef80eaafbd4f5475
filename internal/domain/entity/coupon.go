package entity

import (
	"time"

	"ciquest/internal/util"
)

// Coupon type values reported by the server.
const (
	CouponTypeCommon        = "common"
	CouponTypeStoreSpecific = "store_specific"
)

// Coupon is a redeemable discount owned by the user or offered for
// point exchange. It has at most one "used" transition.
type Coupon struct {
	ID             string     // Normalized identifier, unique within the owned list.
	Title          string     // Display title.
	Description    string     // Display description.
	Type           string     // CouponTypeCommon or CouponTypeStoreSpecific.
	StoreName      string     // Issuing store for store-specific coupons.
	RequiredPoints *float64   // Exchange cost in points; nil when not exchangeable.
	ExpiresAt      *time.Time // Expiry; nil when the coupon does not expire.
	Used           bool       // Whether the coupon has been redeemed.
	UsedAt         *time.Time // When it was redeemed; nil while unused.
}

// Clone returns a copy of the coupon with its own pointer fields.
func (c *Coupon) Clone() *Coupon {
	if c == nil {
		return nil
	}

	out := *c
	if c.RequiredPoints != nil {
		points := *c.RequiredPoints
		out.RequiredPoints = &points
	}
	if c.ExpiresAt != nil {
		expires := *c.ExpiresAt
		out.ExpiresAt = &expires
	}
	if c.UsedAt != nil {
		used := *c.UsedAt
		out.UsedAt = &used
	}

	return &out
}

// NormalizeCoupon converts a raw API record into a Coupon. The id is
// resolved from id falling back to coupon_id; returns nil when neither
// yields a value.
func NormalizeCoupon(raw map[string]any) *Coupon {
	if raw == nil {
		return nil
	}

	id := util.StringField(raw, "id", "coupon_id")
	if id == "" {
		return nil
	}

	used := false
	if v, ok := raw["used"].(bool); ok {
		used = v
	} else if v, ok := raw["is_used"].(bool); ok {
		used = v
	}

	return &Coupon{
		ID:             id,
		Title:          util.StringField(raw, "title"),
		Description:    util.StringField(raw, "desc", "description"),
		Type:           util.StringField(raw, "type"),
		StoreName:      util.StringField(raw, "storeName", "store_name"),
		RequiredPoints: util.NumberField(raw, "requiredPoints", "required_points", "cost"),
		ExpiresAt:      util.TimeField(raw, "expiresAt", "expires_at"),
		Used:           used,
		UsedAt:         util.TimeField(raw, "usedAt", "used_at"),
	}
}

// CouponUsage is one usage-event record. The user-facing history leaves
// the user fields empty; the store-facing history fills them in.
type CouponUsage struct {
	CouponID    string    // Coupon that was redeemed.
	CouponTitle string    // Title at redemption time.
	CouponType  string    // Coupon type at redemption time.
	StoreID     string    // Store where the coupon was redeemed.
	StoreName   string    // Store display name.
	UserID      string    // Redeeming user; store-facing history only.
	Username    string    // Redeeming user's name; store-facing history only.
	UsedAt      time.Time // When the redemption happened.
}
