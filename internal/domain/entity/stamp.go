package entity

// StampSetting is a store's stamp-card configuration as reported by the
// stamp-setting API. Stamps accumulate server-side; the client only
// displays progress and scans codes.
type StampSetting struct {
	Exists     bool          // Whether the store runs a stamp card at all.
	StoreID    string        // Store the card belongs to.
	StoreName  string        // Store display name.
	MaxStamps  int           // Stamps needed to complete the card.
	Rewards    []StampReward // Reward tiers, ordered by threshold.
	UserStamps *StampStatus  // The requesting user's progress; nil when unauthenticated.
}

// StampReward is one reward tier of a stamp card.
type StampReward struct {
	StampThreshold    int    // Stamp count that unlocks this reward.
	RewardType        string // "coupon" or "service".
	RewardCouponID    string // Granted coupon; empty for service rewards.
	RewardCouponTitle string // Title of the granted coupon.
	RewardServiceDesc string // Description for service rewards.
}

// StampStatus is the user's progress on one store's stamp card.
type StampStatus struct {
	StampsCount int  // Stamps collected so far.
	RewardGiven bool // Whether the completion reward was already granted.
}
