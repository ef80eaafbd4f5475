package entity

import (
	"time"

	"ciquest/internal/util"
)

// Challenge status values. A challenge only ever moves from in-progress
// to cleared; retiring drops the record instead of transitioning it.
const (
	ChallengeStatusInProgress = "in_progress"
	ChallengeStatusCleared    = "cleared"
)

// defaultChallengeTitle is shown when the source record carries no title.
const defaultChallengeTitle = "クエスト"

// Challenge is a user-accepted quest tied to a store, completed by
// scanning the matching QR code.
type Challenge struct {
	ID           string     // Normalized identifier; unique across the active and cleared lists.
	Title        string     // Display title, defaulted when the source omits it.
	Description  string     // Free-text description of what the quest asks for.
	StoreName    string     // Name of the store hosting the quest.
	RewardPoints *float64   // Points granted on clear; nil when the reward is not point-based.
	Reward       string     // Free-text reward description (coupon title, service, ...).
	Type         string     // Quest kind reported by the server (PURCHASE, PHOTO, VISIT, ...).
	QRCode       string     // Code that must match a scan to clear the quest.
	Status       string     // ChallengeStatusInProgress or ChallengeStatusCleared.
	StartedAt    time.Time  // When the user accepted the quest.
	ClearedAt    *time.Time // When the quest was cleared; nil while in progress.
}

// Clone returns a copy of the challenge with its own pointer fields.
func (c *Challenge) Clone() *Challenge {
	if c == nil {
		return nil
	}

	out := *c
	if c.RewardPoints != nil {
		points := *c.RewardPoints
		out.RewardPoints = &points
	}
	if c.ClearedAt != nil {
		cleared := *c.ClearedAt
		out.ClearedAt = &cleared
	}

	return &out
}

// NormalizeChallenge converts a raw API record into a Challenge. The id
// is resolved from id, challenge_id, then challengeId, first non-empty
// wins; reward points tolerate numeric strings. Returns nil when no id
// can be resolved. The now argument supplies the default start time.
func NormalizeChallenge(raw map[string]any, now time.Time) *Challenge {
	if raw == nil {
		return nil
	}

	id := util.StringField(raw, "id", "challenge_id", "challengeId")
	if id == "" {
		return nil
	}

	title := util.StringField(raw, "title")
	if title == "" {
		title = defaultChallengeTitle
	}

	status := util.StringField(raw, "status")
	if status == "" {
		status = ChallengeStatusInProgress
	}

	startedAt := now
	if parsed := util.TimeField(raw, "startedAt", "started_at"); parsed != nil {
		startedAt = *parsed
	}

	return &Challenge{
		ID:           id,
		Title:        title,
		Description:  util.StringField(raw, "description"),
		StoreName:    util.StringField(raw, "storeName", "store_name"),
		RewardPoints: util.NumberField(raw, "rewardPoints", "reward_points", "points"),
		Reward:       util.StringField(raw, "reward", "reward_detail"),
		Type:         util.StringField(raw, "type"),
		QRCode:       util.StringField(raw, "qrCode", "qr_code"),
		Status:       status,
		StartedAt:    startedAt,
		ClearedAt:    util.TimeField(raw, "clearedAt", "cleared_at"),
	}
}
