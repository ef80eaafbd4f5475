package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeChallenge_IDResolution(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		raw    map[string]any
		wantID string
	}{
		{"plain id", map[string]any{"id": "q1"}, "q1"},
		{"snake case fallback", map[string]any{"challenge_id": float64(12)}, "12"},
		{"camel case fallback", map[string]any{"challengeId": "q3"}, "q3"},
		{"id wins over fallbacks", map[string]any{"id": "q1", "challenge_id": "q2", "challengeId": "q3"}, "q1"},
		{"empty id falls through", map[string]any{"id": "", "challenge_id": "q2"}, "q2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			challenge := NormalizeChallenge(tt.raw, now)
			require.NotNil(t, challenge)
			assert.Equal(t, tt.wantID, challenge.ID)
		})
	}
}

func TestNormalizeChallenge_NoResolvableID(t *testing.T) {
	now := time.Now()

	assert.Nil(t, NormalizeChallenge(nil, now))
	assert.Nil(t, NormalizeChallenge(map[string]any{}, now))
	assert.Nil(t, NormalizeChallenge(map[string]any{"title": "no id"}, now))
}

func TestNormalizeChallenge_Defaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	challenge := NormalizeChallenge(map[string]any{"id": "q1"}, now)
	require.NotNil(t, challenge)

	assert.Equal(t, "クエスト", challenge.Title)
	assert.Equal(t, ChallengeStatusInProgress, challenge.Status)
	assert.True(t, challenge.StartedAt.Equal(now))
	assert.Nil(t, challenge.ClearedAt)
	assert.Nil(t, challenge.RewardPoints)
	assert.Empty(t, challenge.QRCode)
}

func TestNormalizeChallenge_RewardPoints(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		raw  map[string]any
		want *float64
	}{
		{"number", map[string]any{"id": "q", "rewardPoints": float64(50)}, floatPtr(50)},
		{"numeric string", map[string]any{"id": "q", "rewardPoints": "50"}, floatPtr(50)},
		{"snake case field", map[string]any{"id": "q", "reward_points": float64(30)}, floatPtr(30)},
		{"points field", map[string]any{"id": "q", "points": "15"}, floatPtr(15)},
		{"bad string then fallback", map[string]any{"id": "q", "rewardPoints": "many", "reward_points": "20"}, floatPtr(20)},
		{"unparseable", map[string]any{"id": "q", "rewardPoints": "many"}, nil},
		{"absent", map[string]any{"id": "q"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			challenge := NormalizeChallenge(tt.raw, now)
			require.NotNil(t, challenge)
			if tt.want == nil {
				assert.Nil(t, challenge.RewardPoints)

				return
			}
			require.NotNil(t, challenge.RewardPoints)
			assert.InDelta(t, *tt.want, *challenge.RewardPoints, 1e-9)
		})
	}
}

func TestNormalizeChallenge_ServerShape(t *testing.T) {
	now := time.Now()
	raw := map[string]any{
		"challenge_id":  float64(7),
		"title":         "餃子を食べる",
		"description":   "来店して餃子を注文",
		"reward_points": float64(100),
		"type":          "PURCHASE",
		"reward_detail": "",
		"store_name":    "宇都宮餃子館",
		"qr_code":       "GYOZA-7",
	}

	challenge := NormalizeChallenge(raw, now)
	require.NotNil(t, challenge)
	assert.Equal(t, "7", challenge.ID)
	assert.Equal(t, "餃子を食べる", challenge.Title)
	assert.Equal(t, "宇都宮餃子館", challenge.StoreName)
	assert.Equal(t, "GYOZA-7", challenge.QRCode)
	require.NotNil(t, challenge.RewardPoints)
	assert.InDelta(t, 100.0, *challenge.RewardPoints, 1e-9)
}

func TestChallenge_Clone(t *testing.T) {
	points := 50.0
	cleared := time.Now()
	original := &Challenge{ID: "q1", RewardPoints: &points, ClearedAt: &cleared}

	clone := original.Clone()
	require.NotNil(t, clone)
	*clone.RewardPoints = 99
	*clone.ClearedAt = cleared.Add(time.Hour)

	assert.InDelta(t, 50.0, *original.RewardPoints, 1e-9)
	assert.True(t, original.ClearedAt.Equal(cleared))
}

func floatPtr(f float64) *float64 { return &f }
