package impl

import (
	"testing"

	"ciquest/internal/domain/entity"
	"ciquest/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChallengeFixture() usecase.ChallengeUsecase {
	return NewChallengeService(newDiscardLogger())
}

func TestChallengeService_StartChallenge(t *testing.T) {
	srv := newChallengeFixture()

	result := srv.StartChallenge(map[string]any{"id": "q1", "qrCode": "ABC", "rewardPoints": "50"})

	require.True(t, result.Created)
	require.NotNil(t, result.Challenge)
	assert.Equal(t, "q1", result.Challenge.ID)
	assert.Equal(t, entity.ChallengeStatusInProgress, result.Challenge.Status)
	require.NotNil(t, result.Challenge.RewardPoints)
	assert.InDelta(t, 50.0, *result.Challenge.RewardPoints, 1e-9)
	assert.Len(t, srv.ActiveChallenges(), 1)
}

func TestChallengeService_StartChallenge_Invalid(t *testing.T) {
	srv := newChallengeFixture()

	result := srv.StartChallenge(map[string]any{"title": "no id"})

	assert.False(t, result.Created)
	assert.Equal(t, usecase.ReasonInvalid, result.Reason)
	assert.Nil(t, result.Challenge)
	assert.Empty(t, srv.ActiveChallenges())
}

func TestChallengeService_StartChallenge_Idempotent(t *testing.T) {
	srv := newChallengeFixture()

	first := srv.StartChallenge(map[string]any{"id": "q1", "title": "餃子"})
	require.True(t, first.Created)

	second := srv.StartChallenge(map[string]any{"id": "q1"})

	assert.False(t, second.Created)
	assert.Equal(t, usecase.ReasonAlreadyActive, second.Reason)
	require.NotNil(t, second.Challenge)
	assert.Equal(t, "餃子", second.Challenge.Title, "existing challenge is returned")
	assert.Len(t, srv.ActiveChallenges(), 1, "list length unchanged")
}

func TestChallengeService_StartChallenge_AlreadyCleared(t *testing.T) {
	srv := newChallengeFixture()

	require.True(t, srv.StartChallenge(map[string]any{"id": "q1", "qrCode": "ABC"}).Created)
	require.True(t, srv.ClearChallengeByQR("ABC").Cleared)

	result := srv.StartChallenge(map[string]any{"id": "q1"})

	assert.False(t, result.Created)
	assert.Equal(t, usecase.ReasonAlreadyCleared, result.Reason)
	require.NotNil(t, result.Challenge)
	assert.Equal(t, entity.ChallengeStatusCleared, result.Challenge.Status)
	assert.Empty(t, srv.ActiveChallenges())
	assert.Len(t, srv.ClearedChallenges(), 1)
}

func TestChallengeService_ClearChallengeByQR(t *testing.T) {
	srv := newChallengeFixture()

	require.True(t, srv.StartChallenge(map[string]any{"id": "q1", "qrCode": "ABC", "rewardPoints": "50"}).Created)

	result := srv.ClearChallengeByQR("ABC")

	require.True(t, result.Cleared)
	require.NotNil(t, result.Challenge)
	assert.Equal(t, "q1", result.Challenge.ID)
	assert.Equal(t, entity.ChallengeStatusCleared, result.Challenge.Status)
	require.NotNil(t, result.Challenge.ClearedAt)

	assert.Empty(t, srv.ActiveChallenges())
	cleared := srv.ClearedChallenges()
	require.Len(t, cleared, 1)
	assert.Equal(t, "q1", cleared[0].ID)
}

func TestChallengeService_ClearChallengeByQR_TrimsInput(t *testing.T) {
	srv := newChallengeFixture()

	require.True(t, srv.StartChallenge(map[string]any{"id": "q1", "qrCode": "ABC"}).Created)

	assert.True(t, srv.ClearChallengeByQR("  ABC \n").Cleared)
}

func TestChallengeService_ClearChallengeByQR_EmptyQR(t *testing.T) {
	srv := newChallengeFixture()

	require.True(t, srv.StartChallenge(map[string]any{"id": "q1", "qrCode": "ABC"}).Created)

	for _, qr := range []string{"", "   ", "\t\n"} {
		result := srv.ClearChallengeByQR(qr)
		assert.False(t, result.Cleared)
		assert.Equal(t, usecase.ReasonEmptyQR, result.Reason)
	}
	assert.Len(t, srv.ActiveChallenges(), 1, "no list was mutated")
	assert.Empty(t, srv.ClearedChallenges())
}

func TestChallengeService_ClearChallengeByQR_NotFound(t *testing.T) {
	srv := newChallengeFixture()

	require.True(t, srv.StartChallenge(map[string]any{"id": "q1", "qrCode": "ABC"}).Created)

	result := srv.ClearChallengeByQR("XYZ")

	assert.False(t, result.Cleared)
	assert.Equal(t, usecase.ReasonNotFound, result.Reason)
	assert.Len(t, srv.ActiveChallenges(), 1)
}

func TestChallengeService_ClearChallengeByQR_FirstMatchWins(t *testing.T) {
	srv := newChallengeFixture()

	require.True(t, srv.StartChallenge(map[string]any{"id": "q1", "qrCode": "SHARED"}).Created)
	require.True(t, srv.StartChallenge(map[string]any{"id": "q2", "qrCode": "SHARED"}).Created)

	result := srv.ClearChallengeByQR("SHARED")

	require.True(t, result.Cleared)
	assert.Equal(t, "q1", result.Challenge.ID, "list order resolves the ambiguity")

	active := srv.ActiveChallenges()
	require.Len(t, active, 1, "only one challenge cleared per call")
	assert.Equal(t, "q2", active[0].ID)
}

func TestChallengeService_ClearChallengeByQR_SkipsChallengesWithoutCode(t *testing.T) {
	srv := newChallengeFixture()

	require.True(t, srv.StartChallenge(map[string]any{"id": "q1"}).Created)

	result := srv.ClearChallengeByQR("ABC")

	assert.False(t, result.Cleared)
	assert.Equal(t, usecase.ReasonNotFound, result.Reason)
}

func TestChallengeService_RetireChallenge(t *testing.T) {
	srv := newChallengeFixture()

	require.True(t, srv.StartChallenge(map[string]any{"id": "q1"}).Created)
	require.True(t, srv.StartChallenge(map[string]any{"id": "q2"}).Created)

	result := srv.RetireChallenge("q1")

	require.True(t, result.Retired)
	assert.Equal(t, "q1", result.Challenge.ID)

	active := srv.ActiveChallenges()
	require.Len(t, active, 1)
	assert.Equal(t, "q2", active[0].ID)
}

func TestChallengeService_RetireChallenge_Rejections(t *testing.T) {
	srv := newChallengeFixture()

	missing := srv.RetireChallenge("nope")
	assert.False(t, missing.Retired)
	assert.Equal(t, usecase.ReasonNotFound, missing.Reason)

	invalid := srv.RetireChallenge("")
	assert.False(t, invalid.Retired)
	assert.Equal(t, usecase.ReasonInvalid, invalid.Reason)
}

func TestChallengeService_RetireDoesNotTouchCleared(t *testing.T) {
	srv := newChallengeFixture()

	require.True(t, srv.StartChallenge(map[string]any{"id": "q1", "qrCode": "ABC"}).Created)
	require.True(t, srv.ClearChallengeByQR("ABC").Cleared)

	result := srv.RetireChallenge("q1")

	assert.False(t, result.Retired)
	assert.Equal(t, usecase.ReasonNotFound, result.Reason)
	assert.Len(t, srv.ClearedChallenges(), 1, "a cleared quest cannot be un-cleared")
}

func TestChallengeService_FullScenario(t *testing.T) {
	srv := newChallengeFixture()

	start := srv.StartChallenge(map[string]any{"id": "q1", "qrCode": "ABC", "rewardPoints": "50"})
	require.True(t, start.Created)
	require.NotNil(t, start.Challenge.RewardPoints)
	assert.InDelta(t, 50.0, *start.Challenge.RewardPoints, 1e-9)

	clear := srv.ClearChallengeByQR("ABC")
	require.True(t, clear.Cleared)
	assert.Equal(t, entity.ChallengeStatusCleared, clear.Challenge.Status)

	for _, active := range srv.ActiveChallenges() {
		assert.NotEqual(t, "q1", active.ID)
	}
	cleared := srv.ClearedChallenges()
	require.NotEmpty(t, cleared)
	assert.Equal(t, "q1", cleared[0].ID)
}
