// Package usecase contains the application-specific business rules.
package usecase

import "ciquest/internal/domain/entity"

// ChallengeReason explains why a challenge operation did not take
// effect. Operations never return errors; callers branch on the reason.
type ChallengeReason string

// Reason codes for challenge operations.
const (
	ReasonInvalid        ChallengeReason = "invalid"
	ReasonAlreadyActive  ChallengeReason = "already_active"
	ReasonAlreadyCleared ChallengeReason = "already_cleared"
	ReasonEmptyQR        ChallengeReason = "empty_qr"
	ReasonNotFound       ChallengeReason = "not_found"
)

// StartChallengeResult reports the outcome of StartChallenge. When the
// start is rejected because the id already exists, Challenge carries
// the existing record.
type StartChallengeResult struct {
	Created   bool
	Reason    ChallengeReason
	Challenge *entity.Challenge
}

// ClearChallengeResult reports the outcome of ClearChallengeByQR. On
// success Challenge carries the updated (cleared) record.
type ClearChallengeResult struct {
	Cleared   bool
	Reason    ChallengeReason
	Challenge *entity.Challenge
}

// RetireChallengeResult reports the outcome of RetireChallenge. On
// success Challenge carries the removed record.
type RetireChallengeResult struct {
	Retired   bool
	Reason    ChallengeReason
	Challenge *entity.Challenge
}

// ChallengeUsecase tracks, within one app session, which quests the
// user has accepted, which are done, and mediates QR-driven
// transitions. The lists are a per-install in-memory cache, not a
// source of truth; server-confirmed clears are reflected here by the
// calling screen. All methods are safe for concurrent use.
type ChallengeUsecase interface {
	// StartChallenge normalizes the raw record and appends it to the
	// in-progress list. A given id may live in at most one of the
	// in-progress and cleared lists.
	StartChallenge(input map[string]any) StartChallengeResult

	// ClearChallengeByQR moves the first in-progress challenge whose
	// code exactly matches the trimmed input to the cleared list. At
	// most one challenge is cleared per call.
	ClearChallengeByQR(qrCode string) ClearChallengeResult

	// RetireChallenge drops the challenge from the in-progress list.
	// Cleared challenges are not touched; a cleared quest cannot be
	// un-cleared.
	RetireChallenge(challengeID string) RetireChallengeResult

	ActiveChallenges() []*entity.Challenge
	ClearedChallenges() []*entity.Challenge
}
