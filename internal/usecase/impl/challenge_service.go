package impl

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"ciquest/internal/domain/entity"
	"ciquest/internal/usecase"
)

// challengeService implements the ChallengeUsecase interface.
//
// Both lists are per-session, in-memory only: server-confirmed clears
// are reflected here by the calling screen, and the state does not
// survive a process restart.
type challengeService struct {
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	active  []*entity.Challenge
	cleared []*entity.Challenge
}

// NewChallengeService is the constructor for challengeService.
func NewChallengeService(logger *slog.Logger) usecase.ChallengeUsecase {
	return &challengeService{
		logger: logger,
		now:    time.Now,
	}
}

// StartChallenge normalizes the raw record and appends it to the
// in-progress list unless its id already lives in either list.
func (srv *challengeService) StartChallenge(input map[string]any) usecase.StartChallengeResult {
	normalized := entity.NormalizeChallenge(input, srv.now())
	if normalized == nil {
		return usecase.StartChallengeResult{Created: false, Reason: usecase.ReasonInvalid}
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	for _, existing := range srv.active {
		if existing.ID == normalized.ID {
			reason := usecase.ReasonAlreadyActive
			if existing.Status == entity.ChallengeStatusCleared {
				reason = usecase.ReasonAlreadyCleared
			}

			return usecase.StartChallengeResult{Created: false, Reason: reason, Challenge: existing.Clone()}
		}
	}

	for _, existing := range srv.cleared {
		if existing.ID == normalized.ID {
			return usecase.StartChallengeResult{Created: false, Reason: usecase.ReasonAlreadyCleared, Challenge: existing.Clone()}
		}
	}

	srv.active = append(srv.active, normalized)

	srv.logger.Debug("Challenge started", slog.String("challenge_id", normalized.ID))

	return usecase.StartChallengeResult{Created: true, Challenge: normalized.Clone()}
}

// ClearChallengeByQR moves the first matching in-progress challenge to
// the front of the cleared list. At most one challenge is cleared per
// call, even when several active entries share the same code; ambiguity
// is resolved by list order.
func (srv *challengeService) ClearChallengeByQR(qrCode string) usecase.ClearChallengeResult {
	trimmed := strings.TrimSpace(qrCode)
	if trimmed == "" {
		return usecase.ClearChallengeResult{Cleared: false, Reason: usecase.ReasonEmptyQR}
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	for i, challenge := range srv.active {
		if challenge.Status != entity.ChallengeStatusInProgress {
			continue
		}
		if challenge.QRCode == "" || challenge.QRCode != trimmed {
			continue
		}

		clearedAt := srv.now()
		challenge.Status = entity.ChallengeStatusCleared
		challenge.ClearedAt = &clearedAt

		srv.active = append(srv.active[:i], srv.active[i+1:]...)
		srv.cleared = append([]*entity.Challenge{challenge}, srv.cleared...)

		srv.logger.Debug("Challenge cleared", slog.String("challenge_id", challenge.ID))

		return usecase.ClearChallengeResult{Cleared: true, Challenge: challenge.Clone()}
	}

	return usecase.ClearChallengeResult{Cleared: false, Reason: usecase.ReasonNotFound}
}

// RetireChallenge drops the challenge from the in-progress list. The
// cleared list is never touched.
func (srv *challengeService) RetireChallenge(challengeID string) usecase.RetireChallengeResult {
	if challengeID == "" {
		return usecase.RetireChallengeResult{Retired: false, Reason: usecase.ReasonInvalid}
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	for i, challenge := range srv.active {
		if challenge.ID != challengeID {
			continue
		}

		srv.active = append(srv.active[:i], srv.active[i+1:]...)

		srv.logger.Debug("Challenge retired", slog.String("challenge_id", challenge.ID))

		return usecase.RetireChallengeResult{Retired: true, Challenge: challenge}
	}

	return usecase.RetireChallengeResult{Retired: false, Reason: usecase.ReasonNotFound}
}

// ActiveChallenges returns a copy of the in-progress list.
func (srv *challengeService) ActiveChallenges() []*entity.Challenge {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	out := make([]*entity.Challenge, 0, len(srv.active))
	for _, challenge := range srv.active {
		out = append(out, challenge.Clone())
	}

	return out
}

// ClearedChallenges returns a copy of the cleared list, newest first.
func (srv *challengeService) ClearedChallenges() []*entity.Challenge {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	out := make([]*entity.Challenge, 0, len(srv.cleared))
	for _, challenge := range srv.cleared {
		out = append(out, challenge.Clone())
	}

	return out
}
