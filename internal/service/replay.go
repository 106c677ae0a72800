package service

import (
	"go.uber.org/zap"

	"github.com/obsidian-intel/unit734/internal/domain"
)

// ReplayState is the portion of session end state a persisted
// transcript fixes deterministically: the full claim record with its
// contradictions, and the final point of the cognitive trajectory.
type ReplayState struct {
	Ledger    *LieLedger
	Cognitive domain.CognitiveState
}

// Replay rebuilds end state from a persisted transcript. Entries pass
// through the same Append path as the live session, so ids, pillar
// indexes and contradictions come out identical to the original run;
// the cognitive state is taken from the stress recorded on the last
// suspect utterance.
func Replay(entries []domain.LedgerEntry, logger *zap.Logger) (*ReplayState, error) {
	ledger := NewLieLedger(logger)
	if err := ledger.Restore(entries); err != nil {
		return nil, err
	}

	st := &ReplayState{Ledger: ledger}
	for _, e := range entries {
		if e.Speaker == domain.SpeakerSuspect {
			st.Cognitive = domain.NewCognitiveState(e.StressAtUtterance)
		}
	}
	return st, nil
}
