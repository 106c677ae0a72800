package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionPhase string

const (
	PhaseOpening    SessionPhase = "opening"
	PhaseProbing    SessionPhase = "probing"
	PhasePressuring SessionPhase = "pressuring"
	PhaseBreaking   SessionPhase = "breaking"
	PhaseTerminal   SessionPhase = "terminal"
)

type SessionOutcome string

const (
	OutcomeOpen       SessionOutcome = "open"
	OutcomeConfession SessionOutcome = "confession"
	OutcomeCollapse   SessionOutcome = "collapse"
	OutcomeTimeout    SessionOutcome = "timeout"
)

// StallTurnLimit ends a session after this many turns without progress
// (no pillar damage and no load increase).
const StallTurnLimit = 30

// Session owns one Psychology, one lie ledger, and one transcript.
// Turns are processed strictly serially.
type Session struct {
	ID            uuid.UUID      `json:"id"`
	CaseID        string         `json:"case_id"`
	Turn          int            `json:"turn"`
	Phase         SessionPhase   `json:"phase"`
	Outcome       SessionOutcome `json:"outcome"`
	Mind          Psychology     `json:"mind"`
	StallTurns    int            `json:"stall_turns"`
	EvidenceCount int            `json:"evidence_count"`
	CreatedAt     time.Time      `json:"created_at"`
	EndedAt       *time.Time     `json:"ended_at,omitempty"`
}

// DerivePhase recomputes the session phase from the current snapshot.
// There is no explicit transition API; the phase is re-evaluated after
// every turn.
func (s *Session) DerivePhase() SessionPhase {
	collapsed := s.Mind.Web.CollapsedCount()
	switch {
	case s.Outcome == OutcomeConfession || collapsed >= 3 || s.StallTurns >= StallTurnLimit:
		return PhaseTerminal
	case s.Mind.Cognitive.Level.Rank() >= LevelDesperate.Rank() || collapsed >= 2:
		return PhaseBreaking
	case s.Mind.Cognitive.Level == LevelCracking || collapsed == 1:
		return PhasePressuring
	case s.Turn <= 2:
		return PhaseOpening
	default:
		return PhaseProbing
	}
}

// PillarHealth is the per-pillar summary included in prompt bundles.
type PillarHealth struct {
	Pillar    Pillar  `json:"pillar"`
	Strength  float64 `json:"strength"`
	Collapsed bool    `json:"collapsed"`
}

// PromptModifierBundle is the structured packet of directives handed to
// the external language model for one turn.
type PromptModifierBundle struct {
	CognitiveLevel        CognitiveLevel  `json:"cognitive_level"`
	BehavioralDirectives  []string        `json:"behavioral_directives"`
	SelectedTactic        DeceptionTactic `json:"selected_tactic"`
	AnalystAdvice         string          `json:"analyst_advice,omitempty"`
	ContradictionWarnings []string        `json:"contradiction_warnings,omitempty"`
	NemesisInjection      string          `json:"nemesis_injection,omitempty"`
	PillarHealth          []PillarHealth  `json:"pillar_health"`
	CounterEvidence       string          `json:"counter_evidence,omitempty"`
}

// TurnInput is the detective's contribution to one turn.
type TurnInput struct {
	Text       string `json:"text"`
	ImageBytes []byte `json:"-"`
	ImageMIME  string `json:"image_mime,omitempty"`
}

// TurnResult is the orchestrator's complete output for one turn.
type TurnResult struct {
	Turn             int                  `json:"turn"`
	DetectedTactic   PlayerTactic         `json:"detected_tactic"`
	ThreatenedPillar Pillar               `json:"threatened_pillar,omitempty"`
	EvidenceThreat   float64              `json:"evidence_threat"`
	Delta            StateDelta           `json:"delta"`
	Snapshot         Psychology           `json:"snapshot"`
	Phase            SessionPhase         `json:"phase"`
	Decision         TacticDecision       `json:"decision"`
	Insight          AnalystInsight       `json:"insight"`
	CounterEvidence  *CounterEvidencePlan `json:"counter_evidence,omitempty"`
	Contradictions   []Contradiction      `json:"contradictions,omitempty"`
	Bundle           PromptModifierBundle `json:"bundle"`
	Reply            *SuspectReply        `json:"reply,omitempty"`
	Degraded         bool                 `json:"degraded"`
}
