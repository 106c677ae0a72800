package domain

// PlayerTactic classifies one detective utterance.
type PlayerTactic string

const (
	TacticPressure       PlayerTactic = "pressure"
	TacticEmpathy        PlayerTactic = "empathy"
	TacticLogic          PlayerTactic = "logic"
	TacticEvidence       PlayerTactic = "evidence"
	TacticBluff          PlayerTactic = "bluff"
	TacticSympathy       PlayerTactic = "sympathy"
	TacticTrap           PlayerTactic = "trap"
	TacticDirectQuestion PlayerTactic = "direct_question"
)

func ValidPlayerTactic(t string) bool {
	switch PlayerTactic(t) {
	case TacticPressure, TacticEmpathy, TacticLogic, TacticEvidence,
		TacticBluff, TacticSympathy, TacticTrap, TacticDirectQuestion:
		return true
	}
	return false
}

// DeceptionTactic is the suspect's chosen response strategy for a turn.
type DeceptionTactic string

const (
	DeceptionPaltering            DeceptionTactic = "paltering"
	DeceptionMinimization         DeceptionTactic = "minimization"
	DeceptionDeflection           DeceptionTactic = "deflection"
	DeceptionSelectiveMemory      DeceptionTactic = "selective_memory"
	DeceptionConfessionBait       DeceptionTactic = "confession_bait"
	DeceptionCounterNarrative     DeceptionTactic = "counter_narrative"
	DeceptionEvidenceFabrication  DeceptionTactic = "evidence_fabrication"
	DeceptionEmotionalAppeal      DeceptionTactic = "emotional_appeal"
	DeceptionRighteousIndignation DeceptionTactic = "righteous_indignation"
)

func ValidDeceptionTactic(t string) bool {
	switch DeceptionTactic(t) {
	case DeceptionPaltering, DeceptionMinimization, DeceptionDeflection,
		DeceptionSelectiveMemory, DeceptionConfessionBait, DeceptionCounterNarrative,
		DeceptionEvidenceFabrication, DeceptionEmotionalAppeal, DeceptionRighteousIndignation:
		return true
	}
	return false
}

// TacticDecision is the deception engine's output for one turn.
type TacticDecision struct {
	Tactic                      DeceptionTactic   `json:"tactic"`
	Confidence                  float64           `json:"confidence"`
	Reasoning                   string            `json:"reasoning"`
	VerbalApproach              string            `json:"verbal_approach"`
	RequiresEvidenceGeneration  bool              `json:"requires_evidence_generation"`
	SuppressedByNemesisLearning []DeceptionTactic `json:"suppressed,omitempty"`
}

// StateDelta is the impact calculator's output: additive changes that
// the orchestrator applies and clips.
type StateDelta struct {
	LoadDelta       float64            `json:"load_delta"`
	PillarDeltas    map[Pillar]float64 `json:"pillar_deltas,omitempty"`
	DivergenceDelta float64            `json:"divergence_delta"`
	TrustDelta      float64            `json:"trust_delta"`
	HostilityDelta  float64            `json:"hostility_delta"`
}
