package domain

import "fmt"

// InternalMonologue is the suspect's hidden reasoning in a reply.
type InternalMonologue struct {
	SituationAssessment string  `json:"situation_assessment"`
	ThreatLevel         float64 `json:"threat_level"`
	ChosenStrategy      string  `json:"chosen_strategy"`
}

// VerbalResponse is what the suspect actually says.
type VerbalResponse struct {
	Speech string `json:"speech"`
	Tone   string `json:"tone"`
}

// ReplyStateChanges are the suspect-announced deltas; the orchestrator
// clips and sanity-checks them before applying.
type ReplyStateChanges struct {
	LoadDelta           float64            `json:"load_delta"`
	MaskDivergenceDelta float64            `json:"mask_divergence_delta"`
	PillarDeltas        map[Pillar]float64 `json:"pillar_deltas,omitempty"`
}

// NewClaim is one claim the suspect made this turn, destined for the
// lie ledger.
type NewClaim struct {
	Claim  string    `json:"claim"`
	Pillar Pillar    `json:"pillar"`
	Type   ClaimType `json:"type"`
}

// LieConsistencyCheck carries claims and acknowledged contradictions.
type LieConsistencyCheck struct {
	NewClaims                  []NewClaim `json:"new_claims"`
	ContradictionsAcknowledged []string   `json:"contradictions_acknowledged"`
}

// SuspectReply is the structured LLM reply contract. Replies that fail
// Validate are rejected and retried once before the canned fallback.
type SuspectReply struct {
	InternalMonologue   InternalMonologue   `json:"internal_monologue"`
	VerbalResponse      VerbalResponse      `json:"verbal_response"`
	StateChanges        ReplyStateChanges   `json:"state_changes"`
	LieConsistencyCheck LieConsistencyCheck `json:"lie_consistency_check"`
	EmotionalState      Emotion             `json:"emotional_state"`
}

// Validate rejects replies that break the schema contract.
func (r *SuspectReply) Validate() error {
	if r.VerbalResponse.Speech == "" {
		return fmt.Errorf("reply missing verbal_response.speech")
	}
	if !ValidEmotion(string(r.EmotionalState)) {
		return fmt.Errorf("reply has invalid emotional_state %q", r.EmotionalState)
	}
	if r.InternalMonologue.ThreatLevel < 0 || r.InternalMonologue.ThreatLevel > 1 {
		return fmt.Errorf("reply threat_level %f outside [0,1]", r.InternalMonologue.ThreatLevel)
	}
	for _, c := range r.LieConsistencyCheck.NewClaims {
		if c.Claim == "" {
			return fmt.Errorf("reply contains empty claim")
		}
		if !ValidPillar(string(c.Pillar)) {
			return fmt.Errorf("reply claim bound to invalid pillar %q", c.Pillar)
		}
		if !ValidClaimType(string(c.Type)) {
			return fmt.Errorf("reply claim has invalid type %q", c.Type)
		}
	}
	for p := range r.StateChanges.PillarDeltas {
		if !ValidPillar(string(p)) {
			return fmt.Errorf("reply pillar delta for invalid pillar %q", p)
		}
	}
	return nil
}
