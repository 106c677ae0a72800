package domain

// ReidPhase labels the detective's move against the Reid technique.
type ReidPhase string

const (
	ReidPositiveConfrontation  ReidPhase = "positive_confrontation"
	ReidThemeDevelopment       ReidPhase = "theme_development"
	ReidHandlingDenials        ReidPhase = "handling_denials"
	ReidOvercomingObjections   ReidPhase = "overcoming_objections"
	ReidProcurementOfAttention ReidPhase = "procurement_of_attention"
	ReidPassiveToActive        ReidPhase = "passive_to_active"
	ReidAlternativeQuestion    ReidPhase = "alternative_question"
)

// PEACEPhase labels the move against the PEACE interview model.
type PEACEPhase string

const (
	PEACEPlanning   PEACEPhase = "planning"
	PEACEEngage     PEACEPhase = "engage"
	PEACEAccount    PEACEPhase = "account"
	PEACEClosure    PEACEPhase = "closure"
	PEACEEvaluation PEACEPhase = "evaluation"
)

// AnalystInsight is the shadow analyst's advisory read of a detective
// turn.
type AnalystInsight struct {
	ReidPhase       ReidPhase       `json:"reid_phase"`
	PEACEPhase      PEACEPhase      `json:"peace_phase"`
	IMTViolation    string          `json:"imt_violation,omitempty"`
	AggressionLevel float64         `json:"aggression_level"`
	TrapDetected    bool            `json:"trap_detected"`
	TrapDescription string          `json:"trap_description,omitempty"`
	ConfessionRisk  float64         `json:"confession_risk"`
	Recommended     DeceptionTactic `json:"recommended"`
	Fallback        DeceptionTactic `json:"fallback"`
	Advice          string          `json:"advice"`
}
