package domain

type EvidenceType string

const (
	EvidenceCCTV          EvidenceType = "cctv"
	EvidenceAccessLog     EvidenceType = "access_log"
	EvidenceFingerprint   EvidenceType = "fingerprint"
	EvidenceCommunication EvidenceType = "communication_record"
	EvidenceFloorPlan     EvidenceType = "floor_plan"
	EvidencePhysicalTrace EvidenceType = "physical_trace"
)

func ValidEvidenceType(e string) bool {
	switch EvidenceType(e) {
	case EvidenceCCTV, EvidenceAccessLog, EvidenceFingerprint,
		EvidenceCommunication, EvidenceFloorPlan, EvidencePhysicalTrace:
		return true
	}
	return false
}

// BaseThreat is the starting threat level for the evidence type before
// specificity adjustments. All values land inside [0.3, 0.9].
func (e EvidenceType) BaseThreat() float64 {
	switch e {
	case EvidenceCCTV:
		return 0.7
	case EvidenceFingerprint:
		return 0.65
	case EvidenceAccessLog:
		return 0.6
	case EvidencePhysicalTrace:
		return 0.6
	case EvidenceCommunication:
		return 0.55
	case EvidenceFloorPlan:
		return 0.3
	default:
		return 0.3
	}
}

// GeneratedEvidence is a validated, parsed evidence request plus the
// artifacts produced for it. RequestID is a deterministic hash of the
// normalized request text.
type GeneratedEvidence struct {
	RequestID     string       `json:"request_id"`
	Request       string       `json:"request"`
	Type          EvidenceType `json:"type"`
	Location      string       `json:"location,omitempty"`
	TimeReference string       `json:"time_reference,omitempty"`
	TargetPillar  Pillar       `json:"target_pillar"`
	ThreatLevel   float64      `json:"threat_level"`
	Prompt        string       `json:"prompt"`
	ImageBytes    []byte       `json:"-"`
}

type CounterEvidenceType string

const (
	CounterModifiedTimestamp  CounterEvidenceType = "modified_timestamp"
	CounterFakeLogEntry       CounterEvidenceType = "fake_log_entry"
	CounterCharacterReference CounterEvidenceType = "character_reference"
	CounterDiagnosticLog      CounterEvidenceType = "diagnostic_log"
	CounterSensorMalfunction  CounterEvidenceType = "sensor_malfunction"
)

// CounterEvidencePlan is the suspect's fabrication plan for a turn.
// DetectionRisk is always 1 - FabricationConfidence, clipped.
type CounterEvidencePlan struct {
	Type                  CounterEvidenceType `json:"type"`
	Narrative             string              `json:"narrative"`
	Prompt                string              `json:"prompt"`
	FabricationConfidence float64             `json:"fabrication_confidence"`
	DetectionRisk         float64             `json:"detection_risk"`
	ImageBytes            []byte              `json:"-"`
}

// EvidenceAnalysisResult is the vision analyzer's report for one image.
type EvidenceAnalysisResult struct {
	Objects         []string           `json:"objects"`
	TextContent     string             `json:"text_content"`
	Timestamps      []string           `json:"timestamps"`
	PillarRelevance map[Pillar]float64 `json:"pillar_relevance"`
}
