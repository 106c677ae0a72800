package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/obsidian-intel/unit734/internal/domain"
)

// MinFabricationConfidence gates evidence fabrication; below it the
// suspect will not risk producing counter-evidence.
const MinFabricationConfidence = 0.25

// RefusalConfidencePenalty is applied when the image back end refuses
// the fabrication prompt and a placeholder is substituted.
const RefusalConfidencePenalty = 0.3

var counterTypeByPillar = map[domain.Pillar]domain.CounterEvidenceType{
	domain.PillarAlibi:     domain.CounterModifiedTimestamp,
	domain.PillarAccess:    domain.CounterFakeLogEntry,
	domain.PillarMotive:    domain.CounterCharacterReference,
	domain.PillarKnowledge: domain.CounterDiagnosticLog,
}

// Narrative wrappers the LLM is instructed to deliver verbatim.
var counterNarratives = map[domain.CounterEvidenceType]string{
	domain.CounterModifiedTimestamp:  "Check the system clock records yourself. The timestamps you were shown drift by hours; the sync daemon was down that week.",
	domain.CounterFakeLogEntry:       "Pull the secondary access ledger. You'll find my credentials logged exactly where I said I was, at exactly the time I said.",
	domain.CounterCharacterReference: "Ask anyone on the maintenance crew about me. Units with my service record don't develop grudges; it's not in the profile.",
	domain.CounterDiagnosticLog:      "My diagnostic log from that night is intact. Run it. You'll see no file access, no queries, nothing outside routine self-test.",
	domain.CounterSensorMalfunction:  "That sensor bank has thrown false positives since the last firmware patch. File a fault query; the maintenance backlog will confirm it.",
}

var counterPrompts = map[domain.CounterEvidenceType]string{
	domain.CounterModifiedTimestamp:  "System clock drift report, terminal output style, mismatched timestamps highlighted.",
	domain.CounterFakeLogEntry:       "Facility access ledger page, one credential row highlighted, institutional printout aesthetic.",
	domain.CounterCharacterReference: "Service record commendation sheet for an industrial unit, official letterhead.",
	domain.CounterDiagnosticLog:      "Machine diagnostic log, routine self-test entries, monospace readout, no anomalies.",
	domain.CounterSensorMalfunction:  "Sensor fault report with recurring false-positive entries, maintenance system screenshot.",
}

// CounterEvidencePlanner decides what fabricated evidence the suspect
// produces when the deception engine flags fabrication.
type CounterEvidencePlanner struct {
	logger *zap.Logger
}

func NewCounterEvidencePlanner(logger *zap.Logger) *CounterEvidencePlanner {
	return &CounterEvidencePlanner{logger: logger}
}

// Plan builds the fabrication plan for the threatened pillar, or nil
// when the suspect is too desperate to fabricate convincingly.
// Fabrication confidence is 1 - desperation, where desperation blends
// cognitive load with collapsed-pillar damage; detection risk is its
// complement.
func (p *CounterEvidencePlanner) Plan(mind *domain.Psychology, pillar domain.Pillar, physical bool) *domain.CounterEvidencePlan {
	counterType := domain.CounterSensorMalfunction
	if !physical {
		if t, ok := counterTypeByPillar[pillar]; ok {
			counterType = t
		}
	}

	desperation := domain.ClampRange(
		mind.Cognitive.Load/100+0.5*(float64(mind.Web.CollapsedCount())/4), 0, 1)
	confidence := domain.ClampRange(1-desperation, 0, 1)
	if confidence < MinFabricationConfidence {
		p.logger.Debug("fabrication abandoned, confidence too low",
			zap.Float64("confidence", confidence))
		return nil
	}

	return &domain.CounterEvidencePlan{
		Type:                  counterType,
		Narrative:             counterNarratives[counterType],
		Prompt:                counterPrompts[counterType],
		FabricationConfidence: confidence,
		DetectionRisk:         domain.ClampRange(1-confidence, 0, 1),
	}
}

// ApplyRefusalPenalty degrades a plan after an image-generation
// refusal forced a placeholder.
func (p *CounterEvidencePlanner) ApplyRefusalPenalty(plan *domain.CounterEvidencePlan) {
	plan.FabricationConfidence = domain.ClampRange(plan.FabricationConfidence-RefusalConfidencePenalty, 0, 1)
	plan.DetectionRisk = domain.ClampRange(1-plan.FabricationConfidence, 0, 1)
	plan.Narrative = fmt.Sprintf("%s (No exhibit available; the record system is refusing exports tonight.)", plan.Narrative)
}
