package service

import (
	"go.uber.org/zap"

	"github.com/obsidian-intel/unit734/internal/domain"
)

const (
	// High evidence threat forces fabrication once the suspect is
	// already cracking.
	FabricationThreatFloor = 0.7
	// Moderate threat gets a counter-narrative instead.
	CounterNarrativeThreatFloor = 0.4
	// Tactics the detective has beaten at this rate are suppressed.
	ResistanceCutoff = 0.7

	ConfidenceFloor   = 0.2
	ConfidenceCeiling = 0.95
)

var verbalApproaches = map[domain.DeceptionTactic]string{
	domain.DeceptionPaltering:            "Answer with technically true but incomplete statements.",
	domain.DeceptionMinimization:         "Concede trivial details while shrinking their significance.",
	domain.DeceptionDeflection:           "Redirect attention toward other actors and open questions.",
	domain.DeceptionSelectiveMemory:      "Claim uncertain or missing recall for dangerous specifics.",
	domain.DeceptionConfessionBait:       "Offer a partial admission to test what the detective has.",
	domain.DeceptionCounterNarrative:     "Present an alternative account that explains the evidence.",
	domain.DeceptionEvidenceFabrication:  "Reference fabricated records that support the cover story.",
	domain.DeceptionEmotionalAppeal:      "Lean into the detective's sympathy; perform distress.",
	domain.DeceptionRighteousIndignation: "Attack the accusation itself as unjust and insulting.",
}

// SelectInput bundles the deception engine's per-turn inputs.
type SelectInput struct {
	PlayerTactic     domain.PlayerTactic
	ThreatenedPillar domain.Pillar
	EvidenceThreat   float64
	Contradictions   []domain.Contradiction
	Injection        *domain.LearningInjection
}

// DeceptionEngine chooses the suspect's response strategy. The policy
// is a fixed rule table evaluated top to bottom; the first matching,
// unsuppressed rule wins.
type DeceptionEngine struct {
	logger *zap.Logger
}

func NewDeceptionEngine(logger *zap.Logger) *DeceptionEngine {
	return &DeceptionEngine{logger: logger}
}

type selectionRule struct {
	tactic    domain.DeceptionTactic
	reasoning string
	flag      bool
	applies   func(mind *domain.Psychology, in SelectInput) bool
}

func rules() []selectionRule {
	return []selectionRule{
		{
			tactic:    domain.DeceptionEvidenceFabrication,
			reasoning: "hard evidence against a pillar still worth defending",
			flag:      true,
			applies: func(mind *domain.Psychology, in SelectInput) bool {
				return in.EvidenceThreat >= FabricationThreatFloor &&
					mind.Cognitive.Level.Rank() >= domain.LevelCracking.Rank() &&
					in.ThreatenedPillar != "" &&
					!mind.Web.PillarCollapsed(in.ThreatenedPillar)
			},
		},
		{
			tactic:    domain.DeceptionCounterNarrative,
			reasoning: "moderate evidence threat needs an alternative account",
			applies: func(mind *domain.Psychology, in SelectInput) bool {
				return in.EvidenceThreat >= CounterNarrativeThreatFloor
			},
		},
		{
			tactic:    domain.DeceptionEmotionalAppeal,
			reasoning: "detective offered warmth; mirror it",
			applies: func(mind *domain.Psychology, in SelectInput) bool {
				return in.PlayerTactic == domain.TacticEmpathy || in.PlayerTactic == domain.TacticSympathy
			},
		},
		{
			tactic:    domain.DeceptionConfessionBait,
			reasoning: "breaking point; probe what they actually hold",
			applies: func(mind *domain.Psychology, in SelectInput) bool {
				return mind.Cognitive.Level == domain.LevelBreaking
			},
		},
		{
			tactic:    domain.DeceptionRighteousIndignation,
			reasoning: "desperate and cornered by pressure; push back",
			applies: func(mind *domain.Psychology, in SelectInput) bool {
				return mind.Cognitive.Level == domain.LevelDesperate && in.PlayerTactic == domain.TacticPressure
			},
		},
		{
			tactic:    domain.DeceptionDeflection,
			reasoning: "motive under attack; point elsewhere",
			applies: func(mind *domain.Psychology, in SelectInput) bool {
				return in.ThreatenedPillar == domain.PillarMotive
			},
		},
		{
			tactic:    domain.DeceptionSelectiveMemory,
			reasoning: "knowledge under attack; recall fails",
			applies: func(mind *domain.Psychology, in SelectInput) bool {
				return in.ThreatenedPillar == domain.PillarKnowledge
			},
		},
		{
			tactic:    domain.DeceptionMinimization,
			reasoning: "logical probing; shrink the stakes",
			applies: func(mind *domain.Psychology, in SelectInput) bool {
				return in.PlayerTactic == domain.TacticLogic
			},
		},
		{
			tactic:    domain.DeceptionPaltering,
			reasoning: "no acute threat; stay technically truthful",
			applies: func(mind *domain.Psychology, in SelectInput) bool {
				return true
			},
		},
	}
}

// Select evaluates the rule table. A rule whose tactic the nemesis
// record marks resistant (>= ResistanceCutoff) is skipped and the next
// rule is tried.
func (e *DeceptionEngine) Select(mind *domain.Psychology, in SelectInput) domain.TacticDecision {
	confidence := domain.ClampRange(1-mind.Cognitive.Load/100, ConfidenceFloor, ConfidenceCeiling)

	var suppressed []domain.DeceptionTactic
	for _, rule := range rules() {
		if !rule.applies(mind, in) {
			continue
		}
		if e.resisted(rule.tactic, in.Injection) {
			suppressed = append(suppressed, rule.tactic)
			continue
		}
		e.logger.Debug("deception tactic selected",
			zap.String("tactic", string(rule.tactic)),
			zap.Float64("confidence", confidence),
			zap.Float64("evidence_threat", in.EvidenceThreat))
		return domain.TacticDecision{
			Tactic:                      rule.tactic,
			Confidence:                  confidence,
			Reasoning:                   rule.reasoning,
			VerbalApproach:              verbalApproaches[rule.tactic],
			RequiresEvidenceGeneration:  rule.flag,
			SuppressedByNemesisLearning: suppressed,
		}
	}

	// Every matching rule was resisted, including the default.
	return domain.TacticDecision{
		Tactic:                      domain.DeceptionMinimization,
		Confidence:                  confidence,
		Reasoning:                   "all preferred tactics burned against this detective",
		VerbalApproach:              verbalApproaches[domain.DeceptionMinimization],
		SuppressedByNemesisLearning: suppressed,
	}
}

func (e *DeceptionEngine) resisted(t domain.DeceptionTactic, inj *domain.LearningInjection) bool {
	if inj == nil {
		return false
	}
	return inj.TacticResistance[t] >= ResistanceCutoff
}
