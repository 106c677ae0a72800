package service

import (
	"go.uber.org/zap"

	"github.com/obsidian-intel/unit734/internal/domain"
)

// Base load deltas per player tactic, before sensitivity scaling.
const (
	LoadPressure       = 8.0
	LoadLogic          = 5.0
	LoadEvidence       = 12.0
	LoadBluffSuccess   = 3.0
	LoadBluffFailed    = -2.0
	LoadEmpathy        = -2.0
	LoadSympathy       = -3.0
	LoadTrap           = 10.0
	LoadDirectQuestion = 2.0

	// EvidenceThreatLoadScale converts evidence threat into load.
	EvidenceThreatLoadScale = 20.0
	// EvidenceThreatPillarScale converts evidence threat into pillar
	// strength loss.
	EvidenceThreatPillarScale = 0.35

	// BluffCallThreshold: a bluff lands when it names a pillar the
	// suspect cannot confidently defend.
	BluffCallThreshold = 0.5
)

// ImpactInput is everything the calculator needs for one turn.
type ImpactInput struct {
	Tactic           domain.PlayerTactic
	ThreatenedPillar domain.Pillar
	EvidenceThreat   float64
}

// ImpactCalculator maps (tactic, state, threat) to a StateDelta. The
// composition is additive then clipped, so replaying a transcript
// reproduces the same final state.
type ImpactCalculator struct {
	logger *zap.Logger
}

func NewImpactCalculator(logger *zap.Logger) *ImpactCalculator {
	return &ImpactCalculator{logger: logger}
}

func (c *ImpactCalculator) baseLoad(mind *domain.Psychology, in ImpactInput) float64 {
	switch in.Tactic {
	case domain.TacticPressure:
		return LoadPressure
	case domain.TacticLogic:
		return LoadLogic
	case domain.TacticEvidence:
		return LoadEvidence
	case domain.TacticBluff:
		if in.ThreatenedPillar != "" && mind.Web.PillarStrength(in.ThreatenedPillar) < BluffCallThreshold {
			return LoadBluffSuccess
		}
		return LoadBluffFailed
	case domain.TacticEmpathy:
		return LoadEmpathy
	case domain.TacticSympathy:
		return LoadSympathy
	case domain.TacticTrap:
		return LoadTrap
	case domain.TacticDirectQuestion:
		return LoadDirectQuestion
	default:
		return 0
	}
}

// Compute builds the turn's StateDelta without mutating the mind.
func (c *ImpactCalculator) Compute(mind *domain.Psychology, in ImpactInput) domain.StateDelta {
	sensitivity := mind.Vulnerabilities.Sensitivity(in.Tactic)
	load := c.baseLoad(mind, in) * (1 + sensitivity)

	delta := domain.StateDelta{
		PillarDeltas: make(map[domain.Pillar]float64),
	}

	if in.EvidenceThreat > 0 {
		load += in.EvidenceThreat * EvidenceThreatLoadScale
		if in.ThreatenedPillar != "" {
			delta.PillarDeltas[in.ThreatenedPillar] = -in.EvidenceThreat * EvidenceThreatPillarScale
		}
	}
	delta.LoadDelta = load

	// Rising stress widens the gap between mask and self.
	if load > 0 {
		delta.DivergenceDelta = load * 0.5
	} else {
		delta.DivergenceDelta = load * 0.25
	}

	switch in.Tactic {
	case domain.TacticEmpathy, domain.TacticSympathy:
		delta.TrustDelta = 3
		delta.HostilityDelta = -2
	case domain.TacticPressure, domain.TacticTrap:
		delta.TrustDelta = -2
		delta.HostilityDelta = 4
	case domain.TacticBluff:
		delta.HostilityDelta = 2
	}

	c.logger.Debug("impact computed",
		zap.String("tactic", string(in.Tactic)),
		zap.Float64("sensitivity", sensitivity),
		zap.Float64("evidence_threat", in.EvidenceThreat),
		zap.Float64("load_delta", delta.LoadDelta))

	return delta
}

// Apply mutates the mind by the delta, clipping load to [0,100] and
// pillar strengths to [0,1]. Pillar collapse cascades are handled by
// the lie web in a single bounded pass.
func (c *ImpactCalculator) Apply(mind *domain.Psychology, delta domain.StateDelta) {
	mind.Cognitive.SetLoad(mind.Cognitive.Load + delta.LoadDelta)
	for pillar, d := range delta.PillarDeltas {
		if d < 0 {
			mind.Web.Damage(pillar, -d)
		}
	}
	mind.Mask.SetDivergence(mind.Mask.Divergence + delta.DivergenceDelta)
	mind.Trust = domain.ClampRange(mind.Trust+delta.TrustDelta, 0, 100)
	mind.Hostility = domain.ClampRange(mind.Hostility+delta.HostilityDelta, 0, 100)
}
