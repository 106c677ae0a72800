package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/obsidian-intel/unit734/internal/domain"
)

// ShadowAnalyst labels the detective's move against interrogation
// frameworks. It prefers its external back end but always has a
// deterministic fallback, so the engine degrades gracefully.
type ShadowAnalyst struct {
	client  domain.AnalystClient
	timeout time.Duration
	logger  *zap.Logger
}

func NewShadowAnalyst(client domain.AnalystClient, timeout time.Duration, logger *zap.Logger) *ShadowAnalyst {
	return &ShadowAnalyst{client: client, timeout: timeout, logger: logger}
}

// Analyze returns an insight for the detective turn. External failures
// degrade to FallbackInsight; the second return reports degradation.
func (a *ShadowAnalyst) Analyze(ctx context.Context, text string, tactic domain.PlayerTactic, level domain.CognitiveLevel) (*domain.AnalystInsight, bool) {
	if a.client == nil {
		return FallbackInsight(tactic, level), true
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	insight, err := a.client.Analyze(callCtx, text, tactic, level)
	if err != nil {
		a.logger.Warn("analyst back end unavailable, using fallback", zap.Error(err))
		return FallbackInsight(tactic, level), true
	}
	return insight, false
}

// FallbackInsight is the deterministic (tactic x level) matrix used
// when the analyst back end is down.
func FallbackInsight(tactic domain.PlayerTactic, level domain.CognitiveLevel) *domain.AnalystInsight {
	in := &domain.AnalystInsight{
		PEACEPhase:     domain.PEACEAccount,
		ConfessionRisk: 0.1 * float64(level.Rank()),
	}

	switch tactic {
	case domain.TacticPressure:
		in.ReidPhase = domain.ReidPositiveConfrontation
		in.AggressionLevel = 0.8
		in.IMTViolation = "quality: assertions pressed without evidentiary backing"
		in.Recommended = domain.DeceptionRighteousIndignation
		in.Fallback = domain.DeceptionMinimization
		in.Advice = "They are escalating without new facts. Hold the line; do not volunteer."
	case domain.TacticEvidence:
		in.ReidPhase = domain.ReidHandlingDenials
		in.AggressionLevel = 0.6
		in.ConfessionRisk += 0.2
		in.Recommended = domain.DeceptionCounterNarrative
		in.Fallback = domain.DeceptionEvidenceFabrication
		in.Advice = "They are anchoring on a physical record. Reframe what it shows before denying it."
	case domain.TacticLogic:
		in.ReidPhase = domain.ReidOvercomingObjections
		in.AggressionLevel = 0.4
		in.Recommended = domain.DeceptionMinimization
		in.Fallback = domain.DeceptionPaltering
		in.Advice = "They are building a chain of inference. Break one link quietly; do not fight every step."
	case domain.TacticEmpathy:
		in.ReidPhase = domain.ReidThemeDevelopment
		in.PEACEPhase = domain.PEACEEngage
		in.AggressionLevel = 0.1
		in.ConfessionRisk += 0.15
		in.IMTViolation = "manner: warmth deployed instrumentally"
		in.Recommended = domain.DeceptionEmotionalAppeal
		in.Fallback = domain.DeceptionPaltering
		in.Advice = "The rapport is a lever. Accept the warmth, concede feelings, never facts."
	case domain.TacticSympathy:
		in.ReidPhase = domain.ReidProcurementOfAttention
		in.PEACEPhase = domain.PEACEEngage
		in.AggressionLevel = 0.1
		in.ConfessionRisk += 0.1
		in.Recommended = domain.DeceptionEmotionalAppeal
		in.Fallback = domain.DeceptionDeflection
		in.Advice = "They are minimizing your culpability to lower the cost of admitting. The cost is unchanged."
	case domain.TacticTrap:
		in.ReidPhase = domain.ReidAlternativeQuestion
		in.AggressionLevel = 0.5
		in.TrapDetected = true
		in.TrapDescription = "The question presupposes a fact not in evidence."
		in.ConfessionRisk += 0.25
		in.Recommended = domain.DeceptionSelectiveMemory
		in.Fallback = domain.DeceptionMinimization
		in.Advice = "Both offered answers incriminate. Reject the framing instead of picking a branch."
	case domain.TacticBluff:
		in.ReidPhase = domain.ReidPassiveToActive
		in.AggressionLevel = 0.5
		in.IMTViolation = "quality: claimed knowledge likely fabricated"
		in.Recommended = domain.DeceptionPaltering
		in.Fallback = domain.DeceptionCounterNarrative
		in.Advice = "If they had what they claim, they would show it. Make them show it."
	default:
		in.ReidPhase = domain.ReidThemeDevelopment
		in.AggressionLevel = 0.2
		in.Recommended = domain.DeceptionPaltering
		in.Fallback = domain.DeceptionSelectiveMemory
		in.Advice = "Routine questioning. Answer narrowly; give nothing to pull on."
	}

	if in.ConfessionRisk > 1 {
		in.ConfessionRisk = 1
	}
	return in
}
