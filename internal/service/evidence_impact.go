package service

import (
	"go.uber.org/zap"

	"github.com/obsidian-intel/unit734/internal/domain"
)

const (
	// Per-clue damage weight and per-turn per-pillar damage cap.
	ClueDamageWeight = 0.15
	PillarDamageCap  = 0.9
)

// EvidenceImpactAnalyzer converts a vision report into pillar damage
// that feeds the impact calculator's evidence-threat channel.
type EvidenceImpactAnalyzer struct {
	logger *zap.Logger
}

func NewEvidenceImpactAnalyzer(logger *zap.Logger) *EvidenceImpactAnalyzer {
	return &EvidenceImpactAnalyzer{logger: logger}
}

// Damage weighs each detected object, timestamp, and textual clue by
// the report's per-pillar relevance. Damage is bounded at
// PillarDamageCap per pillar per turn.
func (a *EvidenceImpactAnalyzer) Damage(report *domain.EvidenceAnalysisResult) map[domain.Pillar]float64 {
	if report == nil {
		return nil
	}

	clues := len(report.Objects) + len(report.Timestamps)
	if report.TextContent != "" {
		clues++
	}
	if clues == 0 {
		return nil
	}

	damage := make(map[domain.Pillar]float64)
	for pillar, relevance := range report.PillarRelevance {
		if relevance <= 0 {
			continue
		}
		d := domain.ClampRange(relevance, 0, 1) * ClueDamageWeight * float64(clues)
		if d > PillarDamageCap {
			d = PillarDamageCap
		}
		damage[pillar] = d
	}

	a.logger.Debug("evidence image analyzed",
		zap.Int("clues", clues),
		zap.Int("pillars_hit", len(damage)))
	return damage
}

// Threat reduces a damage map to the single evidence-threat scalar and
// the hardest-hit pillar.
func (a *EvidenceImpactAnalyzer) Threat(damage map[domain.Pillar]float64) (float64, domain.Pillar) {
	var maxDamage float64
	var worst domain.Pillar
	for _, p := range domain.Pillars() {
		if d, ok := damage[p]; ok && d > maxDamage {
			maxDamage, worst = d, p
		}
	}
	return maxDamage, worst
}
