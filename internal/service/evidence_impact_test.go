package service

import (
	"testing"

	"go.uber.org/zap"

	"github.com/obsidian-intel/unit734/internal/domain"
)

func TestDamageWeighsCluesByRelevance(t *testing.T) {
	a := NewEvidenceImpactAnalyzer(zap.NewNop())

	report := &domain.EvidenceAnalysisResult{
		Objects:     []string{"android silhouette", "vault door"},
		TextContent: "CAM-07",
		Timestamps:  []string{"02:47"},
		PillarRelevance: map[domain.Pillar]float64{
			domain.PillarAlibi:  0.8,
			domain.PillarAccess: 0.5,
			domain.PillarMotive: 0,
		},
	}

	damage := a.Damage(report)
	// Four clues at weight 0.15 give 0.6 scaled by relevance.
	if !closeTo(damage[domain.PillarAlibi], 0.48) {
		t.Fatalf("alibi damage = %v, want 0.48", damage[domain.PillarAlibi])
	}
	if !closeTo(damage[domain.PillarAccess], 0.3) {
		t.Fatalf("access damage = %v, want 0.3", damage[domain.PillarAccess])
	}
	if _, ok := damage[domain.PillarMotive]; ok {
		t.Fatal("zero relevance must not appear in the damage map")
	}
}

func TestDamageCapsPerPillar(t *testing.T) {
	a := NewEvidenceImpactAnalyzer(zap.NewNop())
	report := &domain.EvidenceAnalysisResult{
		Objects:         []string{"a", "b", "c", "d", "e", "f", "g", "h"},
		PillarRelevance: map[domain.Pillar]float64{domain.PillarAlibi: 1},
	}
	damage := a.Damage(report)
	if !closeTo(damage[domain.PillarAlibi], PillarDamageCap) {
		t.Fatalf("damage = %v, want cap %v", damage[domain.PillarAlibi], PillarDamageCap)
	}
}

func TestDamageNilOrEmptyReport(t *testing.T) {
	a := NewEvidenceImpactAnalyzer(zap.NewNop())
	if got := a.Damage(nil); got != nil {
		t.Fatalf("nil report damage = %v, want nil", got)
	}
	empty := &domain.EvidenceAnalysisResult{
		PillarRelevance: map[domain.Pillar]float64{domain.PillarAlibi: 1},
	}
	if got := a.Damage(empty); got != nil {
		t.Fatalf("clueless report damage = %v, want nil", got)
	}
}

func TestThreatPicksWorstPillar(t *testing.T) {
	a := NewEvidenceImpactAnalyzer(zap.NewNop())
	threat, pillar := a.Threat(map[domain.Pillar]float64{
		domain.PillarAlibi:  0.2,
		domain.PillarAccess: 0.45,
	})
	if !closeTo(threat, 0.45) || pillar != domain.PillarAccess {
		t.Fatalf("threat = %v/%s, want 0.45/access", threat, pillar)
	}

	threat, pillar = a.Threat(nil)
	if threat != 0 || pillar != "" {
		t.Fatalf("empty damage threat = %v/%q, want 0/empty", threat, pillar)
	}
}
