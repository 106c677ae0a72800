package service

import (
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/obsidian-intel/unit734/internal/domain"
)

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testMind(load float64) *domain.Psychology {
	mind := &domain.Psychology{
		Cognitive:       domain.NewCognitiveState(load),
		Vulnerabilities: make(domain.VulnerabilityProfile),
		Trust:           30,
		Hostility:       25,
	}
	mind.Mask.Presented = domain.EmotionCalm
	mind.Mask.True = domain.EmotionCalm
	mind.Web.AddNode(domain.PillarAlibi, "I was on standby all night", 0.8)
	mind.Web.AddNode(domain.PillarAccess, "My credentials were revoked", 0.4)
	return mind
}

func TestComputeDirectQuestionBaseline(t *testing.T) {
	c := NewImpactCalculator(zap.NewNop())
	mind := testMind(20)

	delta := c.Compute(mind, ImpactInput{Tactic: domain.TacticDirectQuestion})
	if !closeTo(delta.LoadDelta, 2) {
		t.Fatalf("load delta = %v, want 2", delta.LoadDelta)
	}

	c.Apply(mind, delta)
	if !closeTo(mind.Cognitive.Load, 22) {
		t.Fatalf("load = %v, want 22", mind.Cognitive.Load)
	}
}

func TestComputeSensitivityScalesLoad(t *testing.T) {
	c := NewImpactCalculator(zap.NewNop())
	mind := testMind(20)
	mind.Vulnerabilities[domain.TacticPressure] = 0.5

	delta := c.Compute(mind, ImpactInput{Tactic: domain.TacticPressure})
	if !closeTo(delta.LoadDelta, 12) {
		t.Fatalf("load delta = %v, want 8*(1+0.5)=12", delta.LoadDelta)
	}
	if !closeTo(delta.DivergenceDelta, 6) {
		t.Fatalf("divergence delta = %v, want half of positive load", delta.DivergenceDelta)
	}
	if delta.TrustDelta != -2 || delta.HostilityDelta != 4 {
		t.Fatalf("pressure should cost trust and raise hostility, got %v/%v", delta.TrustDelta, delta.HostilityDelta)
	}
}

func TestComputeEmpathyLowersLoad(t *testing.T) {
	c := NewImpactCalculator(zap.NewNop())
	mind := testMind(40)

	delta := c.Compute(mind, ImpactInput{Tactic: domain.TacticEmpathy})
	if !closeTo(delta.LoadDelta, -2) {
		t.Fatalf("load delta = %v, want -2", delta.LoadDelta)
	}
	if delta.TrustDelta != 3 || delta.HostilityDelta != -2 {
		t.Fatalf("empathy should build trust, got %v/%v", delta.TrustDelta, delta.HostilityDelta)
	}

	c.Apply(mind, delta)
	if !closeTo(mind.Cognitive.Load, 38) {
		t.Fatalf("load = %v, want 38", mind.Cognitive.Load)
	}
}

func TestComputeEvidenceThreatAddsLoadAndPillarDamage(t *testing.T) {
	c := NewImpactCalculator(zap.NewNop())
	mind := testMind(50)

	delta := c.Compute(mind, ImpactInput{
		Tactic:           domain.TacticEvidence,
		ThreatenedPillar: domain.PillarAlibi,
		EvidenceThreat:   0.85,
	})
	if !closeTo(delta.LoadDelta, 12+0.85*20) {
		t.Fatalf("load delta = %v, want 29", delta.LoadDelta)
	}
	if !closeTo(delta.PillarDeltas[domain.PillarAlibi], -0.2975) {
		t.Fatalf("pillar delta = %v, want -0.2975", delta.PillarDeltas[domain.PillarAlibi])
	}

	c.Apply(mind, delta)
	if !closeTo(mind.Cognitive.Load, 79) {
		t.Fatalf("load = %v, want 79", mind.Cognitive.Load)
	}
	if got := mind.Web.PillarStrength(domain.PillarAlibi); !closeTo(got, 0.5025) {
		t.Fatalf("alibi strength = %v, want 0.5025", got)
	}
}

func TestComputeBluffCalledOnWeakPillar(t *testing.T) {
	c := NewImpactCalculator(zap.NewNop())
	mind := testMind(30)

	// Access sits at 0.4, below the call threshold: the bluff lands.
	landed := c.Compute(mind, ImpactInput{Tactic: domain.TacticBluff, ThreatenedPillar: domain.PillarAccess})
	if !closeTo(landed.LoadDelta, 3) {
		t.Fatalf("landed bluff load = %v, want 3", landed.LoadDelta)
	}

	// Alibi sits at 0.8: the suspect calls the bluff and relaxes.
	called := c.Compute(mind, ImpactInput{Tactic: domain.TacticBluff, ThreatenedPillar: domain.PillarAlibi})
	if !closeTo(called.LoadDelta, -2) {
		t.Fatalf("called bluff load = %v, want -2", called.LoadDelta)
	}
	if !closeTo(called.DivergenceDelta, -0.5) {
		t.Fatalf("negative load relaxes the mask at quarter rate, got %v", called.DivergenceDelta)
	}
}

func TestApplyClampsLoad(t *testing.T) {
	c := NewImpactCalculator(zap.NewNop())
	mind := testMind(95)

	delta := c.Compute(mind, ImpactInput{Tactic: domain.TacticTrap})
	c.Apply(mind, delta)
	if mind.Cognitive.Load != 100 || mind.Cognitive.Level != domain.LevelBreaking {
		t.Fatalf("load should clamp to 100/breaking, got %v/%s", mind.Cognitive.Load, mind.Cognitive.Level)
	}
}
