package service

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/obsidian-intel/unit734/internal/domain"
)

func TestPlanPicksTypeByPillar(t *testing.T) {
	p := NewCounterEvidencePlanner(zap.NewNop())

	cases := []struct {
		pillar domain.Pillar
		want   domain.CounterEvidenceType
	}{
		{domain.PillarAlibi, domain.CounterModifiedTimestamp},
		{domain.PillarAccess, domain.CounterFakeLogEntry},
		{domain.PillarMotive, domain.CounterCharacterReference},
		{domain.PillarKnowledge, domain.CounterDiagnosticLog},
	}
	for _, tc := range cases {
		plan := p.Plan(testMind(20), tc.pillar, false)
		if plan == nil {
			t.Fatalf("%s: plan refused at low load", tc.pillar)
		}
		if plan.Type != tc.want {
			t.Errorf("%s: type = %s, want %s", tc.pillar, plan.Type, tc.want)
		}
		if plan.Narrative == "" || plan.Prompt == "" {
			t.Errorf("%s: plan missing narrative or prompt", tc.pillar)
		}
	}
}

func TestPlanPhysicalEvidenceGetsSensorMalfunction(t *testing.T) {
	p := NewCounterEvidencePlanner(zap.NewNop())
	plan := p.Plan(testMind(20), domain.PillarAlibi, true)
	if plan == nil || plan.Type != domain.CounterSensorMalfunction {
		t.Fatalf("physical evidence should draw sensor_malfunction, got %+v", plan)
	}
}

func TestPlanConfidenceBlendsLoadAndCollapse(t *testing.T) {
	p := NewCounterEvidencePlanner(zap.NewNop())

	mind := testMind(40)
	plan := p.Plan(mind, domain.PillarAlibi, false)
	if plan == nil {
		t.Fatal("plan refused")
	}
	if !closeTo(plan.FabricationConfidence, 0.6) {
		t.Fatalf("confidence = %v, want 0.6", plan.FabricationConfidence)
	}
	if !closeTo(plan.DetectionRisk, 0.4) {
		t.Fatalf("risk = %v, want 0.4", plan.DetectionRisk)
	}

	// A collapsed pillar adds 0.125 desperation per quarter of the web.
	mind.Web.Damage(domain.PillarAccess, 1)
	plan = p.Plan(mind, domain.PillarAlibi, false)
	if plan == nil {
		t.Fatal("plan refused")
	}
	if !closeTo(plan.FabricationConfidence, 0.475) {
		t.Fatalf("confidence = %v, want 0.475", plan.FabricationConfidence)
	}
}

func TestPlanRefusedWhenTooDesperate(t *testing.T) {
	p := NewCounterEvidencePlanner(zap.NewNop())
	if plan := p.Plan(testMind(80), domain.PillarAlibi, false); plan != nil {
		t.Fatalf("confidence 0.2 sits under the gate, got %+v", plan)
	}
	if plan := p.Plan(testMind(70), domain.PillarAlibi, false); plan == nil {
		t.Fatal("confidence 0.3 clears the gate")
	}
}

func TestApplyRefusalPenalty(t *testing.T) {
	p := NewCounterEvidencePlanner(zap.NewNop())
	plan := p.Plan(testMind(20), domain.PillarAlibi, false)
	if plan == nil {
		t.Fatal("plan refused")
	}
	before := plan.FabricationConfidence

	p.ApplyRefusalPenalty(plan)
	if !closeTo(plan.FabricationConfidence, before-0.3) {
		t.Fatalf("confidence = %v, want %v", plan.FabricationConfidence, before-0.3)
	}
	if !closeTo(plan.DetectionRisk, 1-plan.FabricationConfidence) {
		t.Fatalf("risk must stay the confidence complement, got %v", plan.DetectionRisk)
	}
	if !strings.Contains(plan.Narrative, "No exhibit available") {
		t.Fatalf("narrative missing refusal note: %q", plan.Narrative)
	}
}
