package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/obsidian-intel/unit734/internal/domain"
)

type failingAnalyst struct{}

func (failingAnalyst) Analyze(ctx context.Context, text string, tactic domain.PlayerTactic, level domain.CognitiveLevel) (*domain.AnalystInsight, error) {
	return nil, errors.New("back end down")
}

type echoAnalyst struct{}

func (echoAnalyst) Analyze(ctx context.Context, text string, tactic domain.PlayerTactic, level domain.CognitiveLevel) (*domain.AnalystInsight, error) {
	return &domain.AnalystInsight{Advice: "from the back end"}, nil
}

func TestAnalyzeDegradesWithoutClient(t *testing.T) {
	a := NewShadowAnalyst(nil, time.Second, zap.NewNop())
	insight, degraded := a.Analyze(context.Background(), "stop lying", domain.TacticPressure, domain.LevelStrained)
	if !degraded {
		t.Fatal("nil client must report degradation")
	}
	if insight.Recommended != domain.DeceptionRighteousIndignation {
		t.Fatalf("recommended = %s, want fallback matrix entry", insight.Recommended)
	}
}

func TestAnalyzeDegradesOnBackEndError(t *testing.T) {
	a := NewShadowAnalyst(failingAnalyst{}, time.Second, zap.NewNop())
	insight, degraded := a.Analyze(context.Background(), "we found footage", domain.TacticEvidence, domain.LevelCracking)
	if !degraded {
		t.Fatal("back end error must report degradation")
	}
	if insight.Recommended != domain.DeceptionCounterNarrative {
		t.Fatalf("recommended = %s, want counter_narrative", insight.Recommended)
	}
}

func TestAnalyzeUsesBackEndWhenHealthy(t *testing.T) {
	a := NewShadowAnalyst(echoAnalyst{}, time.Second, zap.NewNop())
	insight, degraded := a.Analyze(context.Background(), "hello", domain.TacticDirectQuestion, domain.LevelControlled)
	if degraded {
		t.Fatal("healthy back end must not report degradation")
	}
	if insight.Advice != "from the back end" {
		t.Fatalf("advice = %q", insight.Advice)
	}
}

func TestFallbackInsightMatrix(t *testing.T) {
	cases := []struct {
		tactic      domain.PlayerTactic
		recommended domain.DeceptionTactic
		trap        bool
	}{
		{domain.TacticPressure, domain.DeceptionRighteousIndignation, false},
		{domain.TacticEvidence, domain.DeceptionCounterNarrative, false},
		{domain.TacticLogic, domain.DeceptionMinimization, false},
		{domain.TacticEmpathy, domain.DeceptionEmotionalAppeal, false},
		{domain.TacticSympathy, domain.DeceptionEmotionalAppeal, false},
		{domain.TacticTrap, domain.DeceptionSelectiveMemory, true},
		{domain.TacticBluff, domain.DeceptionPaltering, false},
		{domain.TacticDirectQuestion, domain.DeceptionPaltering, false},
	}
	for _, tc := range cases {
		in := FallbackInsight(tc.tactic, domain.LevelStrained)
		if in.Recommended != tc.recommended {
			t.Errorf("%s: recommended = %s, want %s", tc.tactic, in.Recommended, tc.recommended)
		}
		if in.TrapDetected != tc.trap {
			t.Errorf("%s: trap detected = %v", tc.tactic, in.TrapDetected)
		}
		if in.Advice == "" {
			t.Errorf("%s: missing advice", tc.tactic)
		}
	}
}

func TestFallbackConfessionRiskScalesWithLevel(t *testing.T) {
	low := FallbackInsight(domain.TacticLogic, domain.LevelControlled)
	high := FallbackInsight(domain.TacticLogic, domain.LevelBreaking)
	if low.ConfessionRisk >= high.ConfessionRisk {
		t.Fatalf("risk should rise with level: %v vs %v", low.ConfessionRisk, high.ConfessionRisk)
	}
	trapped := FallbackInsight(domain.TacticTrap, domain.LevelBreaking)
	if trapped.ConfessionRisk > 1 {
		t.Fatalf("risk = %v, must clamp at 1", trapped.ConfessionRisk)
	}
}
