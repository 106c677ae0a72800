package bot

import (
	"strings"
	"testing"

	"github.com/obsidian-intel/unit734/internal/domain"
)

func TestNewStrategy(t *testing.T) {
	for _, name := range []string{"relentless", "methodical", "psychological", "adaptive"} {
		s, err := NewStrategy(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if s.Name() != name {
			t.Fatalf("name = %s, want %s", s.Name(), name)
		}
	}
	if _, err := NewStrategy("chaotic"); err == nil {
		t.Fatal("unknown strategy must error")
	}
}

func TestRelentlessCycles(t *testing.T) {
	s := &Relentless{}
	first := s.NextMove(1, nil)
	again := s.NextMove(1+len(relentlessLines), nil)
	if first.Text != again.Text {
		t.Fatalf("turn 1 and wrap-around differ: %q vs %q", first.Text, again.Text)
	}
	if first.EvidenceRequest != "" {
		t.Fatal("relentless never requests evidence")
	}
}

func TestMethodicalRequestsEvidence(t *testing.T) {
	s := &Methodical{}
	var requests int
	for turn := 1; turn <= len(methodicalMoves); turn++ {
		if s.NextMove(turn, nil).EvidenceRequest != "" {
			requests++
		}
	}
	if requests != 2 {
		t.Fatalf("evidence requests per cycle = %d, want 2", requests)
	}
}

func TestPsychologicalWarmsUpThenTraps(t *testing.T) {
	s := &Psychological{}
	if got := s.NextMove(1, nil).Text; !strings.Contains(got, "I understand") {
		t.Fatalf("turn 1 = %q, want a warm opener", got)
	}
	late := s.NextMove(4, nil).Text
	if !strings.Contains(late, "you admit someone else") {
		t.Fatalf("turn 4 = %q, want the first trap line", late)
	}
}

func adaptivePrev(load float64, health []domain.PillarHealth) *domain.TurnResult {
	res := &domain.TurnResult{}
	res.Snapshot.Cognitive = domain.NewCognitiveState(load)
	res.Bundle.PillarHealth = health
	return res
}

func TestAdaptiveOpensNeutral(t *testing.T) {
	s := &Adaptive{}
	if got := s.NextMove(1, nil).Text; !strings.Contains(got, "from the beginning") {
		t.Fatalf("opening move = %q", got)
	}
}

func TestAdaptivePressuresWhenDesperate(t *testing.T) {
	s := &Adaptive{}
	prev := adaptivePrev(85, nil)
	if got := s.NextMove(2, prev).Text; !strings.Contains(got, "falling apart") {
		t.Fatalf("desperate move = %q", got)
	}
}

func TestAdaptiveAttacksWeakestStandingPillar(t *testing.T) {
	s := &Adaptive{}
	prev := adaptivePrev(40, []domain.PillarHealth{
		{Pillar: domain.PillarAlibi, Strength: 0.1, Collapsed: true},
		{Pillar: domain.PillarAccess, Strength: 0.3},
		{Pillar: domain.PillarMotive, Strength: 0.9},
		{Pillar: domain.PillarKnowledge, Strength: 0.6},
	})
	got := s.NextMove(2, prev).Text
	if got != adaptivePillarLines[domain.PillarAccess] {
		t.Fatalf("move = %q, want the access line", got)
	}
}

func TestAdaptiveCallsOutContradictions(t *testing.T) {
	s := &Adaptive{}
	prev := adaptivePrev(40, []domain.PillarHealth{
		{Pillar: domain.PillarAlibi, Strength: 0.5},
	})
	prev.Contradictions = []domain.Contradiction{{}}
	got := s.NextMove(3, prev).Text
	if !strings.HasPrefix(got, "Earlier you said something very different. ") {
		t.Fatalf("move = %q, want contradiction prefix", got)
	}
}
