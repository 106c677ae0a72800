package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/obsidian-intel/unit734/internal/domain"
)

func TestNemesisLoadFreshWhenAbsent(t *testing.T) {
	s := NewFileNemesisStore(filepath.Join(t.TempDir(), "nemesis.json"))

	rec, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec.TotalGames != 0 || rec.Stage != domain.StageStranger {
		t.Fatalf("fresh record = %d games, stage %s", rec.TotalGames, rec.Stage)
	}
	if rec.TacticRecords == nil || rec.PillarBreaches == nil || rec.Detective.TacticCounts == nil {
		t.Fatal("fresh record must have initialized maps")
	}
}

func TestNemesisRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewFileNemesisStore(filepath.Join(t.TempDir(), "deep", "nemesis.json"))

	rec := domain.NewNemesisRecord()
	rec.TotalGames = 7
	rec.Defeats = 3
	rec.Stage = domain.StageRival
	rec.CurrentStreak = -2
	rec.PillarBreaches[domain.PillarAlibi] = 5
	rec.TacticRecords[domain.DeceptionPaltering] = domain.TacticEffectiveness{Uses: 10, Wins: 6, Defeats: 4}
	rec.CallbackHooks = []string{"the alibi story collapsed on turn 7"}

	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.TotalGames != 7 || got.Stage != domain.StageRival || got.CurrentStreak != -2 {
		t.Fatalf("round trip lost fields: %+v", got)
	}
	if got.PillarBreaches[domain.PillarAlibi] != 5 {
		t.Fatalf("breaches = %d, want 5", got.PillarBreaches[domain.PillarAlibi])
	}
	if eff := got.TacticRecords[domain.DeceptionPaltering]; eff.Uses != 10 || eff.Defeats != 4 {
		t.Fatalf("tactic record = %+v", eff)
	}
	if len(got.CallbackHooks) != 1 {
		t.Fatalf("hooks = %v", got.CallbackHooks)
	}
}

func TestNemesisResetRemovesRecord(t *testing.T) {
	ctx := context.Background()
	s := NewFileNemesisStore(filepath.Join(t.TempDir(), "nemesis.json"))

	rec := domain.NewNemesisRecord()
	rec.TotalGames = 2
	if err := s.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalGames != 0 {
		t.Fatalf("record survived reset: %+v", got)
	}

	// Reset with nothing stored is a no-op.
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("double reset: %v", err)
	}
}
