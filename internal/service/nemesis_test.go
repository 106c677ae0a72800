package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/obsidian-intel/unit734/internal/domain"
)

// memNemesisStore keeps the record in memory for tests.
type memNemesisStore struct {
	rec *domain.NemesisRecord
}

func (m *memNemesisStore) Load(ctx context.Context) (*domain.NemesisRecord, error) {
	if m.rec == nil {
		return domain.NewNemesisRecord(), nil
	}
	return m.rec, nil
}

func (m *memNemesisStore) Save(ctx context.Context, rec *domain.NemesisRecord) error {
	m.rec = rec
	return nil
}

func (m *memNemesisStore) Reset(ctx context.Context) error {
	m.rec = nil
	return nil
}

func finishedSession(outcome domain.SessionOutcome) *domain.Session {
	return &domain.Session{ID: uuid.New(), CaseID: "vault-theft", Outcome: outcome}
}

func sessionStats() domain.SessionStats {
	stats := domain.NewSessionStats()
	stats.PlayerTacticCounts[domain.TacticPressure] = 6
	stats.PlayerTacticCounts[domain.TacticLogic] = 2
	stats.PlayerTacticCounts[domain.TacticBluff] = 2
	stats.DeceptionUses[domain.DeceptionPaltering] = 5
	stats.PillarsAttacked[domain.PillarAlibi] = 4
	stats.FirstAttacked = domain.PillarAlibi
	stats.FirstCollapsed = domain.PillarAccess
	return stats
}

func TestRecordSessionFoldsOutcome(t *testing.T) {
	ctx := context.Background()
	svc := NewNemesisService(&memNemesisStore{}, nil, nil, zap.NewNop())

	rec, err := svc.RecordSession(ctx, finishedSession(domain.OutcomeConfession), sessionStats())
	if err != nil {
		t.Fatalf("record session: %v", err)
	}
	if rec.TotalGames != 1 || rec.Defeats != 1 || rec.Victories != 0 {
		t.Fatalf("record = %d games, %d defeats, %d victories", rec.TotalGames, rec.Defeats, rec.Victories)
	}
	if rec.CurrentStreak != -1 {
		t.Fatalf("streak = %d, want -1 after a detective win", rec.CurrentStreak)
	}
	if rec.FirstLostPillar != domain.PillarAccess {
		t.Fatalf("first lost pillar = %s, want access", rec.FirstLostPillar)
	}
	eff := rec.TacticRecords[domain.DeceptionPaltering]
	if eff.Uses != 5 || eff.Defeats != 5 || eff.Wins != 0 {
		t.Fatalf("paltering effectiveness = %+v", eff)
	}
	if !closeTo(eff.Resistance(), 1) {
		t.Fatalf("resistance = %v, want 1", eff.Resistance())
	}
}

func TestRecordSessionStreakFlips(t *testing.T) {
	ctx := context.Background()
	svc := NewNemesisService(&memNemesisStore{}, nil, nil, zap.NewNop())

	stats := sessionStats()
	if _, err := svc.RecordSession(ctx, finishedSession(domain.OutcomeTimeout), stats); err != nil {
		t.Fatal(err)
	}
	rec, err := svc.RecordSession(ctx, finishedSession(domain.OutcomeTimeout), stats)
	if err != nil {
		t.Fatal(err)
	}
	if rec.CurrentStreak != 2 {
		t.Fatalf("streak = %d, want 2 suspect wins", rec.CurrentStreak)
	}

	rec, err = svc.RecordSession(ctx, finishedSession(domain.OutcomeCollapse), stats)
	if err != nil {
		t.Fatal(err)
	}
	if rec.CurrentStreak != -1 {
		t.Fatalf("streak = %d, want -1 after the flip", rec.CurrentStreak)
	}
}

func TestStageThresholds(t *testing.T) {
	ctx := context.Background()
	svc := NewNemesisService(&memNemesisStore{}, nil, nil, zap.NewNop())

	stats := sessionStats()
	wantStages := map[int]domain.NemesisStage{
		1: domain.StageStranger, 3: domain.StageAcquainted, 6: domain.StageRival,
		10: domain.StageNemesis, 15: domain.StageArchenemy,
	}
	for game := 1; game <= 15; game++ {
		rec, err := svc.RecordSession(ctx, finishedSession(domain.OutcomeTimeout), stats)
		if err != nil {
			t.Fatal(err)
		}
		if want, ok := wantStages[game]; ok && rec.Stage != want {
			t.Errorf("after %d games stage = %s, want %s", game, rec.Stage, want)
		}
	}
}

func TestInjectionEmptyHistoryReturnsNil(t *testing.T) {
	svc := NewNemesisService(&memNemesisStore{}, nil, nil, zap.NewNop())
	inj, err := svc.Injection(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if inj != nil {
		t.Fatalf("injection with no history = %+v, want nil", inj)
	}
}

func TestInjectionContent(t *testing.T) {
	ctx := context.Background()
	svc := NewNemesisService(&memNemesisStore{}, nil, nil, zap.NewNop())

	stats := sessionStats()
	stats.Moments = []domain.CriticalMoment{{Turn: 7, Description: "the alibi story collapsed on turn 7"}}
	if _, err := svc.RecordSession(ctx, finishedSession(domain.OutcomeCollapse), stats); err != nil {
		t.Fatal(err)
	}

	inj, err := svc.Injection(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if inj == nil {
		t.Fatal("want an injection after one game")
	}
	// Pressure is 6 of 10 moves, past the overuse bar.
	if inj.OverusedTactic != domain.TacticPressure {
		t.Fatalf("overused tactic = %s, want pressure", inj.OverusedTactic)
	}
	if inj.ReinforcePillar != domain.PillarAlibi {
		t.Fatalf("reinforce pillar = %s, want the most breached", inj.ReinforcePillar)
	}
	if inj.CallbackHook != "the alibi story collapsed on turn 7" {
		t.Fatalf("callback hook = %q", inj.CallbackHook)
	}
	if !closeTo(inj.TacticResistance[domain.DeceptionPaltering], 1) {
		t.Fatalf("paltering resistance = %v, want 1", inj.TacticResistance[domain.DeceptionPaltering])
	}
	if !strings.Contains(inj.Text, "faced this detective 1 time(s)") {
		t.Fatalf("injection text missing history line: %q", inj.Text)
	}
}

// recallArchive serves canned similar moments for tests.
type recallArchive struct {
	moments []domain.CriticalMoment
	err     error
}

func (a *recallArchive) ArchiveSession(ctx context.Context, s *domain.Session, entries []domain.LedgerEntry) error {
	return nil
}

func (a *recallArchive) ArchiveMoment(ctx context.Context, m domain.CriticalMoment, embedding []float32) error {
	return nil
}

func (a *recallArchive) SimilarMoments(ctx context.Context, embedding []float32, limit int) ([]domain.CriticalMoment, error) {
	if a.err != nil {
		return nil, a.err
	}
	if limit < len(a.moments) {
		return a.moments[:limit], nil
	}
	return a.moments, nil
}

type stubEmbedder struct {
	err error
}

func (e stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func TestInjectionRecallsArchivedMoment(t *testing.T) {
	ctx := context.Background()
	archive := &recallArchive{moments: []domain.CriticalMoment{
		{Turn: 9, Description: "you went silent when the badge log came out"},
	}}
	svc := NewNemesisService(&memNemesisStore{}, archive, stubEmbedder{}, zap.NewNop())

	stats := sessionStats()
	stats.Moments = []domain.CriticalMoment{{Turn: 7, Description: "the alibi story collapsed on turn 7"}}
	if _, err := svc.RecordSession(ctx, finishedSession(domain.OutcomeCollapse), stats); err != nil {
		t.Fatal(err)
	}

	inj, err := svc.Injection(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if inj.CallbackHook != "you went silent when the badge log came out" {
		t.Fatalf("callback hook = %q, want the recalled moment", inj.CallbackHook)
	}
	if !strings.Contains(inj.Text, "you went silent when the badge log came out") {
		t.Fatalf("injection text missing recalled moment: %q", inj.Text)
	}
}

func TestInjectionRecallFailureFallsBackToRecentHook(t *testing.T) {
	ctx := context.Background()
	archive := &recallArchive{moments: []domain.CriticalMoment{{Description: "unreachable"}}}
	svc := NewNemesisService(&memNemesisStore{}, archive, stubEmbedder{err: context.DeadlineExceeded}, zap.NewNop())

	stats := sessionStats()
	stats.Moments = []domain.CriticalMoment{{Turn: 7, Description: "the alibi story collapsed on turn 7"}}
	if _, err := svc.RecordSession(ctx, finishedSession(domain.OutcomeCollapse), stats); err != nil {
		t.Fatal(err)
	}

	inj, err := svc.Injection(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if inj.CallbackHook != "the alibi story collapsed on turn 7" {
		t.Fatalf("callback hook = %q, want the stored hook", inj.CallbackHook)
	}
}

func TestDominantTacticTieBreaksAlphabetically(t *testing.T) {
	tactic, share := dominantTactic(map[domain.PlayerTactic]int{
		domain.TacticPressure: 3,
		domain.TacticLogic:    3,
	})
	if tactic != domain.TacticLogic {
		t.Fatalf("tie should break alphabetically, got %s", tactic)
	}
	if !closeTo(share, 0.5) {
		t.Fatalf("share = %v, want 0.5", share)
	}
}
