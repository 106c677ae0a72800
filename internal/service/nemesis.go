package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/obsidian-intel/unit734/internal/domain"
)

const (
	// DetectiveProfileSmoothing blends per-session observations into the
	// long-running detective profile.
	DetectiveProfileSmoothing = 0.3

	// MaxStoredMoments bounds the critical-moment history.
	MaxStoredMoments = 20

	// OverusedTacticShare marks a detective tactic as overused when it
	// accounts for at least this share of the detective's moves.
	OverusedTacticShare = 0.4
)

// Aggression contribution per detective tactic, used when folding a
// session into the detective profile.
var tacticAggression = map[domain.PlayerTactic]float64{
	domain.TacticPressure:       1.0,
	domain.TacticTrap:           0.8,
	domain.TacticEvidence:       0.6,
	domain.TacticBluff:          0.6,
	domain.TacticLogic:          0.4,
	domain.TacticDirectQuestion: 0.3,
	domain.TacticEmpathy:        0.1,
	domain.TacticSympathy:       0.1,
}

// NemesisService folds finished sessions into the persistent detective
// profile and emits per-session learning for the deception engine.
// Archive and embedder are optional; with both configured, callback
// hooks come from similarity search over archived moments instead of
// plain recency.
type NemesisService struct {
	store    domain.NemesisStore
	archive  domain.SessionArchive
	embedder domain.EmbeddingClient
	logger   *zap.Logger
}

func NewNemesisService(store domain.NemesisStore, archive domain.SessionArchive, embedder domain.EmbeddingClient, logger *zap.Logger) *NemesisService {
	return &NemesisService{store: store, archive: archive, embedder: embedder, logger: logger}
}

// Record loads the current record without mutating it.
func (n *NemesisService) Record(ctx context.Context) (*domain.NemesisRecord, error) {
	rec, err := n.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load nemesis record: %w", err)
	}
	return rec, nil
}

// Reset wipes the detective profile.
func (n *NemesisService) Reset(ctx context.Context) error {
	return n.store.Reset(ctx)
}

// RecordSession folds one finished session into the nemesis record and
// persists it. A collapse or confession outcome counts as a detective
// win; everything else as suspect survival.
func (n *NemesisService) RecordSession(ctx context.Context, s *domain.Session, stats domain.SessionStats) (*domain.NemesisRecord, error) {
	rec, err := n.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load nemesis record: %w", err)
	}

	detectiveWon := s.Outcome == domain.OutcomeConfession || s.Outcome == domain.OutcomeCollapse

	rec.TotalGames++
	if detectiveWon {
		rec.Defeats++
		if rec.CurrentStreak > 0 {
			rec.CurrentStreak = 0
		}
		rec.CurrentStreak--
	} else {
		rec.Victories++
		if rec.CurrentStreak < 0 {
			rec.CurrentStreak = 0
		}
		rec.CurrentStreak++
	}
	rec.Stage = domain.StageForGames(rec.TotalGames)

	for tactic, uses := range stats.DeceptionUses {
		eff := rec.TacticRecords[tactic]
		eff.Uses += uses
		if detectiveWon {
			eff.Defeats += uses
		} else {
			eff.Wins += uses
		}
		rec.TacticRecords[tactic] = eff
	}

	for pillar, hits := range stats.PillarsAttacked {
		rec.PillarBreaches[pillar] += hits
	}
	if rec.FirstLostPillar == "" && stats.FirstCollapsed != "" {
		rec.FirstLostPillar = stats.FirstCollapsed
	}

	n.foldDetectiveProfile(rec, stats)

	for _, m := range stats.Moments {
		rec.CriticalMoments = append(rec.CriticalMoments, m)
		rec.CallbackHooks = append(rec.CallbackHooks, m.Description)
	}
	if len(rec.CriticalMoments) > MaxStoredMoments {
		rec.CriticalMoments = rec.CriticalMoments[len(rec.CriticalMoments)-MaxStoredMoments:]
	}
	if len(rec.CallbackHooks) > MaxStoredMoments {
		rec.CallbackHooks = rec.CallbackHooks[len(rec.CallbackHooks)-MaxStoredMoments:]
	}

	rec.UpdatedAt = time.Now().UTC()
	if err := n.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save nemesis record: %w", err)
	}

	n.logger.Info("session folded into nemesis record",
		zap.String("session_id", s.ID.String()),
		zap.String("outcome", string(s.Outcome)),
		zap.Int("total_games", rec.TotalGames),
		zap.String("stage", string(rec.Stage)))
	return rec, nil
}

func (n *NemesisService) foldDetectiveProfile(rec *domain.NemesisRecord, stats domain.SessionStats) {
	var moves int
	var aggression float64
	for tactic, count := range stats.PlayerTacticCounts {
		rec.Detective.TacticCounts[tactic] += count
		moves += count
		aggression += tacticAggression[tactic] * float64(count)
	}
	if moves == 0 {
		return
	}

	sessionAggression := aggression / float64(moves)
	sessionBluff := float64(stats.PlayerTacticCounts[domain.TacticBluff]) / float64(moves)
	if rec.TotalGames <= 1 {
		rec.Detective.Aggression = sessionAggression
		rec.Detective.BluffFrequency = sessionBluff
	} else {
		rec.Detective.Aggression += DetectiveProfileSmoothing * (sessionAggression - rec.Detective.Aggression)
		rec.Detective.BluffFrequency += DetectiveProfileSmoothing * (sessionBluff - rec.Detective.BluffFrequency)
	}
	if rec.Detective.PreferredOpener == "" {
		rec.Detective.PreferredOpener = stats.FirstAttacked
	}
}

// Injection builds the learning packet for a new session. Nil with no
// error means there is no history yet.
func (n *NemesisService) Injection(ctx context.Context) (*domain.LearningInjection, error) {
	rec, err := n.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load nemesis record: %w", err)
	}
	if rec.TotalGames == 0 {
		return nil, nil
	}

	inj := &domain.LearningInjection{
		TacticResistance: make(map[domain.DeceptionTactic]float64),
	}
	for tactic, eff := range rec.TacticRecords {
		inj.TacticResistance[tactic] = eff.Resistance()
	}

	var parts []string
	parts = append(parts, fmt.Sprintf(
		"You have faced this detective %d time(s) before. Stage: %s.",
		rec.TotalGames, rec.Stage))

	if tactic, share := dominantTactic(rec.Detective.TacticCounts); tactic != "" && share >= OverusedTacticShare {
		inj.OverusedTactic = tactic
		parts = append(parts, fmt.Sprintf(
			"They lean heavily on %s (%d%% of their moves); expect it and do not reward it.",
			tactic, int(share*100)))
	}

	if pillar := mostBreachedPillar(rec.PillarBreaches); pillar != "" {
		inj.ReinforcePillar = pillar
		parts = append(parts, fmt.Sprintf(
			"Your %s story has taken the most damage historically; keep it short and rehearsed.", pillar))
	} else if rec.FirstLostPillar != "" {
		inj.ReinforcePillar = rec.FirstLostPillar
		parts = append(parts, fmt.Sprintf(
			"Your %s story failed first last time; keep it short and rehearsed.", rec.FirstLostPillar))
	}

	hook := n.recallHook(ctx, inj.ReinforcePillar)
	if hook == "" && len(rec.CallbackHooks) > 0 {
		hook = rec.CallbackHooks[len(rec.CallbackHooks)-1]
	}
	if hook != "" {
		inj.CallbackHook = hook
		parts = append(parts, fmt.Sprintf(
			"You may reference a past exchange: %q.", hook))
	}

	inj.Text = strings.Join(parts, " ")
	return inj, nil
}

// recallHook finds the archived moment nearest the pillar under
// reinforcement. Empty when recall is not configured or fails; the
// caller falls back to the most recent hook.
func (n *NemesisService) recallHook(ctx context.Context, pillar domain.Pillar) string {
	if n.archive == nil || n.embedder == nil || pillar == "" {
		return ""
	}

	vec, err := n.embedder.Embed(ctx, fmt.Sprintf("the detective breaking the suspect's %s story", pillar))
	if err != nil {
		n.logger.Warn("callback hook embedding failed", zap.Error(err))
		return ""
	}
	moments, err := n.archive.SimilarMoments(ctx, vec, 1)
	if err != nil {
		n.logger.Warn("callback hook recall failed", zap.Error(err))
		return ""
	}
	if len(moments) == 0 {
		return ""
	}
	return moments[0].Description
}

// dominantTactic returns the detective's most used tactic and its share
// of all moves. Ties break alphabetically for determinism.
func dominantTactic(counts map[domain.PlayerTactic]int) (domain.PlayerTactic, float64) {
	var total int
	tactics := make([]domain.PlayerTactic, 0, len(counts))
	for t, c := range counts {
		total += c
		tactics = append(tactics, t)
	}
	if total == 0 {
		return "", 0
	}
	sort.Slice(tactics, func(i, j int) bool { return tactics[i] < tactics[j] })

	var best domain.PlayerTactic
	var bestCount int
	for _, t := range tactics {
		if counts[t] > bestCount {
			best, bestCount = t, counts[t]
		}
	}
	return best, float64(bestCount) / float64(total)
}

func mostBreachedPillar(breaches map[domain.Pillar]int) domain.Pillar {
	var best domain.Pillar
	var bestCount int
	for _, p := range domain.Pillars() {
		if breaches[p] > bestCount {
			best, bestCount = p, breaches[p]
		}
	}
	return best
}
