package domain

import "time"

type NemesisStage string

const (
	StageStranger   NemesisStage = "stranger"
	StageAcquainted NemesisStage = "acquainted"
	StageRival      NemesisStage = "rival"
	StageNemesis    NemesisStage = "nemesis"
	StageArchenemy  NemesisStage = "archenemy"
)

// Stage thresholds on total games. Tunable; re-validated during replay
// testing.
const (
	StageAcquaintedGames = 3
	StageRivalGames      = 6
	StageNemesisGames    = 10
	StageArchenemyGames  = 15
)

// StageForGames derives the nemesis stage from total games played. The
// result is monotone non-decreasing in games.
func StageForGames(games int) NemesisStage {
	switch {
	case games >= StageArchenemyGames:
		return StageArchenemy
	case games >= StageNemesisGames:
		return StageNemesis
	case games >= StageRivalGames:
		return StageRival
	case games >= StageAcquaintedGames:
		return StageAcquainted
	default:
		return StageStranger
	}
}

// TacticEffectiveness tracks how one suspect deception tactic has fared
// against this detective across sessions.
type TacticEffectiveness struct {
	Uses    int `json:"uses"`
	Wins    int `json:"wins"`
	Defeats int `json:"defeats"`
}

// Resistance is the fraction of sessions lost while the tactic was in
// play. Tactics at or above the resistance cutoff are suppressed by
// the deception engine.
func (t TacticEffectiveness) Resistance() float64 {
	if t.Uses == 0 {
		return 0
	}
	return float64(t.Defeats) / float64(t.Uses)
}

// DetectiveProfile aggregates observed detective behavior.
type DetectiveProfile struct {
	Aggression      float64              `json:"aggression"`
	BluffFrequency  float64              `json:"bluff_frequency"`
	PreferredOpener Pillar               `json:"preferred_opener,omitempty"`
	TacticCounts    map[PlayerTactic]int `json:"tactic_counts,omitempty"`
}

// CriticalMoment is a memorable beat from a past session, used for
// callback hooks in later games.
type CriticalMoment struct {
	SessionID   string    `json:"session_id"`
	Turn        int       `json:"turn"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NemesisRecord is the persistent cross-session profile of the
// detective. One record per host.
type NemesisRecord struct {
	TotalGames      int                                     `json:"total_games"`
	Victories       int                                     `json:"victories"` // suspect survived
	Defeats         int                                     `json:"defeats"`   // detective won
	Stage           NemesisStage                            `json:"stage"`
	CurrentStreak   int                                     `json:"current_streak"` // positive: suspect streak
	PillarBreaches  map[Pillar]int                          `json:"pillar_breaches,omitempty"`
	FirstLostPillar Pillar                                  `json:"first_lost_pillar,omitempty"`
	TacticRecords   map[DeceptionTactic]TacticEffectiveness `json:"tactic_records,omitempty"`
	Detective       DetectiveProfile                        `json:"detective"`
	CriticalMoments []CriticalMoment                        `json:"critical_moments,omitempty"`
	CallbackHooks   []string                                `json:"callback_hooks,omitempty"`
	UpdatedAt       time.Time                               `json:"updated_at"`
}

func NewNemesisRecord() *NemesisRecord {
	return &NemesisRecord{
		Stage:          StageStranger,
		PillarBreaches: make(map[Pillar]int),
		TacticRecords:  make(map[DeceptionTactic]TacticEffectiveness),
		Detective: DetectiveProfile{
			TacticCounts: make(map[PlayerTactic]int),
		},
	}
}

// LearningInjection is the nemesis memory's per-session advice to the
// deception engine.
type LearningInjection struct {
	Text             string                      `json:"text"`
	OverusedTactic   PlayerTactic                `json:"overused_tactic,omitempty"`
	ReinforcePillar  Pillar                      `json:"reinforce_pillar,omitempty"`
	CallbackHook     string                      `json:"callback_hook,omitempty"`
	TacticResistance map[DeceptionTactic]float64 `json:"tactic_resistance,omitempty"`
}
