package domain

// SessionStats accumulates per-session observations that feed the
// nemesis memory when the session ends.
type SessionStats struct {
	PlayerTacticCounts map[PlayerTactic]int    `json:"player_tactic_counts,omitempty"`
	DeceptionUses      map[DeceptionTactic]int `json:"deception_uses,omitempty"`
	PillarsAttacked    map[Pillar]int          `json:"pillars_attacked,omitempty"`
	FirstAttacked      Pillar                  `json:"first_attacked,omitempty"`
	FirstCollapsed     Pillar                  `json:"first_collapsed,omitempty"`
	Moments            []CriticalMoment        `json:"moments,omitempty"`
}

func NewSessionStats() SessionStats {
	return SessionStats{
		PlayerTacticCounts: make(map[PlayerTactic]int),
		DeceptionUses:      make(map[DeceptionTactic]int),
		PillarsAttacked:    make(map[Pillar]int),
	}
}

// ObserveDetective records one classified detective move.
func (s *SessionStats) ObserveDetective(t PlayerTactic, pillar Pillar) {
	s.PlayerTacticCounts[t]++
	if pillar != "" {
		s.PillarsAttacked[pillar]++
		if s.FirstAttacked == "" {
			s.FirstAttacked = pillar
		}
	}
}

// ObserveDeception records the suspect's chosen tactic.
func (s *SessionStats) ObserveDeception(t DeceptionTactic) {
	s.DeceptionUses[t]++
}

// ObserveCollapse records a pillar collapse.
func (s *SessionStats) ObserveCollapse(p Pillar) {
	if s.FirstCollapsed == "" {
		s.FirstCollapsed = p
	}
}
