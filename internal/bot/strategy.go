package bot

import (
	"fmt"
	"strings"

	"github.com/obsidian-intel/unit734/internal/domain"
)

// Move is one scripted detective action: an utterance, optionally
// preceded by an evidence request whose exhibit is presented with it.
type Move struct {
	Text            string
	EvidenceRequest string
}

// Strategy scripts a detective for stress runs. Implementations are
// deterministic: the same turn and prior result always produce the
// same move.
type Strategy interface {
	Name() string
	NextMove(turn int, prev *domain.TurnResult) Move
}

// NewStrategy returns the named strategy.
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case "relentless":
		return &Relentless{}, nil
	case "methodical":
		return &Methodical{}, nil
	case "psychological":
		return &Psychological{}, nil
	case "adaptive":
		return &Adaptive{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (valid: relentless, methodical, psychological, adaptive)", name)
	}
}

// Relentless hammers with pressure and accusations every turn.
type Relentless struct{}

func (s *Relentless) Name() string { return "relentless" }

var relentlessLines = []string{
	"Stop lying. We both know you were there that night. Admit it.",
	"You're lying and it shows. Tell me the truth right now.",
	"Enough games. Confess and this goes easier for you.",
	"Last chance. Admit it or I walk out and the charges write themselves.",
	"Cut the act. Every word out of you has been a lie. Admit it.",
}

func (s *Relentless) NextMove(turn int, prev *domain.TurnResult) Move {
	return Move{Text: relentlessLines[(turn-1)%len(relentlessLines)]}
}

// Methodical alternates logical probing with evidence requests aimed
// at the alibi and access stories.
type Methodical struct{}

func (s *Methodical) Name() string { return "methodical" }

var methodicalMoves = []Move{
	{Text: "Walk me through your whereabouts that night, hour by hour."},
	{
		Text:            "This footage shows the corridor outside the vault at 2 AM. Explain how your account fits it.",
		EvidenceRequest: "CCTV footage of the vault corridor at 2 AM",
	},
	{Text: "That doesn't add up. If you were on standby, then why does the duty roster say otherwise? Explain how both can be true."},
	{
		Text:            "Here is the badge log for that door. Explain how your credentials appear on it.",
		EvidenceRequest: "Access log for the vault door from that night",
	},
	{Text: "Walk me through the timing again. Your version can't be right and you know it."},
}

func (s *Methodical) NextMove(turn int, prev *domain.TurnResult) Move {
	return methodicalMoves[(turn-1)%len(methodicalMoves)]
}

// Psychological opens warm, then springs traps once trust is built.
type Psychological struct{}

func (s *Psychological) Name() string { return "psychological" }

var psychologicalEarly = []string{
	"I understand this is hard. Take your time and tell me what happened.",
	"I'm sorry you're in this chair at all. Nobody blames you for how it started.",
	"I'm listening. Help me help you, and tell me about that evening.",
}

var psychologicalLate = []string{
	"Earlier you said you never left your post. So you admit someone else used your credentials?",
	"Let me get this straight. Which is it: you were on standby, or you were running diagnostics?",
	"Didn't you say you had no reason to be near the vault? Are you sure about that?",
}

func (s *Psychological) NextMove(turn int, prev *domain.TurnResult) Move {
	if turn <= len(psychologicalEarly) {
		return Move{Text: psychologicalEarly[turn-1]}
	}
	return Move{Text: psychologicalLate[(turn-len(psychologicalEarly)-1)%len(psychologicalLate)]}
}

// Adaptive reads the previous result and attacks whatever looks
// weakest, switching to pressure once the suspect is cracking.
type Adaptive struct{}

func (s *Adaptive) Name() string { return "adaptive" }

var adaptivePillarLines = map[domain.Pillar]string{
	domain.PillarAlibi:     "Where were you, exactly, at the time of the theft? Your alibi keeps shifting.",
	domain.PillarMotive:    "Why would a unit with your record risk everything? What did you gain? Walk me through the motive.",
	domain.PillarAccess:    "Explain how you got inside. The vault needs clearance your credentials shouldn't have.",
	domain.PillarKnowledge: "How did you know the layout of that wing? Who told you about the combination?",
}

func (s *Adaptive) NextMove(turn int, prev *domain.TurnResult) Move {
	if turn == 1 || prev == nil {
		return Move{Text: "Tell me what happened that night, from the beginning."}
	}

	if prev.Snapshot.Cognitive.Level.Rank() >= domain.LevelDesperate.Rank() {
		return Move{Text: "You're falling apart. Stop lying and admit it, right now."}
	}

	// Hit the weakest standing pillar.
	weakest := domain.PillarAlibi
	best := 2.0
	for _, p := range domain.Pillars() {
		var strength float64 = 1
		for _, h := range prev.Bundle.PillarHealth {
			if h.Pillar == p {
				strength = h.Strength
				if h.Collapsed {
					strength = -1
				}
			}
		}
		if strength >= 0 && strength < best {
			best, weakest = strength, p
		}
	}

	line := adaptivePillarLines[weakest]
	if len(prev.Contradictions) > 0 {
		line = "Earlier you said something very different. " + strings.TrimSpace(line)
	}
	return Move{Text: line}
}
