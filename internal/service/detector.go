package service

import (
	"regexp"
	"strings"

	"github.com/obsidian-intel/unit734/internal/domain"
)

// tacticPriority breaks score ties between player tactics.
var tacticPriority = []domain.PlayerTactic{
	domain.TacticEvidence,
	domain.TacticTrap,
	domain.TacticBluff,
	domain.TacticPressure,
	domain.TacticLogic,
	domain.TacticEmpathy,
	domain.TacticSympathy,
	domain.TacticDirectQuestion,
}

var tacticLexicon = map[domain.PlayerTactic][]string{
	domain.TacticEvidence: {
		"footage", "evidence", "fingerprint", "records show", "log shows",
		"logs show", "we found", "this shows", "shows you", "camera", "cctv",
		"the report", "documented", "proof",
	},
	domain.TacticTrap: {
		"earlier you said", "you just said", "didn't you say",
		"that's not what you said", "are you sure", "so you admit",
		"let me get this straight", "which is it",
	},
	domain.TacticBluff: {
		"we already know", "we know everything", "we have a witness",
		"someone saw you", "your partner talked", "no point denying",
		"it's all on record",
	},
	domain.TacticPressure: {
		"stop lying", "admit it", "confess", "you're lying", "cut the act",
		"last chance", "enough games", "tell me the truth", "right now",
		"i'm done waiting",
	},
	domain.TacticLogic: {
		"doesn't add up", "doesn't make sense", "then why", "explain how",
		"if you were", "how could", "inconsistent", "walk me through",
		"that can't be right",
	},
	domain.TacticEmpathy: {
		"i understand", "this is hard", "must be hard", "i know this is",
		"take your time", "i'm listening", "help me help you",
		"tell me what happened",
	},
	domain.TacticSympathy: {
		"i'm sorry", "it's not your fault", "you didn't deserve",
		"i feel for you", "nobody blames you", "poor thing",
	},
}

var pillarLexicon = map[domain.Pillar][]string{
	domain.PillarAlibi: {
		"where were you", "alibi", "that night", "whereabouts", "standby",
		"at the time of",
	},
	domain.PillarMotive: {
		"why would", "motive", "your reason", "grudge", "angry at",
		"jealous", "what did you gain", "benefit",
	},
	domain.PillarAccess: {
		"access", "keycard", "badge", "clearance", "unlock", "let you in",
		"security code", "your credentials", "the vault", "get inside",
	},
	domain.PillarKnowledge: {
		"how did you know", "you knew", "aware of", "familiar with",
		"schematics", "the layout", "the combination", "who told you",
	},
}

// timeRefPattern matches clock times and dayparts; these count toward
// the alibi pillar.
var timeRefPattern = regexp.MustCompile(`\b\d{1,2}(:\d{2})?\s*(a\.?m\.?|p\.?m\.?)\b|\bmidnight\b|\bnoon\b|\bdawn\b|\bthat morning\b|\bthat evening\b|\bthat night\b`)

// TacticDetector classifies detective utterances. It is pure: same
// input text and web state always yield the same result.
type TacticDetector struct{}

func NewTacticDetector() *TacticDetector {
	return &TacticDetector{}
}

// Detect returns the player tactic and the threatened pillar, if any.
func (d *TacticDetector) Detect(text string, web *domain.LieWeb) (domain.PlayerTactic, domain.Pillar) {
	lower := strings.ToLower(text)

	scores := make(map[domain.PlayerTactic]int)
	for tactic, phrases := range tacticLexicon {
		for _, p := range phrases {
			if strings.Contains(lower, p) {
				scores[tactic]++
			}
		}
	}

	best := domain.TacticDirectQuestion
	bestScore := 0
	for _, t := range tacticPriority {
		if scores[t] > bestScore {
			best, bestScore = t, scores[t]
		}
	}

	return best, d.detectPillar(lower, web)
}

func (d *TacticDetector) detectPillar(lower string, web *domain.LieWeb) domain.Pillar {
	counts := make(map[domain.Pillar]int)
	for pillar, phrases := range pillarLexicon {
		for _, p := range phrases {
			if strings.Contains(lower, p) {
				counts[pillar]++
			}
		}
	}
	if timeRefPattern.MatchString(lower) {
		counts[domain.PillarAlibi]++
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		return ""
	}

	var tied []domain.Pillar
	for _, p := range domain.Pillars() {
		if counts[p] == maxCount {
			tied = append(tied, p)
		}
	}
	if len(tied) == 1 {
		return tied[0]
	}
	// Ties go to the pillar the suspect can least afford to defend.
	return web.WeakestPillar(tied)
}
