package service

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/obsidian-intel/unit734/internal/domain"
)

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "at": true, "been": true, "but": true,
	"by": true, "did": true, "didn": true, "do": true, "for": true, "from": true,
	"had": true, "have": true, "i": true, "in": true, "is": true, "it": true,
	"my": true, "not": true, "of": true, "on": true, "or": true, "s": true,
	"t": true, "that": true, "the": true, "then": true, "there": true,
	"to": true, "was": true, "wasn": true, "we": true, "were": true,
	"with": true, "you": true,
}

var negationMarkers = []string{
	"not", "n't", "never", "no one", "nobody", "nothing", "wasn't",
	"didn't", "don't", "couldn't", "wouldn't",
}

var (
	wordPattern  = regexp.MustCompile(`[a-zA-Z']+`)
	clockPattern = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*([ap])\.?m\.?\b`)
	numPattern   = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
	namePattern  = regexp.MustCompile(`\b[A-Z][a-z]+\b`)
)

// LieLedger is the append-only claim record for one session. Entries
// are strictly ordered by turn, detective before suspect within a turn.
type LieLedger struct {
	entries        []domain.LedgerEntry
	byPillar       map[domain.Pillar][]int
	contradictions []domain.Contradiction
	logger         *zap.Logger
}

func NewLieLedger(logger *zap.Logger) *LieLedger {
	return &LieLedger{
		byPillar: make(map[domain.Pillar][]int),
		logger:   logger,
	}
}

// Entries returns a copy of the full record.
func (l *LieLedger) Entries() []domain.LedgerEntry {
	out := make([]domain.LedgerEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Contradictions returns every contradiction found so far.
func (l *LieLedger) Contradictions() []domain.Contradiction {
	out := make([]domain.Contradiction, len(l.contradictions))
	copy(out, l.contradictions)
	return out
}

// ContradictionsAtTurn returns contradictions whose later entry was
// recorded on the given turn.
func (l *LieLedger) ContradictionsAtTurn(turn int) []domain.Contradiction {
	var out []domain.Contradiction
	for _, c := range l.contradictions {
		if l.entries[c.LaterEntryID].Turn == turn {
			out = append(out, c)
		}
	}
	return out
}

// Append records one claim and, for suspect claims, runs contradiction
// detection against prior suspect entries on the same pillar. At most
// one contradiction is emitted per new entry; turns must be
// non-decreasing.
func (l *LieLedger) Append(turn int, speaker domain.Speaker, claim string, pillar domain.Pillar, claimType domain.ClaimType, stress float64) (domain.LedgerEntry, *domain.Contradiction, error) {
	if n := len(l.entries); n > 0 && turn < l.entries[n-1].Turn {
		return domain.LedgerEntry{}, nil, fmt.Errorf("ledger turn %d precedes last recorded turn %d", turn, l.entries[n-1].Turn)
	}

	entry := domain.LedgerEntry{
		ID:                len(l.entries),
		Turn:              turn,
		Speaker:           speaker,
		Claim:             claim,
		Pillar:            pillar,
		Type:              claimType,
		StressAtUtterance: stress,
		CreatedAt:         time.Now().UTC(),
	}
	l.entries = append(l.entries, entry)
	if pillar != "" {
		l.byPillar[pillar] = append(l.byPillar[pillar], entry.ID)
	}

	if speaker != domain.SpeakerSuspect || pillar == "" {
		return entry, nil, nil
	}

	contradiction := l.detect(entry)
	if contradiction != nil {
		l.contradictions = append(l.contradictions, *contradiction)
		l.logger.Info("contradiction detected",
			zap.String("kind", string(contradiction.Kind)),
			zap.String("pillar", string(pillar)),
			zap.Int("earlier", contradiction.EarlierEntryID),
			zap.Int("later", contradiction.LaterEntryID))
	}
	return entry, contradiction, nil
}

// Restore replays persisted entries through Append, rebuilding indexes
// and contradictions deterministically.
func (l *LieLedger) Restore(entries []domain.LedgerEntry) error {
	for _, e := range entries {
		if _, _, err := l.Append(e.Turn, e.Speaker, e.Claim, e.Pillar, e.Type, e.StressAtUtterance); err != nil {
			return err
		}
	}
	return nil
}

// detect compares the new suspect entry against prior suspect entries
// on the same pillar with strictly smaller turn numbers. Kinds are
// checked in fixed order; first match wins.
func (l *LieLedger) detect(entry domain.LedgerEntry) *domain.Contradiction {
	newClaim := newClaimFacts(entry.Claim)

	type check struct {
		kind  domain.ContradictionKind
		match func(prior, current claimFacts) (bool, string)
	}
	checks := []check{
		{domain.ContradictionDirect, matchDirect},
		{domain.ContradictionTemporal, matchTemporal},
		{domain.ContradictionQuantitative, matchQuantitative},
		{domain.ContradictionIdentity, matchIdentity},
	}

	for _, chk := range checks {
		for _, id := range l.byPillar[entry.Pillar] {
			prior := l.entries[id]
			if prior.ID == entry.ID || prior.Speaker != domain.SpeakerSuspect || prior.Turn >= entry.Turn {
				continue
			}
			if ok, detail := chk.match(newClaimFacts(prior.Claim), newClaim); ok {
				return &domain.Contradiction{
					EarlierEntryID: prior.ID,
					LaterEntryID:   entry.ID,
					Pillar:         entry.Pillar,
					Kind:           chk.kind,
					Detail:         detail,
				}
			}
		}
	}
	return nil
}

// claimFacts is the normalized view of one claim used by the matchers.
type claimFacts struct {
	raw     string
	tokens  map[string]bool
	negated bool
	hours   []int
	numbers []float64
	names   []string
}

func newClaimFacts(claim string) claimFacts {
	lower := strings.ToLower(claim)
	f := claimFacts{raw: claim, tokens: make(map[string]bool)}

	for _, w := range wordPattern.FindAllString(lower, -1) {
		w = strings.Trim(w, "'")
		if w == "" || stopwords[w] {
			continue
		}
		f.tokens[w] = true
	}

	for _, m := range negationMarkers {
		if strings.Contains(lower, m) {
			f.negated = true
			break
		}
	}

	f.hours = extractHours(lower)

	// Plain numbers, excluding clock-time digits.
	stripped := clockPattern.ReplaceAllString(lower, " ")
	for _, n := range numPattern.FindAllString(stripped, -1) {
		if v, err := strconv.ParseFloat(n, 64); err == nil {
			f.numbers = append(f.numbers, v)
		}
	}

	// Proper names, skipping the sentence-initial word.
	matches := namePattern.FindAllStringIndex(claim, -1)
	for _, loc := range matches {
		if loc[0] == 0 {
			continue
		}
		f.names = append(f.names, claim[loc[0]:loc[1]])
	}
	return f
}

// extractHours maps clock times and dayparts to 24-hour integers.
func extractHours(lower string) []int {
	seen := make(map[int]bool)
	var hours []int
	add := func(h int) {
		if !seen[h] {
			seen[h] = true
			hours = append(hours, h)
		}
	}

	for _, m := range clockPattern.FindAllStringSubmatch(lower, -1) {
		h, err := strconv.Atoi(m[1])
		if err != nil || h < 1 || h > 12 {
			continue
		}
		if m[3] == "p" && h != 12 {
			h += 12
		}
		if m[3] == "a" && h == 12 {
			h = 0
		}
		add(h)
	}
	if strings.Contains(lower, "midnight") {
		add(0)
	}
	if strings.Contains(lower, "noon") {
		add(12)
	}
	sort.Ints(hours)
	return hours
}

func sharedTokens(a, b claimFacts) int {
	n := 0
	for t := range a.tokens {
		if b.tokens[t] {
			n++
		}
	}
	return n
}

// matchDirect: same noun phrases, opposite polarity.
func matchDirect(prior, current claimFacts) (bool, string) {
	if prior.negated == current.negated {
		return false, ""
	}
	shared := sharedTokens(prior, current)
	smaller := len(prior.tokens)
	if len(current.tokens) < smaller {
		smaller = len(current.tokens)
	}
	if smaller == 0 || float64(shared)/float64(smaller) < 0.6 {
		return false, ""
	}
	return true, "opposite polarity on the same statement"
}

// matchTemporal: both claims carry time references that disagree while
// talking about the same thing.
func matchTemporal(prior, current claimFacts) (bool, string) {
	if len(prior.hours) == 0 || len(current.hours) == 0 {
		return false, ""
	}
	if sharedTokens(prior, current) == 0 {
		return false, ""
	}
	if equalInts(prior.hours, current.hours) {
		return false, ""
	}
	return true, "time references disagree"
}

// matchQuantitative: same subject, different numbers.
func matchQuantitative(prior, current claimFacts) (bool, string) {
	if len(prior.numbers) == 0 || len(current.numbers) == 0 {
		return false, ""
	}
	if sharedTokens(prior, current) == 0 {
		return false, ""
	}
	if equalFloats(prior.numbers, current.numbers) {
		return false, ""
	}
	return true, "quantities disagree"
}

// matchIdentity: a different person named in two accounts of the same
// event.
func matchIdentity(prior, current claimFacts) (bool, string) {
	if len(prior.names) == 0 || len(current.names) == 0 {
		return false, ""
	}
	if sharedTokens(prior, current) == 0 {
		return false, ""
	}
	for _, n := range prior.names {
		for _, m := range current.names {
			if n == m {
				return false, ""
			}
		}
	}
	return true, "different person named for the same event"
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
