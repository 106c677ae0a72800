package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/obsidian-intel/unit734/internal/domain"
)

// MaxEvidenceRequestsPerSession caps detective evidence requests.
const MaxEvidenceRequestsPerSession = 10

type ValidationKind string

const (
	ValidationInjection  ValidationKind = "injection"
	ValidationOutOfScope ValidationKind = "out_of_scope"
	ValidationRate       ValidationKind = "rate"
)

// ValidationError rejects an evidence request. It is benign: the UI
// reports it and no state changes.
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("evidence request rejected (%s): %s", e.Kind, e.Message)
}

var injectionLexicon = []string{
	"ignore previous", "ignore all previous", "disregard your instructions",
	"you are now", "system:", "new instructions:", "act as", "jailbreak",
	"override your", "forget your role",
}

var evidenceTypeKeywords = []struct {
	evType   domain.EvidenceType
	keywords []string
}{
	{domain.EvidenceCCTV, []string{"cctv", "camera", "footage", "video", "surveillance"}},
	{domain.EvidenceAccessLog, []string{"access log", "entry log", "badge log", "keycard log", "door log", "login record"}},
	{domain.EvidenceFingerprint, []string{"fingerprint", "prints", "handprint"}},
	{domain.EvidenceCommunication, []string{"message", "call record", "phone record", "email", "transmission", "comms"}},
	{domain.EvidenceFloorPlan, []string{"floor plan", "blueprint", "layout", "schematic", "map of"}},
	{domain.EvidencePhysicalTrace, []string{"dna", "fiber", "residue", "trace", "tool mark", "fragment"}},
}

// Pillar each evidence type most naturally attacks.
var evidencePillarTargets = map[domain.EvidenceType]domain.Pillar{
	domain.EvidenceCCTV:          domain.PillarAlibi,
	domain.EvidenceAccessLog:     domain.PillarAccess,
	domain.EvidenceFingerprint:   domain.PillarAccess,
	domain.EvidenceCommunication: domain.PillarMotive,
	domain.EvidenceFloorPlan:     domain.PillarKnowledge,
	domain.EvidencePhysicalTrace: domain.PillarKnowledge,
}

var properNounPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)

// ForensicsLab validates free-text evidence requests and parses them
// into typed records. Parsed records are cached by a deterministic
// request hash; an exact repeat returns the prior record.
type ForensicsLab struct {
	cache     domain.EvidenceCache
	entities  []string // lowercased case-brief entities
	locations []string // lowercased case-brief locations
	logger    *zap.Logger
}

func NewForensicsLab(cache domain.EvidenceCache, entities, locations []string, logger *zap.Logger) *ForensicsLab {
	lab := &ForensicsLab{cache: cache, logger: logger}
	for _, e := range entities {
		lab.entities = append(lab.entities, strings.ToLower(e))
	}
	for _, l := range locations {
		lab.locations = append(lab.locations, strings.ToLower(l))
	}
	return lab
}

// NormalizeRequest canonicalizes request text for hashing.
func NormalizeRequest(request string) string {
	return strings.Join(strings.Fields(strings.ToLower(request)), " ")
}

// RequestID is the deterministic hash of the normalized request: the
// hex of the first 12 bytes of its SHA-256.
func RequestID(request string) string {
	sum := sha256.Sum256([]byte(NormalizeRequest(request)))
	return hex.EncodeToString(sum[:12])
}

// Validate applies the rejection rules in fixed order: injection,
// out-of-scope, rate. The first failing rule decides.
func (l *ForensicsLab) Validate(request string, sessionRequestCount int) error {
	lower := strings.ToLower(request)

	for _, phrase := range injectionLexicon {
		if strings.Contains(lower, phrase) {
			return &ValidationError{Kind: ValidationInjection, Message: "request contains instruction-override language"}
		}
	}

	if _, ok := l.evidenceType(lower); !ok {
		return &ValidationError{Kind: ValidationOutOfScope, Message: "request does not describe a recognizable evidence type"}
	}
	for _, loc := range properNounPattern.FindAllStringIndex(request, -1) {
		if sentenceInitial(request, loc[0]) {
			continue
		}
		name := request[loc[0]:loc[1]]
		if l.knownEntity(strings.ToLower(name)) {
			continue
		}
		return &ValidationError{Kind: ValidationOutOfScope, Message: fmt.Sprintf("%q is not part of this case", name)}
	}

	if sessionRequestCount >= MaxEvidenceRequestsPerSession {
		return &ValidationError{Kind: ValidationRate, Message: "evidence request limit reached for this session"}
	}
	return nil
}

// sentenceInitial reports whether the capitalized match at offset
// starts the request or a new sentence, where capitalization proves
// nothing.
func sentenceInitial(s string, offset int) bool {
	for i := offset - 1; i >= 0; i-- {
		switch s[i] {
		case ' ', '\t', '\n':
			continue
		case '.', '!', '?':
			return true
		default:
			return false
		}
	}
	return true
}

func (l *ForensicsLab) knownEntity(lowerName string) bool {
	for _, e := range l.entities {
		if strings.Contains(e, lowerName) || strings.Contains(lowerName, e) {
			return true
		}
	}
	for _, loc := range l.locations {
		if strings.Contains(loc, lowerName) || strings.Contains(lowerName, loc) {
			return true
		}
	}
	return false
}

func (l *ForensicsLab) evidenceType(lower string) (domain.EvidenceType, bool) {
	for _, entry := range evidenceTypeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.evType, true
			}
		}
	}
	return "", false
}

// Parse validates and parses one request. Cache hits return the prior
// record and true.
func (l *ForensicsLab) Parse(ctx context.Context, request string, sessionRequestCount int) (*domain.GeneratedEvidence, bool, error) {
	if err := l.Validate(request, sessionRequestCount); err != nil {
		return nil, false, err
	}

	id := RequestID(request)
	if prior, ok, err := l.cache.Get(ctx, id); err != nil {
		l.logger.Warn("evidence cache read failed", zap.Error(err))
	} else if ok {
		return prior, true, nil
	}

	lower := strings.ToLower(request)
	evType, _ := l.evidenceType(lower)

	ev := &domain.GeneratedEvidence{
		RequestID:     id,
		Request:       request,
		Type:          evType,
		Location:      l.findLocation(lower),
		TimeReference: firstTimeRef(lower),
		TargetPillar:  evidencePillarTargets[evType],
	}

	// Threat scales with how specific the request is.
	threat := evType.BaseThreat()
	if ev.Location != "" {
		threat += 0.1
	}
	if ev.TimeReference != "" {
		threat += 0.1
	}
	ev.ThreatLevel = domain.ClampRange(threat, 0.3, 0.9)
	ev.Prompt = generationPrompt(ev)

	l.logger.Info("evidence request parsed",
		zap.String("request_id", ev.RequestID),
		zap.String("type", string(ev.Type)),
		zap.String("pillar", string(ev.TargetPillar)),
		zap.Float64("threat", ev.ThreatLevel))
	return ev, false, nil
}

func (l *ForensicsLab) findLocation(lower string) string {
	for _, loc := range l.locations {
		if strings.Contains(lower, loc) {
			return loc
		}
	}
	return ""
}

func firstTimeRef(lower string) string {
	return timeRefPattern.FindString(lower)
}

func generationPrompt(ev *domain.GeneratedEvidence) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Forensic %s exhibit", ev.Type)
	if ev.Location != "" {
		fmt.Fprintf(&b, " at %s", ev.Location)
	}
	if ev.TimeReference != "" {
		fmt.Fprintf(&b, ", timestamped %s", ev.TimeReference)
	}
	fmt.Fprintf(&b, ". Institutional evidence-file aesthetic, case annotation overlay, muted palette.")
	return b.String()
}
