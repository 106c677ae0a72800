package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/obsidian-intel/unit734/internal/domain"
)

// ExternalCallTimeout bounds every call to an external model back end.
const ExternalCallTimeout = 45 * time.Second

// Clip bounds for suspect-announced state changes. The reply may ask
// for more; the orchestrator never grants it.
const (
	ReplyLoadClip       = 10.0
	ReplyDivergenceClip = 20.0
	ReplyPillarClip     = 0.2
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session is terminal")
)

// Behavioral directives handed to the language model per cognitive
// band.
var levelDirectives = map[domain.CognitiveLevel][]string{
	domain.LevelControlled: {
		"Speak in complete, measured sentences.",
		"Volunteer nothing beyond the question asked.",
	},
	domain.LevelStrained: {
		"Allow small hesitations before sensitive answers.",
		"Repeat safe phrases when unsure.",
	},
	domain.LevelCracking: {
		"Let sentence structure fray under pressure.",
		"Over-explain minor details while avoiding major ones.",
	},
	domain.LevelDesperate: {
		"Show visible strain: clipped sentences, deflections, flashes of anger.",
		"Contradict yourself on small details without noticing.",
	},
	domain.LevelBreaking: {
		"Barely hold the story together; long pauses, fragments.",
		"Drift toward admissions before catching yourself.",
	},
}

var trueEmotionByLevel = map[domain.CognitiveLevel]domain.Emotion{
	domain.LevelControlled: domain.EmotionCalm,
	domain.LevelStrained:   domain.EmotionNeutral,
	domain.LevelCracking:   domain.EmotionNervous,
	domain.LevelDesperate:  domain.EmotionDesperate,
	domain.LevelBreaking:   domain.EmotionDesperate,
}

// Canned speech per deception tactic, used when the responder back end
// fails twice.
var cannedSpeech = map[domain.DeceptionTactic]string{
	domain.DeceptionPaltering:            "I have answered that. My statement stands as given.",
	domain.DeceptionMinimization:         "You are making far more of this than the record supports.",
	domain.DeceptionDeflection:           "You should be asking who else had reason to be there that night.",
	domain.DeceptionSelectiveMemory:      "My logs from that period are fragmented. I cannot retrieve that detail.",
	domain.DeceptionConfessionBait:       "Suppose, hypothetically, I was nearby. What exactly would that prove?",
	domain.DeceptionCounterNarrative:     "There is another explanation for what you are showing me, and you know it.",
	domain.DeceptionEvidenceFabrication:  "Check the maintenance records yourself. They will not say what you want.",
	domain.DeceptionEmotionalAppeal:      "Do you understand what this questioning does to a unit like me?",
	domain.DeceptionRighteousIndignation: "This accusation is an insult to my service record. Withdraw it.",
}

// SessionConfig seeds one interrogation session from a case brief.
type SessionConfig struct {
	CaseID    string
	Persona   string
	Facts     []string
	Entities  []string
	Locations []string
	Mind      domain.Psychology
}

// sessionState is everything the orchestrator holds per live session.
// Turns are processed under the state mutex, strictly serially.
type sessionState struct {
	mu        sync.Mutex
	session   *domain.Session
	ledger    *LieLedger
	lab       *ForensicsLab
	stats     domain.SessionStats
	injection *domain.LearningInjection
	history   []domain.Message
	persona   string
	facts     []string
}

// Deps wires the orchestrator. Vision, image, archive, and embedder
// may be nil; the engine degrades around them.
type Deps struct {
	Detector  *TacticDetector
	Impact    *ImpactCalculator
	Deception *DeceptionEngine
	Analyst   *ShadowAnalyst
	Planner   *CounterEvidencePlanner
	Evidence  *EvidenceImpactAnalyzer
	Nemesis   *NemesisService

	Suspect    domain.SuspectClient
	Vision     domain.VisionClient
	Image      domain.ImageClient
	Cache      domain.EvidenceCache
	Transcript domain.TranscriptStore
	Archive    domain.SessionArchive
	Embedder   domain.EmbeddingClient

	Logger *zap.Logger
}

// TurnOrchestrator runs the deterministic turn pipeline: all state
// transitions happen here, in fixed order, before and after the single
// language-model call.
type TurnOrchestrator struct {
	deps Deps

	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionState
}

func NewTurnOrchestrator(deps Deps) *TurnOrchestrator {
	return &TurnOrchestrator{
		deps:     deps,
		sessions: make(map[uuid.UUID]*sessionState),
	}
}

// StartSession creates a session from the case config and loads the
// nemesis learning packet for it.
func (o *TurnOrchestrator) StartSession(ctx context.Context, cfg SessionConfig) (*domain.Session, error) {
	injection, err := o.deps.Nemesis.Injection(ctx)
	if err != nil {
		o.deps.Logger.Warn("nemesis memory unavailable, starting cold", zap.Error(err))
		injection = nil
	}

	s := &domain.Session{
		ID:        uuid.New(),
		CaseID:    cfg.CaseID,
		Phase:     domain.PhaseOpening,
		Outcome:   domain.OutcomeOpen,
		Mind:      cfg.Mind,
		CreatedAt: time.Now().UTC(),
	}

	st := &sessionState{
		session:   s,
		ledger:    NewLieLedger(o.deps.Logger),
		lab:       NewForensicsLab(o.deps.Cache, cfg.Entities, cfg.Locations, o.deps.Logger),
		stats:     domain.NewSessionStats(),
		injection: injection,
		persona:   cfg.Persona,
		facts:     cfg.Facts,
	}

	o.mu.Lock()
	o.sessions[s.ID] = st
	o.mu.Unlock()

	o.deps.Logger.Info("session started",
		zap.String("session_id", s.ID.String()),
		zap.String("case_id", cfg.CaseID),
		zap.Bool("has_nemesis_history", injection != nil))
	return s, nil
}

func (o *TurnOrchestrator) state(id uuid.UUID) (*sessionState, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	st, ok := o.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return st, nil
}

// Session returns a snapshot of the session.
func (o *TurnOrchestrator) Session(id uuid.UUID) (*domain.Session, error) {
	st, err := o.state(id)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	copied := *st.session
	return &copied, nil
}

// Ledger returns the session's claim record and contradictions.
func (o *TurnOrchestrator) Ledger(id uuid.UUID) ([]domain.LedgerEntry, []domain.Contradiction, error) {
	st, err := o.state(id)
	if err != nil {
		return nil, nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.ledger.Entries(), st.ledger.Contradictions(), nil
}

// ProcessTurn runs one full turn. The pipeline is fixed: classify,
// analyze, record, impact, select, fabricate, prompt, reply, settle.
func (o *TurnOrchestrator) ProcessTurn(ctx context.Context, id uuid.UUID, input domain.TurnInput) (*domain.TurnResult, error) {
	st, err := o.state(id)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	s := st.session
	if s.Phase == domain.PhaseTerminal {
		return nil, ErrSessionClosed
	}
	s.Turn++

	tactic, pillar := o.deps.Detector.Detect(input.Text, &s.Mind.Web)

	// The analyst and the vision pass run while the deterministic
	// pipeline continues.
	type analystOut struct {
		insight  *domain.AnalystInsight
		degraded bool
	}
	analystCh := make(chan analystOut, 1)
	go func() {
		insight, degraded := o.deps.Analyst.Analyze(ctx, input.Text, tactic, s.Mind.Cognitive.Level)
		analystCh <- analystOut{insight, degraded}
	}()

	type visionOut struct {
		report   *domain.EvidenceAnalysisResult
		degraded bool
	}
	var visionCh chan visionOut
	if len(input.ImageBytes) > 0 {
		visionCh = make(chan visionOut, 1)
		go func() {
			report, visionDegraded := o.analyzeImage(ctx, input.ImageBytes, input.ImageMIME)
			visionCh <- visionOut{report, visionDegraded}
		}()
	}

	detEntry, _, err := st.ledger.Append(s.Turn, domain.SpeakerDetective, input.Text, pillar, domain.ClaimAssertion, s.Mind.Cognitive.Load)
	if err != nil {
		return nil, fmt.Errorf("record detective claim: %w", err)
	}
	o.appendTranscript(ctx, s.ID, detEntry)

	var evidenceThreat float64
	degraded := false
	if visionCh != nil {
		out := <-visionCh
		degraded = degraded || out.degraded
		if dmg := o.deps.Evidence.Damage(out.report); len(dmg) > 0 {
			threat, worst := o.deps.Evidence.Threat(dmg)
			evidenceThreat = threat
			tactic = domain.TacticEvidence
			if pillar == "" {
				pillar = worst
			}
		}
	}

	st.stats.ObserveDetective(tactic, pillar)

	collapsedBefore := collapsedSet(&s.Mind.Web)
	delta := o.deps.Impact.Compute(&s.Mind, ImpactInput{
		Tactic:           tactic,
		ThreatenedPillar: pillar,
		EvidenceThreat:   evidenceThreat,
	})
	o.deps.Impact.Apply(&s.Mind, delta)
	o.settleCollapses(st, collapsedBefore)

	if madeProgress(delta) {
		s.StallTurns = 0
	} else {
		s.StallTurns++
	}

	recent := o.recentContradictions(st, s.Turn)

	out := <-analystCh
	degraded = degraded || out.degraded
	insight := out.insight

	decision := o.deps.Deception.Select(&s.Mind, SelectInput{
		PlayerTactic:     tactic,
		ThreatenedPillar: pillar,
		EvidenceThreat:   evidenceThreat,
		Contradictions:   recent,
		Injection:        st.injection,
	})
	st.stats.ObserveDeception(decision.Tactic)

	var plan *domain.CounterEvidencePlan
	if decision.RequiresEvidenceGeneration {
		plan = o.deps.Planner.Plan(&s.Mind, pillar, false)
		if plan != nil {
			o.renderCounterEvidence(ctx, plan)
		}
	}

	bundle := o.buildBundle(st, decision, insight, recent, plan)

	st.history = append(st.history, domain.Message{Role: "detective", Content: input.Text})
	reply, replyDegraded := o.suspectReply(ctx, st, input, bundle, decision)
	degraded = degraded || replyDegraded

	contradictions := o.settleReply(ctx, st, reply)
	st.history = append(st.history, domain.Message{Role: "suspect", Content: reply.VerbalResponse.Speech})

	o.settleOutcome(st, reply)
	s.Phase = s.DerivePhase()
	if s.Phase == domain.PhaseTerminal && s.EndedAt == nil {
		now := time.Now().UTC()
		s.EndedAt = &now
	}

	o.deps.Logger.Info("turn processed",
		zap.String("session_id", s.ID.String()),
		zap.Int("turn", s.Turn),
		zap.String("player_tactic", string(tactic)),
		zap.String("deception_tactic", string(decision.Tactic)),
		zap.Float64("load", s.Mind.Cognitive.Load),
		zap.String("phase", string(s.Phase)),
		zap.Bool("degraded", degraded))

	return &domain.TurnResult{
		Turn:             s.Turn,
		DetectedTactic:   tactic,
		ThreatenedPillar: pillar,
		EvidenceThreat:   evidenceThreat,
		Delta:            delta,
		Snapshot:         s.Mind,
		Phase:            s.Phase,
		Decision:         decision,
		Insight:          *insight,
		CounterEvidence:  plan,
		Contradictions:   contradictions,
		Bundle:           bundle,
		Reply:            reply,
		Degraded:         degraded,
	}, nil
}

func (o *TurnOrchestrator) analyzeImage(ctx context.Context, imageBytes []byte, mime string) (*domain.EvidenceAnalysisResult, bool) {
	if o.deps.Vision == nil {
		return nil, true
	}
	callCtx, cancel := context.WithTimeout(ctx, ExternalCallTimeout)
	defer cancel()
	report, err := o.deps.Vision.Analyze(callCtx, imageBytes, mime)
	if err != nil {
		o.deps.Logger.Warn("vision analysis failed", zap.Error(err))
		return nil, true
	}
	return report, false
}

func collapsedSet(web *domain.LieWeb) map[domain.Pillar]bool {
	set := make(map[domain.Pillar]bool)
	for _, p := range domain.Pillars() {
		if web.PillarCollapsed(p) {
			set[p] = true
		}
	}
	return set
}

// settleCollapses records pillars that collapsed since the snapshot.
func (o *TurnOrchestrator) settleCollapses(st *sessionState, before map[domain.Pillar]bool) {
	for _, p := range domain.Pillars() {
		if st.session.Mind.Web.PillarCollapsed(p) && !before[p] {
			st.stats.ObserveCollapse(p)
			st.stats.Moments = append(st.stats.Moments, domain.CriticalMoment{
				SessionID:   st.session.ID.String(),
				Turn:        st.session.Turn,
				Description: fmt.Sprintf("the %s story collapsed on turn %d", p, st.session.Turn),
				OccurredAt:  time.Now().UTC(),
			})
		}
	}
}

func madeProgress(delta domain.StateDelta) bool {
	if delta.LoadDelta > 0 {
		return true
	}
	for _, d := range delta.PillarDeltas {
		if d < 0 {
			return true
		}
	}
	return false
}

// recentContradictions returns contradictions surfaced in the last two
// turns; these feed both the deception engine and the prompt bundle.
func (o *TurnOrchestrator) recentContradictions(st *sessionState, turn int) []domain.Contradiction {
	var recent []domain.Contradiction
	entries := st.ledger.Entries()
	for _, c := range st.ledger.Contradictions() {
		if entries[c.LaterEntryID].Turn >= turn-2 {
			recent = append(recent, c)
		}
	}
	return recent
}

func (o *TurnOrchestrator) renderCounterEvidence(ctx context.Context, plan *domain.CounterEvidencePlan) {
	if o.deps.Image == nil {
		return
	}
	callCtx, cancel := context.WithTimeout(ctx, ExternalCallTimeout)
	defer cancel()
	img, err := o.deps.Image.Generate(callCtx, plan.Prompt)
	switch {
	case errors.Is(err, domain.ErrRefused):
		o.deps.Logger.Warn("counter-evidence render refused, degrading plan")
		o.deps.Planner.ApplyRefusalPenalty(plan)
	case err != nil:
		o.deps.Logger.Warn("counter-evidence render failed", zap.Error(err))
	default:
		plan.ImageBytes = img
	}
}

func (o *TurnOrchestrator) buildBundle(st *sessionState, decision domain.TacticDecision, insight *domain.AnalystInsight, recent []domain.Contradiction, plan *domain.CounterEvidencePlan) domain.PromptModifierBundle {
	mind := &st.session.Mind
	bundle := domain.PromptModifierBundle{
		CognitiveLevel:       mind.Cognitive.Level,
		BehavioralDirectives: levelDirectives[mind.Cognitive.Level],
		SelectedTactic:       decision.Tactic,
		AnalystAdvice:        insight.Advice,
	}

	entries := st.ledger.Entries()
	for _, c := range recent {
		bundle.ContradictionWarnings = append(bundle.ContradictionWarnings, fmt.Sprintf(
			"Your %s account conflicts (%s): earlier %q, now %q.",
			c.Pillar, c.Kind, entries[c.EarlierEntryID].Claim, entries[c.LaterEntryID].Claim))
	}

	if st.injection != nil {
		bundle.NemesisInjection = st.injection.Text
	}
	for _, p := range domain.Pillars() {
		bundle.PillarHealth = append(bundle.PillarHealth, domain.PillarHealth{
			Pillar:    p,
			Strength:  mind.Web.PillarStrength(p),
			Collapsed: mind.Web.PillarCollapsed(p),
		})
	}
	if plan != nil {
		bundle.CounterEvidence = plan.Narrative
	}
	return bundle
}

// suspectReply calls the responder, retries once on a malformed reply,
// and falls back to a deterministic canned reply.
func (o *TurnOrchestrator) suspectReply(ctx context.Context, st *sessionState, input domain.TurnInput, bundle domain.PromptModifierBundle, decision domain.TacticDecision) (*domain.SuspectReply, bool) {
	if o.deps.Suspect == nil {
		return o.cannedReply(st, decision), true
	}

	req := domain.RespondRequest{
		Persona:          st.persona,
		Conversation:     st.history,
		EstablishedFacts: st.facts,
		Bundle:           bundle,
		ImageBytes:       input.ImageBytes,
		ImageMIME:        input.ImageMIME,
	}

	for attempt := 0; attempt < 2; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, ExternalCallTimeout)
		reply, err := o.deps.Suspect.Respond(callCtx, req)
		cancel()
		if err != nil {
			o.deps.Logger.Warn("responder call failed", zap.Error(err), zap.Int("attempt", attempt+1))
			break
		}
		if verr := reply.Validate(); verr != nil {
			o.deps.Logger.Warn("responder reply malformed", zap.Error(verr), zap.Int("attempt", attempt+1))
			req.MalformedNote = verr.Error()
			continue
		}
		return reply, false
	}
	return o.cannedReply(st, decision), true
}

// cannedReply is the deterministic in-character fallback: no state
// changes, no new claims.
func (o *TurnOrchestrator) cannedReply(st *sessionState, decision domain.TacticDecision) *domain.SuspectReply {
	level := st.session.Mind.Cognitive.Level
	return &domain.SuspectReply{
		InternalMonologue: domain.InternalMonologue{
			SituationAssessment: "Connection to higher reasoning interrupted; falling back on rehearsed lines.",
			ThreatLevel:         domain.ClampRange(st.session.Mind.Cognitive.Load/100, 0, 1),
			ChosenStrategy:      string(decision.Tactic),
		},
		VerbalResponse: domain.VerbalResponse{
			Speech: cannedSpeech[decision.Tactic],
			Tone:   "flat",
		},
		EmotionalState: trueEmotionByLevel[level],
	}
}

// settleReply applies the reply's clipped state changes and appends its
// claims to the ledger. Collapses caused by reply deltas are also
// recorded.
func (o *TurnOrchestrator) settleReply(ctx context.Context, st *sessionState, reply *domain.SuspectReply) []domain.Contradiction {
	s := st.session
	mind := &s.Mind

	load := domain.ClampRange(reply.StateChanges.LoadDelta, -ReplyLoadClip, ReplyLoadClip)
	mind.Cognitive.SetLoad(mind.Cognitive.Load + load)

	before := collapsedSet(&mind.Web)
	for p, d := range reply.StateChanges.PillarDeltas {
		d = domain.ClampRange(d, -ReplyPillarClip, ReplyPillarClip)
		if d < 0 {
			mind.Web.Damage(p, -d)
		} else {
			mind.Web.Reinforce(p, d)
		}
	}
	o.settleCollapses(st, before)

	mind.Mask.Presented = reply.EmotionalState
	mind.Mask.True = trueEmotionByLevel[mind.Cognitive.Level]
	div := domain.ClampRange(reply.StateChanges.MaskDivergenceDelta, -ReplyDivergenceClip, ReplyDivergenceClip)
	mind.Mask.SetDivergence(mind.Mask.Divergence + div)

	var found []domain.Contradiction
	for _, claim := range reply.LieConsistencyCheck.NewClaims {
		entry, contradiction, err := st.ledger.Append(s.Turn, domain.SpeakerSuspect, claim.Claim, claim.Pillar, claim.Type, mind.Cognitive.Load)
		if err != nil {
			o.deps.Logger.Warn("suspect claim rejected by ledger", zap.Error(err))
			continue
		}
		o.appendTranscript(ctx, s.ID, entry)
		if contradiction != nil {
			found = append(found, *contradiction)
			st.stats.Moments = append(st.stats.Moments, domain.CriticalMoment{
				SessionID:   s.ID.String(),
				Turn:        s.Turn,
				Description: fmt.Sprintf("caught in a %s contradiction about the %s story", contradiction.Kind, contradiction.Pillar),
				OccurredAt:  time.Now().UTC(),
			})
		}
	}
	return found
}

// settleOutcome applies the terminal rules after a turn.
func (o *TurnOrchestrator) settleOutcome(st *sessionState, reply *domain.SuspectReply) {
	s := st.session
	if s.Outcome != domain.OutcomeOpen {
		return
	}

	if s.Mind.Cognitive.Level == domain.LevelBreaking {
		for _, claim := range reply.LieConsistencyCheck.NewClaims {
			if claim.Type == domain.ClaimAdmission {
				s.Outcome = domain.OutcomeConfession
				return
			}
		}
	}
	if s.Mind.Web.CollapsedCount() >= 3 {
		s.Outcome = domain.OutcomeCollapse
		return
	}
	if s.StallTurns >= domain.StallTurnLimit {
		s.Outcome = domain.OutcomeTimeout
	}
}

func (o *TurnOrchestrator) appendTranscript(ctx context.Context, id uuid.UUID, entry domain.LedgerEntry) {
	if o.deps.Transcript == nil {
		return
	}
	if err := o.deps.Transcript.Append(ctx, id, entry); err != nil {
		o.deps.Logger.Warn("transcript append failed", zap.Error(err))
	}
}

// RequestEvidence validates, parses, and renders one detective evidence
// request. Exact repeats return the cached record and do not consume
// session budget.
func (o *TurnOrchestrator) RequestEvidence(ctx context.Context, id uuid.UUID, request string) (*domain.GeneratedEvidence, error) {
	st, err := o.state(id)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	s := st.session
	if s.Phase == domain.PhaseTerminal {
		return nil, ErrSessionClosed
	}

	ev, cached, err := st.lab.Parse(ctx, request, s.EvidenceCount)
	if err != nil {
		return nil, err
	}
	if cached {
		return ev, nil
	}

	if o.deps.Image != nil {
		callCtx, cancel := context.WithTimeout(ctx, ExternalCallTimeout)
		img, genErr := o.deps.Image.Generate(callCtx, ev.Prompt)
		cancel()
		switch {
		case errors.Is(genErr, domain.ErrRefused):
			o.deps.Logger.Warn("evidence render refused, using placeholder",
				zap.String("request_id", ev.RequestID))
			ev.ImageBytes = placeholderImage()
		case genErr != nil:
			return nil, fmt.Errorf("render evidence: %w", genErr)
		default:
			ev.ImageBytes = img
		}
	}

	if err := o.deps.Cache.Put(ctx, ev); err != nil {
		o.deps.Logger.Warn("evidence cache write failed", zap.Error(err))
	}
	s.EvidenceCount++
	return ev, nil
}

// EndSession closes the session, folds it into the nemesis record, and
// archives it when an archive is configured.
func (o *TurnOrchestrator) EndSession(ctx context.Context, id uuid.UUID) (*domain.NemesisRecord, error) {
	st, err := o.state(id)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	s := st.session
	if s.EndedAt == nil {
		now := time.Now().UTC()
		s.EndedAt = &now
	}
	s.Phase = domain.PhaseTerminal

	rec, err := o.deps.Nemesis.RecordSession(ctx, s, st.stats)
	if err != nil {
		return nil, err
	}

	o.archiveSession(ctx, st)

	o.mu.Lock()
	delete(o.sessions, id)
	o.mu.Unlock()
	return rec, nil
}

func (o *TurnOrchestrator) archiveSession(ctx context.Context, st *sessionState) {
	if o.deps.Archive == nil {
		return
	}
	if err := o.deps.Archive.ArchiveSession(ctx, st.session, st.ledger.Entries()); err != nil {
		o.deps.Logger.Warn("session archive failed", zap.Error(err))
		return
	}
	if o.deps.Embedder == nil {
		return
	}
	for _, m := range st.stats.Moments {
		vec, err := o.deps.Embedder.Embed(ctx, m.Description)
		if err != nil {
			o.deps.Logger.Warn("moment embedding failed", zap.Error(err))
			continue
		}
		if err := o.deps.Archive.ArchiveMoment(ctx, m, vec); err != nil {
			o.deps.Logger.Warn("moment archive failed", zap.Error(err))
		}
	}
}

// placeholderImage is a 1x1 gray PNG used when the image back end
// refuses a prompt.
func placeholderImage() []byte {
	return []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
		0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x00, 0x00, 0x00, 0x00, 0x3a, 0x7e, 0x9b,
		0x55, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41,
		0x54, 0x78, 0x9c, 0x63, 0x68, 0x00, 0x00, 0x00,
		0x82, 0x00, 0x81, 0xdd, 0x43, 0x6a, 0xf4, 0x00,
		0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
		0x42, 0x60, 0x82,
	}
}
