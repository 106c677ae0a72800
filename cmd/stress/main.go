package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/obsidian-intel/unit734/internal/audio"
	"github.com/obsidian-intel/unit734/internal/bot"
	"github.com/obsidian-intel/unit734/internal/casefile"
	"github.com/obsidian-intel/unit734/internal/config"
	"github.com/obsidian-intel/unit734/internal/domain"
	"github.com/obsidian-intel/unit734/internal/llm"
	"github.com/obsidian-intel/unit734/internal/service"
	"github.com/obsidian-intel/unit734/internal/store"
)

var (
	flagStrategy    string
	flagCase        string
	flagSessions    int
	flagMaxTurns    int
	flagImages      bool
	flagVoiceReport bool
	flagResetMemory bool
	flagProvider    string
	flagDataDir     string
	flagCaseDir     string
)

func main() {
	root := &cobra.Command{
		Use:          "stress",
		Short:        "Run scripted detective bots against the interrogation engine",
		SilenceUsage: true,
		RunE:         run,
	}

	root.Flags().StringVar(&flagStrategy, "strategy", "adaptive", "detective strategy: relentless, methodical, psychological, adaptive")
	root.Flags().StringVar(&flagCase, "case", "", "case id to interrogate (default: first case in the library)")
	root.Flags().IntVar(&flagSessions, "sessions", 1, "number of sessions to run")
	root.Flags().IntVar(&flagMaxTurns, "max-turns", 40, "turn cap per session")
	root.Flags().BoolVar(&flagImages, "images", false, "request and present generated evidence images")
	root.Flags().BoolVar(&flagVoiceReport, "voice-report", false, "synthesize the run summary as a WAV file")
	root.Flags().BoolVar(&flagResetMemory, "reset-memory", false, "wipe the nemesis record before running")
	root.Flags().StringVar(&flagProvider, "provider", llm.ProviderMock, "LLM provider: openai, anthropic, mock")
	root.Flags().StringVar(&flagDataDir, "data-dir", "", "state directory (default: the configured data dir)")
	root.Flags().StringVar(&flagCaseDir, "case-dir", "", "case brief directory (default: the configured case dir)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

type runReport struct {
	outcomes map[domain.SessionOutcome]int
	turns    int
}

func run(cmd *cobra.Command, args []string) error {
	logger, _ := zap.NewDevelopment()
	defer func() { _ = logger.Sync() }()

	if err := config.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagDataDir == "" {
		flagDataDir = config.DataDir()
	}
	if flagCaseDir == "" {
		flagCaseDir = config.CaseDir()
	}

	strat, err := bot.NewStrategy(flagStrategy)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	apiKey := config.LLMAPIKey()
	if flagProvider != config.LLMProvider() {
		switch flagProvider {
		case llm.ProviderOpenAI:
			apiKey = config.OpenAIAPIKey()
		case llm.ProviderAnthropic:
			apiKey = config.AnthropicAPIKey()
		default:
			apiKey = ""
		}
	}
	clients, err := llm.NewClients(flagProvider, apiKey, config.OpenAIAPIKey())
	if err != nil {
		return fmt.Errorf("init clients: %w", err)
	}

	nemesisStore := store.NewFileNemesisStore(filepath.Join(flagDataDir, "nemesis.json"))
	evidenceCache, err := store.NewFileEvidenceCache(filepath.Join(flagDataDir, "evidence"))
	if err != nil {
		return fmt.Errorf("init evidence cache: %w", err)
	}
	transcriptStore, err := store.NewFileTranscriptStore(filepath.Join(flagDataDir, "transcripts"))
	if err != nil {
		return fmt.Errorf("init transcript store: %w", err)
	}

	nemesisSvc := service.NewNemesisService(nemesisStore, nil, nil, logger)
	if flagResetMemory {
		if err := nemesisSvc.Reset(ctx); err != nil {
			return fmt.Errorf("reset nemesis memory: %w", err)
		}
		logger.Info("nemesis memory wiped")
	}

	orch := service.NewTurnOrchestrator(service.Deps{
		Detector:   service.NewTacticDetector(),
		Impact:     service.NewImpactCalculator(logger),
		Deception:  service.NewDeceptionEngine(logger),
		Analyst:    service.NewShadowAnalyst(clients.Analyst, service.ExternalCallTimeout, logger),
		Planner:    service.NewCounterEvidencePlanner(logger),
		Evidence:   service.NewEvidenceImpactAnalyzer(logger),
		Nemesis:    nemesisSvc,
		Suspect:    clients.Suspect,
		Vision:     clients.Vision,
		Image:      clients.Image,
		Cache:      evidenceCache,
		Transcript: transcriptStore,
		Logger:     logger,
	})

	library := casefile.NewLibrary(flagCaseDir)
	caseID := flagCase
	if caseID == "" {
		ids, err := library.List()
		if err != nil {
			return fmt.Errorf("list cases: %w", err)
		}
		if len(ids) == 0 {
			return fmt.Errorf("no case briefs in %s", flagCaseDir)
		}
		caseID = ids[0]
	}
	brief, err := library.Load(caseID)
	if err != nil {
		return err
	}

	logger.Info("stress run starting",
		zap.String("case", caseID),
		zap.String("strategy", strat.Name()),
		zap.Int("sessions", flagSessions),
		zap.Int("max_turns", flagMaxTurns))

	report := runReport{outcomes: make(map[domain.SessionOutcome]int)}
	started := time.Now()
	for i := 0; i < flagSessions; i++ {
		outcome, turns, err := runSession(ctx, orch, brief, strat, logger)
		if err != nil {
			return fmt.Errorf("session %d: %w", i+1, err)
		}
		report.outcomes[outcome]++
		report.turns += turns
	}

	summary := summarize(strat.Name(), report, time.Since(started))
	logger.Info("stress run finished", zap.String("summary", summary))

	if flagVoiceReport {
		if err := writeVoiceReport(ctx, clients.Voice, summary, logger); err != nil {
			return err
		}
	}
	return nil
}

func runSession(ctx context.Context, orch *service.TurnOrchestrator, brief *casefile.Brief, strat bot.Strategy, logger *zap.Logger) (domain.SessionOutcome, int, error) {
	s, err := orch.StartSession(ctx, brief.Config())
	if err != nil {
		return "", 0, fmt.Errorf("start session: %w", err)
	}

	var prev *domain.TurnResult
	turns := 0
	for turn := 1; turn <= flagMaxTurns; turn++ {
		move := strat.NextMove(turn, prev)
		input := domain.TurnInput{Text: move.Text}

		if flagImages && move.EvidenceRequest != "" {
			ev, err := orch.RequestEvidence(ctx, s.ID, move.EvidenceRequest)
			if err != nil {
				logger.Warn("evidence request rejected",
					zap.String("request", move.EvidenceRequest), zap.Error(err))
			} else if len(ev.ImageBytes) > 0 {
				input.ImageBytes = ev.ImageBytes
				input.ImageMIME = "image/png"
			}
		}

		res, err := orch.ProcessTurn(ctx, s.ID, input)
		if err != nil {
			return "", turns, fmt.Errorf("turn %d: %w", turn, err)
		}
		prev = res
		turns = turn

		logger.Debug("turn settled",
			zap.Int("turn", res.Turn),
			zap.String("tactic", string(res.DetectedTactic)),
			zap.Float64("load", res.Snapshot.Cognitive.Load),
			zap.String("phase", string(res.Phase)))

		snap, err := orch.Session(s.ID)
		if err != nil {
			return "", turns, err
		}
		if snap.Outcome != domain.OutcomeOpen {
			break
		}
	}

	rec, err := orch.EndSession(ctx, s.ID)
	if err != nil {
		return "", turns, fmt.Errorf("end session: %w", err)
	}

	// EndSession drops the live state, so read the outcome from the
	// final turn's phase settlement instead.
	outcome := domain.OutcomeTimeout
	if prev != nil && prev.Phase == domain.PhaseTerminal {
		outcome = terminalOutcome(prev)
	}

	logger.Info("session complete",
		zap.String("outcome", string(outcome)),
		zap.Int("turns", turns),
		zap.Int("nemesis_games", rec.TotalGames),
		zap.Int("streak", rec.CurrentStreak))
	return outcome, turns, nil
}

// terminalOutcome reconstructs the outcome from the last turn result.
func terminalOutcome(res *domain.TurnResult) domain.SessionOutcome {
	if res.Reply != nil && res.Snapshot.Cognitive.Level == domain.LevelBreaking {
		for _, c := range res.Reply.LieConsistencyCheck.NewClaims {
			if c.Type == domain.ClaimAdmission {
				return domain.OutcomeConfession
			}
		}
	}
	if res.Snapshot.Web.CollapsedCount() >= 3 {
		return domain.OutcomeCollapse
	}
	return domain.OutcomeTimeout
}

func summarize(strategy string, r runReport, elapsed time.Duration) string {
	total := 0
	for _, n := range r.outcomes {
		total += n
	}
	avg := 0.0
	if total > 0 {
		avg = float64(r.turns) / float64(total)
	}
	return fmt.Sprintf(
		"Strategy %s ran %d sessions in %s. Confessions %d, collapses %d, timeouts %d. Average %.1f turns per session.",
		strategy, total, elapsed.Round(time.Second),
		r.outcomes[domain.OutcomeConfession],
		r.outcomes[domain.OutcomeCollapse],
		r.outcomes[domain.OutcomeTimeout],
		avg)
}

func writeVoiceReport(ctx context.Context, voice domain.VoiceClient, summary string, logger *zap.Logger) error {
	if voice == nil {
		return fmt.Errorf("voice report requested but no voice client is configured")
	}
	pcm, err := voice.Synthesize(ctx, summary, config.SuspectVoice())
	if err != nil {
		return fmt.Errorf("synthesize report: %w", err)
	}
	wav, err := audio.WrapPCM(pcm)
	if err != nil {
		return fmt.Errorf("wrap report audio: %w", err)
	}
	path := filepath.Join(flagDataDir, "stress-report.wav")
	if err := os.WriteFile(path, wav, 0o644); err != nil {
		return fmt.Errorf("write report audio: %w", err)
	}
	logger.Info("voice report written",
		zap.String("path", path),
		zap.Float64("seconds", audio.Duration(pcm)))
	return nil
}
