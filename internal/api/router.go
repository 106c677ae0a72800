package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/obsidian-intel/unit734/internal/api/handlers"
	mw "github.com/obsidian-intel/unit734/internal/api/middleware"
	"github.com/obsidian-intel/unit734/internal/casefile"
	"github.com/obsidian-intel/unit734/internal/config"
	"github.com/obsidian-intel/unit734/internal/domain"
	"github.com/obsidian-intel/unit734/internal/embedding"
	"github.com/obsidian-intel/unit734/internal/llm"
	"github.com/obsidian-intel/unit734/internal/service"
	"github.com/obsidian-intel/unit734/internal/store"
)

// App holds the router and wiring for lifecycle management.
type App struct {
	Router       *chi.Mux
	Orchestrator *service.TurnOrchestrator
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewApp wires the full engine. db may be nil; the Postgres archive is
// optional and everything else runs on local files.
func NewApp(db *pgxpool.Pool, logger *zap.Logger) (*App, error) {
	// Stores
	nemesisStore := store.NewFileNemesisStore(config.NemesisPath())
	evidenceCache, err := store.NewFileEvidenceCache(config.EvidenceDir())
	if err != nil {
		return nil, err
	}
	transcriptStore, err := store.NewFileTranscriptStore(config.TranscriptDir())
	if err != nil {
		return nil, err
	}

	// External clients via provider factory
	clients, err := llm.NewClients(config.LLMProvider(), config.LLMAPIKey(), config.OpenAIAPIKey())
	if err != nil {
		logger.Warn("LLM client initialization failed, running degraded",
			zap.String("provider", config.LLMProvider()), zap.Error(err))
		clients = &llm.Clients{}
	} else {
		logger.Info("LLM clients initialized", zap.String("provider", config.LLMProvider()))
	}

	var archive domain.SessionArchive
	var embedder domain.EmbeddingClient
	if db != nil {
		pg := store.NewPostgresArchive(db)
		archive = pg
		embedder, err = embedding.NewClient(config.EmbeddingProvider(), config.EmbeddingAPIKey())
		if err != nil {
			logger.Warn("embedding client initialization failed, archive moments will be unembedded", zap.Error(err))
			embedder = nil
		}
	}

	// Services
	nemesisSvc := service.NewNemesisService(nemesisStore, archive, embedder, logger)
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
		Archive:    archive,
		Embedder:   embedder,
		Logger:     logger,
	})

	// Handlers
	library := casefile.NewLibrary(config.CaseDir())
	sessionHandler := handlers.NewSessionHandler(orch, library, clients.Speech, clients.Voice, config.SuspectVoice(), logger)
	evidenceHandler := handlers.NewEvidenceHandler(orch)
	nemesisHandler := handlers.NewNemesisHandler(nemesisSvc)

	r := chi.NewRouter()

	app := &App{
		Router:       r,
		Orchestrator: orch,
		startTime:    time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/cases", sessionHandler.ListCases)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sessionHandler.GetByID)
				r.Post("/turns", sessionHandler.Turn)
				r.Post("/evidence", evidenceHandler.Request)
				r.Get("/ledger", sessionHandler.GetLedger)
				r.Post("/end", sessionHandler.End)
			})
		})

		r.Route("/nemesis", func(r chi.Router) {
			r.Get("/", nemesisHandler.Get)
			r.Delete("/", nemesisHandler.Reset)
		})
	})

	return app, nil
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.NemesisStore    = (*store.FileNemesisStore)(nil)
	_ domain.EvidenceCache   = (*store.FileEvidenceCache)(nil)
	_ domain.TranscriptStore = (*store.FileTranscriptStore)(nil)
	_ domain.SessionArchive  = (*store.PostgresArchive)(nil)
	_ domain.SuspectClient   = (*llm.OpenAIClient)(nil)
	_ domain.SuspectClient   = (*llm.AnthropicClient)(nil)
	_ domain.SuspectClient   = (*llm.MockClient)(nil)
	_ domain.AnalystClient   = (*llm.OpenAIClient)(nil)
	_ domain.AnalystClient   = (*llm.AnthropicClient)(nil)
	_ domain.VisionClient    = llm.OpenAIVision{}
	_ domain.VisionClient    = llm.AnthropicVision{}
	_ domain.ImageClient     = (*llm.OpenAIClient)(nil)
	_ domain.SpeechClient    = (*llm.OpenAIClient)(nil)
	_ domain.VoiceClient     = (*llm.OpenAIClient)(nil)
	_ domain.EmbeddingClient = (*embedding.OpenAIClient)(nil)
	_ domain.EmbeddingClient = (*embedding.MockClient)(nil)
)
