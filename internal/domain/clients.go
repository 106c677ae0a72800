package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrRefused is returned by image generators that decline a prompt on
// safety grounds. Callers substitute a deterministic placeholder.
var ErrRefused = errors.New("generation refused by provider")

// RespondRequest carries everything the LLM responder needs for a turn.
type RespondRequest struct {
	Persona          string
	Conversation     []Message
	EstablishedFacts []string
	Bundle           PromptModifierBundle
	ImageBytes       []byte
	ImageMIME        string
	MalformedNote    string
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SuspectClient produces the structured suspect reply for a turn.
type SuspectClient interface {
	Respond(ctx context.Context, req RespondRequest) (*SuspectReply, error)
}

// AnalystClient gives a second-opinion read of the detective's move.
type AnalystClient interface {
	Analyze(ctx context.Context, detectiveText string, tactic PlayerTactic, level CognitiveLevel) (*AnalystInsight, error)
}

// VisionClient analyzes presented evidence images.
type VisionClient interface {
	Analyze(ctx context.Context, imageBytes []byte, mime string) (*EvidenceAnalysisResult, error)
}

// ImageClient renders evidence imagery. Returns ErrRefused on safety
// blocks.
type ImageClient interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Transcription is a speech-to-text result. Text is "[SILENT]" when no
// speech was detected.
type Transcription struct {
	Text       string  `json:"text"`
	Duration   float64 `json:"duration_seconds"`
	Confidence float64 `json:"confidence"`
}

// SilentSentinel marks a transcription with no detected speech.
const SilentSentinel = "[SILENT]"

type SpeechClient interface {
	Transcribe(ctx context.Context, audio []byte, mime string) (*Transcription, error)
}

// VoiceClient synthesizes speech: raw 16-bit mono PCM at 24 kHz.
type VoiceClient interface {
	Synthesize(ctx context.Context, script, voice string) ([]byte, error)
}

type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NemesisStore persists the single cross-session detective profile.
type NemesisStore interface {
	Load(ctx context.Context) (*NemesisRecord, error)
	Save(ctx context.Context, rec *NemesisRecord) error
	Reset(ctx context.Context) error
}

// EvidenceCache stores generated evidence keyed by request hash, with
// image bytes on disk named by content hash.
type EvidenceCache interface {
	Get(ctx context.Context, requestID string) (*GeneratedEvidence, bool, error)
	Put(ctx context.Context, ev *GeneratedEvidence) error
}

// TranscriptStore appends turn records as JSON lines per session.
type TranscriptStore interface {
	Append(ctx context.Context, sessionID uuid.UUID, entry LedgerEntry) error
	Read(ctx context.Context, sessionID uuid.UUID) ([]LedgerEntry, error)
}

// SessionArchive optionally persists closed sessions and nemesis
// moments to Postgres.
type SessionArchive interface {
	ArchiveSession(ctx context.Context, s *Session, entries []LedgerEntry) error
	ArchiveMoment(ctx context.Context, m CriticalMoment, embedding []float32) error
	SimilarMoments(ctx context.Context, embedding []float32, limit int) ([]CriticalMoment, error)
}
