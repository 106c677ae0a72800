package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/obsidian-intel/unit734/internal/audio"
	"github.com/obsidian-intel/unit734/internal/casefile"
	"github.com/obsidian-intel/unit734/internal/domain"
	"github.com/obsidian-intel/unit734/internal/service"
)

type SessionHandler struct {
	orch    *service.TurnOrchestrator
	library *casefile.Library
	speech  domain.SpeechClient
	voice   domain.VoiceClient
	voiceID string
	logger  *zap.Logger
}

func NewSessionHandler(orch *service.TurnOrchestrator, library *casefile.Library, speech domain.SpeechClient, voice domain.VoiceClient, voiceID string, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		orch:    orch,
		library: library,
		speech:  speech,
		voice:   voice,
		voiceID: voiceID,
		logger:  logger,
	}
}

type createSessionRequest struct {
	CaseID string `json:"case_id"`
}

type createSessionResponse struct {
	Session *domain.Session `json:"session"`
	Title   string          `json:"title"`
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CaseID == "" {
		writeError(w, http.StatusBadRequest, "case_id is required")
		return
	}

	brief, err := h.library.Load(req.CaseID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	session, err := h.orch.StartSession(r.Context(), brief.Config())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	writeJSON(w, http.StatusCreated, createSessionResponse{Session: session, Title: brief.Title})
}

func (h *SessionHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	ids, err := h.library.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list cases")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"cases": ids})
}

func (h *SessionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	session, err := h.orch.Session(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type turnRequest struct {
	Text        string `json:"text,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
	ImageMIME   string `json:"image_mime,omitempty"`
	AudioBase64 string `json:"audio_base64,omitempty"`
	AudioMIME   string `json:"audio_mime,omitempty"`
	Speak       bool   `json:"speak,omitempty"`
}

type turnResponse struct {
	*domain.TurnResult
	Transcription   *domain.Transcription `json:"transcription,omitempty"`
	SpeechWavBase64 string                `json:"speech_wav_base64,omitempty"`
}

func (h *SessionHandler) Turn(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := domain.TurnInput{Text: req.Text, ImageMIME: req.ImageMIME}
	if req.ImageBase64 != "" {
		img, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid image_base64")
			return
		}
		input.ImageBytes = img
	}

	var transcription *domain.Transcription
	if req.AudioBase64 != "" {
		if h.speech == nil {
			writeError(w, http.StatusBadRequest, "speech input is not enabled")
			return
		}
		raw, err := base64.StdEncoding.DecodeString(req.AudioBase64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid audio_base64")
			return
		}
		transcription, err = h.speech.Transcribe(r.Context(), raw, req.AudioMIME)
		if err != nil {
			writeError(w, http.StatusBadGateway, "transcription failed")
			return
		}
		if transcription.Text == domain.SilentSentinel {
			writeError(w, http.StatusUnprocessableEntity, "no speech detected in audio")
			return
		}
		input.Text = transcription.Text
	}

	if input.Text == "" && len(input.ImageBytes) == 0 {
		writeError(w, http.StatusBadRequest, "turn requires text, audio, or an image")
		return
	}

	result, err := h.orch.ProcessTurn(r.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, service.ErrSessionClosed):
			writeError(w, http.StatusConflict, "session is over")
		default:
			h.logger.Error("turn processing failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to process turn")
		}
		return
	}

	resp := turnResponse{TurnResult: result, Transcription: transcription}
	if req.Speak && h.voice != nil && result.Reply != nil {
		pcm, err := h.voice.Synthesize(r.Context(), result.Reply.VerbalResponse.Speech, h.voiceID)
		if err != nil {
			h.logger.Warn("speech synthesis failed", zap.Error(err))
		} else if wav, err := audio.WrapPCM(pcm); err == nil {
			resp.SpeechWavBase64 = base64.StdEncoding.EncodeToString(wav)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type ledgerResponse struct {
	Entries        []domain.LedgerEntry   `json:"entries"`
	Contradictions []domain.Contradiction `json:"contradictions"`
}

func (h *SessionHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	entries, contradictions, err := h.orch.Ledger(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, ledgerResponse{Entries: entries, Contradictions: contradictions})
}

func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	rec, err := h.orch.EndSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		h.logger.Error("session end failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to end session")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
