package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/obsidian-intel/unit734/internal/domain"
	"github.com/obsidian-intel/unit734/internal/service"
)

type EvidenceHandler struct {
	orch *service.TurnOrchestrator
}

func NewEvidenceHandler(orch *service.TurnOrchestrator) *EvidenceHandler {
	return &EvidenceHandler{orch: orch}
}

type evidenceRequest struct {
	Request string `json:"request"`
}

type evidenceResponse struct {
	Evidence    *domain.GeneratedEvidence `json:"evidence"`
	ImageBase64 string                    `json:"image_base64,omitempty"`
}

func (h *EvidenceHandler) Request(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var req evidenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Request == "" {
		writeError(w, http.StatusBadRequest, "request text is required")
		return
	}

	ev, err := h.orch.RequestEvidence(r.Context(), id, req.Request)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error": verr.Message,
				"kind":  string(verr.Kind),
			})
		case errors.Is(err, service.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, service.ErrSessionClosed):
			writeError(w, http.StatusConflict, "session is over")
		default:
			writeError(w, http.StatusBadGateway, "evidence generation failed")
		}
		return
	}

	resp := evidenceResponse{Evidence: ev}
	if len(ev.ImageBytes) > 0 {
		resp.ImageBase64 = base64.StdEncoding.EncodeToString(ev.ImageBytes)
	}
	writeJSON(w, http.StatusOK, resp)
}
