package handlers

import (
	"net/http"

	"github.com/obsidian-intel/unit734/internal/service"
)

type NemesisHandler struct {
	svc *service.NemesisService
}

func NewNemesisHandler(svc *service.NemesisService) *NemesisHandler {
	return &NemesisHandler{svc: svc}
}

func (h *NemesisHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Record(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load nemesis record")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *NemesisHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reset nemesis record")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
