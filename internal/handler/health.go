package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"prtlog/internal/ingestor"
)

type HealthHandler struct {
	ingestor *ingestor.Ingestor
	runID    string
}

func NewHealthHandler(ing *ingestor.Ingestor, runID string) *HealthHandler {
	return &HealthHandler{
		ingestor: ing,
		runID:    runID,
	}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type ReadyResponse struct {
	Ready      bool      `json:"ready"`
	RunID      string    `json:"runId"`
	Recorded   int64     `json:"recorded"`
	ServerTime time.Time `json:"serverTime"`
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ready := h.ingestor.IsReady()
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ReadyResponse{
		Ready:      ready,
		RunID:      h.runID,
		Recorded:   h.ingestor.Recorded(),
		ServerTime: time.Now(),
	})
}
