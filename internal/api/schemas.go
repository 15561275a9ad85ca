package api

import (
	"encoding/json"
	"net/http"

	"github.com/vcutpro/vcut/internal/jobstore"
)

type UploadResponse struct {
	JobID   string `json:"job_id"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	UptimeS int64  `json:"uptime_s"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the job as the frontend polls it.
type StatusResponse struct {
	*jobstore.Job
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg})
}
