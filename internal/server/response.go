package server

import (
	"net/http"

	"github.com/goccy/go-json"
)

// Client-visible error messages.
const (
	MsgNoFile           = "No file provided"
	MsgNoFilename       = "No file selected"
	MsgInvalidFileType  = "Invalid file type."
	MsgEmptyFile        = "Empty file"
	MsgFileTooLarge     = "File too large"
	MsgProcessingFailed = "Processing failed"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /.
type HealthResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
