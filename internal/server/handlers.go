package server

import (
	"context"
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	vecpic "github.com/alnah/go-vecpic"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "OK"})
}

func (s *Server) handleVecpic(w http.ResponseWriter, r *http.Request) {
	log := s.log.With(zap.String("request_id", middleware.GetReqID(r.Context())))

	if s.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)
	}

	up, err := parseUpload(r)
	if err != nil {
		status, msg := classify(err)
		log.Info("upload rejected", zap.Int("status", status), zap.Error(err))
		writeError(w, status, msg)
		return
	}

	result, err := s.conv.Convert(r.Context(), up.input())
	if err != nil {
		status, msg := classify(err)
		fields := []zap.Field{
			zap.String("filename", up.filename),
			zap.String("color_mode", up.colorMode),
			zap.Int("status", status),
			zap.Error(err),
		}
		switch {
		case errors.Is(err, context.Canceled):
			log.Info("conversion canceled by client", fields...)
		case status >= http.StatusInternalServerError:
			log.Error("conversion failed", fields...)
		default:
			log.Info("conversion rejected", fields...)
		}
		writeError(w, status, msg)
		return
	}

	log.Info("converted",
		zap.String("job_id", result.JobID),
		zap.String("filename", up.filename),
		zap.String("output", result.Filename),
		zap.Int("input_bytes", len(up.data)),
		zap.Int("svg_bytes", len(result.SVG)),
		zap.Duration("duration", result.Duration))

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": result.Filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.SVG)
}

// classify maps an error to its HTTP status and client message.
// Internal causes never reach the client.
func classify(err error) (int, string) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, MsgFileTooLarge
	case errors.Is(err, errNoFile):
		return http.StatusBadRequest, MsgNoFile
	case errors.Is(err, vecpic.ErrEmptyFilename):
		return http.StatusBadRequest, MsgNoFilename
	case errors.Is(err, vecpic.ErrInvalidFileType):
		return http.StatusBadRequest, MsgInvalidFileType
	case errors.Is(err, vecpic.ErrEmptyImage):
		return http.StatusBadRequest, MsgEmptyFile
	default:
		return http.StatusInternalServerError, MsgProcessingFailed
	}
}
