package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/alnah/go-mdmath"
)

// Response formats for POST /render.
const (
	formatHTML = "html"
	formatJSON = "json"
)

// renderResponse is the body of POST /render?format=json.
type renderResponse struct {
	Blocks []mdmath.BlockRecord `json:"blocks"`
	Report mdmath.ReportRecord  `json:"report"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = formatHTML
	}
	if format != formatHTML && format != formatJSON {
		jsonError(w, fmt.Sprintf("unknown format %q (expected html or json)", format), http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.maxBodyBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	conv, err := s.pool.Acquire(r.Context())
	if err != nil {
		s.log.Warn("no converter available", "request_id", RequestIDFrom(r.Context()), "error", err)
		jsonError(w, "server busy", http.StatusServiceUnavailable)
		return
	}
	defer s.pool.Release(conv)

	result, err := conv.Convert(r.Context(), mdmath.Input{
		Text:     string(body),
		Title:    r.URL.Query().Get("title"),
		HTMLOnly: true,
	})
	if err != nil {
		s.log.Error("render failed", "request_id", RequestIDFrom(r.Context()), "error", err)
		jsonError(w, "render failed", http.StatusInternalServerError)
		return
	}

	if len(result.Report.Failures) > 0 {
		s.log.Warn("blocks recovered",
			"request_id", RequestIDFrom(r.Context()),
			"failures", len(result.Report.Failures),
			"fallbacks", result.Report.Fallbacks,
		)
	}

	if format == formatJSON {
		writeJSON(w, http.StatusOK, renderResponse{
			Blocks: mdmath.BlockRecords(result.Blocks),
			Report: mdmath.NewReportRecord(result.Report),
		})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(result.HTML)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
