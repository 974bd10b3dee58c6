// ABOUTME: Route handlers translating JSON requests into chat Service calls
// ABOUTME: Mirrors the browser client's request and response field names
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/harper/museum-guide/internal/chat"
	"github.com/harper/museum-guide/internal/config"
	"github.com/harper/museum-guide/internal/export"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error string `json:"error"`
}

// ExportRequest asks for the debug session documents
type ExportRequest struct {
	Session export.DebugSession `json:"session"`
	Format  string              `json:"format"`
}

// ExportResponse carries the rendered documents
type ExportResponse struct {
	Documents []export.Document `json:"documents"`
}

func (s *Server) messageHandler(w http.ResponseWriter, r *http.Request) {
	var req chat.MessageRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.service.ProcessMessage(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) continueHandler(w http.ResponseWriter, r *http.Request) {
	var req chat.ContinueRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.service.ContinueWithRole(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) suggestHandler(w http.ResponseWriter, r *http.Request) {
	var req chat.SuggestRequest
	if !s.decode(w, r, &req) {
		return
	}
	questions, err := s.service.SuggestQuestions(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestedQuestions": questions})
}

func (s *Server) adjustPromptHandler(w http.ResponseWriter, r *http.Request) {
	var req chat.AdjustRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.service.AdjustDirective(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) chatWithRoleHandler(w http.ResponseWriter, r *http.Request) {
	var req chat.RoleChatRequest
	if !s.decode(w, r, &req) {
		return
	}
	text, err := s.service.ChatWithRole(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": text})
}

func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if !s.decode(w, r, &req) {
		return
	}
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	docs, err := export.Render(req.Session, format, time.Now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ExportResponse{Documents: docs})
}

func (s *Server) defaultPromptsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Directives())
}

func (s *Server) modelsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]config.ModelInfo{"models": config.Models()})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Message: "Museum Guide API is running",
		Version: s.version,
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
	})
}

// decode reads a JSON body into v, replying 400 itself on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		msg := "Invalid JSON"
		if errors.Is(err, io.EOF) {
			msg = "Request body is required"
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit)
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
		return false
	}
	return true
}

// fail maps a service error onto a status code
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if chat.IsValidation(err) {
		status = http.StatusBadRequest
	} else {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
