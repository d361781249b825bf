package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pep299/leeai-studio/internal/config"
	"github.com/pep299/leeai-studio/internal/gemini"
	"github.com/pep299/leeai-studio/internal/model"
	"github.com/pep299/leeai-studio/internal/render"
	"github.com/pep299/leeai-studio/internal/service"
	"github.com/pep299/leeai-studio/internal/speech"
)

// generateHandler returns the raw generated text for a tool
func (s *Server) generateHandler(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	text, err := s.studio.Generate(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeText(w, http.StatusOK, text)
}

// audioHandler narrates the context and returns MP3 audio
func (s *Server) audioHandler(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	audio, err := s.studio.Audio(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", `inline; filename="audio-summary.mp3"`)
	w.Write(audio)
}

// renderRequest is the body of POST /render
type renderRequest struct {
	ToolType     model.ToolType `json:"toolType"`
	Content      string         `json:"content"`
	QuestionType string         `json:"questionType,omitempty"`
}

// renderHandler parses generated text into a view for clients that do not
// carry the parsers themselves
func (s *Server) renderHandler(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	view := render.Build(req.ToolType, req.Content, model.QuestionType(req.QuestionType))
	writeJSON(w, view)
}

// chatHandler answers one tutor message
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	reply, err := s.studio.Chat(r.Context(), r.URL.Query().Get("message"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, reply)
}

// cacheStatsHandler returns cache statistics
func (s *Server) cacheStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.cacheManager.GetStats(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Error getting cache stats: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats)
}

// cacheClearHandler clears the cache
func (s *Server) cacheClearHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.cacheManager.Clear(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("Error clearing cache: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{
		"status":  "success",
		"message": "Cache cleared successfully",
	})
}

// healthHandler provides health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"version":   Version,
	})
}

// configHandler returns configuration (sanitized) and the tool catalogue
func (s *Server) configHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, struct {
		*config.Config
		Tools      []model.ToolType `json:"tools"`
		QuizCounts []int            `json:"quiz_counts"`
	}{s.config, model.Tools, model.AllowedQuizCounts})
}

// maxRequestBytes bounds a JSON request body. Contexts are truncated later,
// but only after the body has been read.
const maxRequestBytes = 4 << 20

// decodeRequest reads a size-limited JSON body into v and writes the error
// reply when it cannot
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeText(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// writeError maps service and upstream errors to a plain-text reply.
// Upstream HTTP statuses are passed through.
func writeError(w http.ResponseWriter, err error) {
	var (
		geminiErr *gemini.APIError
		speechErr *speech.APIError
	)
	switch {
	case errors.Is(err, service.ErrMissingTool), errors.Is(err, service.ErrEmptyMessage):
		writeText(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmptyScript):
		writeText(w, http.StatusInternalServerError, err.Error())
	case errors.Is(err, service.ErrNoSynthesizer):
		writeText(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &speechErr):
		writeText(w, upstreamStatus(speechErr.StatusCode), speechErr.Provider+" error: "+strings.TrimSpace(speechErr.Body))
	case errors.As(err, &geminiErr):
		writeText(w, upstreamStatus(geminiErr.StatusCode), "Gemini error: "+strings.TrimSpace(geminiErr.Body))
	default:
		// Details stay in the log; transport errors can quote upstream URLs
		log.Printf("Request failed: %v", err)
		writeText(w, http.StatusInternalServerError, "Server error")
	}
}

// upstreamStatus keeps an upstream error status, or reports a bad gateway
// when it is not an error status
func upstreamStatus(code int) int {
	if code >= 400 && code <= 599 {
		return code
	}
	return http.StatusBadGateway
}
