package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/CTAG07/babbler/pkg/markov"
)

// GenerateAPI holds the dependencies for the sentence API handlers. The model
// is read-only, so handlers share it without locking.
type GenerateAPI struct {
	gen      *markov.Generator
	model    *markov.Model
	maxCount int
	maxWords int
	logger   *slog.Logger
}

// VersionInfo defines the structure for build/version information.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// SentencesResponse is the body returned by /api/sentences.
type SentencesResponse struct {
	Sentences []string `json:"sentences"`
}

// NewGenerateAPI creates a new instance of the GenerateAPI.
func NewGenerateAPI(gen *markov.Generator, model *markov.Model, config *Config, logger *slog.Logger) *GenerateAPI {
	return &GenerateAPI{
		gen:      gen,
		model:    model,
		maxCount: config.MaxSentencesPerRequest,
		maxWords: config.MaxWords,
		logger:   logger,
	}
}

// RegisterRoutes sets up the routing for all /api endpoints.
func (a *GenerateAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/sentences", a.handleSentences)
	mux.HandleFunc("/api/sentences/stream", a.handleStream)
	mux.HandleFunc("/api/stats", a.handleStats)
	mux.HandleFunc("/api/version", a.handleVersion)
}

// parseCount reads the count query parameter, defaulting to 1.
func (a *GenerateAPI) parseCount(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("count")
	if raw == "" {
		return 1, nil
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count < 0 {
		return 0, fmt.Errorf("count must be a non-negative integer")
	}
	if count > a.maxCount {
		return 0, fmt.Errorf("count must not exceed %d", a.maxCount)
	}
	return count, nil
}

// handleSentences returns a batch of generated sentences as JSON.
func (a *GenerateAPI) handleSentences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	count, err := a.parseCount(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	sentences, err := a.gen.GenerateN(r.Context(), a.model, count, markov.WithMaxWords(a.maxWords))
	if err != nil {
		a.logger.Error("Failed to generate sentences", "count", count, "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate sentences: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, SentencesResponse{Sentences: sentences})
}

// handleStream writes sentences as plain text, one per line, flushing each
// one as soon as it is generated.
func (a *GenerateAPI) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	count, err := a.parseCount(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	stream, err := a.gen.GenerateStream(r.Context(), a.model, count, markov.WithMaxWords(a.maxWords))
	if err != nil {
		a.logger.Error("Failed to start sentence stream", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate sentences: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	for sentence := range stream {
		if _, err = fmt.Fprintln(w, sentence); err != nil {
			a.logger.Debug("Client went away during stream", "error", err)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// handleStats returns statistics for the served model.
func (a *GenerateAPI) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondWithJSON(w, http.StatusOK, a.model.Stats())
}

// handleVersion returns the application's build information.
func (a *GenerateAPI) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondWithJSON(w, http.StatusOK, VersionInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
	})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Error("Failed to encode JSON response", "error", err)
		}
	}
}
