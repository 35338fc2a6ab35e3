// Package api provides HTTP handlers for the dsa90 API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/ashureev/dsa90/internal/domain"
	"github.com/ashureev/dsa90/internal/tracker"
)

// Tracker is the problem state the handlers operate on.
type Tracker interface {
	Problems() []domain.Problem
	Problem(id string) (domain.Problem, error)
	UpdateProblem(id string, patch tracker.Patch) (domain.Problem, error)
	ToggleBookmark(id string) (domain.Problem, error)
	SetCompleted(id string, completed bool) (domain.Problem, error)
	ToggleAttempt(id string, index int) (domain.Problem, error)
	RecordAttempt(id string, successful bool) (domain.Problem, error)
	Refresh(ctx context.Context) (int, error)
	Progress() domain.Progress
	Preferences(ctx context.Context) (domain.Preferences, error)
	SavePreferences(ctx context.Context, p domain.Preferences) (domain.Preferences, error)
}

var _ Tracker = (*tracker.Service)(nil)

// Handler provides common handler utilities.
type Handler struct {
	tracker Tracker
	now     func() time.Time

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(t Tracker) *Handler {
	return &Handler{
		tracker: t,
		now:     time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// serviceError maps tracker errors to HTTP statuses.
func serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tracker.ErrProblemNotFound):
		Error(w, http.StatusNotFound, "problem not found")
	case errors.Is(err, tracker.ErrInvalidAttempt),
		errors.Is(err, tracker.ErrInvalidPatch),
		errors.Is(err, tracker.ErrInvalidPreferences):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tracker.ErrRefreshUnavailable):
		Error(w, http.StatusServiceUnavailable, "feed refresh unavailable")
	case errors.Is(err, tracker.ErrFeedUnavailable):
		slog.Warn("Feed refresh failed", "error", err)
		Error(w, http.StatusBadGateway, "feed unavailable")
	default:
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads a single JSON object, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
