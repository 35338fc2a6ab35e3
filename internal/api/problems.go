package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/dsa90/internal/domain"
	"github.com/ashureev/dsa90/internal/report"
	"github.com/ashureev/dsa90/internal/tracker"
	"github.com/ashureev/dsa90/internal/view"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ProblemHandler serves problem, progress and preference endpoints.
type ProblemHandler struct {
	*Handler
}

// NewProblemHandler creates a problem handler.
func NewProblemHandler(base *Handler) *ProblemHandler {
	return &ProblemHandler{Handler: base}
}

// RegisterRoutes registers the tracker API routes.
func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/problems", h.ListProblems)
		r.Post("/problems/refresh", h.Refresh)
		r.Get("/problems/{id}", h.GetProblem)
		r.Patch("/problems/{id}", h.UpdateProblem)
		r.Post("/problems/{id}/bookmark", h.ToggleBookmark)
		r.Put("/problems/{id}/completed", h.SetCompleted)
		r.Post("/problems/{id}/attempts", h.RecordAttempt)
		r.Post("/problems/{id}/attempts/{index}", h.ToggleAttempt)

		r.Get("/stats", h.Stats)
		r.Get("/bookmarks", h.Bookmarks)
		r.Get("/revision", h.Revision)
		r.Get("/progress", h.Progress)
		r.Get("/preferences", h.GetPreferences)
		r.Put("/preferences", h.SavePreferences)
		r.Get("/resources", h.Resources)
		r.Get("/export.xlsx", h.Export)
	})
}

// ListProblems returns the filtered, sorted problem list.
func (h *ProblemHandler) ListProblems(w http.ResponseWriter, r *http.Request) {
	q, err := view.ParseQuery(r.URL.Query())
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	all := h.tracker.Problems()
	problems := view.Apply(all, q)
	JSON(w, http.StatusOK, map[string]interface{}{
		"problems": problems,
		"count":    len(problems),
		"total":    len(all),
	})
}

// GetProblem returns one problem.
func (h *ProblemHandler) GetProblem(w http.ResponseWriter, r *http.Request) {
	p, err := h.tracker.Problem(chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, p)
}

// UpdateProblem applies a partial update.
func (h *ProblemHandler) UpdateProblem(w http.ResponseWriter, r *http.Request) {
	var patch tracker.Patch
	if err := decodeJSON(w, r, &patch); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.Empty() {
		Error(w, http.StatusBadRequest, "no fields to update")
		return
	}
	p, err := h.tracker.UpdateProblem(chi.URLParam(r, "id"), patch)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, p)
}

// ToggleBookmark flips the starred flag.
func (h *ProblemHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	p, err := h.tracker.ToggleBookmark(chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, p)
}

// SetCompleted sets the completion flag from {"completed": bool}.
func (h *ProblemHandler) SetCompleted(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Completed *bool `json:"completed"`
	}
	if err := decodeJSON(w, r, &body); err != nil || body.Completed == nil {
		Error(w, http.StatusBadRequest, "completed is required")
		return
	}
	p, err := h.tracker.SetCompleted(chi.URLParam(r, "id"), *body.Completed)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, p)
}

// ToggleAttempt flips one attempt slot.
func (h *ProblemHandler) ToggleAttempt(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		Error(w, http.StatusBadRequest, "attempt index must be an integer")
		return
	}
	p, err := h.tracker.ToggleAttempt(chi.URLParam(r, "id"), index)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, p)
}

// RecordAttempt appends an attempt from {"successful": bool}.
func (h *ProblemHandler) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Successful *bool `json:"successful"`
	}
	if err := decodeJSON(w, r, &body); err != nil || body.Successful == nil {
		Error(w, http.StatusBadRequest, "successful is required")
		return
	}
	p, err := h.tracker.RecordAttempt(chi.URLParam(r, "id"), *body.Successful)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, p)
}

// Refresh merges the current playlist into the stored list.
func (h *ProblemHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	added, err := h.tracker.Refresh(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]int{
		"added": added,
		"total": len(h.tracker.Problems()),
	})
}

// Stats returns progress totals and per-group mastery.
func (h *ProblemHandler) Stats(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, view.Summarize(h.tracker.Problems()))
}

// Bookmarks returns the starred problems.
func (h *ProblemHandler) Bookmarks(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, view.Bookmarked(h.tracker.Problems()))
}

// Revision returns a random set of attempted problems to revisit.
func (h *ProblemHandler) Revision(w http.ResponseWriter, r *http.Request) {
	n := view.DefaultRevisionCount
	if s := r.URL.Query().Get("n"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			Error(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = v
	}

	problems := h.tracker.Problems()
	h.rndMu.Lock()
	picked := view.Revision(problems, n, h.rnd)
	h.rndMu.Unlock()
	JSON(w, http.StatusOK, picked)
}

// Progress returns the completed and starred ID sets.
func (h *ProblemHandler) Progress(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, h.tracker.Progress())
}

// GetPreferences returns the saved view preferences.
func (h *ProblemHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := h.tracker.Preferences(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, p)
}

// SavePreferences stores the view preferences.
func (h *ProblemHandler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	var p domain.Preferences
	if err := decodeJSON(w, r, &p); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	saved, err := h.tracker.SavePreferences(r.Context(), p)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, saved)
}

// Resources returns the fixed course resource videos.
func (h *ProblemHandler) Resources(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, domain.Resources())
}

// Export streams the progress workbook.
func (h *ProblemHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, h.tracker.Problems(), h.now()); err != nil {
		slog.Error("Failed to build export", "error", err)
		Error(w, http.StatusInternalServerError, "failed to build export")
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="dsa90-progress.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("Export write interrupted", "path", r.URL.Path, "error", err)
	}
}
