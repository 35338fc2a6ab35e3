// Package tracker owns the problem list, applies user mutations to it and
// persists the result through a debounced saver.
package tracker

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/ashureev/dsa90/internal/domain"
	"github.com/ashureev/dsa90/internal/store"
	"github.com/ashureev/dsa90/internal/youtube"
)

var (
	// ErrProblemNotFound is returned for unknown problem IDs.
	ErrProblemNotFound = errors.New("problem not found")
	// ErrInvalidAttempt is returned for attempt indexes outside [0, MaxAttempts)
	// or when every attempt slot is used.
	ErrInvalidAttempt = errors.New("invalid attempt")
	// ErrInvalidPatch is returned when an update carries unknown enum values.
	ErrInvalidPatch = errors.New("invalid problem update")
	// ErrInvalidPreferences is returned for unknown sort keys or orders.
	ErrInvalidPreferences = errors.New("invalid preferences")
	// ErrRefreshUnavailable is returned by Refresh when no live feed is
	// configured.
	ErrRefreshUnavailable = errors.New("feed refresh unavailable")
	// ErrFeedUnavailable wraps feed failures seen by Refresh.
	ErrFeedUnavailable = errors.New("feed unavailable")
)

// DefaultDebounce is the delay between the last mutation and the save.
const DefaultDebounce = time.Second

// Publisher receives state change notifications. Publish is called with the
// service lock held and must not block.
type Publisher interface {
	Publish(domain.Event)
}

// State is the persisted problemsState document.
type State struct {
	Problems   []domain.Problem `json:"problems"`
	HasFetched bool             `json:"hasFetched"`
}

// Options configures a Service.
type Options struct {
	// Debounce is the save delay. Zero or negative saves synchronously.
	Debounce time.Duration
	// RefreshSource is the live feed Refresh merges from. It must not fall
	// back to mock data. Nil disables Refresh.
	RefreshSource youtube.Source
	Publisher     Publisher
	Logger        *slog.Logger
	Now           func() time.Time
}

// Service holds the problem list and user progress for a single user.
type Service struct {
	kv        store.KV
	source    youtube.Source
	live      youtube.Source
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
	saver     *debouncer

	fetchMu sync.Mutex

	mu       sync.RWMutex
	st       State
	index    map[string]int
	progress domain.Progress
}

// New creates a Service. Call Hydrate before serving requests.
func New(kv store.KV, source youtube.Source, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Service{
		kv:        kv,
		source:    source,
		live:      opts.RefreshSource,
		publisher: opts.Publisher,
		logger:    logger,
		now:       now,
		st:        State{Problems: []domain.Problem{}},
		index:     map[string]int{},
		progress:  domain.NewProgress(now()),
	}
	s.saver = newDebouncer(opts.Debounce, s.save, logger)
	return s
}

// Hydrate loads persisted state. Corrupt or missing documents leave the
// service with fresh state.
func (s *Service) Hydrate(ctx context.Context) error {
	st, err := store.LoadJSON[State](ctx, s.kv, store.KeyProblemsState)
	switch {
	case errors.Is(err, store.ErrNotFound):
		st = State{}
	case err != nil:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Error("Failed to load saved problems, starting fresh", "error", err)
		st = State{}
	}
	if st.Problems == nil {
		st.Problems = []domain.Problem{}
	}

	progress, err := store.LoadJSON[domain.Progress](ctx, s.kv, store.KeyProgress)
	hasProgress := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.Error("Failed to load saved progress, rebuilding", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = st
	s.reindex()
	if hasProgress {
		s.progress = progress
	} else {
		s.progress = progressFrom(s.st.Problems, s.now())
	}

	s.logger.Info("Tracker state loaded",
		"problems", len(s.st.Problems),
		"has_fetched", s.st.HasFetched)
	return nil
}

// FetchProblems seeds the problem list from the source the first time it
// runs. It is a no-op once problems exist.
func (s *Service) FetchProblems(ctx context.Context) error {
	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	s.mu.RLock()
	done := s.st.HasFetched || len(s.st.Problems) > 0
	s.mu.RUnlock()
	if done {
		return nil
	}

	problems, err := s.source.Problems(ctx)
	if err != nil {
		return fmt.Errorf("fetch problems: %w", err)
	}
	problems = domain.CloneAll(problems)
	sortByDifficulty(problems)
	for i := range problems {
		if problems[i].Attempts == nil {
			problems[i].Attempts = []domain.Attempt{}
		}
	}

	s.mu.Lock()
	s.st = State{Problems: problems, HasFetched: true}
	s.reindex()
	s.progress = progressFrom(problems, s.now())
	s.mu.Unlock()

	if err := s.save(ctx); err != nil {
		return err
	}
	s.logger.Info("Problems fetched", "count", len(problems))
	s.publish(domain.Event{Type: domain.EventProblemsLoaded, Count: len(problems)})
	return nil
}

// Refresh merges the current feed into the stored list. New problems are
// appended, known ones get their derived fields refreshed and keep their
// user data. Nothing is removed. It returns the number of added problems.
// A feed failure leaves the state untouched.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	if s.live == nil {
		return 0, ErrRefreshUnavailable
	}

	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	fresh, err := s.live.Problems(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}

	s.mu.Lock()
	added := 0
	for _, p := range fresh {
		if i, ok := s.index[p.ID]; ok {
			cur := &s.st.Problems[i]
			cur.Title = p.Title
			cur.Topic = p.Topic
			cur.Difficulty = p.Difficulty
			cur.Companies = slices.Clone(p.Companies)
			cur.QuestionLink = p.QuestionLink
			cur.VideoID = p.VideoID
			continue
		}
		np := p.Clone()
		if np.Attempts == nil {
			np.Attempts = []domain.Attempt{}
		}
		s.st.Problems = append(s.st.Problems, np)
		s.index[np.ID] = len(s.st.Problems) - 1
		added++
	}
	s.st.HasFetched = true
	total := len(s.st.Problems)
	s.mu.Unlock()

	if err := s.save(ctx); err != nil {
		return added, err
	}
	s.logger.Info("Problems refreshed", "added", added, "total", total)
	s.publish(domain.Event{Type: domain.EventProblemsLoaded, Count: total})
	return added, nil
}

// Problems returns a copy of every problem in stored order.
func (s *Service) Problems() []domain.Problem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneAll(s.st.Problems)
}

// Problem returns a copy of the problem with the given id.
func (s *Service) Problem(id string) (domain.Problem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return domain.Problem{}, fmt.Errorf("%w: %s", ErrProblemNotFound, id)
	}
	return s.st.Problems[i].Clone(), nil
}

// HasFetched reports whether the list was ever seeded from the source.
func (s *Service) HasFetched() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.HasFetched
}

// UpdateProblem applies a partial update.
func (s *Service) UpdateProblem(id string, patch Patch) (domain.Problem, error) {
	if err := patch.Validate(); err != nil {
		return domain.Problem{}, err
	}
	return s.mutate(id, func(p *domain.Problem, now time.Time) error {
		patch.apply(p)
		if patch.Starred != nil {
			s.progress.SetStarred(id, p.Starred, now)
		}
		if patch.Completed != nil {
			s.progress.SetCompleted(id, p.Completed, now)
		}
		return nil
	})
}

// ToggleBookmark flips the starred flag.
func (s *Service) ToggleBookmark(id string) (domain.Problem, error) {
	return s.mutate(id, func(p *domain.Problem, now time.Time) error {
		p.Starred = !p.Starred
		s.progress.SetStarred(id, p.Starred, now)
		return nil
	})
}

// SetCompleted sets the completion flag.
func (s *Service) SetCompleted(id string, completed bool) (domain.Problem, error) {
	return s.mutate(id, func(p *domain.Problem, now time.Time) error {
		p.Completed = completed
		s.progress.SetCompleted(id, completed, now)
		return nil
	})
}

// ToggleAttempt flips attempt slot index. An existing attempt at index is
// removed, otherwise a successful attempt dated now is appended.
func (s *Service) ToggleAttempt(id string, index int) (domain.Problem, error) {
	if index < 0 || index >= domain.MaxAttempts {
		return domain.Problem{}, fmt.Errorf("%w: index %d out of range", ErrInvalidAttempt, index)
	}
	return s.mutate(id, func(p *domain.Problem, now time.Time) error {
		if index < len(p.Attempts) {
			p.Attempts = slices.Delete(slices.Clone(p.Attempts), index, index+1)
		} else {
			p.Attempts = append(p.Attempts, domain.Attempt{Date: now, Successful: true})
		}
		touchAttempted(p, now)
		return nil
	})
}

// RecordAttempt appends an attempt with an explicit outcome.
func (s *Service) RecordAttempt(id string, successful bool) (domain.Problem, error) {
	return s.mutate(id, func(p *domain.Problem, now time.Time) error {
		if len(p.Attempts) >= domain.MaxAttempts {
			return fmt.Errorf("%w: all %d attempts used", ErrInvalidAttempt, domain.MaxAttempts)
		}
		p.Attempts = append(p.Attempts, domain.Attempt{Date: now, Successful: successful})
		touchAttempted(p, now)
		return nil
	})
}

func touchAttempted(p *domain.Problem, now time.Time) {
	if len(p.Attempts) == 0 {
		p.LastAttempted = nil
		return
	}
	t := now
	p.LastAttempted = &t
}

// mutate runs fn on the stored problem, schedules a save and publishes the
// result. fn and the publish run with the write lock held so events leave in
// mutation order.
func (s *Service) mutate(id string, fn func(p *domain.Problem, now time.Time) error) (domain.Problem, error) {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return domain.Problem{}, fmt.Errorf("%w: %s", ErrProblemNotFound, id)
	}
	work := s.st.Problems[i].Clone()
	if err := fn(&work, s.now()); err != nil {
		s.mu.Unlock()
		return domain.Problem{}, err
	}
	s.st.Problems[i] = work
	out := work.Clone()
	ev := work.Clone()
	s.publish(domain.Event{Type: domain.EventProblemUpdated, ProblemID: id, Problem: &ev})
	s.mu.Unlock()

	s.saver.Trigger()
	return out, nil
}

// Progress returns the completed/starred ID sets.
func (s *Service) Progress() domain.Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Progress{
		CompletedProblems: slices.Clone(s.progress.CompletedProblems),
		StarredProblems:   slices.Clone(s.progress.StarredProblems),
		LastUpdated:       s.progress.LastUpdated,
	}
}

// Preferences returns the saved view preferences or the defaults.
func (s *Service) Preferences(ctx context.Context) (domain.Preferences, error) {
	p, err := store.LoadJSON[domain.Preferences](ctx, s.kv, store.KeyPreferences)
	if errors.Is(err, store.ErrNotFound) {
		return domain.DefaultPreferences(), nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return domain.Preferences{}, ctx.Err()
		}
		s.logger.Warn("Saved preferences unreadable, using defaults", "error", err)
		return domain.DefaultPreferences(), nil
	}
	return p, nil
}

// SavePreferences validates and stores p.
func (s *Service) SavePreferences(ctx context.Context, p domain.Preferences) (domain.Preferences, error) {
	if p.SortBy == "" {
		p.SortBy = domain.DefaultPreferences().SortBy
	}
	if p.SortOrder == "" {
		p.SortOrder = domain.DefaultPreferences().SortOrder
	}
	switch p.SortBy {
	case "difficulty", "title", "topic":
	default:
		return domain.Preferences{}, fmt.Errorf("%w: sortBy %q", ErrInvalidPreferences, p.SortBy)
	}
	if p.SortOrder != "asc" && p.SortOrder != "desc" {
		return domain.Preferences{}, fmt.Errorf("%w: sortOrder %q", ErrInvalidPreferences, p.SortOrder)
	}
	if err := store.SaveJSON(ctx, s.kv, store.KeyPreferences, p); err != nil {
		return domain.Preferences{}, err
	}
	s.publish(domain.Event{Type: domain.EventPreferencesSaved, Preferences: &p})
	return p, nil
}

// Flush writes pending changes immediately.
func (s *Service) Flush(ctx context.Context) error {
	return s.saver.Flush(ctx)
}

// Close flushes pending changes and stops scheduling new saves.
func (s *Service) Close(ctx context.Context) error {
	return s.saver.Close(ctx)
}

// save snapshots state under the read lock and writes both documents.
func (s *Service) save(ctx context.Context) error {
	s.mu.RLock()
	st := State{Problems: domain.CloneAll(s.st.Problems), HasFetched: s.st.HasFetched}
	progress := s.progress
	progress.CompletedProblems = slices.Clone(progress.CompletedProblems)
	progress.StarredProblems = slices.Clone(progress.StarredProblems)
	s.mu.RUnlock()

	if err := store.SaveJSON(ctx, s.kv, store.KeyProblemsState, st); err != nil {
		return err
	}
	if err := store.SaveJSON(ctx, s.kv, store.KeyProgress, progress); err != nil {
		return err
	}
	s.logger.Debug("Tracker state saved", "problems", len(st.Problems))
	return nil
}

func (s *Service) publish(e domain.Event) {
	if s.publisher != nil {
		s.publisher.Publish(e)
	}
}

// reindex rebuilds the id lookup. Caller holds mu.
func (s *Service) reindex() {
	s.index = make(map[string]int, len(s.st.Problems))
	for i, p := range s.st.Problems {
		s.index[p.ID] = i
	}
}

func sortByDifficulty(problems []domain.Problem) {
	slices.SortStableFunc(problems, func(a, b domain.Problem) int {
		return cmp.Compare(a.Difficulty.Rank(), b.Difficulty.Rank())
	})
}

func progressFrom(problems []domain.Problem, now time.Time) domain.Progress {
	p := domain.NewProgress(now)
	for _, pr := range problems {
		if pr.Completed {
			p.CompletedProblems = append(p.CompletedProblems, pr.ID)
		}
		if pr.Starred {
			p.StarredProblems = append(p.StarredProblems, pr.ID)
		}
	}
	return p
}
