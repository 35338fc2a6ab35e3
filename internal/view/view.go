// Package view filters, sorts and summarizes problem lists. All functions are
// pure: inputs are never modified.
package view

import (
	"cmp"
	"fmt"
	"math/rand"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ashureev/dsa90/internal/domain"
)

// Status selects problems by progress.
type Status string

const (
	StatusAll  Status = "All"
	StatusTodo Status = "Todo"
	StatusDone Status = "Done"
)

// Sort keys.
const (
	SortDifficulty = "difficulty"
	SortTitle      = "title"
	SortTopic      = "topic"
)

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// DefaultRevisionCount is the size of a revision set when none is given.
const DefaultRevisionCount = 5

// Query describes a filtered, sorted view of the problem list.
// Zero values mean "no filter".
type Query struct {
	Topic       domain.Topic
	Difficulty  domain.Difficulty
	Company     domain.Company
	Status      Status
	StarredOnly bool
	Search      string
	SortBy      string
	Order       string
}

// DefaultQuery shows everything ordered by difficulty.
func DefaultQuery() Query {
	return Query{Status: StatusAll, SortBy: SortDifficulty, Order: OrderAsc}
}

// ParseQuery reads a Query from URL parameters. "All" and empty values
// disable a filter.
func ParseQuery(v url.Values) (Query, error) {
	q := DefaultQuery()

	if s := v.Get("topic"); !isAll(s) {
		t, err := domain.ParseTopic(s)
		if err != nil {
			return Query{}, err
		}
		q.Topic = t
	}
	if s := v.Get("difficulty"); !isAll(s) {
		d, err := domain.ParseDifficulty(s)
		if err != nil {
			return Query{}, err
		}
		q.Difficulty = d
	}
	if s := v.Get("company"); !isAll(s) {
		c, err := domain.ParseCompany(s)
		if err != nil {
			return Query{}, err
		}
		q.Company = c
	}
	if s := v.Get("status"); !isAll(s) {
		switch {
		case strings.EqualFold(s, string(StatusTodo)):
			q.Status = StatusTodo
		case strings.EqualFold(s, string(StatusDone)):
			q.Status = StatusDone
		default:
			return Query{}, fmt.Errorf("unknown status %q", s)
		}
	}
	if s := v.Get("starred"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Query{}, fmt.Errorf("invalid starred %q", s)
		}
		q.StarredOnly = b
	}
	q.Search = strings.TrimSpace(v.Get("search"))

	if s := v.Get("sortBy"); s != "" {
		switch s {
		case SortDifficulty, SortTitle, SortTopic:
			q.SortBy = s
		default:
			return Query{}, fmt.Errorf("unknown sortBy %q", s)
		}
	}
	if s := v.Get("order"); s != "" {
		if s != OrderAsc && s != OrderDesc {
			return Query{}, fmt.Errorf("unknown order %q", s)
		}
		q.Order = s
	}
	return q, nil
}

func isAll(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "all")
}

// Done reports whether a problem counts as done in the status filter.
func Done(p *domain.Problem) bool {
	return p.Completed || p.Attempted()
}

// Matches reports whether p passes every filter in q.
func (q Query) Matches(p *domain.Problem) bool {
	if q.Topic != "" && p.Topic != q.Topic {
		return false
	}
	if q.Difficulty != "" && p.Difficulty != q.Difficulty {
		return false
	}
	if q.Company != "" && !p.HasCompany(q.Company) {
		return false
	}
	switch q.Status {
	case StatusTodo:
		if Done(p) {
			return false
		}
	case StatusDone:
		if !Done(p) {
			return false
		}
	}
	if q.StarredOnly && !p.Starred {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(string(p.Topic)), needle) {
			return false
		}
	}
	return true
}

// Filter returns copies of the problems matching q, in input order.
func Filter(problems []domain.Problem, q Query) []domain.Problem {
	out := make([]domain.Problem, 0, len(problems))
	for i := range problems {
		if q.Matches(&problems[i]) {
			out = append(out, problems[i].Clone())
		}
	}
	return out
}

// Sort returns a sorted copy. Unknown keys sort by difficulty. Ties keep
// input order in both directions.
func Sort(problems []domain.Problem, by, order string) []domain.Problem {
	out := domain.CloneAll(problems)

	var compare func(a, b domain.Problem) int
	switch by {
	case SortTitle, SortTopic:
		col := collate.New(language.English, collate.IgnoreCase)
		key := func(p domain.Problem) string {
			if by == SortTopic {
				return string(p.Topic)
			}
			return p.Title
		}
		compare = func(a, b domain.Problem) int {
			return col.CompareString(key(a), key(b))
		}
	default:
		compare = func(a, b domain.Problem) int {
			return cmp.Compare(a.Difficulty.Rank(), b.Difficulty.Rank())
		}
	}
	if order == OrderDesc {
		asc := compare
		compare = func(a, b domain.Problem) int { return asc(b, a) }
	}

	slices.SortStableFunc(out, compare)
	return out
}

// Apply filters then sorts.
func Apply(problems []domain.Problem, q Query) []domain.Problem {
	return Sort(Filter(problems, q), q.SortBy, q.Order)
}

// Bookmarked returns the starred problems.
func Bookmarked(problems []domain.Problem) []domain.Problem {
	return Filter(problems, Query{StarredOnly: true})
}

// Revision picks up to n random problems that were attempted but not
// bookmarked. n <= 0 uses DefaultRevisionCount.
func Revision(problems []domain.Problem, n int, rnd *rand.Rand) []domain.Problem {
	if n <= 0 {
		n = DefaultRevisionCount
	}
	pool := make([]domain.Problem, 0, len(problems))
	for i := range problems {
		if problems[i].Attempted() && !problems[i].Starred {
			pool = append(pool, problems[i].Clone())
		}
	}
	shuffle := rand.Shuffle
	if rnd != nil {
		shuffle = rnd.Shuffle
	}
	shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > n {
		pool = pool[:n]
	}
	return pool
}
