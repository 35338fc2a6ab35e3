// Package domain contains core domain types for the dsa90 tracker.
package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	// MaxAttempts is the number of attempt slots tracked per problem.
	MaxAttempts = 3
	// MasteryThreshold is the number of successful attempts that marks a problem as mastered.
	MasteryThreshold = 3
)

// Difficulty is the difficulty tag of a problem.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// AllDifficulties lists difficulties from easiest to hardest.
var AllDifficulties = []Difficulty{Easy, Medium, Hard}

// Rank orders difficulties Easy < Medium < Hard. Unknown values sort last.
func (d Difficulty) Rank() int {
	switch d {
	case Easy:
		return 0
	case Medium:
		return 1
	case Hard:
		return 2
	default:
		return 3
	}
}

// ParseDifficulty matches a difficulty name case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range AllDifficulties {
		if strings.EqualFold(string(d), strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Attempt is a recorded try at a problem.
type Attempt struct {
	Date       time.Time `json:"date"`
	Successful bool      `json:"successful"`
}

// Problem is a single tracked interview problem.
type Problem struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Topic         Topic      `json:"topic"`
	Difficulty    Difficulty `json:"difficulty"`
	Companies     []Company  `json:"companies"`
	QuestionLink  string     `json:"questionLink"`
	VideoID       string     `json:"videoId"`
	Completed     bool       `json:"completed"`
	Starred       bool       `json:"starred"`
	AddedAt       time.Time  `json:"addedAt"`
	LastAttempted *time.Time `json:"lastAttempted,omitempty"`
	Attempts      []Attempt  `json:"attempts"`
}

// SuccessfulAttempts counts attempts flagged as successful.
func (p *Problem) SuccessfulAttempts() int {
	n := 0
	for _, a := range p.Attempts {
		if a.Successful {
			n++
		}
	}
	return n
}

// Mastered reports whether the problem has reached the mastery threshold.
func (p *Problem) Mastered() bool {
	return p.SuccessfulAttempts() >= MasteryThreshold
}

// Attempted reports whether at least one attempt is recorded.
func (p *Problem) Attempted() bool {
	return len(p.Attempts) > 0
}

// HasCompany reports whether the problem is tagged with c.
func (p *Problem) HasCompany(c Company) bool {
	return slices.Contains(p.Companies, c)
}

// VideoURL returns the watch URL of the problem's video.
func (p *Problem) VideoURL() string {
	if p.VideoID == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + p.VideoID
}

// Clone returns a deep copy so callers can't alias tracker state.
func (p *Problem) Clone() Problem {
	out := *p
	out.Companies = slices.Clone(p.Companies)
	out.Attempts = slices.Clone(p.Attempts)
	if p.LastAttempted != nil {
		t := *p.LastAttempted
		out.LastAttempted = &t
	}
	return out
}

// CloneAll deep-copies a problem slice.
func CloneAll(problems []Problem) []Problem {
	out := make([]Problem, len(problems))
	for i := range problems {
		out[i] = problems[i].Clone()
	}
	return out
}
