package domain

import (
	"slices"
	"time"
)

// Progress mirrors the completed/starred ID sets kept alongside the problem list.
type Progress struct {
	CompletedProblems []string  `json:"completedProblems"`
	StarredProblems   []string  `json:"starredProblems"`
	LastUpdated       time.Time `json:"lastUpdated"`
}

// NewProgress returns an empty progress record stamped with now.
func NewProgress(now time.Time) Progress {
	return Progress{
		CompletedProblems: []string{},
		StarredProblems:   []string{},
		LastUpdated:       now,
	}
}

// SetCompleted adds or removes id from the completed set.
func (p *Progress) SetCompleted(id string, completed bool, now time.Time) {
	p.CompletedProblems = setMember(p.CompletedProblems, id, completed)
	p.LastUpdated = now
}

// SetStarred adds or removes id from the starred set.
func (p *Progress) SetStarred(id string, starred bool, now time.Time) {
	p.StarredProblems = setMember(p.StarredProblems, id, starred)
	p.LastUpdated = now
}

func setMember(ids []string, id string, present bool) []string {
	idx := slices.Index(ids, id)
	switch {
	case present && idx < 0:
		return append(ids, id)
	case !present && idx >= 0:
		return slices.Delete(ids, idx, idx+1)
	default:
		if ids == nil {
			return []string{}
		}
		return ids
	}
}

// Preferences are the persisted view settings of the UI.
type Preferences struct {
	ShowTags           bool   `json:"showTags"`
	SelectedTopic      string `json:"selectedTopic,omitempty"`
	SelectedDifficulty string `json:"selectedDifficulty,omitempty"`
	SelectedCompany    string `json:"selectedCompany,omitempty"`
	SortBy             string `json:"sortBy"`
	SortOrder          string `json:"sortOrder"`
}

// DefaultPreferences sorts by difficulty ascending with tags hidden.
func DefaultPreferences() Preferences {
	return Preferences{SortBy: "difficulty", SortOrder: "asc"}
}
