package tracker

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ashureev/dsa90/internal/domain"
)

// Patch is a partial problem update. Nil fields are left unchanged.
type Patch struct {
	Title        *string            `json:"title,omitempty"`
	Topic        *domain.Topic      `json:"topic,omitempty"`
	Difficulty   *domain.Difficulty `json:"difficulty,omitempty"`
	Companies    []domain.Company   `json:"companies,omitempty"`
	QuestionLink *string            `json:"questionLink,omitempty"`
	Starred      *bool              `json:"starred,omitempty"`
	Completed    *bool              `json:"completed,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Topic == nil && p.Difficulty == nil &&
		p.Companies == nil && p.QuestionLink == nil &&
		p.Starred == nil && p.Completed == nil
}

// Validate rejects empty titles and unknown enum values.
func (p Patch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidPatch)
	}
	if p.Topic != nil {
		if _, err := domain.ParseTopic(string(*p.Topic)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
		}
	}
	if p.Difficulty != nil {
		if _, err := domain.ParseDifficulty(string(*p.Difficulty)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
		}
	}
	for _, c := range p.Companies {
		if _, err := domain.ParseCompany(string(c)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
		}
	}
	return nil
}

// apply writes the set fields into pr, normalizing enum spelling.
func (p Patch) apply(pr *domain.Problem) {
	if p.Title != nil {
		pr.Title = strings.TrimSpace(*p.Title)
	}
	if p.Topic != nil {
		pr.Topic, _ = domain.ParseTopic(string(*p.Topic))
	}
	if p.Difficulty != nil {
		pr.Difficulty, _ = domain.ParseDifficulty(string(*p.Difficulty))
	}
	if p.Companies != nil {
		companies := make([]domain.Company, 0, len(p.Companies))
		for _, c := range p.Companies {
			parsed, _ := domain.ParseCompany(string(c))
			if !slices.Contains(companies, parsed) {
				companies = append(companies, parsed)
			}
		}
		pr.Companies = companies
	}
	if p.QuestionLink != nil {
		pr.QuestionLink = strings.TrimSpace(*p.QuestionLink)
	}
	if p.Starred != nil {
		pr.Starred = *p.Starred
	}
	if p.Completed != nil {
		pr.Completed = *p.Completed
	}
}
