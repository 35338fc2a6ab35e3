package youtube

import (
	"context"
	"log/slog"
	"time"

	"github.com/ashureev/dsa90/internal/domain"
)

// Source provides the problem list the tracker is seeded from.
type Source interface {
	Problems(ctx context.Context) ([]domain.Problem, error)
}

var _ Source = (*Client)(nil)

// FallbackSource serves mock problems whenever the primary source fails.
// It never returns an error.
type FallbackSource struct {
	primary Source
	logger  *slog.Logger
	now     func() time.Time
}

var _ Source = (*FallbackSource)(nil)

// NewFallbackSource wraps primary. A nil primary always yields mock data.
func NewFallbackSource(primary Source, logger *slog.Logger) *FallbackSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackSource{primary: primary, logger: logger, now: time.Now}
}

// Problems returns the primary's problems, or the mock list on failure.
func (s *FallbackSource) Problems(ctx context.Context) ([]domain.Problem, error) {
	if s.primary == nil {
		s.logger.Warn("No playlist source configured, using mock data")
		return MockProblems(s.now()), nil
	}

	problems, err := s.primary.Problems(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch playlist, using mock data", "error", err)
		return MockProblems(s.now()), nil
	}
	return problems, nil
}

const mockVideoID = "dQw4w9WgXcQ"

// MockProblems returns the static development data set, stamped with now.
func MockProblems(now time.Time) []domain.Problem {
	mk := func(id, title string, d domain.Difficulty, topic domain.Topic, slug string, companies ...domain.Company) domain.Problem {
		return domain.Problem{
			ID:           id,
			Title:        title,
			Difficulty:   d,
			VideoID:      mockVideoID,
			Topic:        topic,
			QuestionLink: "https://leetcode.com/problems/" + slug + "/",
			Companies:    companies,
			AddedAt:      now,
			Attempts:     []domain.Attempt{},
		}
	}
	return []domain.Problem{
		mk("1", "Two Sum", domain.Easy, domain.TopicArrays, "two-sum",
			domain.CompanyGoogle, domain.CompanyAmazon, domain.CompanyMicrosoft),
		mk("2", "Valid Parentheses", domain.Easy, domain.TopicStack, "valid-parentheses",
			domain.CompanyAmazon, domain.CompanyMicrosoft),
		mk("3", "Reverse Linked List", domain.Easy, domain.TopicLinkedList, "reverse-linked-list",
			domain.CompanyGoogle, domain.CompanyFacebook),
		mk("4", "Binary Search", domain.Easy, domain.TopicBinarySearch, "binary-search",
			domain.CompanyAmazon, domain.CompanyMicrosoft),
		mk("5", "Climbing Stairs", domain.Medium, domain.TopicDynamicProgramming, "climbing-stairs",
			domain.CompanyGoogle, domain.CompanyAmazon),
	}
}
