package view

import "github.com/ashureev/dsa90/internal/domain"

// GroupStats is the mastery breakdown of one topic, company or difficulty.
type GroupStats struct {
	Name     string `json:"name"`
	Total    int    `json:"total"`
	Mastered int    `json:"mastered"`
	Percent  int    `json:"percent"`
}

// Summary aggregates progress over a problem list.
type Summary struct {
	Total        int          `json:"total"`
	Attempted    int          `json:"attempted"`
	Remaining    int          `json:"remaining"`
	Mastered     int          `json:"mastered"`
	Starred      int          `json:"starred"`
	Completed    int          `json:"completed"`
	Percent      int          `json:"percent"`
	ByTopic      []GroupStats `json:"byTopic"`
	ByCompany    []GroupStats `json:"byCompany"`
	ByDifficulty []GroupStats `json:"byDifficulty"`
}

// Summarize computes totals and per-group mastery. Groups without problems
// are omitted; group order follows the enum order.
func Summarize(problems []domain.Problem) Summary {
	var s Summary
	topics := map[domain.Topic]*GroupStats{}
	companies := map[domain.Company]*GroupStats{}
	difficulties := map[domain.Difficulty]*GroupStats{}

	bump := func(g *GroupStats, mastered bool) {
		g.Total++
		if mastered {
			g.Mastered++
		}
	}

	for i := range problems {
		p := &problems[i]
		mastered := p.Mastered()

		s.Total++
		if p.Attempted() {
			s.Attempted++
		}
		if mastered {
			s.Mastered++
		}
		if p.Starred {
			s.Starred++
		}
		if p.Completed {
			s.Completed++
		}

		bump(group(topics, p.Topic), mastered)
		bump(group(difficulties, p.Difficulty), mastered)
		for _, c := range p.Companies {
			bump(group(companies, c), mastered)
		}
	}
	s.Remaining = s.Total - s.Attempted
	s.Percent = percent(s.Mastered, s.Total)

	s.ByTopic = ordered(domain.AllTopics, topics)
	s.ByCompany = ordered(domain.AllCompanies, companies)
	s.ByDifficulty = ordered(domain.AllDifficulties, difficulties)
	return s
}

func group[K ~string](m map[K]*GroupStats, k K) *GroupStats {
	g, ok := m[k]
	if !ok {
		g = &GroupStats{Name: string(k)}
		m[k] = g
	}
	return g
}

func ordered[K ~string](keys []K, m map[K]*GroupStats) []GroupStats {
	out := make([]GroupStats, 0, len(m))
	for _, k := range keys {
		if g, ok := m[k]; ok {
			g.Percent = percent(g.Mastered, g.Total)
			out = append(out, *g)
		}
	}
	return out
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return part * 100 / total
}
