package view

import (
	"math/rand"
	"net/url"
	"testing"
	"time"

	"github.com/ashureev/dsa90/internal/domain"
	"github.com/google/go-cmp/cmp"
)

var at = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func attempts(successes ...bool) []domain.Attempt {
	out := []domain.Attempt{}
	for _, s := range successes {
		out = append(out, domain.Attempt{Date: at, Successful: s})
	}
	return out
}

func sample() []domain.Problem {
	return []domain.Problem{
		{ID: "1", Title: "Two Sum", Topic: domain.TopicArrays, Difficulty: domain.Easy,
			Companies: []domain.Company{domain.CompanyGoogle, domain.CompanyAmazon}, Attempts: attempts(true, true, true)},
		{ID: "2", Title: "word Ladder", Topic: domain.TopicGraphs, Difficulty: domain.Hard,
			Companies: []domain.Company{domain.CompanyAmazon}, Starred: true, Attempts: attempts(false)},
		{ID: "3", Title: "Valid Parentheses", Topic: domain.TopicStack, Difficulty: domain.Easy,
			Companies: []domain.Company{domain.CompanyOther}, Attempts: attempts()},
		{ID: "4", Title: "3Sum", Topic: domain.TopicArrays, Difficulty: domain.Medium,
			Companies: []domain.Company{domain.CompanyGoogle}, Completed: true, Attempts: attempts()},
		{ID: "5", Title: "Épée Scheduling", Topic: domain.TopicGreedy, Difficulty: domain.Medium,
			Companies: []domain.Company{domain.CompanyOther}, Attempts: attempts(true)},
	}
}

func idsOf(problems []domain.Problem) []string {
	out := make([]string, len(problems))
	for i, p := range problems {
		out[i] = p.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"no filters", Query{}, []string{"1", "2", "3", "4", "5"}},
		{"topic", Query{Topic: domain.TopicArrays}, []string{"1", "4"}},
		{"difficulty", Query{Difficulty: domain.Medium}, []string{"4", "5"}},
		{"company", Query{Company: domain.CompanyAmazon}, []string{"1", "2"}},
		{"todo", Query{Status: StatusTodo}, []string{"3"}},
		{"done", Query{Status: StatusDone}, []string{"1", "2", "4", "5"}},
		{"starred", Query{StarredOnly: true}, []string{"2"}},
		{"search title", Query{Search: "SUM"}, []string{"1", "4"}},
		{"search topic", Query{Search: "stack"}, []string{"3"}},
		{"combined", Query{Topic: domain.TopicArrays, Company: domain.CompanyAmazon}, []string{"1"}},
		{"nothing", Query{Topic: domain.TopicTrie}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, idsOf(Filter(sample(), tt.q))); diff != "" {
				t.Fatalf("Filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSort(t *testing.T) {
	tests := []struct {
		by, order string
		want      []string
	}{
		{SortDifficulty, OrderAsc, []string{"1", "3", "4", "5", "2"}},
		{SortDifficulty, OrderDesc, []string{"2", "4", "5", "1", "3"}},
		{SortTitle, OrderAsc, []string{"4", "5", "1", "3", "2"}},
		{SortTitle, OrderDesc, []string{"2", "3", "1", "5", "4"}},
		{SortTopic, OrderAsc, []string{"1", "4", "2", "5", "3"}},
		{"unknown", OrderAsc, []string{"1", "3", "4", "5", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.by+"_"+tt.order, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, idsOf(Sort(sample(), tt.by, tt.order))); diff != "" {
				t.Fatalf("Sort mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	in := sample()
	before := domain.CloneAll(in)

	out := Apply(in, Query{SortBy: SortTitle, Order: OrderDesc})
	out[0].Title = "changed"
	out[0].Attempts = append(out[0].Attempts, domain.Attempt{})

	if diff := cmp.Diff(before, in); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
}

func TestFilterSortCompose(t *testing.T) {
	q := Query{Company: domain.CompanyGoogle, SortBy: SortTitle, Order: OrderAsc}
	a := Apply(sample(), q)
	b := Filter(Sort(sample(), q.SortBy, q.Order), q)
	if diff := cmp.Diff(idsOf(a), idsOf(b)); diff != "" {
		t.Fatalf("filter and sort should commute (-apply +sortfirst):\n%s", diff)
	}
}

func TestParseQuery(t *testing.T) {
	v := url.Values{
		"topic":      {"arrays"},
		"difficulty": {"All"},
		"company":    {"google"},
		"status":     {"todo"},
		"starred":    {"true"},
		"search":     {"  sum "},
		"sortBy":     {"title"},
		"order":      {"desc"},
	}
	got, err := ParseQuery(v)
	if err != nil {
		t.Fatalf("ParseQuery failed: %v", err)
	}
	want := Query{
		Topic:       domain.TopicArrays,
		Company:     domain.CompanyGoogle,
		Status:      StatusTodo,
		StarredOnly: true,
		Search:      "sum",
		SortBy:      SortTitle,
		Order:       OrderDesc,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseQuery mismatch (-want +got):\n%s", diff)
	}

	empty, err := ParseQuery(url.Values{})
	if err != nil || empty != DefaultQuery() {
		t.Fatalf("empty query = %+v, %v", empty, err)
	}
}

func TestParseQueryRejectsUnknownValues(t *testing.T) {
	for _, v := range []url.Values{
		{"topic": {"Cooking"}},
		{"difficulty": {"insane"}},
		{"company": {"Initech"}},
		{"status": {"maybe"}},
		{"starred": {"yes please"}},
		{"sortBy": {"date"}},
		{"order": {"sideways"}},
	} {
		if _, err := ParseQuery(v); err == nil {
			t.Errorf("ParseQuery(%v) should fail", v)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sample())

	if s.Total != 5 || s.Attempted != 3 || s.Remaining != 2 || s.Mastered != 1 ||
		s.Starred != 1 || s.Completed != 1 || s.Percent != 20 {
		t.Fatalf("unexpected totals %+v", s)
	}

	wantTopics := []GroupStats{
		{Name: "Arrays", Total: 2, Mastered: 1, Percent: 50},
		{Name: "Stack", Total: 1},
		{Name: "Graphs", Total: 1},
		{Name: "Greedy", Total: 1},
	}
	if diff := cmp.Diff(wantTopics, s.ByTopic); diff != "" {
		t.Fatalf("topics mismatch (-want +got):\n%s", diff)
	}

	wantCompanies := []GroupStats{
		{Name: "Google", Total: 2, Mastered: 1, Percent: 50},
		{Name: "Amazon", Total: 2, Mastered: 1, Percent: 50},
		{Name: "Other", Total: 2},
	}
	if diff := cmp.Diff(wantCompanies, s.ByCompany); diff != "" {
		t.Fatalf("companies mismatch (-want +got):\n%s", diff)
	}

	wantDiff := []GroupStats{
		{Name: "Easy", Total: 2, Mastered: 1, Percent: 50},
		{Name: "Medium", Total: 2},
		{Name: "Hard", Total: 1},
	}
	if diff := cmp.Diff(wantDiff, s.ByDifficulty); diff != "" {
		t.Fatalf("difficulties mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.Percent != 0 || len(s.ByTopic) != 0 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestBookmarked(t *testing.T) {
	if diff := cmp.Diff([]string{"2"}, idsOf(Bookmarked(sample()))); diff != "" {
		t.Fatalf("Bookmarked mismatch (-want +got):\n%s", diff)
	}
}

func TestRevision(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	got := Revision(sample(), 0, rnd)

	// Attempted and not starred: 1 and 5.
	seen := map[string]bool{}
	for _, p := range got {
		seen[p.ID] = true
	}
	if len(got) != 2 || !seen["1"] || !seen["5"] {
		t.Fatalf("Revision = %v", idsOf(got))
	}

	if got := Revision(sample(), 1, rnd); len(got) != 1 {
		t.Fatalf("Revision(n=1) returned %d problems", len(got))
	}
	if got := Revision(nil, 5, nil); len(got) != 0 {
		t.Fatalf("Revision(nil) = %v", got)
	}
}
