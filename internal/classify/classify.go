// Package classify derives structured problem records from raw playlist titles
// and descriptions. Every function here is deterministic for a given input.
package classify

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/ashureev/dsa90/internal/domain"
)

type topicRule struct {
	topic    domain.Topic
	contains []string
	match    func(category string) bool
}

// topicRules are evaluated in order; the first match wins. Binary Search sits
// ahead of Trees so "binary search tree" videos do not land in Trees.
var topicRules = []topicRule{
	{topic: domain.TopicBinarySearch, contains: []string{"binary search"}},
	{topic: domain.TopicArrays, contains: []string{"array", "subarray"}},
	{topic: domain.TopicLinkedList, contains: []string{"linked list", "linkedlist"}},
	{topic: domain.TopicStack, contains: []string{"stack", "monotonic"}},
	{topic: domain.TopicQueue, contains: []string{"queue", "deque"}},
	{topic: domain.TopicTrees, contains: []string{"tree", "bst", "binary tree"}},
	{topic: domain.TopicGraphs, contains: []string{"graph", "dfs", "bfs"}},
	{topic: domain.TopicDynamicProgramming, contains: []string{"dp", "dynamic"}},
	{topic: domain.TopicBacktracking, contains: []string{"backtrack", "recursion"}},
	{topic: domain.TopicStrings, match: func(c string) bool {
		return strings.HasPrefix(c, "string") || c == "strings"
	}},
	{topic: domain.TopicSorting, contains: []string{"sort", "merge sort"}},
	{topic: domain.TopicHashing, contains: []string{"hash", "map"}},
	{topic: domain.TopicMath, contains: []string{"math", "number"}},
	{topic: domain.TopicBitManipulation, match: func(c string) bool {
		return strings.Contains(c, "bit") || c == "binary"
	}},
	{topic: domain.TopicSystemDesign, contains: []string{"system", "design"}},
	{topic: domain.TopicGreedy, contains: []string{"greedy"}},
	{topic: domain.TopicHeap, contains: []string{"heap", "priority queue"}},
	{topic: domain.TopicTrie, contains: []string{"trie"}},
	{topic: domain.TopicSlidingWindow, contains: []string{"sliding window"}},
	{topic: domain.TopicTwoPointers, contains: []string{"two pointer", "2 pointer"}},
	{topic: domain.TopicMatrix, contains: []string{"matrix"}},
}

// companyKeywords maps each company to the lowercase keywords that tag it.
var companyKeywords = map[domain.Company][]string{
	domain.CompanyGoogle:    {"google"},
	domain.CompanyMicrosoft: {"microsoft", "msft"},
	domain.CompanyAmazon:    {"amazon", "aws"},
	domain.CompanyFacebook:  {"facebook", "meta"},
	domain.CompanyApple:     {"apple"},
	domain.CompanyNetflix:   {"netflix"},
	domain.CompanyTwitter:   {"twitter"},
	domain.CompanyLinkedIn:  {"linkedin"},
	domain.CompanyUber:      {"uber"},
	domain.CompanyAirbnb:    {"airbnb"},
}

var courseMetaMarkers = []string{
	"course outline",
	"course plan",
	"tips & resources",
	"90 days for placements",
}

var (
	difficultyTagRe  = regexp.MustCompile(`(?i)#(easy|medium|hard)`)
	leadingJunkRe    = regexp.MustCompile(`^[\d\s.-]+`)
	parenRe          = regexp.MustCompile(`\([^)]*\)`)
	bracketRe        = regexp.MustCompile(`\[[^\]]*\]`)
	nonWordRe        = regexp.MustCompile(`[^\w\s-]`)
	levelWordsRe     = regexp.MustCompile(`(?i)(beginner|medium|advanced|level|course|outline|dsa|days|placements)`)
	anyBracketRe     = regexp.MustCompile(`[(\[].*?[)\]]`)
	slugSeparatorRe  = regexp.MustCompile(`[^a-z0-9]+`)
	directLeetCodeRe = regexp.MustCompile(`(?i)https://leetcode\.com/problems/[a-z0-9-]+(?:/[a-z0-9-]*)?/?`)
	httpsURLRe       = regexp.MustCompile(`(?i)https://[^\s]+`)
)

// category returns the lowercased text before the first '|'.
func category(title string) string {
	head, _, _ := strings.Cut(title, "|")
	return strings.ToLower(strings.TrimSpace(head))
}

// Topic classifies a title into a topic using the text before the first '|'.
func Topic(title string) domain.Topic {
	c := category(title)
	for _, rule := range topicRules {
		if rule.match != nil {
			if rule.match(c) {
				return rule.topic
			}
			continue
		}
		for _, kw := range rule.contains {
			if strings.Contains(c, kw) {
				return rule.topic
			}
		}
	}
	slog.Debug("Uncategorized title", "title", title)
	return domain.TopicOther
}

// Difficulty reads the #easy/#medium/#hard tag from a title. Untagged titles are Medium.
func Difficulty(title string) domain.Difficulty {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "#easy"):
		return domain.Easy
	case strings.Contains(lower, "#medium"):
		return domain.Medium
	case strings.Contains(lower, "#hard"):
		return domain.Hard
	default:
		return domain.Medium
	}
}

// Companies returns the companies mentioned in a title, in display order.
// A title mentioning none is tagged Other.
func Companies(title string) []domain.Company {
	lower := strings.ToLower(title)
	var out []domain.Company
	for _, company := range domain.AllCompanies {
		for _, kw := range companyKeywords[company] {
			if strings.Contains(lower, kw) {
				out = append(out, company)
				break
			}
		}
	}
	if len(out) == 0 {
		return []domain.Company{domain.CompanyOther}
	}
	return out
}

// IsCourseMeta reports whether a title is a course outline or tips video
// rather than a problem walkthrough.
func IsCourseMeta(title string) bool {
	lower := strings.ToLower(title)
	for _, marker := range courseMetaMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// FormatTitle extracts a clean problem name from a raw video title.
func FormatTitle(title string) string {
	parts := strings.Split(title, "|")
	t := strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		t = strings.TrimSpace(parts[1])
	}

	t = strings.TrimSpace(replaceFirst(difficultyTagRe, t, ""))
	t = strings.TrimSpace(leadingJunkRe.ReplaceAllString(t, ""))
	t = strings.TrimSpace(parenRe.ReplaceAllString(t, ""))
	t = strings.TrimSpace(bracketRe.ReplaceAllString(t, ""))
	t = strings.TrimSpace(nonWordRe.ReplaceAllString(t, ""))
	return t
}

// SlugLink guesses a LeetCode problem URL from a video title.
func SlugLink(title string) string {
	var t string
	if parts := strings.Split(title, "|"); len(parts) > 1 {
		t = strings.TrimSpace(parts[1])
	}
	if t == "" {
		t = strings.TrimSpace(title)
	}

	t = strings.TrimSpace(levelWordsRe.ReplaceAllString(t, ""))
	t = strings.TrimSpace(replaceFirst(difficultyTagRe, t, ""))
	t = strings.TrimSpace(leadingJunkRe.ReplaceAllString(t, ""))
	t = strings.TrimSpace(anyBracketRe.ReplaceAllString(t, ""))

	slug := slugSeparatorRe.ReplaceAllString(strings.ToLower(t), "-")
	slug = strings.Trim(slug, "-")
	return "https://leetcode.com/problems/" + slug + "/"
}

// LeetCodeLink finds the LeetCode problem link in a video description.
// A direct /problems/ URL wins; otherwise the first https URL on a line
// mentioning leetcode is used. Returns "" when nothing matches.
func LeetCodeLink(description string) string {
	if m := directLeetCodeRe.FindString(description); m != "" {
		return strings.TrimSuffix(m, "/")
	}

	for _, line := range strings.Split(description, "\n") {
		if !strings.Contains(strings.ToLower(line), "leetcode") {
			continue
		}
		if m := httpsURLRe.FindString(line); m != "" {
			return strings.TrimSuffix(m, "/")
		}
	}
	return ""
}

// Problem builds a fresh, unattempted problem record from a feed item.
func Problem(item domain.FeedItem) domain.Problem {
	link := LeetCodeLink(item.Description)
	if link == "" {
		link = SlugLink(item.Title)
	}
	return domain.Problem{
		ID:           item.VideoID,
		Title:        item.Title,
		VideoID:      item.VideoID,
		Topic:        Topic(item.Title),
		Difficulty:   Difficulty(item.Title),
		Companies:    Companies(item.Title),
		QuestionLink: link,
		AddedAt:      item.PublishedAt,
		Attempts:     []domain.Attempt{},
	}
}

// Problems classifies feed items, dropping course-meta videos.
func Problems(items []domain.FeedItem) []domain.Problem {
	out := make([]domain.Problem, 0, len(items))
	for _, item := range items {
		if IsCourseMeta(item.Title) {
			continue
		}
		out = append(out, Problem(item))
	}
	return out
}

func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}
