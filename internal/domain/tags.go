package domain

import (
	"fmt"
	"strings"
)

// Topic is the data-structure or technique a problem belongs to.
type Topic string

const (
	TopicArrays             Topic = "Arrays"
	TopicLinkedList         Topic = "Linked List"
	TopicStack              Topic = "Stack"
	TopicQueue              Topic = "Queue"
	TopicTrees              Topic = "Trees"
	TopicGraphs             Topic = "Graphs"
	TopicDynamicProgramming Topic = "Dynamic Programming"
	TopicBacktracking       Topic = "Backtracking"
	TopicBinarySearch       Topic = "Binary Search"
	TopicSorting            Topic = "Sorting"
	TopicHashing            Topic = "Hashing"
	TopicStrings            Topic = "Strings"
	TopicMath               Topic = "Math"
	TopicBitManipulation    Topic = "Bit Manipulation"
	TopicSystemDesign       Topic = "System Design"
	TopicGreedy             Topic = "Greedy"
	TopicHeap               Topic = "Heap"
	TopicTrie               Topic = "Trie"
	TopicSlidingWindow      Topic = "Sliding Window"
	TopicTwoPointers        Topic = "Two Pointers"
	TopicMatrix             Topic = "Matrix"
	TopicOther              Topic = "Other"
)

// AllTopics lists topics in display order.
var AllTopics = []Topic{
	TopicArrays, TopicLinkedList, TopicStack, TopicQueue, TopicTrees,
	TopicGraphs, TopicDynamicProgramming, TopicBacktracking, TopicBinarySearch,
	TopicSorting, TopicHashing, TopicStrings, TopicMath, TopicBitManipulation,
	TopicSystemDesign, TopicGreedy, TopicHeap, TopicTrie, TopicSlidingWindow,
	TopicTwoPointers, TopicMatrix, TopicOther,
}

// ParseTopic matches a topic name case-insensitively.
func ParseTopic(s string) (Topic, error) {
	for _, t := range AllTopics {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown topic %q", s)
}

// Company is a company a problem is reportedly asked at.
type Company string

const (
	CompanyGoogle    Company = "Google"
	CompanyMicrosoft Company = "Microsoft"
	CompanyAmazon    Company = "Amazon"
	CompanyFacebook  Company = "Facebook"
	CompanyApple     Company = "Apple"
	CompanyNetflix   Company = "Netflix"
	CompanyTwitter   Company = "Twitter"
	CompanyLinkedIn  Company = "LinkedIn"
	CompanyUber      Company = "Uber"
	CompanyAirbnb    Company = "Airbnb"
	CompanyOther     Company = "Other"
)

// AllCompanies lists companies in display order.
var AllCompanies = []Company{
	CompanyGoogle, CompanyMicrosoft, CompanyAmazon, CompanyFacebook,
	CompanyApple, CompanyNetflix, CompanyTwitter, CompanyLinkedIn,
	CompanyUber, CompanyAirbnb, CompanyOther,
}

// ParseCompany matches a company name case-insensitively.
func ParseCompany(s string) (Company, error) {
	for _, c := range AllCompanies {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown company %q", s)
}
