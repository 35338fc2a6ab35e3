package domain

// Resource is a supporting video that is not a problem walkthrough.
type Resource struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	VideoID     string   `json:"videoId"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	AddedAt     string   `json:"addedAt"`
}

// Resources returns the curated course-outline and tips videos.
func Resources() []Resource {
	return []Resource{
		{
			ID:          "1",
			Title:       "COMPLETE DSA in 90 Days for Placements 2025 | Course Outline-2",
			VideoID:     "4QICEX1cP9Q",
			Description: "A comprehensive guide to mastering Data Structures and Algorithms in 90 days for 2025 placements.",
			Tags:        []string{"#dsa", "#course-outline"},
			AddedAt:     "2024-03-20",
		},
		{
			ID:          "2",
			Title:       "DSA in 90 Days for Placements 2025 | Course Outline | Crack Coding Interviews!",
			VideoID:     "fmxRItl_CfY",
			Description: "Learn how to crack coding interviews with our structured 90-day DSA course outline.",
			Tags:        []string{"#dsa", "#course-outline", "#interview-prep"},
			AddedAt:     "2024-03-19",
		},
		{
			ID:          "3",
			Title:       "Top 10 LeetCode Tips & Resources to Ace Coding Interviews!",
			VideoID:     "xxb4HSKwTBo",
			Description: "Essential tips and resources to help you excel in LeetCode and coding interviews.",
			Tags:        []string{"#leetcode", "#interview-tips", "#resources"},
			AddedAt:     "2024-03-18",
		},
		{
			ID:          "4",
			Title:       "3 Months DSA for Placements! Beginner, Medium & Advanced Level!",
			VideoID:     "hw2nv3jIgZs",
			Description: "A structured 3-month plan covering DSA from beginner to advanced level for placements.",
			Tags:        []string{"#dsa", "#leetcode", "#java", "#course-plan"},
			AddedAt:     "2024-03-17",
		},
	}
}

// ResourceTitles returns the titles of Resources, in order.
func ResourceTitles() []string {
	res := Resources()
	titles := make([]string, len(res))
	for i, r := range res {
		titles[i] = r.Title
	}
	return titles
}
