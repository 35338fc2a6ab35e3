package domain

import "time"

// FeedItem is the subset of playlist video metadata the tracker derives problems from.
type FeedItem struct {
	VideoID     string    `json:"videoId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"publishedAt"`
}
