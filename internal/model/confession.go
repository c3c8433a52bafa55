package model

import "time"

// Confession represents a posted confession with engagement counters.
// HotScore is derived; it is written only by the recalc worker.
type Confession struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	Title             string    `json:"title"`
	Body              string    `json:"body,omitempty"`
	BelieveCount      int       `json:"believeCount"`
	DoubtCount        int       `json:"doubtCount"`
	CommentCount      int       `json:"commentCount"`
	HotScore          float64   `json:"hotScore"`
	HotScoreUpdatedAt time.Time `json:"-"`
	IsHidden          bool      `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
	LastActivityAt    time.Time `json:"-"`
}

// FeedSort selects the ordering of a confession feed.
type FeedSort string

const (
	SortHot    FeedSort = "hot"
	SortRecent FeedSort = "recent"
)

// FeedResponse is the API response for a ranked confession feed.
type FeedResponse struct {
	Confessions []Confession `json:"confessions"`
	Sort        FeedSort     `json:"sort"`
	GeneratedAt string       `json:"generatedAt"`
}

// Comment is a reply on a confession. Comments count double toward
// engagement, so posting one bumps the parent's counter and triggers a
// hot-score recompute.
type Comment struct {
	ID              string    `json:"id"`
	ConfessionID    string    `json:"confessionId"`
	UserID          string    `json:"userId"`
	ParentCommentID *string   `json:"parentCommentId,omitempty"`
	Body            string    `json:"body"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CommentRequest is the request body for POST /api/confessions/:confessionId/comments.
type CommentRequest struct {
	Body            string  `json:"body"`
	ParentCommentID *string `json:"parentCommentId,omitempty"`
}
