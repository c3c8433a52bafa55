package model

import "time"

// VoteType is the stance a user takes on a confession.
type VoteType string

const (
	VoteBelieve VoteType = "BELIEVE"
	VoteDoubt   VoteType = "DOUBT"
)

// Valid reports whether the vote type is one of the known stances.
func (t VoteType) Valid() bool {
	return t == VoteBelieve || t == VoteDoubt
}

// Vote represents a single live vote row. At most one exists per
// (user, confession) pair; switching updates the row in place.
type Vote struct {
	ID           int64     `json:"id"`
	ConfessionID string    `json:"confessionId"`
	UserID       string    `json:"userId"`
	VoteType     VoteType  `json:"voteType"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// VoteRequest is the API request body for submitting a vote.
type VoteRequest struct {
	ConfessionID string `json:"confessionId"`
	VoteType     string `json:"voteType"`
}

// VoteDeleteRequest is the API request body for revoking a vote.
type VoteDeleteRequest struct {
	ConfessionID string `json:"confessionId"`
}

// VoteResult is returned after any successful vote mutation. UserVote is nil
// when the caller has no live vote on the confession.
type VoteResult struct {
	BelieveCount int       `json:"believeCount"`
	DoubtCount   int       `json:"doubtCount"`
	UserVote     *VoteType `json:"userVote"`
}
