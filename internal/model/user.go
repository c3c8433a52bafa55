package model

import "time"

// ReputationLevel is the tier a user's reputation score maps to.
type ReputationLevel string

const (
	LevelLegendary ReputationLevel = "LEGENDARY"
	LevelExpert    ReputationLevel = "EXPERT"
	LevelTrusted   ReputationLevel = "TRUSTED"
	LevelActive    ReputationLevel = "ACTIVE"
	LevelRegular   ReputationLevel = "REGULAR"
	LevelNew       ReputationLevel = "NEW"
)

// User represents a Study-Talk user with derived trust metadata.
// The four score fields are written only by the reputation service.
type User struct {
	UserID          string          `json:"userId"`
	ActivityScore   float64         `json:"activityScore"`
	QualityScore    float64         `json:"qualityScore"`
	TrustScore      float64         `json:"trustScore"`
	ReputationScore float64         `json:"reputationScore"`
	ReputationLevel ReputationLevel `json:"reputationLevel"`
	BotProbability  float64         `json:"botProbability"`
	IsFlagged       bool            `json:"isFlagged"`
	IsBlocked       bool            `json:"-"`
	IsVerified      bool            `json:"isVerified"`
	CreatedAt       time.Time       `json:"-"`
	LastActivityAt  time.Time       `json:"-"`

	// Lifetime counters
	ConfessionsCreated int `json:"-"`
	VotesCast          int `json:"-"`
	CommentsCreated    int `json:"-"`

	// Daily counters, reset externally at the day boundary
	DailyConfessions int `json:"-"`
	DailyVotes       int `json:"-"`
	DailyComments    int `json:"-"`
}

// DeviceRequest is the request body for device fingerprint registration.
// The raw signature never leaves the process unhashed.
type DeviceRequest struct {
	Signature string `json:"signature"`
}

// ReputationResponse is the API response for reputation lookups.
type ReputationResponse struct {
	UserID          string          `json:"userId"`
	ReputationScore float64         `json:"reputationScore"`
	ActivityScore   float64         `json:"activityScore"`
	QualityScore    float64         `json:"qualityScore"`
	TrustScore      float64         `json:"trustScore"`
	BotProbability  float64         `json:"botProbability"`
	ReputationLevel ReputationLevel `json:"reputationLevel"`
	IsFlagged       bool            `json:"isFlagged"`
}

// UserStats is the aggregated activity snapshot the component scorers read.
// It is assembled in one query pass and never mutated by scoring.
type UserStats struct {
	UserID          string
	AccountAgeDays  int
	ConfessionCount int
	VoteCount       int
	CommentCount    int
	// Confessions created in the last 7 days.
	RecentContentCount int

	// Received engagement on the user's own confessions.
	AvgVotesReceived    float64
	PositiveVoteRatio   float64
	AvgCommentsReceived float64
	AvgContentLength    float64

	ReportCount      int
	IsVerified       bool
	ActiveLast30Days bool
}
