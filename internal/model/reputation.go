package model

import "time"

// RiskLevel classifies a bot-risk probability.
type RiskLevel string

const (
	RiskCritical RiskLevel = "CRITICAL"
	RiskHigh     RiskLevel = "HIGH"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskLow      RiskLevel = "LOW"
)

// BotAnalysis is the composite result of the bot-risk analyzer.
type BotAnalysis struct {
	Probability     float64   `json:"probability"`
	Indicators      []string  `json:"indicators"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Recommendations []string  `json:"recommendations"`
}

// ReputationHistory is one append-only audit row, written on every
// reputation recomputation. Rows are never updated or deleted.
type ReputationHistory struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"userId"`
	PreviousScore  float64   `json:"previousScore"`
	NewScore       float64   `json:"newScore"`
	Change         float64   `json:"change"`
	Reason         string    `json:"reason"`
	ActivityScore  float64   `json:"activityScore"`
	QualityScore   float64   `json:"qualityScore"`
	TrustScore     float64   `json:"trustScore"`
	BotProbability float64   `json:"botProbability"`
	BotIndicators  []string  `json:"botIndicators"`
	RiskLevel      RiskLevel `json:"riskLevel"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ActivityProfile is the behavioral snapshot the bot-risk detectors read.
// All fields describe recent history; detectors never mutate it.
type ActivityProfile struct {
	UserID         string
	AccountAgeDays int

	// Daily action counts (confessions + votes + comments per day, most recent first).
	DailyActionCounts []int

	// Seconds between consecutive actions, most recent first, bounded window.
	ActionIntervals []float64

	// Hour-of-day histogram of actions over the window (24 buckets).
	HourHistogram [24]int

	// Recent own-content features.
	RecentTitles      []string
	RecentBodies      []string
	ContentLengths    []int
	ContentCount      int
	VotesReceived     int
	CommentsReceived  int
	RepliesGiven      int
	RepliesReceived   int
	DistinctUsersMet  int
	SharedDeviceUsers int
}
