package service

import (
	"math"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
)

const (
	componentScoreCap = 1000.0

	// Activity weights
	accountAgeDaysMax   = 365.0
	confessionWeight    = 5.0
	voteWeight          = 1.0
	commentWeight       = 2.0
	recentContentWeight = 3.0

	// Quality weights
	avgVotesReceivedWeight    = 10.0
	positiveRatioWeight       = 200.0
	avgCommentsReceivedWeight = 15.0
	contentLengthDivisor      = 10.0
	contentLengthCap          = 50.0

	// Trust bonuses and penalties
	noReportsBonus      = 100.0
	perReportPenalty    = 50.0
	verifiedBonus       = 50.0
	recentActivityBonus = 50.0
	noSuspicionBonus    = 100.0
)

// ScorerService holds the three reputation component calculators. Each is a
// pure function over an aggregated history snapshot; none touches I/O, so
// recomputing is always safe and idempotent.
type ScorerService struct{}

func NewScorerService() *ScorerService {
	return &ScorerService{}
}

// ActivityScore rewards sustained participation:
//
//	min(accountAgeDays, 365) + 5*confessions + votes + 2*comments + 3*recent(7d)
//
// capped at 1000.
func (s *ScorerService) ActivityScore(stats *model.UserStats) float64 {
	age := math.Min(float64(stats.AccountAgeDays), accountAgeDaysMax)
	score := age +
		confessionWeight*float64(stats.ConfessionCount) +
		voteWeight*float64(stats.VoteCount) +
		commentWeight*float64(stats.CommentCount) +
		recentContentWeight*float64(stats.RecentContentCount)
	return math.Min(score, componentScoreCap)
}

// QualityScore is driven by the engagement the user's own content receives.
// A user with no content scores zero.
func (s *ScorerService) QualityScore(stats *model.UserStats) float64 {
	if stats.ConfessionCount == 0 {
		return 0
	}
	score := avgVotesReceivedWeight*stats.AvgVotesReceived +
		positiveRatioWeight*stats.PositiveVoteRatio +
		avgCommentsReceivedWeight*stats.AvgCommentsReceived +
		math.Min(stats.AvgContentLength/contentLengthDivisor, contentLengthCap)
	return math.Min(score, componentScoreCap)
}

// TrustScore starts at zero and accumulates standing signals; reports filed
// against the user subtract. suspicious comes from the bot-risk analyzer.
// Floor is 0.
func (s *ScorerService) TrustScore(stats *model.UserStats, suspicious bool) float64 {
	var score float64
	if stats.ReportCount == 0 {
		score += noReportsBonus
	} else {
		score -= perReportPenalty * float64(stats.ReportCount)
	}
	if stats.IsVerified {
		score += verifiedBonus
	}
	if stats.ActiveLast30Days {
		score += recentActivityBonus
	}
	if !suspicious {
		score += noSuspicionBonus
	}
	return math.Max(score, 0)
}
