package service

import (
	"math"
	"sort"
	"time"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
)

const (
	// Comments count one and a half times a vote in engagement.
	commentEngagementWeight = 1.5

	// Hot scores halve-ish every day: decay = e^(-age/24h).
	decayHours = 24.0
)

// RankService computes time-decayed hot scores for confessions.
// All calculations are pure; the persisted hot_score column is written
// elsewhere, never on a read path.
type RankService struct{}

func NewRankService() *RankService {
	return &RankService{}
}

// Controversy is 1.0 for an even believe/doubt split, 0.0 when unanimous
// or unvoted.
func (s *RankService) Controversy(believeCount, doubtCount int) float64 {
	total := believeCount + doubtCount
	if total == 0 {
		return 0
	}
	return 1 - math.Abs(float64(believeCount-doubtCount))/float64(total)
}

// Engagement is the raw interaction volume: votes plus weighted comments.
func (s *RankService) Engagement(believeCount, doubtCount, commentCount int) float64 {
	return float64(believeCount+doubtCount) + commentEngagementWeight*float64(commentCount)
}

// Decay returns the exponential age falloff; content is effectively cold
// after roughly a day without new engagement.
func (s *RankService) Decay(ageHours float64) float64 {
	if ageHours < 0 {
		ageHours = 0
	}
	return math.Exp(-ageHours / decayHours)
}

// HotScore combines engagement, controversy boost, and age decay:
//
//	hotScore = engagement * (1 + controversy) * decay
func (s *RankService) HotScore(believeCount, doubtCount, commentCount int, ageHours float64) float64 {
	engagement := s.Engagement(believeCount, doubtCount, commentCount)
	controversy := s.Controversy(believeCount, doubtCount)
	return engagement * (1 + controversy) * s.Decay(ageHours)
}

// HotScoreAt computes the hot score for a confession's counters as of now.
func (s *RankService) HotScoreAt(believeCount, doubtCount, commentCount int, createdAt, now time.Time) float64 {
	ageHours := now.Sub(createdAt).Hours()
	return s.HotScore(believeCount, doubtCount, commentCount, ageHours)
}

// RankItems orders confessions in place: hottest first, or newest first for
// the recent sort. Fetching and pagination are the caller's concern.
func (s *RankService) RankItems(items []model.Confession, sortBy model.FeedSort) []model.Confession {
	switch sortBy {
	case model.SortRecent:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].HotScore != items[j].HotScore {
				return items[i].HotScore > items[j].HotScore
			}
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	}
	return items
}
