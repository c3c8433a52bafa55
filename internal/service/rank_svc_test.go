package service

import (
	"math"
	"testing"
	"time"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestControversy(t *testing.T) {
	svc := NewRankService()

	tests := []struct {
		name    string
		believe int
		doubt   int
		want    float64
	}{
		{"no votes", 0, 0, 0.0},
		{"even split peaks at 1", 5, 5, 1.0},
		{"unanimous believe", 10, 0, 0.0},
		{"unanimous doubt", 0, 7, 0.0},
		{"3-1 split", 3, 1, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Controversy(tt.believe, tt.doubt)
			if !almostEqual(got, tt.want, 0.0001) {
				t.Errorf("Controversy(%d, %d) = %.4f, want %.4f", tt.believe, tt.doubt, got, tt.want)
			}
		})
	}
}

func TestEngagement(t *testing.T) {
	svc := NewRankService()

	tests := []struct {
		name     string
		believe  int
		doubt    int
		comments int
		want     float64
	}{
		{"no activity", 0, 0, 0, 0},
		{"votes only", 4, 2, 0, 6},
		{"comments weigh one and a half", 0, 0, 2, 3},
		{"mixed", 3, 3, 2, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Engagement(tt.believe, tt.doubt, tt.comments)
			if got != tt.want {
				t.Errorf("Engagement(%d, %d, %d) = %.1f, want %.1f", tt.believe, tt.doubt, tt.comments, got, tt.want)
			}
		})
	}
}

func TestHotScore_FreshEvenSplit(t *testing.T) {
	svc := NewRankService()

	// believe=3, doubt=3, comments=2 at age 0:
	// controversy=1, engagement=9, decay=1 → hotScore=18
	got := svc.HotScore(3, 3, 2, 0)
	if !almostEqual(got, 18.0, 0.0001) {
		t.Errorf("HotScore(3, 3, 2, 0) = %.4f, want 18.0", got)
	}
}

func TestHotScore_DayOldEvenSplit(t *testing.T) {
	svc := NewRankService()

	// Same item a day later: decay = e^-1 ≈ 0.3679 → hotScore ≈ 6.62
	got := svc.HotScore(3, 3, 2, 24)
	if !almostEqual(got, 18.0*math.Exp(-1), 0.01) {
		t.Errorf("HotScore(3, 3, 2, 24) = %.4f, want ~6.62", got)
	}
}

func TestHotScore_DecaysMonotonically(t *testing.T) {
	svc := NewRankService()

	// Holding engagement fixed, the score must strictly decrease with age.
	prev := math.Inf(1)
	for age := 0.0; age <= 96; age += 6 {
		got := svc.HotScore(10, 4, 5, age)
		if got >= prev {
			t.Fatalf("HotScore at age %.0fh = %.4f, not less than %.4f at previous age", age, got, prev)
		}
		prev = got
	}
}

func TestHotScore_NegativeAgeClamped(t *testing.T) {
	svc := NewRankService()

	// Clock skew must not inflate scores above the age-zero value.
	if got, want := svc.HotScore(2, 2, 0, -5), svc.HotScore(2, 2, 0, 0); got != want {
		t.Errorf("HotScore with negative age = %.4f, want %.4f", got, want)
	}
}

func TestRankItems_HotOrdering(t *testing.T) {
	svc := NewRankService()

	now := time.Now()
	items := []model.Confession{
		{ID: "cold", HotScore: 1.5, CreatedAt: now.Add(-48 * time.Hour)},
		{ID: "hot", HotScore: 20.0, CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "warm", HotScore: 8.0, CreatedAt: now.Add(-6 * time.Hour)},
	}

	ranked := svc.RankItems(items, model.SortHot)

	want := []string{"hot", "warm", "cold"}
	for i, id := range want {
		if ranked[i].ID != id {
			t.Errorf("hot order[%d] = %s, want %s", i, ranked[i].ID, id)
		}
	}
}

func TestRankItems_RecentOrdering(t *testing.T) {
	svc := NewRankService()

	now := time.Now()
	items := []model.Confession{
		{ID: "old", HotScore: 50.0, CreatedAt: now.Add(-72 * time.Hour)},
		{ID: "new", HotScore: 0.1, CreatedAt: now.Add(-1 * time.Minute)},
		{ID: "mid", HotScore: 9.0, CreatedAt: now.Add(-12 * time.Hour)},
	}

	ranked := svc.RankItems(items, model.SortRecent)

	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if ranked[i].ID != id {
			t.Errorf("recent order[%d] = %s, want %s", i, ranked[i].ID, id)
		}
	}
}

func TestRankItems_HotTieBreaksByRecency(t *testing.T) {
	svc := NewRankService()

	now := time.Now()
	items := []model.Confession{
		{ID: "older", HotScore: 5.0, CreatedAt: now.Add(-10 * time.Hour)},
		{ID: "newer", HotScore: 5.0, CreatedAt: now.Add(-1 * time.Hour)},
	}

	ranked := svc.RankItems(items, model.SortHot)
	if ranked[0].ID != "newer" {
		t.Errorf("tied hot scores should order by recency, got %s first", ranked[0].ID)
	}
}
