package service

import (
	"testing"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
)

func TestActivityScore(t *testing.T) {
	svc := NewScorerService()

	tests := []struct {
		name  string
		stats model.UserStats
		want  float64
	}{
		{
			name:  "brand new account",
			stats: model.UserStats{},
			want:  0,
		},
		{
			name: "moderate participation",
			stats: model.UserStats{
				AccountAgeDays:     30,
				ConfessionCount:    4,
				VoteCount:          50,
				CommentCount:       10,
				RecentContentCount: 2,
			},
			// 30 + 20 + 50 + 20 + 6
			want: 126,
		},
		{
			name: "account age caps at a year",
			stats: model.UserStats{
				AccountAgeDays: 2000,
			},
			want: 365,
		},
		{
			name: "heavy user caps at 1000",
			stats: model.UserStats{
				AccountAgeDays:     365,
				ConfessionCount:    100,
				VoteCount:          500,
				CommentCount:       200,
				RecentContentCount: 50,
			},
			want: 1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.ActivityScore(&tt.stats)
			if !almostEqual(got, tt.want, 0.0001) {
				t.Errorf("ActivityScore() = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestQualityScore(t *testing.T) {
	svc := NewScorerService()

	tests := []struct {
		name  string
		stats model.UserStats
		want  float64
	}{
		{
			name:  "no content scores zero",
			stats: model.UserStats{VoteCount: 100, CommentCount: 40},
			want:  0,
		},
		{
			name: "typical poster",
			stats: model.UserStats{
				ConfessionCount:     5,
				AvgVotesReceived:    4.0,
				PositiveVoteRatio:   0.75,
				AvgCommentsReceived: 2.0,
				AvgContentLength:    300,
			},
			// 40 + 150 + 30 + 30
			want: 250,
		},
		{
			name: "content length contribution caps at 50",
			stats: model.UserStats{
				ConfessionCount:  1,
				AvgContentLength: 5000,
			},
			want: 50,
		},
		{
			name: "overall cap at 1000",
			stats: model.UserStats{
				ConfessionCount:     50,
				AvgVotesReceived:    80,
				PositiveVoteRatio:   1.0,
				AvgCommentsReceived: 20,
				AvgContentLength:    1000,
			},
			want: 1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.QualityScore(&tt.stats)
			if !almostEqual(got, tt.want, 0.0001) {
				t.Errorf("QualityScore() = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestTrustScore(t *testing.T) {
	svc := NewScorerService()

	tests := []struct {
		name       string
		stats      model.UserStats
		suspicious bool
		want       float64
	}{
		{
			name:  "clean inactive account",
			stats: model.UserStats{},
			// no reports +100, not suspicious +100
			want: 200,
		},
		{
			name: "verified active clean account",
			stats: model.UserStats{
				IsVerified:       true,
				ActiveLast30Days: true,
			},
			want: 300,
		},
		{
			name:  "single report replaces the clean bonus",
			stats: model.UserStats{ReportCount: 1},
			// -50 + 100 (not suspicious)
			want: 50,
		},
		{
			name:       "reported and suspicious floors at zero",
			stats:      model.UserStats{ReportCount: 5},
			suspicious: true,
			want:       0,
		},
		{
			name: "bonuses cannot go negative overall",
			stats: model.UserStats{
				ReportCount: 10,
				IsVerified:  true,
			},
			suspicious: true,
			want:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.TrustScore(&tt.stats, tt.suspicious)
			if !almostEqual(got, tt.want, 0.0001) {
				t.Errorf("TrustScore() = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}
