package service

import (
	"testing"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
)

func TestBotPenalty(t *testing.T) {
	tests := []struct {
		probability float64
		want        float64
	}{
		{0, 0},
		{50, 0},
		{51, 0.5},
		{60, 5},
		{80, 15},
		{100, 25},
	}

	for _, tt := range tests {
		if got := BotPenalty(tt.probability); !almostEqual(got, tt.want, 0.0001) {
			t.Errorf("BotPenalty(%.0f) = %.2f, want %.2f", tt.probability, got, tt.want)
		}
	}
}

func TestCombineScores(t *testing.T) {
	tests := []struct {
		name                     string
		activity, quality, trust float64
		botProbability           float64
		want                     float64
	}{
		{"no penalty below floor", 100, 200, 150, 50, 450},
		{"penalty subtracts", 100, 200, 150, 80, 435},
		{"floors at zero", 5, 0, 0, 100, 0},
		{"all zero", 0, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CombineScores(tt.activity, tt.quality, tt.trust, tt.botProbability)
			if !almostEqual(got, tt.want, 0.0001) {
				t.Errorf("CombineScores() = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		score float64
		want  model.ReputationLevel
	}{
		{0, model.LevelNew},
		{99.9, model.LevelNew},
		{100, model.LevelRegular},
		{199.9, model.LevelRegular},
		{200, model.LevelActive},
		{399.9, model.LevelActive},
		{400, model.LevelTrusted},
		{599.9, model.LevelTrusted},
		{600, model.LevelExpert},
		{799.9, model.LevelExpert},
		{800, model.LevelLegendary},
		{3000, model.LevelLegendary},
	}

	for _, tt := range tests {
		if got := LevelFor(tt.score); got != tt.want {
			t.Errorf("LevelFor(%.1f) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
