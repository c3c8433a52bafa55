package service

import (
	"math"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
)

// Risk level thresholds. Boundaries are inclusive on the upper tier:
// exactly 80.0 is CRITICAL, 79.9 is HIGH.
const (
	riskCriticalThreshold = 80.0
	riskHighThreshold     = 60.0
	riskMediumThreshold   = 30.0
)

// Signal is one detector group's contribution to the composite score.
type Signal struct {
	Points     float64
	Indicators []string
}

// SignalDetector inspects a user's activity profile for one independent
// group of automation signals. Detectors are read-only and cap their own
// points; the analyzer just sums them.
type SignalDetector interface {
	Name() string
	Detect(p *model.ActivityProfile) Signal
}

// BotRiskService composes independent signal detectors into a single
// 0-100 automation probability.
type BotRiskService struct {
	detectors []SignalDetector
}

// NewBotRiskService returns the analyzer with the standard six detector groups.
func NewBotRiskService() *BotRiskService {
	return &BotRiskService{
		detectors: []SignalDetector{
			&activityPatternDetector{},
			&contentPatternDetector{},
			&timingPatternDetector{},
			&engagementPatternDetector{},
			&deviceIdentityDetector{},
			&socialGraphDetector{},
		},
	}
}

// NewBotRiskServiceWith builds an analyzer from an explicit detector set.
func NewBotRiskServiceWith(detectors ...SignalDetector) *BotRiskService {
	return &BotRiskService{detectors: detectors}
}

// Analyze runs every detector over the profile and classifies the summed
// probability. It never mutates the profile or any stored state.
func (s *BotRiskService) Analyze(p *model.ActivityProfile) *model.BotAnalysis {
	var probability float64
	indicators := []string{}

	for _, d := range s.detectors {
		sig := d.Detect(p)
		probability += sig.Points
		indicators = append(indicators, sig.Indicators...)
	}
	probability = math.Min(math.Max(probability, 0), 100)

	level := RiskLevelFor(probability)
	return &model.BotAnalysis{
		Probability:     probability,
		Indicators:      indicators,
		RiskLevel:       level,
		Recommendations: recommendationsFor(level),
	}
}

// RiskLevelFor classifies a probability into a risk tier.
func RiskLevelFor(probability float64) model.RiskLevel {
	switch {
	case probability >= riskCriticalThreshold:
		return model.RiskCritical
	case probability >= riskHighThreshold:
		return model.RiskHigh
	case probability >= riskMediumThreshold:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// Suspicious reports whether a risk level counts as a detected suspicious
// pattern for trust scoring.
func Suspicious(level model.RiskLevel) bool {
	return level != model.RiskLow
}

func recommendationsFor(level model.RiskLevel) []string {
	switch level {
	case model.RiskCritical:
		return []string{
			"queue account for manual review",
			"suspend posting privileges pending review",
		}
	case model.RiskHigh:
		return []string{
			"enable enhanced monitoring",
			"apply stricter rate limits",
		}
	default:
		return []string{"continue passive monitoring"}
	}
}
