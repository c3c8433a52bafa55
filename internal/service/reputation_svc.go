package service

import (
	"context"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
	"github.com/Bugitoy/Study-Talk-sub000/internal/repository"
	"github.com/Bugitoy/Study-Talk-sub000/pkg/hash"
)

// Bot penalty kicks in above 50% probability at half a point per percent.
const (
	botPenaltyFloor = 50.0
	botPenaltyRate  = 0.5
)

// Reputation level ladder, checked top down.
const (
	levelLegendaryMin = 800.0
	levelExpertMin    = 600.0
	levelTrustedMin   = 400.0
	levelActiveMin    = 200.0
	levelRegularMin   = 100.0
)

// ReputationService derives a user's reputation from the pure component
// scorers and the bot-risk analyzer, persists it, and appends the audit row.
type ReputationService struct {
	users      *repository.UserRepo
	history    *repository.ReputationRepo
	reports    *repository.ReportRepo
	scorer     *ScorerService
	botRisk    *BotRiskService
	cache      *CacheService
	deviceSalt string
	flagged    prometheus.Counter
}

// SetFlaggedCounter wires the flagged-accounts counter. Optional.
func (s *ReputationService) SetFlaggedCounter(c prometheus.Counter) {
	s.flagged = c
}

func NewReputationService(users *repository.UserRepo, history *repository.ReputationRepo, reports *repository.ReportRepo, scorer *ScorerService, botRisk *BotRiskService, cache *CacheService, deviceSalt string) *ReputationService {
	return &ReputationService{
		users:      users,
		history:    history,
		reports:    reports,
		scorer:     scorer,
		botRisk:    botRisk,
		cache:      cache,
		deviceSalt: deviceSalt,
	}
}

// BotPenalty converts a bot probability into a reputation deduction.
func BotPenalty(probability float64) float64 {
	if probability <= botPenaltyFloor {
		return 0
	}
	return (probability - botPenaltyFloor) * botPenaltyRate
}

// CombineScores folds the three components and the bot penalty into the
// final reputation score, floored at zero.
func CombineScores(activity, quality, trust, botProbability float64) float64 {
	return math.Max(activity+quality+trust-BotPenalty(botProbability), 0)
}

// LevelFor maps a reputation score onto the fixed tier ladder.
func LevelFor(score float64) model.ReputationLevel {
	switch {
	case score >= levelLegendaryMin:
		return model.LevelLegendary
	case score >= levelExpertMin:
		return model.LevelExpert
	case score >= levelTrustedMin:
		return model.LevelTrusted
	case score >= levelActiveMin:
		return model.LevelActive
	case score >= levelRegularMin:
		return model.LevelRegular
	default:
		return model.LevelNew
	}
}

// Recalculate recomputes a user's reputation from scratch and writes one
// audit row. The scorers are pure, so calling this twice with no intervening
// activity yields byte-identical scores; redundant calls are safe.
func (s *ReputationService) Recalculate(ctx context.Context, userID, reason string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	stats, err := s.users.LoadStats(ctx, userID)
	if err != nil {
		return err
	}
	// Moderation owns the report lifecycle; the scorer only counts standing
	// reports.
	stats.ReportCount, err = s.reports.CountAgainst(ctx, userID)
	if err != nil {
		return err
	}
	profile, err := s.users.LoadActivityProfile(ctx, userID)
	if err != nil {
		return err
	}

	analysis := s.botRisk.Analyze(profile)
	activity := s.scorer.ActivityScore(stats)
	quality := s.scorer.QualityScore(stats)
	trust := s.scorer.TrustScore(stats, Suspicious(analysis.RiskLevel))
	newScore := CombineScores(activity, quality, trust, analysis.Probability)

	previous := user.ReputationScore
	wasFlagged := user.IsFlagged
	user.ActivityScore = activity
	user.QualityScore = quality
	user.TrustScore = trust
	user.ReputationScore = newScore
	user.ReputationLevel = LevelFor(newScore)
	user.BotProbability = analysis.Probability
	user.IsFlagged = analysis.RiskLevel == model.RiskHigh || analysis.RiskLevel == model.RiskCritical

	if err := s.users.UpdateScores(ctx, user); err != nil {
		return err
	}

	if user.IsFlagged && !wasFlagged && s.flagged != nil {
		s.flagged.Inc()
	}

	if err := s.history.AppendHistory(ctx, &model.ReputationHistory{
		UserID:         userID,
		PreviousScore:  previous,
		NewScore:       newScore,
		Change:         newScore - previous,
		Reason:         reason,
		ActivityScore:  activity,
		QualityScore:   quality,
		TrustScore:     trust,
		BotProbability: analysis.Probability,
		BotIndicators:  analysis.Indicators,
		RiskLevel:      analysis.RiskLevel,
	}); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateReputation(ctx, userID); err != nil {
			log.Warn().Err(err).Str("user", userID).Msg("cache: reputation invalidate failed")
		}
	}

	return nil
}

// GetReputation returns the stored reputation view, cache-aside.
func (s *ReputationService) GetReputation(ctx context.Context, userID string) (*model.ReputationResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetReputation(ctx, userID); err != nil {
			log.Warn().Err(err).Str("user", userID).Msg("cache: reputation get failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &model.ReputationResponse{
		UserID:          user.UserID,
		ReputationScore: user.ReputationScore,
		ActivityScore:   user.ActivityScore,
		QualityScore:    user.QualityScore,
		TrustScore:      user.TrustScore,
		BotProbability:  user.BotProbability,
		ReputationLevel: user.ReputationLevel,
		IsFlagged:       user.IsFlagged,
	}

	if s.cache != nil {
		if err := s.cache.SetReputation(ctx, userID, resp); err != nil {
			log.Warn().Err(err).Str("user", userID).Msg("cache: reputation set failed")
		}
	}

	return resp, nil
}

// DetectBot runs the bot-risk analyzer over the user's current activity
// profile without persisting anything.
func (s *ReputationService) DetectBot(ctx context.Context, userID string) (*model.BotAnalysis, error) {
	profile, err := s.users.LoadActivityProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.botRisk.Analyze(profile), nil
}

// History returns the newest reputation audit rows for a user.
func (s *ReputationService) History(ctx context.Context, userID string, limit int) ([]model.ReputationHistory, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.history.RecentHistory(ctx, userID, limit)
}

// ReportsAgainst returns the reports filed against a user, newest first.
func (s *ReputationService) ReportsAgainst(ctx context.Context, userID string, limit int) ([]model.Report, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.reports.ListAgainst(ctx, userID, limit)
}

// RegisterDevice records a salted, iterated hash of the device signature for
// the multi-account bot signal. The raw signature is never stored.
func (s *ReputationService) RegisterDevice(ctx context.Context, userID, rawSignature string) error {
	if err := s.users.CreateIfNotExists(ctx, userID); err != nil {
		return err
	}
	fingerprint := hash.DeviceFingerprint(rawSignature, s.deviceSalt)
	return s.users.RegisterDevice(ctx, userID, fingerprint)
}
