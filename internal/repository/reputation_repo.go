package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
)

type ReputationRepo struct {
	pool *pgxpool.Pool
}

func NewReputationRepo(pool *pgxpool.Pool) *ReputationRepo {
	return &ReputationRepo{pool: pool}
}

// AppendHistory writes one immutable audit row. This is the only record of
// why a reputation changed; rows are never updated or deleted.
func (r *ReputationRepo) AppendHistory(ctx context.Context, h *model.ReputationHistory) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO reputation_history
			(user_id, previous_score, new_score, change, reason,
			 activity_score, quality_score, trust_score,
			 bot_probability, bot_indicators, risk_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		h.UserID, h.PreviousScore, h.NewScore, h.Change, h.Reason,
		h.ActivityScore, h.QualityScore, h.TrustScore,
		h.BotProbability, h.BotIndicators, h.RiskLevel)
	return err
}

// RecentHistory returns the newest audit rows for a user, newest first.
func (r *ReputationRepo) RecentHistory(ctx context.Context, userID string, limit int) ([]model.ReputationHistory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, previous_score, new_score, change, reason,
		       activity_score, quality_score, trust_score,
		       bot_probability, bot_indicators, risk_level, created_at
		FROM reputation_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []model.ReputationHistory
	for rows.Next() {
		var h model.ReputationHistory
		err := rows.Scan(
			&h.ID, &h.UserID, &h.PreviousScore, &h.NewScore, &h.Change, &h.Reason,
			&h.ActivityScore, &h.QualityScore, &h.TrustScore,
			&h.BotProbability, &h.BotIndicators, &h.RiskLevel, &h.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}
