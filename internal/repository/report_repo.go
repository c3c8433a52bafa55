package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
)

// ReportRepo reads reports filed against users. Moderation owns the report
// lifecycle; the trust scorer only counts them.
type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// CountAgainst returns the number of non-rejected reports against a user.
func (r *ReportRepo) CountAgainst(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM reports
		WHERE reported_id = $1 AND status <> 'REJECTED'`, userID).Scan(&count)
	return count, err
}

// ListAgainst returns the reports filed against a user, newest first.
func (r *ReportRepo) ListAgainst(ctx context.Context, userID string, limit int) ([]model.Report, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, reporter_id, reported_id, confession_id, reason, status, created_at
		FROM reports
		WHERE reported_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		var rep model.Report
		err := rows.Scan(&rep.ID, &rep.ReporterID, &rep.ReportedID,
			&rep.ConfessionID, &rep.Reason, &rep.Status, &rep.CreatedAt)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}
