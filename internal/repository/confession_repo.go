package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
)

type ConfessionRepo struct {
	pool *pgxpool.Pool
}

func NewConfessionRepo(pool *pgxpool.Pool) *ConfessionRepo {
	return &ConfessionRepo{pool: pool}
}

const confessionColumns = `
	id, user_id, title, body, believe_count, doubt_count, comment_count,
	hot_score, hot_score_updated_at, is_hidden, created_at, last_activity_at`

// FindByID returns a single confession, excluding hidden ones.
func (r *ConfessionRepo) FindByID(ctx context.Context, id string) (*model.Confession, error) {
	var c model.Confession
	err := r.pool.QueryRow(ctx, `
		SELECT `+confessionColumns+`
		FROM confessions
		WHERE id = $1 AND is_hidden = false`, id).Scan(
		&c.ID, &c.UserID, &c.Title, &c.Body, &c.BelieveCount, &c.DoubtCount, &c.CommentCount,
		&c.HotScore, &c.HotScoreUpdatedAt, &c.IsHidden, &c.CreatedAt, &c.LastActivityAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConfessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListFeed returns visible confessions ordered by the requested sort. Ranking
// reads the stored hot_score column; nothing is recomputed on this path.
func (r *ConfessionRepo) ListFeed(ctx context.Context, sort model.FeedSort, limit int) ([]model.Confession, error) {
	order := "hot_score DESC, created_at DESC"
	if sort == model.SortRecent {
		order = "created_at DESC"
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+confessionColumns+`
		FROM confessions
		WHERE is_hidden = false
		ORDER BY `+order+`
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var confessions []model.Confession
	for rows.Next() {
		var c model.Confession
		err := rows.Scan(
			&c.ID, &c.UserID, &c.Title, &c.Body, &c.BelieveCount, &c.DoubtCount, &c.CommentCount,
			&c.HotScore, &c.HotScoreUpdatedAt, &c.IsHidden, &c.CreatedAt, &c.LastActivityAt,
		)
		if err != nil {
			return nil, err
		}
		confessions = append(confessions, c)
	}
	return confessions, rows.Err()
}

// EngagementSnapshot is the counter state the hot-score calculation reads.
type EngagementSnapshot struct {
	BelieveCount int
	DoubtCount   int
	CommentCount int
	CreatedAt    time.Time
}

// GetEngagement returns the raw counters needed to recompute a hot score.
func (r *ConfessionRepo) GetEngagement(ctx context.Context, id string) (*EngagementSnapshot, error) {
	var s EngagementSnapshot
	err := r.pool.QueryRow(ctx, `
		SELECT believe_count, doubt_count, comment_count, created_at
		FROM confessions WHERE id = $1`, id).Scan(
		&s.BelieveCount, &s.DoubtCount, &s.CommentCount, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConfessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SetHotScore persists a recomputed hot score. Only the recalc worker calls this.
func (r *ConfessionRepo) SetHotScore(ctx context.Context, id string, score float64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE confessions
		SET hot_score = $1, hot_score_updated_at = NOW()
		WHERE id = $2`, score, id)
	return err
}

// StaleHotScoreIDs returns confessions whose stored hot score lags behind
// their latest activity. The backfill sweep re-enqueues these, covering
// notifications lost while the worker was down.
func (r *ConfessionRepo) StaleHotScoreIDs(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM confessions
		WHERE hot_score_updated_at < last_activity_at
		ORDER BY last_activity_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddComment inserts a comment, bumps the parent's comment counter, and
// notifies the recalc worker in one transaction. Comments feed engagement,
// so the hot score must follow.
func (r *ConfessionRepo) AddComment(ctx context.Context, c *model.Comment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE confessions
		SET comment_count = comment_count + 1, last_activity_at = NOW()
		WHERE id = $1 AND is_hidden = false`, c.ConfessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConfessionNotFound
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO comments (confession_id, user_id, parent_comment_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		c.ConfessionID, c.UserID, c.ParentCommentID, c.Body).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET comments_created = comments_created + 1,
		    daily_comments = daily_comments + 1,
		    last_activity_at = NOW()
		WHERE id = $1`, c.UserID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO activity_events (user_id, kind) VALUES ($1, 'comment')`, c.UserID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `SELECT pg_notify('vote_changes', $1 || ':' || $2)`, c.ConfessionID, c.UserID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
