package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
)

// ErrUserNotFound is returned for lookups of unknown users.
var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// FindByID returns a single user with all score and counter fields.
func (r *UserRepo) FindByID(ctx context.Context, userID string) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, activity_score, quality_score, trust_score, reputation_score,
		       reputation_level, bot_probability, is_flagged, is_blocked, is_verified,
		       created_at, last_activity_at,
		       confessions_created, votes_cast, comments_created,
		       daily_confessions, daily_votes, daily_comments
		FROM users WHERE id = $1`, userID).Scan(
		&u.UserID, &u.ActivityScore, &u.QualityScore, &u.TrustScore, &u.ReputationScore,
		&u.ReputationLevel, &u.BotProbability, &u.IsFlagged, &u.IsBlocked, &u.IsVerified,
		&u.CreatedAt, &u.LastActivityAt,
		&u.ConfessionsCreated, &u.VotesCast, &u.CommentsCreated,
		&u.DailyConfessions, &u.DailyVotes, &u.DailyComments,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateIfNotExists inserts a new user row with default scores.
func (r *UserRepo) CreateIfNotExists(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id) VALUES ($1)
		ON CONFLICT (id) DO NOTHING`, userID)
	return err
}

// LoadStats assembles the aggregated snapshot the component scorers consume,
// in one pass over the user's own confessions. ReportCount is filled by the
// caller from the report repository.
func (r *UserRepo) LoadStats(ctx context.Context, userID string) (*model.UserStats, error) {
	u, err := r.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &model.UserStats{
		UserID:           userID,
		AccountAgeDays:   int(time.Since(u.CreatedAt).Hours() / 24),
		VoteCount:        u.VotesCast,
		CommentCount:     u.CommentsCreated,
		IsVerified:       u.IsVerified,
		ActiveLast30Days: time.Since(u.LastActivityAt) <= 30*24*time.Hour,
	}

	err = r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE created_at > NOW() - INTERVAL '7 days'),
			COALESCE(AVG(believe_count + doubt_count), 0),
			COALESCE(SUM(believe_count)::float / NULLIF(SUM(believe_count + doubt_count), 0), 0),
			COALESCE(AVG(comment_count), 0),
			COALESCE(AVG(LENGTH(body)), 0)
		FROM confessions
		WHERE user_id = $1 AND is_hidden = false`, userID).Scan(
		&stats.ConfessionCount, &stats.RecentContentCount,
		&stats.AvgVotesReceived, &stats.PositiveVoteRatio,
		&stats.AvgCommentsReceived, &stats.AvgContentLength,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// RegisterDevice upserts a hashed device fingerprint for the user. The raw
// signature is hashed before it reaches this layer.
func (r *UserRepo) RegisterDevice(ctx context.Context, userID, fingerprint string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_devices (user_id, fingerprint)
		VALUES ($1, $2)
		ON CONFLICT (user_id, fingerprint) DO UPDATE SET last_seen_at = NOW()`,
		userID, fingerprint)
	return err
}

// LoadActivityProfile assembles the behavioral snapshot the bot-risk
// detectors read: daily cadence, inter-action gaps, hour-of-day spread,
// recent content, received engagement, and device overlap.
func (r *UserRepo) LoadActivityProfile(ctx context.Context, userID string) (*model.ActivityProfile, error) {
	u, err := r.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &model.ActivityProfile{
		UserID:         userID,
		AccountAgeDays: int(time.Since(u.CreatedAt).Hours() / 24),
	}

	// Daily action counts over the last 14 days, newest first.
	rows, err := r.pool.Query(ctx, `
		SELECT COUNT(*)
		FROM activity_events
		WHERE user_id = $1 AND created_at > NOW() - INTERVAL '14 days'
		GROUP BY date_trunc('day', created_at)
		ORDER BY date_trunc('day', created_at) DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		profile.DailyActionCounts = append(profile.DailyActionCounts, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Inter-action intervals (seconds) and hour-of-day spread, last 500 events.
	rows, err = r.pool.Query(ctx, `
		SELECT EXTRACT(EPOCH FROM created_at - LAG(created_at) OVER (ORDER BY created_at)),
		       EXTRACT(HOUR FROM created_at)::int
		FROM (
			SELECT created_at FROM activity_events
			WHERE user_id = $1
			ORDER BY created_at DESC LIMIT 500
		) recent`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var gap *float64
		var hour int
		if err := rows.Scan(&gap, &hour); err != nil {
			return nil, err
		}
		if gap != nil {
			profile.ActionIntervals = append(profile.ActionIntervals, *gap)
		}
		if hour >= 0 && hour < 24 {
			profile.HourHistogram[hour]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Recent own content plus received engagement.
	rows, err = r.pool.Query(ctx, `
		SELECT title, COALESCE(body, ''), LENGTH(COALESCE(body, '')),
		       believe_count + doubt_count, comment_count
		FROM confessions
		WHERE user_id = $1
		ORDER BY created_at DESC LIMIT 50`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var title, body string
		var length, votes, comments int
		if err := rows.Scan(&title, &body, &length, &votes, &comments); err != nil {
			return nil, err
		}
		profile.RecentTitles = append(profile.RecentTitles, title)
		profile.RecentBodies = append(profile.RecentBodies, body)
		profile.ContentLengths = append(profile.ContentLengths, length)
		profile.ContentCount++
		profile.VotesReceived += votes
		profile.CommentsReceived += comments
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Interaction graph shape: replies exchanged and distinct counterparts.
	err = r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM comments WHERE user_id = $1),
			(SELECT COALESCE(SUM(c.comment_count), 0) FROM confessions c WHERE c.user_id = $1),
			(SELECT COUNT(DISTINCT cm.user_id)
			 FROM comments cm
			 JOIN confessions c ON c.id = cm.confession_id
			 WHERE c.user_id = $1 AND cm.user_id <> $1)`, userID).Scan(
		&profile.RepliesGiven, &profile.RepliesReceived, &profile.DistinctUsersMet,
	)
	if err != nil {
		return nil, err
	}

	// Accounts sharing a device fingerprint with this user.
	err = r.pool.QueryRow(ctx, `
		SELECT COALESCE(COUNT(DISTINCT other.user_id), 0)
		FROM user_devices mine
		JOIN user_devices other
		  ON other.fingerprint = mine.fingerprint AND other.user_id <> mine.user_id
		WHERE mine.user_id = $1`, userID).Scan(&profile.SharedDeviceUsers)
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// UpdateScores persists recomputed reputation fields. These columns are
// written nowhere else.
func (r *UserRepo) UpdateScores(ctx context.Context, u *model.User) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET activity_score = $1, quality_score = $2, trust_score = $3,
		    reputation_score = $4, reputation_level = $5,
		    bot_probability = $6, is_flagged = $7
		WHERE id = $8`,
		u.ActivityScore, u.QualityScore, u.TrustScore,
		u.ReputationScore, u.ReputationLevel,
		u.BotProbability, u.IsFlagged, u.UserID)
	return err
}

// StaleReputationIDs returns users whose reputation predates their latest
// activity by more than the given lag. Feeds the backfill sweep.
func (r *UserRepo) StaleReputationIDs(ctx context.Context, lag time.Duration, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id
		FROM users u
		LEFT JOIN LATERAL (
			SELECT MAX(created_at) AS last_recalc
			FROM reputation_history WHERE user_id = u.id
		) h ON true
		WHERE u.last_activity_at > COALESCE(h.last_recalc, 'epoch'::timestamptz) + $1::interval
		ORDER BY u.last_activity_at ASC
		LIMIT $2`, lag, limit)
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
