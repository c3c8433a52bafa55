package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
)

// ErrConfessionNotFound is returned when voting on a missing or hidden confession.
var ErrConfessionNotFound = errors.New("confession not found")

const uniqueViolation = "23505"

type VoteRepo struct {
	pool *pgxpool.Pool
}

func NewVoteRepo(pool *pgxpool.Pool) *VoteRepo {
	return &VoteRepo{pool: pool}
}

// VoteTransition is the resolved effect of a vote request against the
// caller's existing vote state.
type VoteTransition int

const (
	// TransitionCreate inserts a new vote and counts it.
	TransitionCreate VoteTransition = iota
	// TransitionUnvote removes the existing same-type vote.
	TransitionUnvote
	// TransitionSwitch flips an existing vote to the other type.
	TransitionSwitch
)

// ResolveTransition maps (existing vote, requested type) to a transition.
// Same type again means undo; a different type means switch.
func ResolveTransition(existing *model.VoteType, requested model.VoteType) VoteTransition {
	switch {
	case existing == nil:
		return TransitionCreate
	case *existing == requested:
		return TransitionUnvote
	default:
		return TransitionSwitch
	}
}

// CounterDeltas returns the believe/doubt counter adjustments for a transition.
// A switch never passes through a state where the user counts zero or two votes.
func CounterDeltas(tr VoteTransition, existing *model.VoteType, requested model.VoteType) (believe, doubt int) {
	switch tr {
	case TransitionCreate:
		if requested == model.VoteBelieve {
			return 1, 0
		}
		return 0, 1
	case TransitionUnvote:
		if requested == model.VoteBelieve {
			return -1, 0
		}
		return 0, -1
	default: // TransitionSwitch
		if requested == model.VoteBelieve {
			return 1, -1
		}
		return -1, 1
	}
}

// Mutate applies a vote request for (userID, confessionID) with the full
// create/switch/unvote state machine in one transaction. The unique index on
// (user_id, confession_id) is the linchpin: a duplicate insert racing this
// call is re-read and resolved as a switch or undo, never surfaced as an error.
func (r *VoteRepo) Mutate(ctx context.Context, userID, confessionID string, requested model.VoteType) (*model.VoteResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := checkConfessionVotable(ctx, tx, confessionID); err != nil {
		return nil, err
	}

	existing, err := lockExistingVote(ctx, tx, userID, confessionID)
	if err != nil {
		return nil, err
	}

	tr := ResolveTransition(existing, requested)
	if tr == TransitionCreate {
		tag, err := tx.Exec(ctx, `
			INSERT INTO votes (user_id, confession_id, vote_type)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, confession_id) DO NOTHING`,
			userID, confessionID, requested)
		if err != nil {
			var pgErr *pgconn.PgError
			if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
				return nil, err
			}
			tag = pgconn.CommandTag{}
		}
		if tag.RowsAffected() == 0 {
			// Lost the insert race with a concurrent request from the same
			// user. Re-read the winner's row and follow the switch path.
			existing, err = lockExistingVote(ctx, tx, userID, confessionID)
			if err != nil {
				return nil, err
			}
			if existing == nil {
				return nil, fmt.Errorf("vote row vanished after conflict for user %s", userID)
			}
			tr = ResolveTransition(existing, requested)
		}
	}

	switch tr {
	case TransitionUnvote:
		_, err = tx.Exec(ctx, `
			DELETE FROM votes WHERE user_id = $1 AND confession_id = $2`,
			userID, confessionID)
	case TransitionSwitch:
		_, err = tx.Exec(ctx, `
			UPDATE votes SET vote_type = $1, updated_at = NOW()
			WHERE user_id = $2 AND confession_id = $3`,
			requested, userID, confessionID)
	}
	if err != nil {
		return nil, err
	}

	result, err := r.finishMutation(ctx, tx, userID, confessionID, tr, existing, requested)
	if err != nil {
		return nil, err
	}
	return result, tx.Commit(ctx)
}

// Revoke removes the caller's vote regardless of its type. Revoking when no
// vote exists is a no-op success; the response carries current counts either way.
func (r *VoteRepo) Revoke(ctx context.Context, userID, confessionID string) (*model.VoteResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := checkConfessionVotable(ctx, tx, confessionID); err != nil {
		return nil, err
	}

	existing, err := lockExistingVote(ctx, tx, userID, confessionID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		result, err := readCounts(ctx, tx, confessionID)
		if err != nil {
			return nil, err
		}
		return result, tx.Commit(ctx)
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM votes WHERE user_id = $1 AND confession_id = $2`,
		userID, confessionID)
	if err != nil {
		return nil, err
	}

	result, err := r.finishMutation(ctx, tx, userID, confessionID, TransitionUnvote, existing, *existing)
	if err != nil {
		return nil, err
	}
	return result, tx.Commit(ctx)
}

// finishMutation adjusts counters, touches activity timestamps, notifies the
// recalc worker, and reads back the response counts.
func (r *VoteRepo) finishMutation(ctx context.Context, tx pgx.Tx, userID, confessionID string, tr VoteTransition, existing *model.VoteType, requested model.VoteType) (*model.VoteResult, error) {
	believeDelta, doubtDelta := CounterDeltas(tr, existing, requested)
	_, err := tx.Exec(ctx, `
		UPDATE confessions
		SET believe_count = GREATEST(believe_count + $1, 0),
		    doubt_count = GREATEST(doubt_count + $2, 0),
		    last_activity_at = NOW()
		WHERE id = $3`,
		believeDelta, doubtDelta, confessionID)
	if err != nil {
		return nil, err
	}

	voteCastDelta := 0
	switch tr {
	case TransitionCreate:
		voteCastDelta = 1
	case TransitionUnvote:
		voteCastDelta = -1
	}
	_, err = tx.Exec(ctx, `
		UPDATE users
		SET votes_cast = GREATEST(votes_cast + $1, 0),
		    daily_votes = GREATEST(daily_votes + $1, 0),
		    last_activity_at = NOW()
		WHERE id = $2`,
		voteCastDelta, userID)
	if err != nil {
		return nil, err
	}

	// Every mutation, undo included, is a behavioral event for the bot-risk
	// profile's cadence and hour-of-day signals.
	_, err = tx.Exec(ctx, `
		INSERT INTO activity_events (user_id, kind) VALUES ($1, 'vote')`, userID)
	if err != nil {
		return nil, err
	}

	// Wake the recalc worker: hot score for the confession, reputation for the actor.
	_, err = tx.Exec(ctx, `SELECT pg_notify('vote_changes', $1 || ':' || $2)`, confessionID, userID)
	if err != nil {
		return nil, err
	}

	result, err := readCounts(ctx, tx, confessionID)
	if err != nil {
		return nil, err
	}
	if tr != TransitionUnvote {
		v := requested
		result.UserVote = &v
	}
	return result, nil
}

// UserVote returns the caller's live vote on a confession, or nil.
func (r *VoteRepo) UserVote(ctx context.Context, userID, confessionID string) (*model.VoteType, error) {
	var vt model.VoteType
	err := r.pool.QueryRow(ctx, `
		SELECT vote_type FROM votes WHERE user_id = $1 AND confession_id = $2`,
		userID, confessionID).Scan(&vt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vt, nil
}

func checkConfessionVotable(ctx context.Context, tx pgx.Tx, confessionID string) error {
	var hidden bool
	err := tx.QueryRow(ctx, `SELECT is_hidden FROM confessions WHERE id = $1`, confessionID).Scan(&hidden)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrConfessionNotFound
	}
	if err != nil {
		return err
	}
	if hidden {
		return ErrConfessionNotFound
	}
	return nil
}

func lockExistingVote(ctx context.Context, tx pgx.Tx, userID, confessionID string) (*model.VoteType, error) {
	var vt model.VoteType
	err := tx.QueryRow(ctx, `
		SELECT vote_type FROM votes
		WHERE user_id = $1 AND confession_id = $2
		FOR UPDATE`,
		userID, confessionID).Scan(&vt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vt, nil
}

func readCounts(ctx context.Context, tx pgx.Tx, confessionID string) (*model.VoteResult, error) {
	var result model.VoteResult
	err := tx.QueryRow(ctx, `
		SELECT believe_count, doubt_count FROM confessions WHERE id = $1`,
		confessionID).Scan(&result.BelieveCount, &result.DoubtCount)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
