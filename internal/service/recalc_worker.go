package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/Bugitoy/Study-Talk-sub000/internal/repository"
)

// RecalcWorker listens for Postgres NOTIFY on the 'vote_changes' channel and
// batches the follow-up work a vote triggers: hot-score recomputes for the
// confession and reputation recomputes for the actor. Payload format is
// "<confessionID>:<userID>". Fifty votes on one confession inside the batch
// window cost one recompute.
type RecalcWorker struct {
	pool        *pgxpool.Pool
	confessions *repository.ConfessionRepo
	users       *repository.UserRepo
	rank        *RankService
	reputation  *ReputationService
	cache       *CacheService

	batchWindow      time.Duration
	backfillInterval time.Duration
	batchDuration    prometheus.Observer

	mu                sync.Mutex
	pendingHotScores  map[string]struct{}
	pendingReputation map[string]struct{}
}

// SetDurationObserver wires the batch duration histogram. Optional.
func (w *RecalcWorker) SetDurationObserver(obs prometheus.Observer) {
	w.batchDuration = obs
}

func NewRecalcWorker(pool *pgxpool.Pool, confessions *repository.ConfessionRepo, users *repository.UserRepo, rank *RankService, reputation *ReputationService, cache *CacheService, batchWindow, backfillInterval time.Duration) *RecalcWorker {
	return &RecalcWorker{
		pool:              pool,
		confessions:       confessions,
		users:             users,
		rank:              rank,
		reputation:        reputation,
		cache:             cache,
		batchWindow:       batchWindow,
		backfillInterval:  backfillInterval,
		pendingHotScores:  make(map[string]struct{}),
		pendingReputation: make(map[string]struct{}),
	}
}

// Start runs the listen loop until the context is cancelled, reconnecting
// with a delay after errors.
func (w *RecalcWorker) Start(ctx context.Context) {
	log.Info().Dur("batch_window", w.batchWindow).Msg("recalc-worker: starting")

	go w.backfillLoop(ctx)

	for {
		if err := w.listenLoop(ctx); err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("recalc-worker: stopping")
				return
			}
			log.Warn().Err(err).Msg("recalc-worker: listen error, reconnecting in 5s")
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				log.Info().Msg("recalc-worker: stopping")
				return
			}
		}
	}
}

// listenLoop holds a dedicated connection, LISTENs on vote_changes, and
// feeds notifications into the pending sets.
func (w *RecalcWorker) listenLoop(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN vote_changes"); err != nil {
		return err
	}
	log.Info().Msg("recalc-worker: listening on vote_changes")

	flushCtx, flushCancel := context.WithCancel(ctx)
	defer flushCancel()
	go w.flushLoop(flushCtx)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		w.Enqueue(notification.Payload)
	}
}

// Enqueue records a "<confessionID>:<userID>" payload for the next flush.
// Either part may be empty; duplicate payloads inside a window coalesce.
func (w *RecalcWorker) Enqueue(payload string) {
	confessionID, userID, _ := strings.Cut(payload, ":")

	w.mu.Lock()
	defer w.mu.Unlock()
	if confessionID != "" {
		w.pendingHotScores[confessionID] = struct{}{}
	}
	if userID != "" {
		w.pendingReputation[userID] = struct{}{}
	}
}

// PendingCounts reports the current pending set sizes (for tests and metrics).
func (w *RecalcWorker) PendingCounts() (hotScores, reputations int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pendingHotScores), len(w.pendingReputation)
}

func (w *RecalcWorker) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(w.batchWindow)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Flush(ctx)
		case <-ctx.Done():
			// Final flush before exit
			w.Flush(context.Background())
			return
		}
	}
}

// Flush drains both pending sets and runs the recomputes. Each recompute is
// idempotent, so a failure is simply re-enqueued for the next window rather
// than risking a double-apply.
func (w *RecalcWorker) Flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pendingHotScores) == 0 && len(w.pendingReputation) == 0 {
		w.mu.Unlock()
		return
	}
	hotBatch := w.pendingHotScores
	repBatch := w.pendingReputation
	w.pendingHotScores = make(map[string]struct{})
	w.pendingReputation = make(map[string]struct{})
	w.mu.Unlock()

	start := time.Now()
	hotDone, repDone := 0, 0

	for confessionID := range hotBatch {
		if err := w.recomputeHotScore(ctx, confessionID); err != nil {
			log.Warn().Err(err).Str("confession", confessionID).Msg("recalc-worker: hot score recompute failed, re-enqueueing")
			w.Enqueue(confessionID + ":")
			continue
		}
		hotDone++
	}

	for userID := range repBatch {
		if err := w.reputation.Recalculate(ctx, userID, "activity"); err != nil {
			log.Warn().Err(err).Str("user", userID).Msg("recalc-worker: reputation recompute failed, re-enqueueing")
			w.Enqueue(":" + userID)
			continue
		}
		repDone++
	}

	if hotDone > 0 && w.cache != nil {
		if err := w.cache.InvalidateFeeds(ctx); err != nil {
			log.Warn().Err(err).Msg("recalc-worker: feed cache invalidate failed")
		}
	}

	if w.batchDuration != nil {
		w.batchDuration.Observe(time.Since(start).Seconds())
	}

	if hotDone > 0 || repDone > 0 {
		log.Info().
			Int("hot_scores", hotDone).
			Int("reputations", repDone).
			Dur("elapsed", time.Since(start)).
			Msg("recalc-worker: batch complete")
	}
}

func (w *RecalcWorker) recomputeHotScore(ctx context.Context, confessionID string) error {
	snap, err := w.confessions.GetEngagement(ctx, confessionID)
	if err != nil {
		if errors.Is(err, repository.ErrConfessionNotFound) {
			return nil // deleted between notify and flush
		}
		return err
	}

	score := w.rank.HotScoreAt(snap.BelieveCount, snap.DoubtCount, snap.CommentCount, snap.CreatedAt, time.Now())
	return w.confessions.SetHotScore(ctx, confessionID, score)
}

// backfillLoop periodically re-enqueues confessions whose stored hot score
// lags their latest activity, and users whose reputation predates recent
// activity. This covers notifications lost while the worker was down.
func (w *RecalcWorker) backfillLoop(ctx context.Context) {
	ticker := time.NewTicker(w.backfillInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.backfill(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *RecalcWorker) backfill(ctx context.Context) {
	ids, err := w.confessions.StaleHotScoreIDs(ctx, 200)
	if err != nil {
		log.Warn().Err(err).Msg("recalc-worker: stale hot score scan failed")
	}
	for _, id := range ids {
		w.Enqueue(id + ":")
	}

	userIDs, err := w.users.StaleReputationIDs(ctx, w.backfillInterval, 100)
	if err != nil {
		log.Warn().Err(err).Msg("recalc-worker: stale reputation scan failed")
	}
	for _, id := range userIDs {
		w.Enqueue(":" + id)
	}

	if len(ids) > 0 || len(userIDs) > 0 {
		log.Info().Int("hot_scores", len(ids)).Int("reputations", len(userIDs)).Msg("recalc-worker: backfill enqueued")
	}
}
