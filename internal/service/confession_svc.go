package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
	"github.com/Bugitoy/Study-Talk-sub000/internal/repository"
)

// ConfessionService serves ranked confession feeds, cache-aside, and accepts
// comments on them.
type ConfessionService struct {
	repo  *repository.ConfessionRepo
	users *repository.UserRepo
	rank  *RankService
	cache *CacheService
}

func NewConfessionService(repo *repository.ConfessionRepo, users *repository.UserRepo, rank *RankService, cache *CacheService) *ConfessionService {
	return &ConfessionService{repo: repo, users: users, rank: rank, cache: cache}
}

// Feed returns the confession feed in the requested order. The hot sort reads
// the persisted hot_score column; nothing is recomputed here.
func (s *ConfessionService) Feed(ctx context.Context, sort model.FeedSort, limit int) (*model.FeedResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFeed(ctx, sort, limit); err != nil {
			log.Warn().Err(err).Msg("cache: feed get failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	confessions, err := s.repo.ListFeed(ctx, sort, limit)
	if err != nil {
		return nil, err
	}
	confessions = s.rank.RankItems(confessions, sort)
	if confessions == nil {
		confessions = []model.Confession{}
	}

	resp := &model.FeedResponse{
		Confessions: confessions,
		Sort:        sort,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if s.cache != nil {
		if err := s.cache.SetFeed(ctx, sort, limit, resp); err != nil {
			log.Warn().Err(err).Msg("cache: feed set failed")
		}
	}

	return resp, nil
}

// Lookup returns a single visible confession.
func (s *ConfessionService) Lookup(ctx context.Context, id string) (*model.Confession, error) {
	return s.repo.FindByID(ctx, id)
}

// AddComment records a comment and bumps the parent's engagement. The
// hot-score recompute rides the same notification the vote path uses.
func (s *ConfessionService) AddComment(ctx context.Context, userID, confessionID string, req *model.CommentRequest) (*model.Comment, error) {
	if err := s.users.CreateIfNotExists(ctx, userID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ConfessionID:    confessionID,
		UserID:          userID,
		ParentCommentID: req.ParentCommentID,
		Body:            req.Body,
	}
	if err := s.repo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
