package service

import (
	"context"
	"fmt"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
	"github.com/Bugitoy/Study-Talk-sub000/internal/repository"
)

// VoteService orchestrates vote mutations. The heavy lifting — the one-vote
// invariant and counter adjustments — lives in the repository transaction;
// hot-score and reputation recomputes are follow-up work the recalc worker
// picks up from the NOTIFY the transaction emits, so the vote response never
// blocks on them.
type VoteService struct {
	votes *repository.VoteRepo
	users *repository.UserRepo
}

func NewVoteService(votes *repository.VoteRepo, users *repository.UserRepo) *VoteService {
	return &VoteService{votes: votes, users: users}
}

// Submit applies a vote with the full vote/switch/undo state machine.
func (s *VoteService) Submit(ctx context.Context, userID, confessionID string, voteType string) (*model.VoteResult, error) {
	vt := model.VoteType(voteType)
	if !vt.Valid() {
		return nil, fmt.Errorf("invalid vote type: %s", voteType)
	}

	if err := s.users.CreateIfNotExists(ctx, userID); err != nil {
		return nil, err
	}

	return s.votes.Mutate(ctx, userID, confessionID, vt)
}

// Revoke removes the caller's vote. Revoking with no live vote is a no-op.
func (s *VoteService) Revoke(ctx context.Context, userID, confessionID string) (*model.VoteResult, error) {
	return s.votes.Revoke(ctx, userID, confessionID)
}

// UserVote returns the caller's live vote on a confession, or nil.
func (s *VoteService) UserVote(ctx context.Context, userID, confessionID string) (*model.VoteType, error) {
	return s.votes.UserVote(ctx, userID, confessionID)
}
