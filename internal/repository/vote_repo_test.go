package repository

import (
	"testing"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
)

func vt(t model.VoteType) *model.VoteType { return &t }

func TestResolveTransition(t *testing.T) {
	tests := []struct {
		name      string
		existing  *model.VoteType
		requested model.VoteType
		want      VoteTransition
	}{
		{"no vote then believe", nil, model.VoteBelieve, TransitionCreate},
		{"no vote then doubt", nil, model.VoteDoubt, TransitionCreate},
		{"believe again undoes", vt(model.VoteBelieve), model.VoteBelieve, TransitionUnvote},
		{"doubt again undoes", vt(model.VoteDoubt), model.VoteDoubt, TransitionUnvote},
		{"believe to doubt switches", vt(model.VoteBelieve), model.VoteDoubt, TransitionSwitch},
		{"doubt to believe switches", vt(model.VoteDoubt), model.VoteBelieve, TransitionSwitch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveTransition(tt.existing, tt.requested); got != tt.want {
				t.Errorf("ResolveTransition() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCounterDeltas(t *testing.T) {
	tests := []struct {
		name        string
		tr          VoteTransition
		existing    *model.VoteType
		requested   model.VoteType
		wantBelieve int
		wantDoubt   int
	}{
		{"create believe", TransitionCreate, nil, model.VoteBelieve, 1, 0},
		{"create doubt", TransitionCreate, nil, model.VoteDoubt, 0, 1},
		{"unvote believe", TransitionUnvote, vt(model.VoteBelieve), model.VoteBelieve, -1, 0},
		{"unvote doubt", TransitionUnvote, vt(model.VoteDoubt), model.VoteDoubt, 0, -1},
		{"switch doubt to believe", TransitionSwitch, vt(model.VoteDoubt), model.VoteBelieve, 1, -1},
		{"switch believe to doubt", TransitionSwitch, vt(model.VoteBelieve), model.VoteDoubt, -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			believe, doubt := CounterDeltas(tt.tr, tt.existing, tt.requested)
			if believe != tt.wantBelieve || doubt != tt.wantDoubt {
				t.Errorf("CounterDeltas() = (%d, %d), want (%d, %d)",
					believe, doubt, tt.wantBelieve, tt.wantDoubt)
			}
		})
	}
}

// TestVoteSequenceNetEffect walks a realistic click sequence and checks the
// deltas always leave a state where the user holds at most one counted vote.
func TestVoteSequenceNetEffect(t *testing.T) {
	believeCount, doubtCount := 0, 0
	var existing *model.VoteType

	apply := func(requested model.VoteType) {
		tr := ResolveTransition(existing, requested)
		b, d := CounterDeltas(tr, existing, requested)
		believeCount += b
		doubtCount += d
		switch tr {
		case TransitionUnvote:
			existing = nil
		default:
			existing = vt(requested)
		}
	}

	// believe → switch to doubt → undo → believe again
	apply(model.VoteBelieve)
	if believeCount != 1 || doubtCount != 0 {
		t.Fatalf("after believe: (%d, %d), want (1, 0)", believeCount, doubtCount)
	}

	apply(model.VoteDoubt)
	if believeCount != 0 || doubtCount != 1 {
		t.Fatalf("after switch: (%d, %d), want (0, 1)", believeCount, doubtCount)
	}

	apply(model.VoteDoubt)
	if believeCount != 0 || doubtCount != 0 {
		t.Fatalf("after undo: (%d, %d), want (0, 0)", believeCount, doubtCount)
	}
	if existing != nil {
		t.Fatal("undo should clear the live vote")
	}

	apply(model.VoteBelieve)
	if believeCount != 1 || doubtCount != 0 {
		t.Fatalf("after re-vote: (%d, %d), want (1, 0)", believeCount, doubtCount)
	}
}
