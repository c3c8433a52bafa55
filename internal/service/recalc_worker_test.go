package service

import (
	"testing"
	"time"
)

func newTestWorker() *RecalcWorker {
	return NewRecalcWorker(nil, nil, nil, NewRankService(), nil, nil, 500*time.Millisecond, time.Minute)
}

func TestEnqueue_SplitsPayload(t *testing.T) {
	w := newTestWorker()

	w.Enqueue("conf-1:user-1")

	hot, rep := w.PendingCounts()
	if hot != 1 || rep != 1 {
		t.Errorf("PendingCounts = (%d, %d), want (1, 1)", hot, rep)
	}
}

func TestEnqueue_CoalescesDuplicates(t *testing.T) {
	w := newTestWorker()

	// Fifty rapid votes on the same confession by the same user cost one
	// recompute of each kind.
	for i := 0; i < 50; i++ {
		w.Enqueue("conf-1:user-1")
	}

	hot, rep := w.PendingCounts()
	if hot != 1 || rep != 1 {
		t.Errorf("PendingCounts = (%d, %d), want (1, 1)", hot, rep)
	}
}

func TestEnqueue_PartialPayloads(t *testing.T) {
	w := newTestWorker()

	w.Enqueue("conf-1:") // hot score only (backfill path)
	w.Enqueue(":user-1") // reputation only
	w.Enqueue("")        // empty payload is ignored

	hot, rep := w.PendingCounts()
	if hot != 1 || rep != 1 {
		t.Errorf("PendingCounts = (%d, %d), want (1, 1)", hot, rep)
	}
}

func TestEnqueue_DistinctKeysAccumulate(t *testing.T) {
	w := newTestWorker()

	w.Enqueue("conf-1:user-1")
	w.Enqueue("conf-2:user-1")
	w.Enqueue("conf-1:user-2")

	hot, rep := w.PendingCounts()
	if hot != 2 || rep != 2 {
		t.Errorf("PendingCounts = (%d, %d), want (2, 2)", hot, rep)
	}
}
