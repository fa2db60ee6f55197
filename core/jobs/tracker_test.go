package jobs

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"precios-api/core/domain"
)

func TestTracker_Acquire_CreatesJob(t *testing.T) {
	tracker := NewTracker(time.Minute, nil)
	defer tracker.Stop()

	job, created := tracker.Acquire("laptop gamer", []string{"mercadolibre"})

	if !created {
		t.Error("first Acquire should create the job")
	}
	if job == nil {
		t.Fatal("Acquire returned nil job")
	}
	if job.Query() != "laptop gamer" {
		t.Errorf("job query = %q, want %q", job.Query(), "laptop gamer")
	}
}

func TestTracker_Acquire_SecondCallerAttaches(t *testing.T) {
	tracker := NewTracker(time.Minute, nil)
	defer tracker.Stop()

	first, created := tracker.Acquire("iphone 15", nil)
	if !created {
		t.Fatal("first Acquire should create")
	}

	second, created := tracker.Acquire("iphone 15", nil)
	if created {
		t.Error("second Acquire should not create a new job")
	}
	if second.ID() != first.ID() {
		t.Errorf("second caller got job %s, want %s", second.ID(), first.ID())
	}
}

func TestTracker_Acquire_DistinctQueriesIndependent(t *testing.T) {
	tracker := NewTracker(time.Minute, nil)
	defer tracker.Stop()

	_, createdA := tracker.Acquire("iphone 15", nil)
	_, createdB := tracker.Acquire("laptop gamer", nil)

	if !createdA || !createdB {
		t.Error("distinct queries should each create their own job")
	}
	if tracker.ActiveCount() != 2 {
		t.Errorf("ActiveCount = %d, want 2", tracker.ActiveCount())
	}
}

// At most one scrape job may be created per query regardless of how many
// callers race on Acquire.
func TestTracker_Acquire_ConcurrentCallersOneOwner(t *testing.T) {
	tracker := NewTracker(time.Minute, nil)
	defer tracker.Stop()

	const callers = 50
	var createdCount int32
	ids := make([]string, callers)

	var start sync.WaitGroup
	start.Add(1)
	var done sync.WaitGroup

	for i := 0; i < callers; i++ {
		done.Add(1)
		go func(n int) {
			defer done.Done()
			start.Wait()
			job, created := tracker.Acquire("iphone 15", nil)
			if created {
				atomic.AddInt32(&createdCount, 1)
			}
			ids[n] = job.ID()
		}(i)
	}

	start.Done()
	done.Wait()

	if createdCount != 1 {
		t.Errorf("%d callers created a job, want exactly 1", createdCount)
	}
	for i := 1; i < callers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("caller %d observed job %s, caller 0 observed %s", i, ids[i], ids[0])
		}
	}
}

func TestTracker_Release_AllowsReacquire(t *testing.T) {
	tracker := NewTracker(time.Minute, nil)
	defer tracker.Stop()

	first, _ := tracker.Acquire("iphone 15", nil)
	tracker.Release(first)

	second, created := tracker.Acquire("iphone 15", nil)
	if !created {
		t.Error("Acquire after Release should create a fresh job")
	}
	if second.ID() == first.ID() {
		t.Error("fresh job should not reuse the released job's ID")
	}
}

func TestTracker_Release_Idempotent(t *testing.T) {
	tracker := NewTracker(time.Minute, nil)
	defer tracker.Stop()

	job, _ := tracker.Acquire("iphone 15", nil)
	tracker.Release(job)
	tracker.Release(job)
	tracker.Release(nil)
	tracker.Release(domain.NewScrapeJob("never acquired", nil))

	if tracker.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %d, want 0", tracker.ActiveCount())
	}
}

// A stale owner releasing after the watchdog already freed its slot must not
// evict a successor job for the same query.
func TestTracker_Release_StaleOwnerKeepsSuccessor(t *testing.T) {
	tracker := NewTracker(time.Minute, nil)
	defer tracker.Stop()

	stale, _ := tracker.Acquire("iphone 15", nil)
	tracker.Release(stale)

	successor, created := tracker.Acquire("iphone 15", nil)
	if !created {
		t.Fatal("Acquire after release should create a fresh job")
	}

	// The stale owner's deferred release fires late.
	tracker.Release(stale)

	observed, created := tracker.Acquire("iphone 15", nil)
	if created {
		t.Error("late stale release evicted the successor's slot")
	}
	if observed.ID() != successor.ID() {
		t.Errorf("observer got job %s, want successor %s", observed.ID(), successor.ID())
	}
}

func TestTracker_Find(t *testing.T) {
	tracker := NewTracker(time.Minute, nil)
	defer tracker.Stop()

	job, _ := tracker.Acquire("iphone 15", nil)

	found, ok := tracker.Find(job.ID())
	if !ok {
		t.Fatal("Find should locate an active job by ID")
	}
	if found.Query() != "iphone 15" {
		t.Errorf("found job query = %q, want %q", found.Query(), "iphone 15")
	}

	if _, ok := tracker.Find("no-such-id"); ok {
		t.Error("Find should return false for unknown ID")
	}
}

func TestTracker_Watchdog_ForceReleasesOrphans(t *testing.T) {
	tracker := NewTracker(20*time.Millisecond, nil)
	defer tracker.Stop()

	tracker.Acquire("iphone 15", nil)

	deadline := time.After(500 * time.Millisecond)
	for tracker.ActiveCount() != 0 {
		select {
		case <-deadline:
			t.Fatal("watchdog did not release the orphaned job")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if _, created := tracker.Acquire("iphone 15", nil); !created {
		t.Error("query should be acquirable again after watchdog release")
	}
}
