package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/quizroyalty/scorekeep/internal/domain/game"
)

func testJob(id string) Job {
	return Job{
		Game:       game.New(id, "season-1", "night "+id),
		Rows:       []Row{{TeamID: "team-a", TeamName: "Alphas", Score: 10, Rank: 1}},
		EnqueuedAt: time.Now(),
	}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, testJob("game-1")) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	jobChan := q.Dequeue(ctx)
	job := <-jobChan
	if job.Game.ID != "game-1" {
		t.Errorf("expected game-1, got %v", job.Game.ID)
	}
	if len(job.Rows) != 1 || job.Rows[0].Rank != 1 {
		t.Errorf("expected scoreboard rows to travel with the job, got %v", job.Rows)
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_CapacityShedsJobs(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, testJob("game-1")) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, testJob("game-2")) {
		t.Error("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, testJob("game-3")) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue()
	ctx := context.Background()

	if !q.Enqueue(ctx, testJob("game-1")) {
		t.Error("expected enqueue to succeed")
	}
	if err := q.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if err := q.Close(); err != nil {
		t.Fatalf("expected double close to be a no-op, got %v", err)
	}
	if q.Enqueue(ctx, testJob("game-2")) {
		t.Error("expected enqueue to fail after close")
	}

	// Buffered jobs drain, then the channel closes.
	jobChan := q.Dequeue(ctx)
	job, ok := <-jobChan
	if !ok || job.Game.ID != "game-1" {
		t.Errorf("expected buffered job before close, got ok=%v id=%v", ok, job.Game.ID)
	}
	if _, ok := <-jobChan; ok {
		t.Error("expected dequeue channel to close after drain")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1000))
	ctx := context.Background()
	producers := 10
	perProducer := 50

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.Enqueue(ctx, testJob(fmt.Sprintf("game-%d-%d", n, j)))
			}
		}(i)
	}
	wg.Wait()

	if l := q.Len(ctx); l != producers*perProducer {
		t.Errorf("expected %d jobs, got %d", producers*perProducer, l)
	}

	if err := q.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count := 0
	for range q.Dequeue(ctx) {
		count++
	}
	if count != producers*perProducer {
		t.Errorf("expected to drain %d jobs, got %d", producers*perProducer, count)
	}
}
