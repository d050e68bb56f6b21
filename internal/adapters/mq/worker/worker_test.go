package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/quizroyalty/scorekeep/internal/adapters/mq/queue"
	worker "github.com/quizroyalty/scorekeep/internal/adapters/mq/worker"
	game "github.com/quizroyalty/scorekeep/internal/domain/game"
	logging "github.com/quizroyalty/scorekeep/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	jobChan chan queue.Job
	closed  bool
}

func newMockQueue() *mockQueue {
	return &mockQueue{
		jobChan: make(chan queue.Job, 10),
	}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan queue.Job {
	return mq.jobChan
}

func (mq *mockQueue) Close() error {
	mq.closed = true
	close(mq.jobChan)
	return nil
}

func (mq *mockQueue) addJob(job queue.Job) {
	mq.jobChan <- job
}

type mockExporter struct {
	exports map[string]queue.Job
	errors  map[string]error
	mu      sync.RWMutex
}

func newMockExporter() *mockExporter {
	return &mockExporter{
		exports: make(map[string]queue.Job),
		errors:  make(map[string]error),
	}
}

func (me *mockExporter) Export(ctx context.Context, job worker.Job) error {
	me.mu.Lock()
	defer me.mu.Unlock()

	if err, exists := me.errors[job.Game.ID]; exists {
		return err
	}

	me.exports[job.Game.ID] = job
	return nil
}

func (me *mockExporter) setError(gameID string, err error) {
	me.mu.Lock()
	defer me.mu.Unlock()
	me.errors[gameID] = err
}

func (me *mockExporter) getExport(gameID string) (queue.Job, bool) {
	me.mu.RLock()
	defer me.mu.RUnlock()
	job, exists := me.exports[gameID]
	return job, exists
}

func makeJob(gameID string) queue.Job {
	return queue.Job{
		Game: game.New(gameID, "season-1", "trivia night"),
		Rows: []queue.Row{
			{TeamID: "team-1", TeamName: "The Regulars", Score: 12, Rank: 1},
			{TeamID: "team-2", TeamName: "Quizzy Rascals", Score: 9, Rank: 2},
		},
		EnqueuedAt: time.Now(),
	}
}

func TestExportWorker(t *testing.T) {
	convey.Convey("Given a new ExportWorker", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		q := newMockQueue()
		exporter := newMockExporter()

		convey.Convey("When creating a worker with default options", func() {
			w := worker.NewExportWorker(q, exporter)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When creating a worker with custom options", func() {
			w := worker.NewExportWorker(
				q, exporter,
				worker.WithName("test-worker"),
			)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When running a worker", func() {
			w := worker.NewExportWorker(q, exporter)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			// Start worker in goroutine
			go w.Run(ctx)

			// Give worker time to start
			time.Sleep(10 * time.Millisecond)

			convey.Convey("And when processing a job", func() {
				q.addJob(makeJob("game-1"))

				// Give worker time to process
				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then it should hand the job to the exporter", func() {
					job, exported := exporter.getExport("game-1")
					convey.So(exported, convey.ShouldBeTrue)
					convey.So(job.Rows, convey.ShouldHaveLength, 2)
					convey.So(job.Rows[0].TeamName, convey.ShouldEqual, "The Regulars")
				})
			})

			convey.Convey("And when the export fails", func() {
				exporter.setError("game-2", errors.New("sync backend unavailable"))

				q.addJob(makeJob("game-2"))
				q.addJob(makeJob("game-3"))

				// Give worker time to process
				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then it should keep draining later jobs", func() {
					_, exported := exporter.getExport("game-2")
					convey.So(exported, convey.ShouldBeFalse)

					_, exported = exporter.getExport("game-3")
					convey.So(exported, convey.ShouldBeTrue)
				})
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer shutdownCancel()

				err := w.Shutdown(shutdownCtx)

				convey.Convey("Then it should shutdown gracefully", func() {
					convey.So(err, convey.ShouldBeNil)
				})
			})
		})

		convey.Convey("When context is cancelled", func() {
			w := worker.NewExportWorker(q, exporter)
			ctx, cancel := context.WithCancel(context.Background())

			// Start worker in goroutine
			go w.Run(ctx)

			// Give worker time to start
			time.Sleep(10 * time.Millisecond)

			// Cancel context
			cancel()

			// Give worker time to stop
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then shutdown should return immediately", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer shutdownCancel()

				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a new worker Pool", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		q := newMockQueue()
		exporter := newMockExporter()

		convey.Convey("When creating a worker pool with default count", func() {
			pool := worker.NewPool(0, q, exporter)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(pool, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When creating a worker pool with custom count", func() {
			workerCount := 3
			pool := worker.NewPool(workerCount, q, exporter)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(pool, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When starting a worker pool", func() {
			pool := worker.NewPool(2, q, exporter)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			pool.Start(ctx)

			// Give workers time to start
			time.Sleep(20 * time.Millisecond)

			convey.Convey("And when processing multiple jobs", func() {
				gameIDs := []string{"game-1", "game-2", "game-3"}
				for _, id := range gameIDs {
					q.addJob(makeJob(id))
				}

				// Give workers time to process
				time.Sleep(100 * time.Millisecond)

				convey.Convey("Then all jobs should be exported", func() {
					for _, id := range gameIDs {
						_, exported := exporter.getExport(id)
						convey.So(exported, convey.ShouldBeTrue)
					}
				})
			})

			convey.Convey("And when shutting down", func() {
				err := pool.Shutdown(context.Background())

				convey.Convey("Then it should close the queue and stop", func() {
					convey.So(err, convey.ShouldBeNil)
					convey.So(q.closed, convey.ShouldBeTrue)
				})
			})
		})

		convey.Convey("When stopping a pool without draining", func() {
			pool := worker.NewPool(2, q, exporter)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			pool.Start(ctx)

			// Give workers time to start
			time.Sleep(20 * time.Millisecond)

			pool.Stop()

			convey.Convey("Then the queue stays open", func() {
				convey.So(q.closed, convey.ShouldBeFalse)
			})
		})
	})
}
