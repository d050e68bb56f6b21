// Package service wires the scoring domain to its collaborators: the
// aggregate store, the export pipeline, and identifier generation. It
// enforces the single-writer-per-game contract with a per-game lock; every
// mutation loads the aggregate, applies a pure domain transition, and puts
// the whole value back.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quizroyalty/scorekeep/internal/adapters/mq/queue"
	workerpool "github.com/quizroyalty/scorekeep/internal/adapters/mq/worker"
	"github.com/quizroyalty/scorekeep/internal/adapters/repository"
	"github.com/quizroyalty/scorekeep/internal/adapters/sheetsync"
	"github.com/quizroyalty/scorekeep/internal/domain/game"
	"github.com/quizroyalty/scorekeep/pkg/logger"
	"github.com/quizroyalty/scorekeep/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize   = 1024
	defaultWorkerCount = 2
	defaultMaxHistory  = 50
)

// Service implements the API dependencies for the scoring system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	queue    queue.Queue
	exporter workerpool.Exporter
	pool     *workerpool.Pool

	// Per-game write locks; the single-writer contract of the domain.
	gameLocks sync.Map

	// Configuration
	queueSize   int
	workerCount int
	maxHistory  int

	// State
	started bool

	// Logging
	logger logger.Logger

	newID func() string
	now   func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the aggregate store. Defaults to the in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithExporter sets the archived-game exporter. Defaults to a disabled
// sheet-sync client whose export is a no-op.
func WithExporter(e workerpool.Exporter) Option {
	return func(s *Service) {
		if e != nil {
			s.exporter = e
		}
	}
}

// WithQueueSize bounds the export queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of export workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithMaxHistory caps the number of rows a team history query returns.
func WithMaxHistory(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxHistory = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:   defaultQueueSize,
		workerCount: defaultWorkerCount,
		maxHistory:  defaultMaxHistory,
		newID:       uuid.NewString,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components and launches the export workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	if s.store == nil {
		s.store = repository.NewMemStore()
		s.logger.Info(ctx, "using in-memory store")
	}
	if s.exporter == nil {
		s.exporter = sheetsync.New("")
	}
	if s.queue == nil {
		s.queue = queue.NewInMemoryQueue(
			queue.WithCapacity(s.queueSize),
			queue.WithBufferSize(s.queueSize),
		)
	}

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.exporter)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "scorekeep service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop gracefully shuts down the service: the queue stops accepting jobs,
// the workers drain what is left, and the store is closed.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping scorekeep service...")

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
		}
	}
	if s.store != nil {
		_ = s.store.Close()
	}

	s.started = false
	s.logger.Info(ctx, "scorekeep service stopped")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}
	if !s.started {
		return stats
	}

	ctx := context.Background()
	stats["exportQueueLength"] = s.queue.Len(ctx)
	if games, err := s.store.ListGames(ctx, repository.GameFilter{}); err == nil {
		stats["totalGames"] = len(games)
		metrics.UpdateStoreGamesTotal(len(games))
	}
	if teams, err := s.store.ListTeams(ctx); err == nil {
		stats["totalTeams"] = len(teams)
		metrics.UpdateStoreTeamsTotal(len(teams))
	}
	return stats
}

// ready reports whether Start has wired the collaborators yet. Every
// operation that touches the store checks it first.
func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// lockGame serializes writers of one game. Readers never take this lock;
// they work on the snapshot copies the store hands out.
func (s *Service) lockGame(id string) func() {
	v, _ := s.gameLocks.LoadOrStore(id, &sync.Mutex{})
	mu, _ := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// mutateGame runs one load -> transition -> put cycle under the game's
// write lock. The transition receives a normalized copy and its result is
// persisted as a whole value.
func (s *Service) mutateGame(ctx context.Context, id string, fn func(g *game.Game) error) (game.Game, error) {
	if err := s.ready(); err != nil {
		return game.Game{}, err
	}
	unlock := s.lockGame(id)
	defer unlock()

	g, err := s.store.GetGame(ctx, id)
	if err != nil {
		return game.Game{}, err
	}
	if err := fn(&g); err != nil {
		return game.Game{}, err
	}
	if err := s.store.PutGame(ctx, g); err != nil {
		return game.Game{}, err
	}
	return g, nil
}
