package services

import (
	"context"
	"sync"
	"time"

	"github.com/tmlira/chesslens/internal/cache"
	"github.com/tmlira/chesslens/internal/errors"
	"github.com/tmlira/chesslens/internal/loader"
	"github.com/tmlira/chesslens/internal/logger"
	"github.com/tmlira/chesslens/internal/models"
	"github.com/tmlira/chesslens/internal/repository"
	"github.com/tmlira/chesslens/internal/worker"
)

// Dataset states.
const (
	StateIdle      = "idle"
	StateComputing = "computing"
	StateReady     = "ready"
	StateFailed    = "failed"
)

// DatasetStatus is a snapshot of the current dataset. Generation increments
// every time an ingest completes, so stats computed against an older table
// can be told apart from the current one.
type DatasetStatus struct {
	State      string     `json:"state"`
	Generation int64      `json:"generation"`
	SampleSize int        `json:"sample_size"`
	Seed       int64      `json:"seed"`
	Loaded     int        `json:"loaded"`
	Dropped    int        `json:"dropped"`
	NullFilled int        `json:"null_filled"`
	TotalRead  int        `json:"total_read"`
	Error      string     `json:"error,omitempty"`
	LoadedAt   *time.Time `json:"loaded_at,omitempty"`
}

// DatasetService owns the ingest lifecycle: one load at a time, status
// visible to the dashboard while it runs.
type DatasetService interface {
	// Reload queues a background ingest with the given sample parameters.
	// A second reload while one is running returns a conflict.
	Reload(ctx context.Context, sampleSize int, seed int64) error
	// Ingest runs the load synchronously. Reload jobs call this.
	Ingest(ctx context.Context, sampleSize int, seed int64) error
	Status() DatasetStatus
}

// DatasetOptions configures where and how the dataset is loaded.
type DatasetOptions struct {
	CSVPath   string
	ChunkSize int // rows between loader progress lines
	BatchSize int // rows per insert batch
}

type datasetService struct {
	gameRepo repository.GameRepository
	cache    *cache.Cache
	pool     *worker.Pool
	opts     DatasetOptions

	mu     sync.Mutex
	status DatasetStatus
}

// NewDatasetService creates a new DatasetService
func NewDatasetService(gameRepo repository.GameRepository, c *cache.Cache, pool *worker.Pool, opts DatasetOptions) DatasetService {
	return &datasetService{
		gameRepo: gameRepo,
		cache:    c,
		pool:     pool,
		opts:     opts,
		status:   DatasetStatus{State: StateIdle},
	}
}

func (s *datasetService) Status() DatasetStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *datasetService) Reload(ctx context.Context, sampleSize int, seed int64) error {
	log := logger.FromContext(ctx)

	if sampleSize < 0 {
		return errors.NewValidationError("sample_size", "must be zero or positive")
	}

	if !s.transitionToComputing(sampleSize, seed) {
		return errors.NewConflictError("an ingest is already running")
	}

	log.Info("queueing dataset reload: sample_size=%d, seed=%d", sampleSize, seed)
	s.pool.Submit(&worker.IngestJob{Ingester: s, SampleSize: sampleSize, Seed: seed})
	return nil
}

func (s *datasetService) Ingest(ctx context.Context, sampleSize int, seed int64) error {
	log := logger.FromContext(ctx)

	// Direct callers (startup, the report command) have not gone through
	// Reload, so claim the computing state here if it is still free.
	s.transitionToComputing(sampleSize, seed)

	if err := s.gameRepo.DeleteAll(ctx); err != nil {
		log.Error("failed to clear previous dataset: %v", err)
		s.fail(err)
		return errors.NewInternalError(err)
	}

	res, err := loader.Load(ctx, loader.Options{
		Path:       s.opts.CSVPath,
		SampleSize: sampleSize,
		Seed:       seed,
		ChunkSize:  s.opts.ChunkSize,
		BatchSize:  s.opts.BatchSize,
	}, func(ctx context.Context, batch []models.Game) error {
		return s.gameRepo.InsertBatch(ctx, batch)
	})
	if err != nil {
		log.Error("ingest failed: %v", err)
		s.fail(err)
		return errors.NewInternalError(err)
	}

	s.cache.Clear()

	now := time.Now()
	s.mu.Lock()
	s.status = DatasetStatus{
		State:      StateReady,
		Generation: s.status.Generation + 1,
		SampleSize: sampleSize,
		Seed:       seed,
		Loaded:     res.Loaded,
		Dropped:    res.Dropped,
		NullFilled: res.NullFilled,
		TotalRead:  res.TotalRead,
		LoadedAt:   &now,
	}
	s.mu.Unlock()

	log.Info("dataset ready: %d games loaded", res.Loaded)
	return nil
}

// transitionToComputing claims the computing state. Returns false if an
// ingest is already in flight.
func (s *datasetService) transitionToComputing(sampleSize int, seed int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.State == StateComputing {
		return false
	}
	s.status = DatasetStatus{State: StateComputing, Generation: s.status.Generation, SampleSize: sampleSize, Seed: seed}
	return true
}

func (s *datasetService) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.State = StateFailed
	s.status.Error = err.Error()
}
