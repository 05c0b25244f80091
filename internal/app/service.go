// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/juryboard/internal/adapters/sheetio"
	"github.com/okian/juryboard/internal/domain/criteria"
	"github.com/okian/juryboard/internal/domain/grid"
	"github.com/okian/juryboard/internal/domain/model"
	"github.com/okian/juryboard/internal/domain/ranking"
	"github.com/okian/juryboard/internal/domain/sheet"
	"github.com/okian/juryboard/pkg/logger"
	"github.com/okian/juryboard/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Batch outcomes used as metric labels.
const (
	outcomeOK      = "ok"
	outcomePartial = "partial"
	outcomeFailed  = "failed"

	defaultMaxFiles = 100
)

// Decoder turns uploaded bytes into the first sheet's grid.
type Decoder interface {
	Decode(name string, data []byte) (*grid.Grid, error)
}

// Service scores uploaded jury sheets and ranks the teams.
type Service struct {
	decoder     Decoder
	policy      ranking.Policy
	concurrency int
	maxFiles    int
	partial     bool

	// Counters for GET /stats.
	batches        atomic.Int64
	batchesFailed  atomic.Int64
	sheetsScored   atomic.Int64
	sheetsRejected atomic.Int64
	lastTeams      atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDecoder replaces the sheet decoder.
func WithDecoder(d Decoder) Option {
	return func(s *Service) {
		if d != nil {
			s.decoder = d
		}
	}
}

// WithPlacementPolicy sets the placement policy used when ranking.
func WithPlacementPolicy(p ranking.Policy) Option {
	return func(s *Service) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithConcurrency bounds how many sheets are processed at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithMaxFiles caps the number of files in a batch.
func WithMaxFiles(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxFiles = n
		}
	}
}

// WithPartialResults makes a batch succeed with the good files when some
// files are rejected.
func WithPartialResults(enabled bool) Option {
	return func(s *Service) {
		s.partial = enabled
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		decoder:     sheetio.NewFactory(),
		policy:      ranking.ThresholdPolicy{},
		concurrency: runtime.NumCPU(),
		maxFiles:    defaultMaxFiles,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

type outcome struct {
	record model.TeamRecord
	err    error
}

// Calculate scores every upload and returns the ranked leaderboard. Files are
// processed concurrently but results keep upload order, so ties and the
// reported failure are the same as a sequential run. Unless partial results
// are enabled, the first rejected file in upload order fails the batch.
func (s *Service) Calculate(ctx context.Context, uploads []model.Upload) (model.Leaderboard, error) {
	start := time.Now()
	batchID := uuid.NewString()
	log := s.logger.With(logger.String("batch_id", batchID))

	switch {
	case len(uploads) == 0:
		return model.Leaderboard{}, ErrNoFiles
	case len(uploads) > s.maxFiles:
		return model.Leaderboard{}, fmt.Errorf("%w: %d > %d", ErrTooManyFiles, len(uploads), s.maxFiles)
	}

	log.Info(ctx, "batch started", logger.Int("files", len(uploads)))

	results := make([]outcome, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, up := range uploads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := s.processOne(gctx, log, up)
			results[i] = outcome{record: rec, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.finishBatch(ctx, log, outcomeFailed, len(uploads), start)
		return model.Leaderboard{}, fmt.Errorf("batch %s: %w", batchID, err)
	}

	records := make([]model.TeamRecord, 0, len(results))
	var fileErrs []model.FileError
	for i, res := range results {
		if res.err == nil {
			records = append(records, res.record)
			continue
		}
		if !s.partial {
			s.finishBatch(ctx, log, outcomeFailed, len(uploads), start)
			return model.Leaderboard{}, res.err
		}
		fileErrs = append(fileErrs, model.FileError{
			File:    uploads[i].Name,
			Code:    sheet.CodeOf(res.err),
			Message: res.err.Error(),
		})
	}

	ranked := ranking.Rank(records, s.policy)
	s.lastTeams.Store(int64(len(ranked)))
	metrics.UpdateTeamsRanked(len(ranked))

	label := outcomeOK
	if len(fileErrs) > 0 {
		label = outcomePartial
	}
	s.finishBatch(ctx, log, label, len(uploads), start)

	return model.Leaderboard{BatchID: batchID, Results: ranked, Errors: fileErrs}, nil
}

func (s *Service) finishBatch(ctx context.Context, log logger.Logger, label string, files int, start time.Time) {
	elapsed := time.Since(start)
	s.batches.Add(1)
	if label == outcomeFailed {
		s.batchesFailed.Add(1)
	}
	metrics.RecordBatch(label, files, float64(elapsed.Milliseconds()))
	log.Info(ctx, "batch finished",
		logger.String("outcome", label),
		logger.Int("files", files),
		logger.Duration("elapsed", elapsed),
	)
}

// processOne runs decode and scoring for a single upload.
func (s *Service) processOne(ctx context.Context, log logger.Logger, up model.Upload) (rec model.TeamRecord, err error) {
	start := time.Now()
	metrics.RecordUploadBytes(len(up.Data))

	defer func() {
		if r := recover(); r != nil {
			err = sheet.NewError(up.Name, sheet.ErrDecodeFailure, fmt.Errorf("panic: %v", r))
		}

		label := outcomeOK
		if err != nil {
			label = sheet.CodeOf(err)
			s.sheetsRejected.Add(1)
			log.Warn(ctx, "sheet rejected", logger.String("file", up.Name), logger.String("code", label), logger.Error(err))
		} else {
			s.sheetsScored.Add(1)
			log.Debug(ctx, "sheet scored",
				logger.String("file", up.Name),
				logger.String("team", rec.Team),
				logger.Float64("total", rec.Total),
			)
		}
		metrics.RecordSheet(label, float64(time.Since(start).Milliseconds()))
	}()

	g, err := s.decoder.Decode(up.Name, up.Data)
	if err != nil {
		return model.TeamRecord{}, sheet.NewError(up.Name, sheet.ErrDecodeFailure, err)
	}
	return sheet.Process(up.Name, g)
}

// Criteria returns the fixed criteria table.
func (s *Service) Criteria() []criteria.Criterion {
	return criteria.Table()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"batches":         s.batches.Load(),
		"batchesFailed":   s.batchesFailed.Load(),
		"sheetsScored":    s.sheetsScored.Load(),
		"sheetsRejected":  s.sheetsRejected.Load(),
		"lastTeams":       s.lastTeams.Load(),
		"concurrency":     s.concurrency,
		"maxFiles":        s.maxFiles,
		"partialResults":  s.partial,
		"placementPolicy": s.policy.Name(),
	}
}
