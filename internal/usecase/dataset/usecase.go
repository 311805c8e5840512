// Package dataset drives many independent task pipelines and writes their
// records.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"dotgen/internal/application/port/input"
	"dotgen/internal/application/port/output"
	"dotgen/internal/domain/entity"
	"dotgen/internal/usecase/assembler"
)

var _ input.DatasetGenerator = (*UseCase)(nil)

type Config struct {
	Domain     string
	Seed       int64
	Workers    int
	OnError    entity.FailurePolicy
	MaxRetries int
	// Summary is echoed into the manifest.
	Summary map[string]any
}

type UseCase struct {
	generator input.TaskGenerator
	writer    output.TaskWriterPort
	progress  output.ProgressPort
	logger    output.LoggerPort
	cfg       Config

	now   func() time.Time
	runID func() string
}

func New(
	generator input.TaskGenerator,
	writer output.TaskWriterPort,
	progress output.ProgressPort,
	logger output.LoggerPort,
	cfg Config,
) *UseCase {
	return &UseCase{
		generator: generator,
		writer:    writer,
		progress:  progress,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
		runID:     uuid.NewString,
	}
}

// outcome is the result slot of one task index. Each slot is written by
// exactly one worker.
type outcome struct {
	result  entity.TaskResult
	ct      entity.ConnectionType
	retried int
}

// Run generates count tasks over a worker pool. Task i always draws from
// seed+i (plus count per retry), so the dataset does not depend on worker
// scheduling. Failed tasks are reported in the stats; Run itself only fails
// when the batch is aborted or the context is cancelled.
func (uc *UseCase) Run(ctx context.Context, count int) (*entity.DatasetStats, error) {
	if count < 1 {
		return nil, entity.InvalidConfigf("dataset: count must be positive, got %d", count)
	}
	workers := min(max(uc.cfg.Workers, 1), count)
	start := uc.now()

	uc.logger.Info("Dataset run started",
		"count", count,
		"workers", workers,
		"seed", uc.cfg.Seed,
		"on_error", uc.cfg.OnError,
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	slots := make([]outcome, count)
	for i := range slots {
		slots[i].result = entity.TaskResult{
			TaskID: assembler.TaskID(uc.cfg.Domain, i),
			Status: entity.TaskStatusPending,
		}
	}

	var (
		mu       sync.Mutex
		done     int
		abortErr error
	)

	jobs := make(chan int)
	go func() {
		defer close(jobs)
		for i := range count {
			select {
			case jobs <- i:
			case <-runCtx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out, err := uc.runOne(runCtx, i, count)
				slots[i] = out

				mu.Lock()
				switch out.result.Status {
				case entity.TaskStatusCompleted:
					done++
					uc.progress.ShowTaskDone(ctx, done, count, out.result.TaskID)
				case entity.TaskStatusFailed:
					uc.progress.ShowTaskFailed(ctx, out.result.TaskID, err)
					if uc.cfg.OnError == entity.FailureAbort && abortErr == nil {
						abortErr = err
						cancel()
					}
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	stats := uc.collect(slots)
	stats.Elapsed = uc.now().Sub(start)

	// The manifest still describes a cancelled or aborted run.
	if err := uc.writer.WriteManifest(context.WithoutCancel(ctx), uc.manifest(stats, start)); err != nil {
		return stats, fmt.Errorf("write manifest: %w", err)
	}

	uc.logger.Info("Dataset run finished",
		"generated", stats.Generated,
		"failed", stats.Failed,
		"retried", stats.Retried,
		"elapsed", stats.Elapsed.String(),
	)

	switch {
	case abortErr != nil:
		return stats, fmt.Errorf("dataset aborted: %w", abortErr)
	case ctx.Err() != nil:
		return stats, ctx.Err()
	}
	return stats, nil
}

// runOne generates and writes task i, retrying with a shifted seed when the
// policy allows it.
func (uc *UseCase) runOne(ctx context.Context, i, count int) (outcome, error) {
	id := assembler.TaskID(uc.cfg.Domain, i)
	log := uc.logger.WithField("task_id", id)

	attempts := 1
	if uc.cfg.OnError == entity.FailureRetry {
		attempts += uc.cfg.MaxRetries
	}

	out := outcome{result: entity.TaskResult{TaskID: id}}
	var err error
	for attempt := range attempts {
		if ctxErr := ctx.Err(); ctxErr != nil {
			out.result.Status = entity.TaskStatusSkipped
			out.result.Error = ctxErr.Error()
			return out, ctxErr
		}
		if attempt > 0 {
			out.retried++
			log.Info("Retrying task", "attempt", attempt+1, "error", err)
		}
		out.result.Attempt = attempt + 1

		seed := uc.cfg.Seed + int64(i) + int64(attempt)*int64(count)
		var rec *entity.TaskRecord
		rec, err = uc.generator.Generate(ctx, entity.TaskRequest{Index: i, Seed: seed})
		if err == nil {
			if err = uc.writer.Write(ctx, rec); err == nil {
				out.result.Status = entity.TaskStatusCompleted
				out.ct = rec.Plan().Type
				log.Debug("Task written", "seed", seed, "attempt", attempt+1)
				return out, nil
			}
			err = fmt.Errorf("%s: write: %w", id, err)
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			out.result.Status = entity.TaskStatusSkipped
			out.result.Error = err.Error()
			return out, err
		}
		if errors.Is(err, entity.ErrInvalidConfiguration) {
			break
		}
	}

	log.Warn("Task failed", "attempts", out.result.Attempt, "error", err)
	out.result.Status = entity.TaskStatusFailed
	out.result.Error = err.Error()
	return out, err
}

func (uc *UseCase) collect(slots []outcome) *entity.DatasetStats {
	stats := &entity.DatasetStats{
		Requested: len(slots),
		ByType:    make(map[entity.ConnectionType]int),
	}
	for _, s := range slots {
		stats.Retried += s.retried
		res := s.result
		switch res.Status {
		case entity.TaskStatusCompleted:
			stats.Generated++
			stats.ByType[s.ct]++
			stats.TaskIDs = append(stats.TaskIDs, res.TaskID)
		case entity.TaskStatusFailed:
			stats.Failed++
			stats.Failures = append(stats.Failures, res)
		case entity.TaskStatusPending:
			res.Status = entity.TaskStatusSkipped
			res.Error = "not started"
			stats.Failures = append(stats.Failures, res)
		default:
			stats.Failures = append(stats.Failures, res)
		}
	}
	return stats
}

func (uc *UseCase) manifest(stats *entity.DatasetStats, start time.Time) entity.Manifest {
	return entity.Manifest{
		RunID:     uc.runID(),
		Domain:    uc.cfg.Domain,
		CreatedAt: start.UTC(),
		Seed:      uc.cfg.Seed,
		Config:    uc.cfg.Summary,
		TaskIDs:   append([]string{}, stats.TaskIDs...),
		Failed:    stats.Failures,
	}
}
