package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"dotgen/internal/application/port/output"
	"dotgen/internal/config"
	"dotgen/internal/di"
	"dotgen/internal/domain/entity"
	"dotgen/internal/infrastructure/storage/fs"
	"dotgen/internal/infrastructure/userinteraction"
)

type RunOptions struct {
	Stdout       io.Writer
	FFmpegBinary string
	// Logger replaces the logger built from the invocation.
	Logger output.LoggerPort
}

type Result struct {
	ExitCode int
	Stats    *entity.DatasetStats
}

// Execute validates the invocation, generates the dataset and prints the
// summary. Failed tasks give ExitTaskFailure; the returned error is only set
// when the run itself could not complete.
func Execute(ctx context.Context, inv Invocation, opts RunOptions) (Result, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	cfg, err := config.New(inv.Config)
	if err != nil {
		return Result{ExitCode: ExitConfigError}, fmt.Errorf("config: %w", err)
	}

	container, err := di.NewContainer(di.Options{
		Config:       cfg,
		Log:          inv.Log,
		Logger:       opts.Logger,
		Progress:     userinteraction.NewConsoleProgressTo(opts.Stdout, inv.Quiet),
		FFmpegBinary: opts.FFmpegBinary,
	})
	if err != nil {
		return Result{ExitCode: ExitCode(err)}, err
	}
	defer container.Close()

	stats, runErr := container.Dataset.Run(ctx, cfg.NumSamples)

	userinteraction.PrintSummary(opts.Stdout, userinteraction.Summary{
		Stats:       stats,
		DatasetDir:  container.Writer.DatasetDir(),
		FirstPrompt: firstPrompt(container.Writer, stats),
		Seed:        cfg.Seed,
		VideoFormat: container.VideoExt,
	})

	res := Result{ExitCode: ExitSuccess, Stats: stats}
	switch {
	case runErr != nil && stats == nil:
		res.ExitCode = ExitCode(runErr)
		return res, runErr
	case runErr != nil:
		res.ExitCode = ExitTaskFailure
		if errors.Is(runErr, context.Canceled) {
			container.Logger.Warn("Run interrupted", "generated", stats.Generated)
		}
		return res, runErr
	case stats.Generated < stats.Requested:
		res.ExitCode = ExitTaskFailure
	}
	return res, nil
}

func firstPrompt(w *fs.TaskWriter, stats *entity.DatasetStats) string {
	if stats == nil || len(stats.TaskIDs) == 0 {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(w.TaskDir(stats.TaskIDs[0]), fs.PromptFile))
	if err != nil {
		return ""
	}
	return string(data)
}
