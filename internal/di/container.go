package di

import (
	"fmt"

	"dotgen/internal/application/port/input"
	"dotgen/internal/application/port/output"
	"dotgen/internal/config"
	"dotgen/internal/domain/entity"
	"dotgen/internal/infrastructure/logger"
	"dotgen/internal/infrastructure/prompts"
	"dotgen/internal/infrastructure/render"
	"dotgen/internal/infrastructure/storage/fs"
	"dotgen/internal/infrastructure/userinteraction"
	"dotgen/internal/infrastructure/video"
	"dotgen/internal/usecase/assembler"
	"dotgen/internal/usecase/dataset"
	"dotgen/internal/usecase/planner"
)

type Container struct {
	Logger   output.LoggerPort
	Renderer *render.Renderer
	Writer   *fs.TaskWriter
	Tasks    input.TaskGenerator
	Dataset  input.DatasetGenerator
	// VideoExt is empty when videos are disabled.
	VideoExt string
}

type Options struct {
	Config config.Config
	Log    logger.Config
	// Logger overrides Log when set.
	Logger       output.LoggerPort
	Progress     output.ProgressPort
	FFmpegBinary string
}

// NewContainer wires a validated config into the generators.
func NewContainer(opts Options) (*Container, error) {
	cfg := opts.Config

	log := opts.Logger
	if log == nil {
		adapter, err := logger.NewLoggerAdapter(opts.Log)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		log = adapter
	}

	p, err := planner.New(planner.Config{
		NumDots:       cfg.NumDots,
		Canvas:        cfg.Canvas,
		Margin:        cfg.Margin,
		MinSeparation: cfg.MinSeparation,
		MaxAttempts:   cfg.MaxAttempts,
		Type:          cfg.ConnectionType,
	})
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create planner: %w", err)
	}

	renderer, err := render.New(cfg.Style)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	catalog, err := prompts.NewCatalog()
	if err != nil {
		renderer.Close()
		log.Close()
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	encoder, err := SelectVideoEncoder(cfg, opts.FFmpegBinary)
	if err != nil {
		renderer.Close()
		log.Close()
		return nil, err
	}
	videoExt := ""
	if encoder != nil {
		videoExt = encoder.Ext()
	}

	tasks := assembler.New(p, renderer, catalog, log, assembler.Config{
		Domain: cfg.Domain,
		Video:  encoder,
		Timing: cfg.Timing,
	})

	writer := fs.NewTaskWriter(cfg.OutputDir, cfg.Domain)

	progress := opts.Progress
	if progress == nil {
		progress = userinteraction.NewConsoleProgress(false)
	}

	summary := cfg.Summary()
	summary["video_format"] = videoExt

	runner := dataset.New(tasks, writer, progress, log, dataset.Config{
		Domain:     cfg.Domain,
		Seed:       cfg.Seed,
		Workers:    cfg.Workers,
		OnError:    cfg.OnError,
		MaxRetries: cfg.MaxRetries,
		Summary:    summary,
	})

	log.Debug("Container ready",
		"domain", cfg.Domain,
		"num_dots", cfg.NumDots,
		"connection_type", cfg.ConnectionType,
		"video", videoExt,
	)

	return &Container{
		Logger:   log,
		Renderer: renderer,
		Writer:   writer,
		Tasks:    tasks,
		Dataset:  runner,
		VideoExt: videoExt,
	}, nil
}

// SelectVideoEncoder resolves the configured video format. It returns nil
// when videos are disabled; auto prefers mp4 and falls back to gif when
// ffmpeg is missing.
func SelectVideoEncoder(cfg config.Config, ffmpegBinary string) (output.VideoEncoderPort, error) {
	if !cfg.GenerateVideos {
		return nil, nil
	}
	switch cfg.VideoFormat {
	case config.VideoGIF:
		return video.NewGIFEncoder(cfg.Style), nil
	case config.VideoMP4:
		if !video.FFmpegAvailable(ffmpegBinary) {
			return nil, entity.InvalidConfigf("mp4 videos need ffmpeg on PATH")
		}
		return video.NewFFmpegEncoder(ffmpegBinary, cfg.Style.Background), nil
	case config.VideoAuto, "":
		if video.FFmpegAvailable(ffmpegBinary) {
			return video.NewFFmpegEncoder(ffmpegBinary, cfg.Style.Background), nil
		}
		return video.NewGIFEncoder(cfg.Style), nil
	}
	return nil, entity.InvalidConfigf("unknown video format %q", cfg.VideoFormat)
}

func (c *Container) Close() {
	if c.Renderer != nil {
		c.Renderer.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
