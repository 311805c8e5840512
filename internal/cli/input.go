package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"dotgen/internal/config"
	"dotgen/internal/domain/entity"
	"dotgen/internal/infrastructure/logger"
)

const (
	ExitSuccess           = 0
	ExitTaskFailure       = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitInternalError     = 4
)

// Invocation is a parsed command line on top of the environment defaults.
// Config has not been validated yet.
type Invocation struct {
	Config config.Config
	Log    logger.Config
	Quiet  bool
}

type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// ParseInvocation applies flags over base. Flags that are not given keep the
// value from base.
func ParseInvocation(args []string, base config.Config, log logger.Config) (Invocation, error) {
	fs := flag.NewFlagSet("dotgen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := base
	var (
		seed        int64
		noVideos    bool
		connType    string
		dotColor    string
		lineColor   string
		videoFormat string
		onError     string
		labels      string
		quiet       bool
	)

	fs.IntVar(&cfg.NumSamples, "num-samples", 0, "Number of tasks to generate. Required.")
	fs.StringVar(&cfg.OutputDir, "output", base.OutputDir, "Output directory.")
	fs.Int64Var(&seed, "seed", base.Seed, "Base random seed (default: time based).")
	fs.BoolVar(&noVideos, "no-videos", !base.GenerateVideos, "Skip solution videos.")
	fs.IntVar(&cfg.NumDots, "num-dots", base.NumDots, fmt.Sprintf("Dots per task (%d..%d).", config.MinDots, config.MaxDots))
	fs.StringVar(&connType, "connection-type", string(base.ConnectionType), "Connection type: sequential|path|random")
	fs.StringVar(&dotColor, "dot-color", config.FormatColor(base.Style.DotColor), "Dot colour as r,g,b or #rrggbb.")
	fs.StringVar(&lineColor, "line-color", config.FormatColor(base.Style.LineColor), "Line colour as r,g,b or #rrggbb.")
	fs.IntVar(&cfg.Style.DotRadius, "dot-radius", base.Style.DotRadius, "Dot radius in pixels.")
	fs.IntVar(&cfg.Style.LineWidth, "line-width", base.Style.LineWidth, "Line width in pixels.")
	fs.StringVar(&labels, "labels", string(base.Style.Labels), "Dot labels: order|index")
	fs.StringVar(&videoFormat, "video-format", string(base.VideoFormat), "Video format: gif|mp4|auto")
	fs.IntVar(&cfg.Workers, "workers", base.Workers, "Parallel task pipelines.")
	fs.StringVar(&onError, "on-error", string(base.OnError), "Failed task policy: skip|abort|retry")
	fs.IntVar(&cfg.MaxRetries, "max-retries", base.MaxRetries, "Retries per task with -on-error=retry.")
	fs.IntVar(&cfg.Canvas.Width, "width", base.Canvas.Width, "Canvas width in pixels.")
	fs.IntVar(&cfg.Canvas.Height, "height", base.Canvas.Height, "Canvas height in pixels.")
	fs.IntVar(&cfg.Timing.FPS, "fps", base.Timing.FPS, "Video frames per second.")
	fs.DurationVar(&cfg.Timing.StepHold, "step-hold", base.Timing.StepHold, "How long each keyframe is shown, e.g. 500ms.")
	fs.DurationVar(&cfg.Timing.Duration, "duration", base.Timing.Duration, "Target length of each video; overrides -step-hold.")
	fs.StringVar(&log.Level, "log-level", log.Level, "Log level: debug|info|warn|error")
	fs.BoolVar(&quiet, "quiet", false, "Only report failures and the summary.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Invocation{}, &InvocationError{ExitCode: ExitInvalidInvocation, Message: usage(fs)}
		}
		return Invocation{}, invalidInvocationf("%v", err)
	}
	if fs.NArg() != 0 {
		return Invocation{}, invalidInvocationf("unexpected positional arguments: %q", strings.Join(fs.Args(), " "))
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["num-samples"] {
		return Invocation{}, invalidInvocationf("-num-samples is required")
	}
	if cfg.NumSamples < 1 {
		return Invocation{}, invalidInvocationf("-num-samples must be positive (got %d)", cfg.NumSamples)
	}
	if set["seed"] {
		cfg.Seed, cfg.SeedSet = seed, true
	}

	cfg.GenerateVideos = !noVideos
	cfg.ConnectionType = entity.ConnectionType(strings.ToLower(strings.TrimSpace(connType)))
	cfg.Style.Labels = entity.LabelMode(labels)
	cfg.VideoFormat = config.VideoFormat(strings.ToLower(videoFormat))
	cfg.OnError = entity.FailurePolicy(strings.ToLower(onError))

	var err error
	if cfg.Style.DotColor, err = config.ParseColor(dotColor); err != nil {
		return Invocation{}, invalidInvocationf("invalid -dot-color: %v", err)
	}
	if cfg.Style.LineColor, err = config.ParseColor(lineColor); err != nil {
		return Invocation{}, invalidInvocationf("invalid -line-color: %v", err)
	}

	return Invocation{Config: cfg, Log: log, Quiet: quiet}, nil
}

func usage(fs *flag.FlagSet) string {
	var b strings.Builder
	b.WriteString("Usage: dotgen -num-samples N [flags]\n\n")
	fs.SetOutput(&b)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
	return b.String()
}

// ExitCode maps an error from ParseInvocation or Execute to a process exit
// code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	if errors.Is(err, entity.ErrInvalidConfiguration) {
		return ExitConfigError
	}
	return ExitInternalError
}
