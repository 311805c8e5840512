package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"dotgen/internal/application/port/output"
	"dotgen/internal/domain/entity"
)

const (
	MinDots      = 3
	MaxDots      = 15
	MinDotRadius = 5
	MaxDotRadius = 20
	MinLineWidth = 2
	MaxLineWidth = 5
	MinCanvas    = 64
	MaxCanvas    = 4096
	MaxFPS       = 60

	defaultMaxAttempts = 100
	defaultMaxRetries  = 3
)

type VideoFormat string

const (
	VideoAuto VideoFormat = "auto"
	VideoGIF  VideoFormat = "gif"
	VideoMP4  VideoFormat = "mp4"
)

type Config struct {
	Domain     string
	NumSamples int
	Seed       int64
	SeedSet    bool
	OutputDir  string

	Canvas         entity.Canvas
	NumDots        int
	ConnectionType entity.ConnectionType
	Style          entity.Style

	// MinSeparation and Margin default to the values derived from the dot
	// radius when zero.
	MinSeparation float64
	Margin        int
	MaxAttempts   int

	GenerateVideos bool
	VideoFormat    VideoFormat
	Timing         entity.Timing

	Workers    int
	OnError    entity.FailurePolicy
	MaxRetries int
}

func Default() Config {
	return Config{
		Domain:         "dot_to_dot",
		NumSamples:     1,
		OutputDir:      "data/questions",
		Canvas:         entity.Canvas{Width: 512, Height: 512},
		NumDots:        5,
		ConnectionType: entity.ConnectionSequential,
		Style:          entity.DefaultStyle(),
		MaxAttempts:    defaultMaxAttempts,
		GenerateVideos: true,
		VideoFormat:    VideoAuto,
		Timing:         entity.DefaultTiming(),
		Workers:        1,
		OnError:        entity.FailureSkip,
		MaxRetries:     defaultMaxRetries,
	}
}

// FromEnv overlays DOTGEN_* variables on the defaults. Values that cannot be
// parsed are reported as invalid configuration instead of being dropped.
func FromEnv(env output.ConfigPort) (Config, error) {
	cfg := Default()
	cfg.Domain = env.GetWithDefault("DOTGEN_DOMAIN", cfg.Domain)
	cfg.OutputDir = env.GetWithDefault("DOTGEN_OUTPUT_DIR", cfg.OutputDir)
	cfg.Canvas.Width = env.GetInt("DOTGEN_WIDTH", cfg.Canvas.Width)
	cfg.Canvas.Height = env.GetInt("DOTGEN_HEIGHT", cfg.Canvas.Height)
	cfg.NumDots = env.GetInt("DOTGEN_NUM_DOTS", cfg.NumDots)
	cfg.ConnectionType = entity.ConnectionType(env.GetWithDefault("DOTGEN_CONNECTION_TYPE", string(cfg.ConnectionType)))
	cfg.Style.DotRadius = env.GetInt("DOTGEN_DOT_RADIUS", cfg.Style.DotRadius)
	cfg.Style.LineWidth = env.GetInt("DOTGEN_LINE_WIDTH", cfg.Style.LineWidth)
	cfg.Style.ShowNumbers = env.GetBool("DOTGEN_SHOW_NUMBERS", cfg.Style.ShowNumbers)
	cfg.Style.Labels = entity.LabelMode(env.GetWithDefault("DOTGEN_LABELS", string(cfg.Style.Labels)))
	cfg.GenerateVideos = env.GetBool("DOTGEN_GENERATE_VIDEOS", cfg.GenerateVideos)
	cfg.VideoFormat = VideoFormat(env.GetWithDefault("DOTGEN_VIDEO_FORMAT", string(cfg.VideoFormat)))
	cfg.Timing.FPS = env.GetInt("DOTGEN_VIDEO_FPS", cfg.Timing.FPS)
	cfg.Workers = env.GetInt("DOTGEN_WORKERS", cfg.Workers)
	cfg.OnError = entity.FailurePolicy(env.GetWithDefault("DOTGEN_ON_ERROR", string(cfg.OnError)))
	if v := env.Get("DOTGEN_SEED"); v != "" {
		seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return Config{}, entity.InvalidConfigf("DOTGEN_SEED=%q is not an integer", v)
		}
		cfg.Seed, cfg.SeedSet = seed, true
	}
	var err error
	if cfg.Timing.StepHold, err = envDuration(env, "DOTGEN_STEP_HOLD", cfg.Timing.StepHold); err != nil {
		return Config{}, err
	}
	if cfg.Timing.Duration, err = envDuration(env, "DOTGEN_VIDEO_DURATION", cfg.Timing.Duration); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envDuration(env output.ConfigPort, key string, def time.Duration) (time.Duration, error) {
	v := env.Get(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, entity.InvalidConfigf("%s=%q: %v", key, v, err)
	}
	return d, nil
}

// New validates raw and fills derived defaults. The returned Config is the
// only form the generators accept.
func New(raw Config) (Config, error) {
	cfg := raw
	if !cfg.SeedSet {
		cfg.Seed = time.Now().UnixNano()
		cfg.SeedSet = true
	}
	if cfg.Domain == "" {
		cfg.Domain = "dot_to_dot"
	}
	if cfg.Style.Labels == "" {
		cfg.Style.Labels = entity.LabelDrawOrder
	}
	if cfg.Style.OutlineWidth == 0 {
		cfg.Style.OutlineWidth = 2
	}
	if cfg.Margin == 0 {
		cfg.Margin = DefaultMargin(cfg.Style.DotRadius)
	}
	if cfg.MinSeparation == 0 {
		cfg.MinSeparation = float64(cfg.Margin) * 1.5
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	ct, err := entity.ParseConnectionType(string(cfg.ConnectionType))
	if err != nil {
		return Config{}, err
	}
	cfg.ConnectionType = ct

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.NumSamples < 1:
		return entity.InvalidConfigf("num samples must be positive, got %d", c.NumSamples)
	case c.NumDots < MinDots || c.NumDots > MaxDots:
		return entity.InvalidConfigf("num dots %d outside %d..%d", c.NumDots, MinDots, MaxDots)
	case c.Style.DotRadius < MinDotRadius || c.Style.DotRadius > MaxDotRadius:
		return entity.InvalidConfigf("dot radius %d outside %d..%d", c.Style.DotRadius, MinDotRadius, MaxDotRadius)
	case c.Style.LineWidth < MinLineWidth || c.Style.LineWidth > MaxLineWidth:
		return entity.InvalidConfigf("line width %d outside %d..%d", c.Style.LineWidth, MinLineWidth, MaxLineWidth)
	case c.Canvas.Width < MinCanvas || c.Canvas.Width > MaxCanvas || c.Canvas.Height < MinCanvas || c.Canvas.Height > MaxCanvas:
		return entity.InvalidConfigf("canvas %s outside %d..%d", c.Canvas, MinCanvas, MaxCanvas)
	case c.MinSeparation < 0:
		return entity.InvalidConfigf("min separation must not be negative, got %g", c.MinSeparation)
	case c.Margin < 0:
		return entity.InvalidConfigf("margin must not be negative, got %d", c.Margin)
	case c.MaxAttempts < 1:
		return entity.InvalidConfigf("max attempts must be positive, got %d", c.MaxAttempts)
	case c.MaxRetries < 0:
		return entity.InvalidConfigf("max retries must not be negative, got %d", c.MaxRetries)
	}

	switch c.Style.Labels {
	case entity.LabelDrawOrder, entity.LabelPlacement:
	default:
		return entity.InvalidConfigf("unknown label mode %q", c.Style.Labels)
	}
	switch c.OnError {
	case entity.FailureSkip, entity.FailureAbort, entity.FailureRetry:
	default:
		return entity.InvalidConfigf("unknown failure policy %q", c.OnError)
	}

	if c.GenerateVideos {
		switch c.VideoFormat {
		case VideoAuto, VideoGIF, VideoMP4:
		default:
			return entity.InvalidConfigf("unknown video format %q", c.VideoFormat)
		}
		if c.Timing.FPS < 1 || c.Timing.FPS > MaxFPS {
			return entity.InvalidConfigf("video fps %d outside 1..%d", c.Timing.FPS, MaxFPS)
		}
		if c.Timing.IntroHold < 0 || c.Timing.OutroHold < 0 || c.Timing.TransitionFrames < 0 {
			return entity.InvalidConfigf("video holds must not be negative")
		}
		if c.Timing.StepHold < 0 || c.Timing.Duration < 0 {
			return entity.InvalidConfigf("step hold %s and duration %s must not be negative", c.Timing.StepHold, c.Timing.Duration)
		}
	}
	return nil
}

// DefaultMargin keeps dots and their labels off the canvas edge.
func DefaultMargin(radius int) int {
	return max(radius*3, 40)
}

// Summary is the config echo stored in the dataset manifest.
func (c Config) Summary() map[string]any {
	return map[string]any{
		"num_samples":     c.NumSamples,
		"image_size":      []int{c.Canvas.Width, c.Canvas.Height},
		"num_dots":        c.NumDots,
		"connection_type": c.ConnectionType,
		"dot_radius":      c.Style.DotRadius,
		"line_width":      c.Style.LineWidth,
		"show_numbers":    c.Style.ShowNumbers,
		"labels":          c.Style.Labels,
		"dot_color":       FormatColor(c.Style.DotColor),
		"line_color":      FormatColor(c.Style.LineColor),
		"background":      FormatColor(c.Style.Background),
		"min_separation":  c.MinSeparation,
		"margin":          c.Margin,
		"generate_videos": c.GenerateVideos,
		"video_format":    c.VideoFormat,
		"video_fps":       c.Timing.FPS,
		"step_hold":       c.Timing.StepHold.String(),
		"video_duration":  c.Timing.Duration.String(),
	}
}

// ParseColor accepts "r,g,b" or "#rrggbb".
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) != 6 {
			return color.RGBA{}, entity.InvalidConfigf("colour %q: want #rrggbb", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, entity.InvalidConfigf("colour %q: %v", s, err)
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGBA{}, entity.InvalidConfigf("colour %q: must have 3 values (R, G, B)", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return color.RGBA{}, entity.InvalidConfigf("colour %q: component %q not in 0..255", s, p)
		}
		rgb[i] = uint8(v)
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}

func FormatColor(c color.RGBA) string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}
