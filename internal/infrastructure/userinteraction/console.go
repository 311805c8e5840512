package userinteraction

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"dotgen/internal/application/port/output"
	"dotgen/internal/domain/entity"
)

var _ output.ProgressPort = (*ConsoleProgress)(nil)

// ConsoleProgress prints one line per finished task.
type ConsoleProgress struct {
	out   io.Writer
	quiet bool
}

func NewConsoleProgress(quiet bool) *ConsoleProgress {
	return &ConsoleProgress{out: color.Output, quiet: quiet}
}

func NewConsoleProgressTo(w io.Writer, quiet bool) *ConsoleProgress {
	return &ConsoleProgress{out: w, quiet: quiet}
}

func (c *ConsoleProgress) ShowTaskDone(ctx context.Context, done, total int, taskID string) {
	if c.quiet {
		return
	}
	green := color.New(color.FgGreen)
	green.Fprintf(c.out, "✓ [%d/%d] ", done, total)
	fmt.Fprintln(c.out, taskID)
}

func (c *ConsoleProgress) ShowTaskFailed(ctx context.Context, taskID string, err error) {
	red := color.New(color.FgRed)
	red.Fprintf(c.out, "❌ %s: ", taskID)

	dim := color.New(color.Faint)
	dim.Fprintln(c.out, truncate(errorText(err), 300))
}

// Summary is what the CLI reports after a run.
type Summary struct {
	Stats       *entity.DatasetStats
	DatasetDir  string
	FirstPrompt string
	Seed        int64
	VideoFormat string
}

func PrintSummary(w io.Writer, s Summary) {
	if w == nil {
		w = os.Stdout
	}
	stats := s.Stats
	if stats == nil {
		stats = &entity.DatasetStats{}
	}

	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintln(w, "\n━━━ Dataset summary ━━━")

	fmt.Fprintf(w, "Generated: %d/%d\n", stats.Generated, stats.Requested)
	if stats.Failed > 0 {
		color.New(color.FgRed).Fprintf(w, "Failed:    %d\n", stats.Failed)
	}
	if stats.Retried > 0 {
		color.New(color.FgYellow).Fprintf(w, "Retried:   %d\n", stats.Retried)
	}
	if skipped := len(stats.Failures) - stats.Failed; skipped > 0 {
		color.New(color.FgYellow).Fprintf(w, "Skipped:   %d\n", skipped)
	}
	if len(stats.ByType) > 0 {
		fmt.Fprintf(w, "By type:   %s\n", formatByType(stats.ByType))
	}
	fmt.Fprintf(w, "Seed:      %d\n", s.Seed)
	if s.VideoFormat != "" {
		fmt.Fprintf(w, "Videos:    %s\n", s.VideoFormat)
	}
	fmt.Fprintf(w, "Elapsed:   %s\n", stats.Elapsed.Round(time.Millisecond))
	if s.DatasetDir != "" {
		fmt.Fprintf(w, "Output:    %s\n", s.DatasetDir)
	}

	if s.FirstPrompt != "" {
		blue := color.New(color.FgBlue)
		blue.Fprintln(w, "\nSample prompt:")
		dim := color.New(color.Faint)
		dim.Fprintln(w, truncate(s.FirstPrompt, 500))
	}
}

func formatByType(byType map[entity.ConnectionType]int) string {
	keys := make([]string, 0, len(byType))
	for ct := range byType {
		keys = append(keys, string(ct))
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, byType[entity.ConnectionType(k)]))
	}
	return strings.Join(parts, ", ")
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
