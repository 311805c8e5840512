package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"dotgen/internal/application/port/output"
	"dotgen/internal/domain/entity"
)

var _ output.TaskWriterPort = (*TaskWriter)(nil)

const (
	FirstFrameFile = "first_frame.png"
	FinalFrameFile = "final_frame.png"
	PromptFile     = "prompt.txt"
	MetadataFile   = "metadata.json"
	ManifestFile   = "manifest.json"
	videoBaseName  = "ground_truth"
)

// TaskWriter stores each task under <root>/<domain>_task/<task id>/.
type TaskWriter struct {
	root   string
	domain string
}

func NewTaskWriter(root, domain string) *TaskWriter {
	return &TaskWriter{root: root, domain: domain}
}

func (w *TaskWriter) DatasetDir() string {
	return filepath.Join(w.root, w.domain+"_task")
}

func (w *TaskWriter) TaskDir(taskID string) string {
	return filepath.Join(w.DatasetDir(), taskID)
}

type taskMetadata struct {
	TaskID string      `json:"task_id"`
	Domain string      `json:"domain"`
	Seed   int64       `json:"seed"`
	Plan   entity.Plan `json:"plan"`
	Video  string      `json:"video,omitempty"`
	Frames int         `json:"video_frames,omitempty"`
}

// Write stages the task in a hidden sibling directory and renames it into
// place, so a failed write never leaves a partial task behind.
func (w *TaskWriter) Write(ctx context.Context, rec *entity.TaskRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.DatasetDir(), 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}

	staging, err := os.MkdirTemp(w.DatasetDir(), "."+rec.ID()+"-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			os.RemoveAll(staging)
		}
	}()

	if err := imaging.Save(rec.Initial(), filepath.Join(staging, FirstFrameFile)); err != nil {
		return fmt.Errorf("save first frame: %w", err)
	}
	if err := imaging.Save(rec.Final(), filepath.Join(staging, FinalFrameFile)); err != nil {
		return fmt.Errorf("save final frame: %w", err)
	}
	if err := os.WriteFile(filepath.Join(staging, PromptFile), []byte(rec.Prompt()), 0o644); err != nil {
		return fmt.Errorf("write prompt: %w", err)
	}

	meta := taskMetadata{TaskID: rec.ID(), Domain: rec.Domain(), Seed: rec.Seed(), Plan: rec.Plan()}
	if v, ok := rec.Video(); ok {
		meta.Video = videoBaseName + "." + v.Ext
		meta.Frames = v.FrameCount
		if err := os.WriteFile(filepath.Join(staging, meta.Video), v.Data, 0o644); err != nil {
			return fmt.Errorf("write video: %w", err)
		}
	}
	if err := writeJSON(filepath.Join(staging, MetadataFile), meta); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	final := w.TaskDir(rec.ID())
	if err := os.RemoveAll(final); err != nil {
		return fmt.Errorf("replace %s: %w", final, err)
	}
	if err := os.Rename(staging, final); err != nil {
		return fmt.Errorf("commit task dir: %w", err)
	}
	committed = true
	return nil
}

func (w *TaskWriter) WriteManifest(ctx context.Context, m entity.Manifest) error {
	if err := os.MkdirAll(w.DatasetDir(), 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}
	return writeJSON(filepath.Join(w.DatasetDir(), ManifestFile), m)
}

func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
