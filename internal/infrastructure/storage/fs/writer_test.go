package fs

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotgen/internal/domain/entity"
)

func testRecord(withVideo bool) *entity.TaskRecord {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	img.Set(3, 3, color.RGBA{R: 200, A: 255})
	params := entity.TaskRecordParams{
		ID:     "dot_to_dot_0000",
		Domain: "dot_to_dot",
		Seed:   42,
		Plan: entity.Plan{
			Canvas: entity.Canvas{Width: 16, Height: 16},
			Points: []entity.Point{{Index: 1, X: 2, Y: 2}, {Index: 2, X: 10, Y: 10}},
			Order:  entity.ConnectionOrder{1, 2},
			Type:   entity.ConnectionSequential,
		},
		Prompt:  "Connect the dots in numerical order.",
		Initial: img,
		Final:   img,
	}
	if withVideo {
		params.Video = &entity.Video{Ext: "gif", Data: []byte("GIF89a"), FrameCount: 7}
	}
	return entity.NewTaskRecord(params)
}

func TestTaskWriter_Write(t *testing.T) {
	root := t.TempDir()
	w := NewTaskWriter(root, "dot_to_dot")

	require.NoError(t, w.Write(context.Background(), testRecord(true)))

	dir := filepath.Join(root, "dot_to_dot_task", "dot_to_dot_0000")
	for _, name := range []string{FirstFrameFile, FinalFrameFile, PromptFile, MetadataFile, "ground_truth.gif"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	prompt, err := os.ReadFile(filepath.Join(dir, PromptFile))
	require.NoError(t, err)
	assert.Equal(t, "Connect the dots in numerical order.", string(prompt))

	first, err := imaging.Open(filepath.Join(dir, FirstFrameFile))
	require.NoError(t, err)
	assert.Equal(t, 16, first.Bounds().Dx())

	raw, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	require.NoError(t, err)
	var meta taskMetadata
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, int64(42), meta.Seed)
	assert.Equal(t, entity.ConnectionOrder{1, 2}, meta.Plan.Order)
	assert.Equal(t, "ground_truth.gif", meta.Video)
	assert.Equal(t, 7, meta.Frames)
}

func TestTaskWriter_NoVideo(t *testing.T) {
	root := t.TempDir()
	w := NewTaskWriter(root, "dot_to_dot")

	require.NoError(t, w.Write(context.Background(), testRecord(false)))

	entries, err := os.ReadDir(w.TaskDir("dot_to_dot_0000"))
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestTaskWriter_OverwritesExistingTask(t *testing.T) {
	root := t.TempDir()
	w := NewTaskWriter(root, "dot_to_dot")

	require.NoError(t, w.Write(context.Background(), testRecord(true)))
	require.NoError(t, w.Write(context.Background(), testRecord(false)))

	assert.NoFileExists(t, filepath.Join(w.TaskDir("dot_to_dot_0000"), "ground_truth.gif"))
}

func TestTaskWriter_FailureLeavesNothing(t *testing.T) {
	root := t.TempDir()
	w := NewTaskWriter(root, "dot_to_dot")

	rec := entity.NewTaskRecord(entity.TaskRecordParams{
		ID:      "dot_to_dot_0001",
		Initial: image.NewRGBA(image.Rect(0, 0, 0, 0)),
		Final:   image.NewRGBA(image.Rect(0, 0, 0, 0)),
	})
	require.Error(t, w.Write(context.Background(), rec))

	entries, err := os.ReadDir(w.DatasetDir())
	require.NoError(t, err)
	assert.Empty(t, entries, "staging dir must be removed")
}

func TestTaskWriter_CancelledContext(t *testing.T) {
	w := NewTaskWriter(t.TempDir(), "dot_to_dot")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, w.Write(ctx, testRecord(false)), context.Canceled)
}

func TestTaskWriter_WriteManifest(t *testing.T) {
	root := t.TempDir()
	w := NewTaskWriter(root, "dot_to_dot")

	m := entity.Manifest{RunID: "run-1", Domain: "dot_to_dot", Seed: 5, TaskIDs: []string{"a", "b"}}
	require.NoError(t, w.WriteManifest(context.Background(), m))

	raw, err := os.ReadFile(filepath.Join(w.DatasetDir(), ManifestFile))
	require.NoError(t, err)
	var got entity.Manifest
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, m.TaskIDs, got.TaskIDs)
	assert.Equal(t, "run-1", got.RunID)
}
