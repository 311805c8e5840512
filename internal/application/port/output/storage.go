package output

import (
	"context"

	"dotgen/internal/domain/entity"
)

type TaskWriterPort interface {
	Write(ctx context.Context, record *entity.TaskRecord) error
	WriteManifest(ctx context.Context, manifest entity.Manifest) error
}
