package input

import (
	"context"

	"dotgen/internal/domain/entity"
)

type TaskGenerator interface {
	Generate(ctx context.Context, req entity.TaskRequest) (*entity.TaskRecord, error)
}
