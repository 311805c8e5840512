package input

import (
	"context"

	"dotgen/internal/domain/entity"
)

type DatasetGenerator interface {
	Run(ctx context.Context, count int) (*entity.DatasetStats, error)
}
