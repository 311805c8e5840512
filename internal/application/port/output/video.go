package output

import (
	"context"
	"image"

	"dotgen/internal/domain/entity"
)

type VideoEncoderPort interface {
	Encode(ctx context.Context, frames []image.Image, fps int) (*entity.Video, error)
	Ext() string
}
