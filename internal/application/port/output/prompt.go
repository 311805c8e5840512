package output

import (
	"math/rand"

	"dotgen/internal/domain/entity"
)

type PromptPort interface {
	Select(rng *rand.Rand, data entity.PromptData) (string, error)
}
