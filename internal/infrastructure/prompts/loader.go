package prompts

import (
	"embed"
)

//go:embed templates/*.txt
var templateFS embed.FS
