package prompts

import (
	"bytes"
	"fmt"
	"image/color"
	"io/fs"
	"math/rand"
	"path"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"dotgen/internal/application/port/output"
	"dotgen/internal/domain/entity"
)

var _ output.PromptPort = (*Catalog)(nil)

// Catalog holds the prompt variants for every connection type. Template
// files are named <connection type>_<variant>.txt.
type Catalog struct {
	variants map[entity.ConnectionType][]*template.Template
}

func NewCatalog() (*Catalog, error) {
	return LoadCatalog(templateFS, "templates")
}

func LoadCatalog(fsys fs.FS, dir string) (*Catalog, error) {
	names, err := fs.Glob(fsys, path.Join(dir, "*.txt"))
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	c := &Catalog{variants: make(map[entity.ConnectionType][]*template.Template)}
	for _, name := range names {
		base := strings.TrimSuffix(path.Base(name), ".txt")
		prefix, _, _ := strings.Cut(base, "_")
		ct, err := entity.ParseConnectionType(prefix)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}

		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		tmpl, err := template.New(base).Option("missingkey=error").Parse(strings.TrimSpace(string(raw)))
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		c.variants[ct] = append(c.variants[ct], tmpl)
	}

	for _, ct := range entity.ConnectionTypes {
		if len(c.variants[ct]) == 0 {
			return nil, fmt.Errorf("no prompt templates for connection type %q", ct)
		}
	}
	return c, nil
}

func (c *Catalog) Variants(ct entity.ConnectionType) int {
	return len(c.variants[ct])
}

// TemplateData is what prompt templates see.
type TemplateData struct {
	NumDots   int
	Type      entity.ConnectionType
	DotColor  string
	LineColor string
	// Numbered is set when the labels read 1..NumDots along the path, so
	// "follow the numbers" is the whole instruction.
	Numbered bool
	// Sequence lists the labels in visiting order, e.g. "2, 5, 1, 4, 3".
	Sequence    string
	First, Last int
}

func newTemplateData(data entity.PromptData) TemplateData {
	td := TemplateData{
		NumDots:   data.NumDots,
		Type:      data.Type,
		DotColor:  ColorName(data.DotColor),
		LineColor: ColorName(data.LineColor),
		Numbered:  true,
	}
	labels := data.Labels
	if len(labels) == 0 {
		labels = make([]int, data.NumDots)
		for i := range labels {
			labels[i] = i + 1
		}
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		if l != i+1 {
			td.Numbered = false
		}
		parts[i] = strconv.Itoa(l)
	}
	td.Sequence = strings.Join(parts, ", ")
	if len(labels) > 0 {
		td.First, td.Last = labels[0], labels[len(labels)-1]
	}
	return td
}

// Select renders one variant for data.Type chosen uniformly with rng.
func (c *Catalog) Select(rng *rand.Rand, data entity.PromptData) (string, error) {
	variants := c.variants[data.Type]
	if len(variants) == 0 {
		return "", entity.InvalidConfigf("no prompt templates for connection type %q", data.Type)
	}
	return Execute(variants[rng.Intn(len(variants))], newTemplateData(data))
}

func Execute(tmpl *template.Template, data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// ColorName describes c in words when it is close to a basic colour.
func ColorName(c color.RGBA) string {
	r, g, b := int(c.R), int(c.G), int(c.B)
	switch {
	case r < 100 && g < 100 && b > 150:
		return "blue"
	case r > 150 && g < 100 && b < 100:
		return "red"
	case r > 200 && g > 200 && b > 200:
		return "white"
	case r < 50 && g < 50 && b < 50:
		return "black"
	}
	return fmt.Sprintf("RGB(%d, %d, %d)", r, g, b)
}
