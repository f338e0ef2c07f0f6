// Package manifest loads challenge manifests: JSON fixtures bundling an
// instruction markup with the candidate images it applies to.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/challenge-solver/internal/fetch"
	"github.com/jonathan/challenge-solver/internal/imaging"
	"github.com/jonathan/challenge-solver/internal/schemas"
)

// SchemaRelPath is the repository-relative path of the manifest schema.
const SchemaRelPath = "schemas/challenge.schema.json"

// ImageRef points at one candidate image: on disk, inline, or remote.
type ImageRef struct {
	Path    string `json:"path,omitempty"`
	DataURL string `json:"data_url,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Manifest is a captured or hand-built challenge: the instruction markup and
// the candidate images, in on-page order.
type Manifest struct {
	Name          string     `json:"name,omitempty"`
	Instruction   string     `json:"instruction"`
	Images        []ImageRef `json:"images"`
	ExpectedIndex *int       `json:"expected_index,omitempty"`

	// dir is the manifest's directory, for resolving relative image paths.
	dir string
}

// Load reads and validates a challenge manifest from disk. When the manifest
// schema can be located it is enforced; otherwise loading falls back to
// structural checks so the solver still works from a bare checkout.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	if schemaPath := schemas.ResolveSchemaPath(SchemaRelPath); schemaPath != "" {
		if err := schemas.ValidateJSON(schemaPath, path); err != nil {
			return nil, fmt.Errorf("manifest %s: %w", path, err)
		}
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	m.dir = filepath.Dir(path)

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

// Validate enforces the structural rules the schema encodes, for manifests
// built in memory or loaded without a reachable schema file.
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.Instruction) == "" {
		return fmt.Errorf("instruction is required")
	}
	if len(m.Images) == 0 {
		return fmt.Errorf("at least one image is required")
	}
	for i, ref := range m.Images {
		sources := 0
		for _, s := range []string{ref.Path, ref.DataURL, ref.URL} {
			if s != "" {
				sources++
			}
		}
		if sources != 1 {
			return fmt.Errorf("image %d must have exactly one of path, data_url, or url", i)
		}
	}
	if m.ExpectedIndex != nil && (*m.ExpectedIndex < 0 || *m.ExpectedIndex >= len(m.Images)) {
		return fmt.Errorf("expected_index %d out of range for %d images", *m.ExpectedIndex, len(m.Images))
	}
	return nil
}

// DecodeImages decodes every candidate image, resolving file paths relative
// to the manifest's directory and downloading remote references.
func (m *Manifest) DecodeImages(ctx context.Context) ([]image.Image, error) {
	images := make([]image.Image, 0, len(m.Images))
	for i, ref := range m.Images {
		var (
			img image.Image
			err error
		)
		switch {
		case ref.DataURL != "":
			img, err = imaging.DecodeDataURL(ref.DataURL)
		case ref.URL != "":
			var data []byte
			data, _, err = fetch.Image(ctx, ref.URL, nil)
			if err == nil {
				img, err = imaging.DecodeBytes(data)
			}
		default:
			img, err = imaging.DecodeFile(filepath.Join(m.dir, ref.Path))
		}
		if err != nil {
			return nil, fmt.Errorf("decoding image %d: %w", i, err)
		}
		images = append(images, img)
	}
	return images, nil
}
