package catalog

import (
	"context"
	"encoding/json"
	"os"
)

// Template is a raw registry record before normalization. Field names
// follow the generated registry snapshot; Key/Name are accepted as
// aliases of TemplateKey/Title for hand-written registries.
type Template struct {
	TemplateKey string         `json:"templateKey"`
	Key         string         `json:"key"`
	PackName    string         `json:"packName"`
	Title       string         `json:"title"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Version     json.Number    `json:"version"`
	Visibility  *string        `json:"visibility"`
	Scope       map[string]any `json:"scope"`
	Definition  any            `json:"definition"`
}

// Registry loads raw dashboard templates from an external snapshot.
// An unavailable snapshot yields an empty list, not an error.
type Registry interface {
	Load(ctx context.Context) ([]Template, error)
}

// FileRegistry reads templates from a generated JSON snapshot of the
// form {"templates": [...]}. A missing or unparsable file is treated
// as an empty registry.
type FileRegistry struct {
	path string
}

// NewFileRegistry returns a registry backed by the snapshot at path.
func NewFileRegistry(path string) *FileRegistry {
	return &FileRegistry{path: path}
}

func (r *FileRegistry) Load(_ context.Context) ([]Template, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, nil
	}
	var snapshot struct {
		Templates []Template `json:"templates"`
	}
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, nil
	}
	return snapshot.Templates, nil
}

// StaticRegistry serves a fixed in-memory template list. Used in tests
// and by embedders that generate templates at build time.
type StaticRegistry struct {
	templates []Template
}

func NewStaticRegistry(templates ...Template) *StaticRegistry {
	return &StaticRegistry{templates: templates}
}

func (r *StaticRegistry) Load(_ context.Context) ([]Template, error) {
	return r.templates, nil
}
