// Package manifest reads the cache manifest of an invocation.
package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
	"go.trai.ch/cachebridge/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ManifestLoader. Manifests are JSON with comments and trailing
// commas allowed; files ending in .yaml or .yml are read as YAML.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and validates the manifest at path. A missing file is not an error.
func (l *Loader) Load(ctx context.Context, path string) (*domain.CacheManifest, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, zerr.With(zerr.Wrap(errors.Join(domain.ErrManifestRead, err), "load manifest"), "path", path)
	}

	//nolint:gosec // The manifest path is an invocation parameter
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, zerr.With(zerr.Wrap(errors.Join(domain.ErrManifestRead, err), "load manifest"), "path", path)
	}

	var m domain.CacheManifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeYAML(data, &m)
	default:
		err = decodeJSON(data, &m)
	}
	if err != nil {
		return nil, false, zerr.With(zerr.Wrap(errors.Join(domain.ErrManifestInvalid, err), "parse manifest"), "path", path)
	}

	if err := validate(&m); err != nil {
		return nil, false, zerr.With(err, "path", path)
	}
	return &m, true, nil
}

// decodeJSON parses the manifest leniently: comments and trailing commas are accepted and
// field names match case-insensitively.
func decodeJSON(data []byte, m *domain.CacheManifest) error {
	std, err := hujson.Standardize(data)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(std)) == 0 {
		return nil
	}
	return json.Unmarshal(std, m)
}

func decodeYAML(data []byte, m *domain.CacheManifest) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func validate(m *domain.CacheManifest) error {
	if len(m.DependencyArtifacts) > 0 && len(m.Results) > 0 {
		return zerr.Wrap(domain.ErrManifestInvalid, "both dependencyArtifacts and results are set")
	}
	for i, p := range m.Artifacts() {
		if strings.TrimSpace(p) == "" {
			return zerr.With(zerr.Wrap(domain.ErrManifestInvalid, "empty dependency artifact path"), "index", i)
		}
	}
	for key, p := range m.Projects {
		if strings.TrimSpace(p) == "" {
			return zerr.With(zerr.Wrap(domain.ErrManifestInvalid, "empty project artifact path"), "project", key)
		}
	}
	return nil
}
