// Package artifact implements file-backed storage of cache artifacts.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/cachebridge/internal/adapters/codec"
	"go.trai.ch/cachebridge/internal/core/domain"
	"go.trai.ch/cachebridge/internal/core/ports"
	"go.trai.ch/zerr"
)

// chunkSize bounds how much is read or written between cancellation checks.
const chunkSize = 1 << 20

// Store implements ports.ArtifactStore on the local filesystem.
type Store struct {
	codec  *codec.Codec
	logger ports.Logger
}

// NewStore creates a Store that encodes artifacts with c.
func NewStore(c *codec.Codec, logger ports.Logger) *Store {
	return &Store{codec: c, logger: logger}
}

// LoadResult reads and decodes a label result artifact.
func (s *Store) LoadResult(ctx context.Context, path string) (*domain.LabelResult, error) {
	data, err := readFile(ctx, path)
	if err != nil {
		return nil, err
	}

	result, err := s.codec.DecodeLabelResult(data)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "decode label result"), "path", path)
	}
	s.debug("loaded artifact", "path", path, "bytes", len(data), "label", result.Label.String())
	return result, nil
}

// SaveResult encodes and atomically writes a label result artifact.
func (s *Store) SaveResult(ctx context.Context, path string, result *domain.LabelResult) error {
	data := s.codec.EncodeLabelResult(result)
	if err := writeFileAtomic(ctx, path, data); err != nil {
		return err
	}
	s.debug("wrote artifact", "path", path, "bytes", len(data), "results", len(result.Results))
	return nil
}

// LoadProject reads and decodes a project instance artifact.
func (s *Store) LoadProject(ctx context.Context, path string) (*domain.ProjectInstance, error) {
	data, err := readFile(ctx, path)
	if err != nil {
		return nil, err
	}

	project, err := s.codec.DecodeProject(data)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "decode project"), "path", path)
	}
	return project, nil
}

// SaveProject encodes and atomically writes a project instance artifact.
func (s *Store) SaveProject(ctx context.Context, path string, project *domain.ProjectInstance) error {
	return writeFileAtomic(ctx, path, s.codec.EncodeProject(project))
}

func (s *Store) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

// readFile reads a whole file, checking ctx between chunks.
func readFile(ctx context.Context, path string) ([]byte, error) {
	//nolint:gosec // Artifact paths come from the manifest of the orchestrator
	f, err := os.Open(path)
	if err != nil {
		return nil, readError(path, err)
	}
	defer func() { _ = f.Close() }()

	var size int64
	if info, statErr := f.Stat(); statErr == nil {
		size = info.Size()
	}

	data := make([]byte, 0, size+512)
	for {
		if err := ctx.Err(); err != nil {
			return nil, readError(path, err)
		}
		if len(data) == cap(data) {
			data = append(data, make([]byte, chunkSize)...)[:len(data)]
		}
		n, err := f.Read(data[len(data):min(cap(data), len(data)+chunkSize)])
		data = data[:len(data)+n]
		if errors.Is(err, io.EOF) {
			return data, nil
		}
		if err != nil {
			return nil, readError(path, err)
		}
	}
}

// writeFileAtomic writes data next to path and renames it into place, so readers never see
// a partial artifact. The temporary file is removed on any failure, cancellation included.
func writeFileAtomic(ctx context.Context, path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return writeError(path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return writeError(path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	for rest := data; len(rest) > 0; {
		if err := ctx.Err(); err != nil {
			return writeError(path, err)
		}
		n := min(len(rest), chunkSize)
		if _, err := tmp.Write(rest[:n]); err != nil {
			return writeError(path, err)
		}
		rest = rest[n:]
	}

	if err := tmp.Chmod(domain.FilePerm); err != nil {
		return writeError(path, err)
	}
	if err := tmp.Sync(); err != nil {
		return writeError(path, err)
	}
	if err := tmp.Close(); err != nil {
		return writeError(path, err)
	}
	if err := ctx.Err(); err != nil {
		return writeError(path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return writeError(path, err)
	}
	return nil
}

func readError(path string, cause error) error {
	return zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrArtifactRead, cause), "read artifact"), "path", path)
}

func writeError(path string, cause error) error {
	return zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrArtifactWrite, cause), "write artifact"), "path", path)
}
