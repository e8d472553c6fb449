package gateway

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// FileArtifactStore keeps model artifacts on the local filesystem.
type FileArtifactStore struct{}

// NewFileArtifactStore creates a new store.
func NewFileArtifactStore() *FileArtifactStore {
	return &FileArtifactStore{}
}

// WriteArtifact publishes data at path atomically: it is written to a
// temporary file in the same directory, synced, and renamed into place, so
// a reader sees either the previous artifact or the complete new one.
func (s *FileArtifactStore) WriteArtifact(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create artifact directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary artifact")
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return errors.Wrapf(err, "failed to write %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		return errors.Wrapf(err, "failed to sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "failed to publish artifact %s", path)
	}
	committed = true
	return nil
}

// ReadArtifact returns the artifact stored at path.
func (s *FileArtifactStore) ReadArtifact(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read artifact %s", path)
	}
	return data, nil
}
