package codec

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

// EditedSuffix is appended to the base name of every saved snapshot.
const EditedSuffix = "_edited.json"

// FileStore keeps snapshots as files in one directory.
type FileStore struct {
	Dir   string
	Codec *SnapshotCodec
}

var _ types.SnapshotStore = (*FileStore)(nil)

// NewFileStore returns a store writing gzip documents into dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir, Codec: NewSnapshotCodec(CompressGzip)}
}

// EditedName turns a recording name or path into the snapshot file name:
// directory and extension are dropped and EditedSuffix is appended.
func EditedName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "snapshot"
	}
	return base + EditedSuffix
}

// Save writes snap next to the other snapshots and returns the file path. The
// document is written to a temporary file first and renamed into place.
func (f *FileStore) Save(ctx context.Context, name string, snap *types.Snapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := f.codec().Marshal(snap)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return "", fmt.Errorf("codec: create %s: %w", f.Dir, err)
	}
	path := filepath.Join(f.Dir, EditedName(name))

	tmp, err := os.CreateTemp(f.Dir, ".snapshot-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads a snapshot from a file path.
func (f *FileStore) Load(ctx context.Context, location string) (*types.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, err
	}
	return f.codec().Unmarshal(data)
}

func (f *FileStore) codec() *SnapshotCodec {
	if f.Codec == nil {
		return NewSnapshotCodec(CompressGzip)
	}
	return f.Codec
}
