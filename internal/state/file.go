package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DefaultStatePath is where the file backend writes when the config names no
// other location.
const DefaultStatePath = "pinecone-byoc.state.json"

// FileBackend keeps the state document in a local file. The file is written
// owner-only since it contains minted credentials.
type FileBackend struct {
	Path string
}

func NewFileBackend(path string) *FileBackend {
	if path == "" {
		path = DefaultStatePath
	}
	return &FileBackend{Path: path}
}

func (b *FileBackend) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file %s: %w", b.Path, err)
	}
	return data, nil
}

func (b *FileBackend) Save(_ context.Context, data []byte) error {
	if err := os.WriteFile(b.Path, data, 0o600); err != nil {
		return fmt.Errorf("write state file %s: %w", b.Path, err)
	}
	return nil
}
