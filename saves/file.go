package saves

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gkerr "github.com/KirkDiggler/gameobject-toolkit/internal/errors"
)

const fileExt = ".json"

// FileStore keeps one <key>.json file per save key under a root
// directory. Writes go through a temp file and rename, so a crash
// mid-write never corrupts an existing save.
type FileStore struct {
	root string
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, gkerr.New(gkerr.CodeInvalidArgument, "directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, gkerr.Wrapf(err, "creating save directory %q", dir)
	}
	return &FileStore{root: dir}, nil
}

// Save writes value as JSON to the key's file.
func (s *FileStore) Save(ctx context.Context, key string, value any) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return gkerr.Wrapf(err, "marshaling save %q", key)
	}

	tmp, err := os.CreateTemp(s.root, key+".tmp-*")
	if err != nil {
		return gkerr.Wrapf(err, "creating temp file for %q", key)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return gkerr.Wrapf(err, "writing save %q", key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return gkerr.Wrapf(err, "closing save %q", key)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return gkerr.Wrapf(err, "committing save %q", key)
	}
	return nil
}

// Load reads the key's file into out.
func (s *FileStore) Load(ctx context.Context, key string, out any) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return gkerr.Newf(gkerr.CodeNotFound, "save not found: %s", key)
		}
		return gkerr.Wrapf(err, "reading save %q", key)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return gkerr.Wrapf(err, "unmarshaling save %q", key)
	}
	return nil
}

// Delete removes the key's file.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return gkerr.Newf(gkerr.CodeNotFound, "save not found: %s", key)
		}
		return gkerr.Wrapf(err, "deleting save %q", key)
	}
	return nil
}

// List returns every saved key in the root directory.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, gkerr.Wrapf(err, "listing saves in %q", s.root)
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, fileExt))
	}
	return keys, nil
}

// path validates key and resolves its file path. Keys must not escape the
// root directory.
func (s *FileStore) path(key string) (string, error) {
	if key == "" {
		return "", gkerr.New(gkerr.CodeInvalidArgument, "key is required")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", gkerr.Newf(gkerr.CodeInvalidArgument, "invalid save key: %s", key)
	}
	return filepath.Join(s.root, fmt.Sprintf("%s%s", key, fileExt)), nil
}
