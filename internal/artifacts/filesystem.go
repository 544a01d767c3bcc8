package artifacts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrInvalidName = errors.New("artifacts: invalid artifact name")

// FileStore keeps artifacts as flat {uuid}.{ext} files in one directory.
type FileStore struct {
	dir     string
	baseURL string
}

func NewFileStore(dir, baseURL string) (*FileStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("artifacts: directory is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("artifacts: public base URL is required")
	}
	return &FileStore{dir: dir, baseURL: baseURL}, nil
}

func (s *FileStore) Dir() string {
	return s.dir
}

// Save writes data under a new id. The directory is (re)created on every call,
// which is safe under concurrent saves. There is no temp-file rename: a crash
// mid-write can leave a truncated file behind.
func (s *FileStore) Save(ctx context.Context, data []byte, mimeType string) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifacts: ensure directory: %w", err)
	}

	id, filename := NewFilename(mimeType)
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return nil, fmt.Errorf("artifacts: write file: %w", err)
	}

	return &Artifact{
		ID:        id,
		Filename:  filename,
		MimeType:  mimeType,
		PublicURL: JoinURL(s.baseURL, filename),
		Size:      int64(len(data)),
	}, nil
}

// Path resolves an artifact filename to its location on disk. Only names of
// the form {uuid}.{png|jpg} are accepted.
func (s *FileStore) Path(name string) (string, error) {
	if !ValidName(name) {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}

// Prune removes artifacts whose modification time is older than maxAge and
// returns how many were deleted. A missing directory is not an error.
func (s *FileStore) Prune(ctx context.Context, maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("artifacts: read directory: %w", err)
	}

	cutoff := now.Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if entry.IsDir() {
			continue
		}
		if _, err := s.Path(entry.Name()); err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
				return removed, fmt.Errorf("artifacts: remove %s: %w", entry.Name(), err)
			}
			removed++
		}
	}
	return removed, nil
}
