// Package upload implements the bounded streaming upload endpoint: the
// request body is staged on local disk in fixed-size chunks under a size
// ceiling, then handed to object storage under the caller's namespace.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/audiodrop/service/internal/storage"
)

// chunkSize is the fixed read size used while streaming a body to disk.
const chunkSize = 1 << 20 // 1 MiB

// ErrFileTooLarge is returned when the streamed body exceeds the size ceiling.
var ErrFileTooLarge = errors.New("file too large")

// Result describes a completed upload.
type Result struct {
	Filename  string
	SizeBytes int64
	Location  string
	UserID    string
}

// Service contains the staging and delegation logic for uploads.
// Each call owns its own staging directory; nothing is shared across calls.
type Service struct {
	store       storage.Storage
	maxBytes    int64
	stagingRoot string // "" → the OS temp dir
}

// NewService creates an upload Service with the given size ceiling in bytes.
func NewService(store storage.Storage, maxBytes int64) *Service {
	return &Service{store: store, maxBytes: maxBytes}
}

// MaxBytes returns the configured upload size ceiling.
func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// Save streams src into a scoped staging file, enforcing the size ceiling
// while streaming, then stores the staged file under the caller's namespace.
// The staging directory is removed on every return path; removal is
// best-effort and never masks the primary outcome.
func (s *Service) Save(ctx context.Context, userID, filename string, src io.Reader) (*Result, error) {
	dir := filepath.Join(s.stagingDir(), "upload-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	filename = filepath.Base(filename)
	stagingPath := filepath.Join(dir, filename)

	size, err := s.stage(stagingPath, src)
	if err != nil {
		return nil, err
	}

	location, err := s.store.Store(ctx, stagingPath, userID, filename)
	if err != nil {
		return nil, fmt.Errorf("store staged file: %w", err)
	}

	return &Result{
		Filename:  filename,
		SizeBytes: size,
		Location:  location,
		UserID:    userID,
	}, nil
}

// stage copies src to path in fixed-size chunks, checking the running total
// against the ceiling before each write. The check happens while streaming,
// so at most one chunk is read past the ceiling and the staged file never
// exceeds it on disk.
func (s *Service) stage(path string, src io.Reader) (int64, error) {
	dst, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create staging file: %w", err)
	}
	defer dst.Close()

	buf := make([]byte, chunkSize)
	var total int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			total += int64(n)
			if total > s.maxBytes {
				return total, ErrFileTooLarge
			}
			if _, err := dst.Write(buf[:n]); err != nil {
				return total, fmt.Errorf("write staging file: %w", err)
			}
		}
		if readErr == io.EOF {
			return total, nil
		}
		if readErr != nil {
			return total, fmt.Errorf("read upload stream: %w", readErr)
		}
	}
}

func (s *Service) stagingDir() string {
	if s.stagingRoot != "" {
		return s.stagingRoot
	}
	return os.TempDir()
}
