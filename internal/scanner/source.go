package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirectorySource is a file-based CaptureSource: each call consumes the
// lexicographically first regular file in dir and returns its contents
// as the frame. An empty directory means no frame is available. The
// directory is created on first use.
type DirectorySource struct {
	dir string
}

func NewDirectorySource(dir string) (*DirectorySource, error) {
	if dir == "" {
		return nil, fmt.Errorf("frames directory is not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create frames directory: %w", err)
	}
	return &DirectorySource{dir: dir}, nil
}

func (s *DirectorySource) CaptureFrame(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read frames directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		frame, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read frame %s: %w", entry.Name(), err)
		}
		// The frame is consumed either way; a file that fails to be
		// removed would be re-submitted forever.
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("consume frame %s: %w", entry.Name(), err)
		}
		if len(frame) == 0 {
			continue
		}
		return frame, nil
	}
	return nil, nil
}
