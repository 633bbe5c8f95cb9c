package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/run"
)

const transcriptDir = "runs"

// LocalStorage keeps run transcripts as plain text files under basePath.
type LocalStorage struct {
	basePath string
}

var _ run.TranscriptStore = (*LocalStorage)(nil)

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	basePath = filepath.Clean(basePath)
	if err := os.MkdirAll(filepath.Join(basePath, transcriptDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// Save writes the transcript of runID, replacing any earlier one. The file
// only appears once it is complete.
func (s *LocalStorage) Save(ctx context.Context, runID string, transcript io.Reader) error {
	fullPath, err := s.path(runID)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), "."+runID+"-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, transcript); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return fmt.Errorf("failed to store transcript: %w", err)
	}
	return nil
}

func (s *LocalStorage) Open(ctx context.Context, runID string) (io.ReadCloser, error) {
	fullPath, err := s.path(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, run.ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (s *LocalStorage) Delete(ctx context.Context, runID string) error {
	fullPath, err := s.path(runID)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) path(runID string) (string, error) {
	if runID == "" || strings.ContainsAny(runID, `/\`) || strings.HasPrefix(runID, ".") {
		return "", fmt.Errorf("invalid run id: %q", runID)
	}

	fullPath := filepath.Join(s.basePath, transcriptDir, runID+".log")

	// Security check
	if !strings.HasPrefix(fullPath, s.basePath+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid run id: %q", runID)
	}
	return fullPath, nil
}
