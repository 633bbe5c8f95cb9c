package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/run"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "run-1", strings.NewReader("first\nsecond\n")))

	rc, err := s.Open(ctx, "run-1")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "first\nsecond\n", string(data))

	_, err = os.Stat(filepath.Join(dir, "runs", "run-1.log"))
	assert.NoError(t, err)

	require.NoError(t, s.Save(ctx, "run-1", strings.NewReader("replaced\n")))
	rc, err = s.Open(ctx, "run-1")
	require.NoError(t, err)
	data, _ = io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "replaced\n", string(data))

	require.NoError(t, s.Delete(ctx, "run-1"))
	require.NoError(t, s.Delete(ctx, "run-1"))
	_, err = s.Open(ctx, "run-1")
	assert.ErrorIs(t, err, run.ErrTranscriptNotFound)
}

func TestLocalStorage_RejectsPathsOutsideBase(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, id := range []string{"", "../escape", "a/b", `a\b`, ".hidden"} {
		t.Run(id, func(t *testing.T) {
			assert.Error(t, s.Save(context.Background(), id, strings.NewReader("x")))
			_, err := s.Open(context.Background(), id)
			assert.Error(t, err)
		})
	}
}
