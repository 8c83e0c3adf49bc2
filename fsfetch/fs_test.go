package fsfetch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/preload"
)

func TestPath(t *testing.T) {
	t.Parallel()
	tests := []struct {
		location string
		want     string
		valid    bool
	}{
		{"file://init.sql", "init.sql", true},
		{"file:///sql/init.sql", "sql/init.sql", true},
		{"embed://sql/init.sql", "sql/init.sql", true},
		{"file://../etc/passwd", "", false},
		{"file://sql/../../x", "", false},
		{"file://sql//x", "", false},
		{"file://", "", false},
		{"init.sql", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			t.Parallel()
			got, err := Path(tt.location)
			if !tt.valid {
				require.ErrorIs(t, err, preload.ErrConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRetriever_Retrieve_MapFS(t *testing.T) {
	t.Parallel()
	fsys := fstest.MapFS{"sql/init.sql": {Data: []byte("CREATE SCHEMA {{ schema }};")}}
	text, err := New(fsys).Retrieve(context.Background(), "embed://sql/init.sql", nil)
	require.NoError(t, err)
	assert.Equal(t, "CREATE SCHEMA {{ schema }};", text)
}

func TestRetriever_Retrieve_DirFS(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.sql"), []byte("SELECT 1;"), 0600))
	text, err := New(os.DirFS(dir)).Retrieve(context.Background(), "file:///a.sql", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;", text)
}

func TestRetriever_Retrieve_NotFound(t *testing.T) {
	t.Parallel()
	_, err := New(fstest.MapFS{}).Retrieve(context.Background(), "file://missing.sql", nil)
	require.ErrorIs(t, err, preload.ErrFetch)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRetriever_Retrieve_ContextCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(fstest.MapFS{}).Retrieve(ctx, "file://a.sql", nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNew_NilPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { New(nil) })
}
