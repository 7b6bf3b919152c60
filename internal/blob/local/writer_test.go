package localblob

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/marketdash/internal/domain"
)

func TestWriter_Deliver(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	w := NewWriter(dir)

	loc, err := w.Deliver(context.Background(), domain.ExportArtifact{
		Filename: "polymarket_markets_20240102T030405.json",
		Data:     []byte(`[{"id":"m1"}]`),
	})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(loc))
	assert.Equal(t, "polymarket_markets_20240102T030405.json", filepath.Base(loc))

	got, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"m1"}]`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestWriter_DeliverOverwrites(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	art := domain.ExportArtifact{Filename: "a.csv", Data: []byte("old")}

	_, err := w.Deliver(context.Background(), art)
	require.NoError(t, err)
	art.Data = []byte("new")
	loc, err := w.Deliver(context.Background(), art)
	require.NoError(t, err)

	got, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestWriter_RejectsPathFilenames(t *testing.T) {
	w := NewWriter(t.TempDir())
	for _, name := range []string{"", "../escape.csv", "sub/dir.csv"} {
		_, err := w.Deliver(context.Background(), domain.ExportArtifact{Filename: name})
		assert.Error(t, err, "filename %q", name)
	}
}

func TestWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewWriter(t.TempDir()).Deliver(ctx, domain.ExportArtifact{Filename: "a.csv"})
	assert.ErrorIs(t, err, context.Canceled)
}
