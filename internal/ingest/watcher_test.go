package ingest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartWatcher(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "old.pdf")
	writeFile(t, existing, "%PDF-1 old")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		Debounce:    50 * time.Millisecond,
	}, nil)
	require.NoError(t, err)

	select {
	case b := <-batches:
		assert.Equal(t, []string{existing}, b)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial batch")
	}

	fresh := filepath.Join(root, "new.pdf")
	writeFile(t, fresh, "%PDF-1 new")
	writeFile(t, filepath.Join(root, "ignored.txt"), "x")

	select {
	case b := <-batches:
		assert.Equal(t, []string{fresh}, b)
	case <-time.After(5 * time.Second):
		t.Fatal("no batch for new file")
	}

	cancel()
	for range batches {
	}
}

func TestStartWatcherRequiresRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, nil)
	assert.Error(t, err)
}
