package watcher_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rafaelsouza280292/consulta-cnpj/internal/pubsub"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/watcher"
)

func startWatcher(t *testing.T, configPath string) <-chan pubsub.Event[watcher.ChangeEvent] {
	t.Helper()

	w, err := watcher.New(watcher.Config{
		ConfigPath:  configPath,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	events := w.Broker().Subscribe(ctx)

	require.NoError(t, w.Start(), "failed to start watcher")
	return events
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("auto_reload: true"), 0644))

	events := startWatcher(t, configPath)

	// Rapid writes should coalesce into a single notification
	for i := 0; i < 10; i++ {
		err := os.WriteFile(configPath, []byte(fmt.Sprintf("auto_reload: true # %d", i)), 0644)
		require.NoError(t, err, "failed to write file")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case event := <-events:
		require.Equal(t, configPath, event.Payload.Path)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-events:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
		// Expected - writes coalesced
	}
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	otherPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(configPath, []byte("a: 1"), 0644))
	// Pre-create so later writes are Write events, not Create
	require.NoError(t, os.WriteFile(otherPath, []byte("initial"), 0644))

	events := startWatcher(t, configPath)

	require.NoError(t, os.WriteFile(otherPath, []byte("changed"), 0644))

	select {
	case <-events:
		t.Fatal("unrelated file must not trigger a reload")
	case <-time.After(200 * time.Millisecond):
		// Expected
	}
}

func TestWatcher_AtomicReplaceTriggersReload(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("a: 1"), 0644))

	events := startWatcher(t, configPath)

	// Simulate the write-temp-then-rename dance SaveUI performs.
	tempPath := filepath.Join(dir, ".tmp.yaml")
	require.NoError(t, os.WriteFile(tempPath, []byte("a: 2"), 0644))
	require.NoError(t, os.Rename(tempPath, configPath))

	select {
	case event := <-events:
		require.Equal(t, pubsub.UpdatedEvent, event.Type)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("rename onto config file must trigger a reload")
	}
}
