package configwatcher

import (
	"context"
	"deep_card_backend/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchConfig_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game:\n  decorate_fallback: false\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 1)
	require.NoError(t, WatchConfig(ctx, dir, func(cfg *config.Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	}))

	require.NoError(t, os.WriteFile(path, []byte("game:\n  decorate_fallback: true\n"), 0o644))

	select {
	case cfg := <-reloaded:
		require.True(t, cfg.Game.DecorateFallback)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestWatchConfig_MissingDir(t *testing.T) {
	err := WatchConfig(context.Background(), filepath.Join(t.TempDir(), "nope"), func(*config.Config) {})
	require.Error(t, err)
}
