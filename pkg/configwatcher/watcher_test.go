package configwatcher

import (
	"context"
	"course_admin_gateway/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchConfigReloads(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	write := func(url string) {
		if err := os.WriteFile(file, []byte("backend:\n  base_url: "+url+"\n"), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	write("http://first")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, file, func(cfg *config.Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	time.Sleep(200 * time.Millisecond)
	write("http://second")

	select {
	case cfg := <-reloaded:
		if cfg.Backend.BaseURL != "http://second" {
			t.Fatalf("expected reloaded base url, got %q", cfg.Backend.BaseURL)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watcher returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
