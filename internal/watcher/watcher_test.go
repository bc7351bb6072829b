package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWatcherNotifiesOnManifestWrite(t *testing.T) {
	dir := t.TempDir()
	changes := make(chan string, 8)

	w := New(dir, func(path string) { changes <- path }, zap.NewNop())
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	manifest := filepath.Join(dir, "shadcn.json")
	if err := os.WriteFile(manifest, []byte(`{"namespace":"shadcn"}`), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	select {
	case got := <-changes:
		if got != manifest {
			t.Fatalf("onChange path = %q, want %q", got, manifest)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for manifest change notification")
	}
}

func TestWatcherIgnoresNonJSONFiles(t *testing.T) {
	dir := t.TempDir()
	changes := make(chan string, 8)

	w := New(dir, func(path string) { changes <- path }, zap.NewNop())
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	manifest := filepath.Join(dir, "magicui.json")
	if err := os.WriteFile(manifest, []byte(`{"namespace":"magicui"}`), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	select {
	case got := <-changes:
		if got != manifest {
			t.Fatalf("onChange path = %q, want %q", got, manifest)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for manifest change notification")
	}

	select {
	case got := <-changes:
		t.Fatalf("unexpected extra notification for %q", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherDebouncesRepeatedWrites(t *testing.T) {
	dir := t.TempDir()
	changes := make(chan string, 8)

	w := New(dir, func(path string) { changes <- path }, zap.NewNop())
	w.debounce = 150 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	manifest := filepath.Join(dir, "shadcn.json")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(manifest, []byte(`{"namespace":"shadcn"}`), 0o644); err != nil {
			t.Fatalf("write manifest: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for debounced notification")
	}

	select {
	case got := <-changes:
		t.Fatalf("expected writes to collapse into one notification, got extra for %q", got)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	w := New(t.TempDir(), func(string) {}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	w.Stop()
	w.Stop()
}

func TestWatcherStartTwiceIsNoOp(t *testing.T) {
	w := New(t.TempDir(), func(string) {}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
}
