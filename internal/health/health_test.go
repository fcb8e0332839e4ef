package health

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type probeFunc func(ctx context.Context, count int) ([]string, error)

func (f probeFunc) RandomQuestions(ctx context.Context, count int) ([]string, error) {
	return f(ctx, count)
}

func TestCollectWithoutProbe(t *testing.T) {
	s := Collect(context.Background(), Options{})
	if s.Status != "healthy" {
		t.Fatalf("Status = %q, want healthy", s.Status)
	}
	if s.Backend != nil {
		t.Fatalf("Backend = %+v, want nil", s.Backend)
	}
	if s.Runtime.Version == "" || s.Goroutines == 0 {
		t.Fatalf("runtime info missing: %+v", s)
	}
}

func TestCollectReachableBackend(t *testing.T) {
	var asked int
	p := probeFunc(func(_ context.Context, count int) ([]string, error) {
		asked = count
		return []string{"What is S3?"}, nil
	})

	s := Collect(context.Background(), Options{BaseURL: "http://x", Probe: p})
	if asked != 1 {
		t.Fatalf("probe asked for %d questions, want 1", asked)
	}
	if s.Status != "healthy" || s.Backend == nil || !s.Backend.Reachable {
		t.Fatalf("snapshot = %+v", s)
	}
	if s.Backend.BaseURL != "http://x" || s.Backend.Questions != 1 {
		t.Fatalf("Backend = %+v", s.Backend)
	}
}

func TestCollectUnreachableBackend(t *testing.T) {
	p := probeFunc(func(context.Context, int) ([]string, error) {
		return nil, errors.New("connection refused")
	})

	s := Collect(context.Background(), Options{Probe: p})
	if s.Status != "degraded" {
		t.Fatalf("Status = %q, want degraded", s.Status)
	}
	if s.Backend.Reachable || s.Backend.Error != "connection refused" {
		t.Fatalf("Backend = %+v", s.Backend)
	}
}

func TestCollectProbeTimeout(t *testing.T) {
	p := probeFunc(func(ctx context.Context, _ int) ([]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	s := Collect(context.Background(), Options{Probe: p, ProbeTimeout: 20 * time.Millisecond})
	if s.Backend.Reachable {
		t.Fatal("probe that never answers reported reachable")
	}
}

func TestCollectConfigExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if s := Collect(context.Background(), Options{ConfigPath: path}); s.Config.Exists {
		t.Fatal("Exists = true before the file is written")
	}
	if err := os.WriteFile(path, []byte("server: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if s := Collect(context.Background(), Options{ConfigPath: path}); !s.Config.Exists {
		t.Fatal("Exists = false after the file is written")
	}
}
