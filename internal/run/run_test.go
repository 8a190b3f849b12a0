package run_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/eda-cli/internal/run"
)

func TestSaveAndLoadManifest(t *testing.T) {
	base := t.TempDir()
	r := run.New("movies", "data/movies.csv", base, "")
	if r.ID == "" {
		t.Fatalf("expected run id")
	}
	if got, want := r.Dir(), filepath.Join(base, r.ID); got != want {
		t.Fatalf("dir = %q, want %q", got, want)
	}
	r.Sections = []string{"overview", "trends"}
	r.AddFigure(run.Figure{Section: "trends", Column: "gross", Kind: "line", Title: "Mean gross per year", File: "01-trends-gross.png"})
	if err := r.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(r.Dir(), "manifest.json")); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}

	loaded, err := run.Load(r.Dir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ID != r.ID || loaded.Source != "data/movies.csv" {
		t.Fatalf("unexpected manifest: %+v", loaded)
	}
	if len(loaded.Figures) != 1 || loaded.Figures[0].File != "01-trends-gross.png" {
		t.Fatalf("figures not persisted: %+v", loaded.Figures)
	}
	if loaded.CompletedAt.IsZero() {
		t.Fatalf("expected completed_at to be set")
	}
}

func TestExplicitDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	r := run.New("x", "x.csv", "ignored", dir)
	if r.Dir() != dir {
		t.Fatalf("dir = %q, want %q", r.Dir(), dir)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := run.Load(t.TempDir()); err == nil {
		t.Fatalf("expected error for missing manifest")
	}
}
