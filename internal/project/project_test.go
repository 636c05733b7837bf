package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndFindRoot(t *testing.T) {
	root := t.TempDir()
	data := `{ name: "myApp", type: "ionic-angular", app_id: "abc123" }`
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	nested := filepath.Join(root, "src", "app")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	found, err := FindRoot(nested)
	if err != nil {
		t.Fatalf("FindRoot() error = %v", err)
	}
	if found != root {
		t.Fatalf("FindRoot() = %q, want %q", found, root)
	}

	p, err := Resolve(nested)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if p.Name != "myApp" || p.Type != "ionic-angular" || p.AppID != "abc123" {
		t.Fatalf("unexpected project: %+v", p)
	}
	if p.Directory != root {
		t.Fatalf("Directory = %q, want %q", p.Directory, root)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestResolveWithoutProject(t *testing.T) {
	dir := t.TempDir()
	p, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if p.Directory != dir || p.Name != "" {
		t.Fatalf("unexpected project: %+v", p)
	}
}
