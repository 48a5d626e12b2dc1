package tool

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnvVar(t *testing.T) {
	cases := map[string]string{
		"dotnet":        "DOTNET_EXE",
		"docker-cli":    "DOCKER_CLI_EXE",
		"bin/nuget.exe": "NUGET_EXE",
	}
	for in, want := range cases {
		if got := EnvVar(in); got != want {
			t.Fatalf("EnvVar(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolve_PathLookup(t *testing.T) {
	r, err := NewResolver(8)
	if err != nil {
		t.Fatal(err)
	}
	path, err := r.Resolve("sh")
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(path) {
		t.Fatalf("got %q, want absolute path", path)
	}
}

func TestResolve_EnvOverride(t *testing.T) {
	fake := filepath.Join(t.TempDir(), "dotnet")
	if err := os.WriteFile(fake, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOTNET_EXE", fake)
	r, _ := NewResolver(8)
	got, err := r.Resolve("dotnet")
	if err != nil {
		t.Fatal(err)
	}
	if got != fake {
		t.Fatalf("got %q, want %q", got, fake)
	}
}

func TestResolve_EnvOverrideMissingFile(t *testing.T) {
	t.Setenv("DOTNET_EXE", filepath.Join(t.TempDir(), "missing"))
	r, _ := NewResolver(8)
	if _, err := r.Resolve("dotnet"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestResolve_Cached(t *testing.T) {
	r, _ := NewResolver(8)
	calls := 0
	r.lookPath = func(name string) (string, error) {
		calls++
		return "/opt/" + name, nil
	}
	for i := 0; i < 3; i++ {
		if _, err := r.Resolve("tool"); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Fatalf("lookPath called %d times, want 1", calls)
	}
	r.Forget("tool")
	r.Resolve("tool")
	if calls != 2 {
		t.Fatalf("lookPath called %d times after Forget, want 2", calls)
	}
}

func TestResolve_NotFoundNotCached(t *testing.T) {
	r, _ := NewResolver(8)
	calls := 0
	r.lookPath = func(name string) (string, error) {
		calls++
		return "", errors.New("nope")
	}
	r.Resolve("ghost")
	r.Resolve("ghost")
	if calls != 2 {
		t.Fatalf("failed lookups should not be cached, got %d calls", calls)
	}
}

func TestPreflight_Found(t *testing.T) {
	r, _ := NewResolver(8)
	if err := Preflight(r, "sh", "sh"); err != nil {
		t.Fatalf("expected sh to be found, got: %v", err)
	}
}

func TestPreflight_ReportsAllMissing(t *testing.T) {
	r, _ := NewResolver(8)
	err := Preflight(r, "nuke-missing-b", "sh", "nuke-missing-a")
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "nuke-missing-a, nuke-missing-b") {
		t.Fatalf("got %v", err)
	}
	if strings.Contains(msg, "sh,") {
		t.Fatalf("found executable reported missing: %v", err)
	}
}
