package ux

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dansiegel/nuke/internal/config"
	"github.com/dansiegel/nuke/internal/history"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := Out
	Out = &buf
	t.Cleanup(func() { Out = old })
	return &buf
}

func TestInvocationHeader_QuotesTokens(t *testing.T) {
	buf := capture(t)
	InvocationHeader("dotnet", "build", []string{"--configuration", "Release Build"})
	if !strings.Contains(buf.String(), "--configuration 'Release Build'") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestComplete_Duration(t *testing.T) {
	buf := capture(t)
	Complete("dotnet", 75*time.Second)
	if !strings.Contains(buf.String(), "1m 15s") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestRenderHistory(t *testing.T) {
	buf := capture(t)
	RenderHistory(nil)
	if !strings.Contains(buf.String(), "no runs recorded") {
		t.Fatalf("got %q", buf.String())
	}

	buf.Reset()
	RenderHistory([]history.Entry{
		{Tool: "dotnet", Command: "test", Status: history.StatusFailed, Error: "exit code 1"},
	})
	out := buf.String()
	if !strings.Contains(out, "dotnet test") || !strings.Contains(out, "exit code 1") {
		t.Fatalf("got %q", out)
	}
}

func TestRenderTools_Verbose(t *testing.T) {
	buf := capture(t)
	pos := 0
	cfg := &config.Config{Tools: []config.Tool{{
		Name:       "dotnet",
		Executable: "dotnet",
		Commands: []config.Command{{
			Name: "build",
			Options: []config.Option{
				{Name: "project", Kind: "scalar", Position: &pos},
				{Name: "apikey", Kind: "scalar", Secret: true},
			},
		}},
	}}}
	RenderTools(cfg, true)
	out := buf.String()
	for _, want := range []string{"dotnet", "build", "position 0", "secret"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}
