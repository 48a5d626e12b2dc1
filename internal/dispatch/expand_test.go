package dispatch

import (
	"testing"
)

func TestExpandVars_Simple(t *testing.T) {
	vars := map[string]string{"PROJECT_ROOT": "/proj"}
	got := ExpandVars("root is $PROJECT_ROOT", vars)
	if got != "root is /proj" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandVars_Brace(t *testing.T) {
	vars := map[string]string{"CONFIG": "Release"}
	got := ExpandVars("bin/${CONFIG}_x64", vars)
	if got != "bin/Release_x64" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandVars_EnvFallback(t *testing.T) {
	t.Setenv("NUKE_TEST_VAR_XYZ", "from-env")
	got := ExpandVars("$NUKE_TEST_VAR_XYZ", map[string]string{})
	if got != "from-env" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandVars_VarsWinOverEnv(t *testing.T) {
	t.Setenv("NUKE_TEST_VAR_XYZ", "from-env")
	got := ExpandVars("$NUKE_TEST_VAR_XYZ", map[string]string{"NUKE_TEST_VAR_XYZ": "from-vars"})
	if got != "from-vars" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandVars_MissingEmpty(t *testing.T) {
	got := ExpandVars("$TOTALLY_UNKNOWN_VAR_12345", nil)
	if got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandEnv(t *testing.T) {
	in := map[string]string{"OUT": "$PROJECT_ROOT/out"}
	got := ExpandEnv(in, map[string]string{"PROJECT_ROOT": "/proj"})
	if got["OUT"] != "/proj/out" {
		t.Fatalf("got %q", got["OUT"])
	}
	if in["OUT"] != "$PROJECT_ROOT/out" {
		t.Fatal("input map modified")
	}
	if ExpandEnv(nil, nil) != nil {
		t.Fatal("nil env should stay nil")
	}
}
