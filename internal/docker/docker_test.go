package docker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dansiegel/nuke/internal/dispatch"
	"github.com/dansiegel/nuke/internal/options"
	"github.com/dansiegel/nuke/internal/tool"
)

type mockDispatcher struct {
	mu       sync.Mutex
	calls    []dispatch.Invocation
	envFiles []string
	results  map[string]int // first arg after tool -> exit code
	err      error
}

func (m *mockDispatcher) Dispatch(ctx context.Context, inv dispatch.Invocation) (*dispatch.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, inv)
	for i, a := range inv.Args {
		if a == "--env-file" && i+1 < len(inv.Args) {
			data, _ := os.ReadFile(inv.Args[i+1])
			m.envFiles = append(m.envFiles, string(data))
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &dispatch.Result{ExitCode: m.results[inv.Args[0]]}, nil
}

func (m *mockDispatcher) verbs() []string {
	var out []string
	for _, c := range m.calls {
		out = append(out, c.Args[0])
	}
	return out
}

func fakeDocker(t *testing.T) *tool.Resolver {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "docker")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOCKER_EXE", bin)
	r, err := tool.NewResolver(4)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestWorkingDirectory(t *testing.T) {
	if got := WorkingDirectory("linux/amd64"); got != "/build" {
		t.Fatalf("got %q", got)
	}
	if got := WorkingDirectory("Windows/amd64"); got != `c:\Build` {
		t.Fatalf("got %q", got)
	}
}

func TestRunArgs(t *testing.T) {
	s := Settings{
		Image:    "mcr.microsoft.com/dotnet/sdk:8.0",
		Platform: "linux/amd64",
		RootDir:  "/src/app",
		Volumes:  []string{"/cache:/nuget"},
		Env:      map[string]string{"TOKEN": "hunter2"},
		Command:  "dotnet",
		Args:     []string{"build.dll", "Compile"},
	}
	store, err := RunArgs(s, "/tmp/x.env")
	if err != nil {
		t.Fatal(err)
	}
	got, err := options.Compile(store)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"--rm",
		"--platform", "linux/amd64",
		"--workdir", "/build",
		"--env-file", "/tmp/x.env",
		"--volume", "/src/app:/build",
		"--volume", "/cache:/nuget",
		"--env", "TOKEN=hunter2",
		"mcr.microsoft.com/dotnet/sdk:8.0",
		"dotnet",
		"build.dll", "Compile",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q\nwant %q", got, want)
	}
	redacted, _ := options.Redact(store)
	if strings.Contains(strings.Join(redacted, " "), "hunter2") {
		t.Fatalf("env value leaked: %q", redacted)
	}
}

func TestContainerEnv(t *testing.T) {
	env := ContainerEnv("/build", ".nuke/temp", []string{
		"CI=true",
		"TEMP=/host/tmp",
		"USERPROFILE=C:\\Users\\me",
		"PATH=/usr/bin",
		"BAD KEY=x",
		"DOTNET_CLI_HOME=/host",
		"MULTI=a\nb",
	})
	if env["CI"] != "true" {
		t.Fatal("CI not passed through")
	}
	if env["TEMP"] != "/build/.nuke/temp" || env["TMP"] != "/build/.nuke/temp" {
		t.Fatalf("TEMP = %q, TMP = %q", env["TEMP"], env["TMP"])
	}
	if env["DOTNET_CLI_HOME"] != "/build" {
		t.Fatalf("host overrode default: %q", env["DOTNET_CLI_HOME"])
	}
	for _, k := range []string{"USERPROFILE", "PATH", "BAD KEY", "MULTI"} {
		if _, ok := env[k]; ok {
			t.Fatalf("%s leaked into container env", k)
		}
	}
	if env[RunningInDockerVar] != "1" {
		t.Fatal("marker variable missing")
	}
}

func TestContainerEnv_Windows(t *testing.T) {
	env := ContainerEnv(`c:\Build`, ".nuke/temp", nil)
	if env["TEMP"] != `c:\Build\.nuke\temp` {
		t.Fatalf("TEMP = %q", env["TEMP"])
	}
}

func TestWriteEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.env")
	if err := WriteEnvFile(path, map[string]string{"B": "2", "A": "has space"}); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "A=has space\nB=2\n" {
		t.Fatalf("got %q", data)
	}
	if err := WriteEnvFile(path, map[string]string{"M": "a\nb"}); err == nil {
		t.Fatal("expected error for multi-line value")
	}
}

func TestReadEnvFiles_LaterWins(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.env")
	b := filepath.Join(dir, "b.env")
	os.WriteFile(a, []byte("X=1\nY=a\n"), 0644)
	os.WriteFile(b, []byte("Y=\"b\"\n"), 0644)
	got, err := ReadEnvFiles(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got["X"] != "1" || got["Y"] != "b" {
		t.Fatalf("got %v", got)
	}
	if _, err := ReadEnvFiles(filepath.Join(dir, "missing.env")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLaunch_ImagePresent(t *testing.T) {
	r := fakeDocker(t)
	d := &mockDispatcher{}
	_, err := Launch(context.Background(), d, r, Settings{Image: "alpine", RootDir: "/src"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := d.verbs(); !reflect.DeepEqual(got, []string{"image", "run"}) {
		t.Fatalf("verbs = %q", got)
	}
	if len(d.envFiles) != 1 || !strings.Contains(d.envFiles[0], RunningInDockerVar+"=1") {
		t.Fatalf("env file = %q", d.envFiles)
	}
	run := d.calls[1]
	for i, a := range run.Args {
		if a == "--env-file" {
			if _, err := os.Stat(run.Args[i+1]); !os.IsNotExist(err) {
				t.Fatal("env file not removed")
			}
		}
	}
	if !run.Echo {
		t.Fatal("run should echo output")
	}
}

func TestLaunch_PullsWhenMissing(t *testing.T) {
	r := fakeDocker(t)
	d := &mockDispatcher{results: map[string]int{"image": 1}}
	if _, err := Launch(context.Background(), d, r, Settings{Image: "alpine", Platform: "linux/arm64"}, nil); err != nil {
		t.Fatal(err)
	}
	if got := d.verbs(); !reflect.DeepEqual(got, []string{"image", "pull", "run"}) {
		t.Fatalf("verbs = %q", got)
	}
	want := []string{"pull", "--quiet", "--platform", "linux/arm64", "alpine"}
	if got := d.calls[1].Args; !reflect.DeepEqual(got, want) {
		t.Fatalf("pull args = %q, want %q", got, want)
	}
}

func TestLaunch_ForcedPull(t *testing.T) {
	r := fakeDocker(t)
	d := &mockDispatcher{}
	if _, err := Launch(context.Background(), d, r, Settings{Image: "alpine", Pull: true}, nil); err != nil {
		t.Fatal(err)
	}
	if got := d.verbs(); !reflect.DeepEqual(got, []string{"pull", "run"}) {
		t.Fatalf("verbs = %q", got)
	}
}

func TestLaunch_PullFails(t *testing.T) {
	r := fakeDocker(t)
	d := &mockDispatcher{results: map[string]int{"image": 1, "pull": 1}}
	_, err := Launch(context.Background(), d, r, Settings{Image: "alpine"}, nil)
	if err == nil || !strings.Contains(err.Error(), "pulling alpine") {
		t.Fatalf("got %v", err)
	}
}

func TestLaunch_DispatchError(t *testing.T) {
	r := fakeDocker(t)
	d := &mockDispatcher{err: errors.New("boom")}
	if _, err := Launch(context.Background(), d, r, Settings{Image: "alpine"}, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestLaunch_RequiresImage(t *testing.T) {
	if _, err := Launch(context.Background(), &mockDispatcher{}, nil, Settings{}, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestLaunch_ArgsDisplay(t *testing.T) {
	r := fakeDocker(t)
	d := &mockDispatcher{}
	s := Settings{
		Image:       "alpine",
		Command:     "nuget",
		Args:        []string{"push", "--api-key", "hunter2"},
		ArgsDisplay: []string{"push", "--api-key", "[REDACTED]"},
	}
	if _, err := Launch(context.Background(), d, r, s, nil); err != nil {
		t.Fatal(err)
	}
	run := d.calls[len(d.calls)-1]
	if !contains(run.Args, "hunter2") {
		t.Fatalf("real args lost: %q", run.Args)
	}
	if contains(run.Display, "hunter2") || !contains(run.Display, "[REDACTED]") {
		t.Fatalf("display = %q", run.Display)
	}
}

func contains(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}

func TestLaunch_PassesRunLimits(t *testing.T) {
	r := fakeDocker(t)
	d := &mockDispatcher{}
	s := Settings{Image: "alpine", Timeout: 2 * time.Minute, Capture: true, Quiet: true}
	if _, err := Launch(context.Background(), d, r, s, nil); err != nil {
		t.Fatal(err)
	}
	run := d.calls[len(d.calls)-1]
	if run.Timeout != 2*time.Minute {
		t.Fatalf("timeout = %s", run.Timeout)
	}
	if !run.CaptureStdout || !run.CaptureStderr || run.Echo {
		t.Fatalf("capture/echo = %v/%v/%v", run.CaptureStdout, run.CaptureStderr, run.Echo)
	}
	if inspect := d.calls[0]; inspect.Timeout != 0 {
		t.Fatalf("inspect timeout = %s, want none", inspect.Timeout)
	}
}
