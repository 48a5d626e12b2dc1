package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dansiegel/nuke/internal/options"
)

const sampleYAML = `
formatters:
  verbosity: 'value == "q" ? "quiet" : value'
tools:
  - name: dotnet
    env:
      DOTNET_CLI_TELEMETRY_OPTOUT: "1"
    commands:
      - name: build
        arguments: build
        timeout: 15
        options:
          - name: project
            kind: scalar
            position: 0
          - name: configuration
            kind: scalar
            format: "--configuration {value}"
          - name: verbosity
            kind: scalar
            format: "--verbosity {value}"
            formatter: verbosity
          - name: nologo
            kind: scalar
            format: "--nologo"
          - name: properties
            kind: map
            format: "/p:{key}={value}"
            formatter: msbuild
          - name: sources
            kind: list
            format: "--source {value}"
          - name: apikey
            kind: scalar
            format: "--api-key {value}"
            secret: true
          - name: settings
            kind: nested
            format: "--"
            schema: runsettings
            position: -1
        presets:
          - set:
              configuration: Debug
          - when: 'os == "plan9"'
            set:
              configuration: Never
          - when: '"CI" in env'
            set:
              nologo: true
            add:
              sources: ["https://api.nuget.org/v3/index.json"]
            entries:
              properties:
                ContinuousIntegrationBuild: true
    schemas:
      - name: runsettings
        options:
          - name: results
            kind: scalar
            format: "RunConfiguration.ResultsDirectory={value}"
          - name: inner
            kind: nested
            schema: runsettings
`

func mustParse(t *testing.T, data string) *Config {
	t.Helper()
	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return cfg
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	tool, cmd, err := cfg.Command("dotnet", "build")
	if err != nil {
		t.Fatal(err)
	}
	if tool.Executable != "dotnet" {
		t.Fatalf("Executable = %q, want default to name", tool.Executable)
	}
	if cmd.TimeoutDuration().Minutes() != 15 {
		t.Fatalf("timeout = %s", cmd.TimeoutDuration())
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestCommand_Unknown(t *testing.T) {
	cfg := mustParse(t, sampleYAML)
	if _, _, err := cfg.Command("dotnet", "publish"); err == nil || !strings.Contains(err.Error(), "no command") {
		t.Fatalf("got %v", err)
	}
	if _, err := cfg.Tool("npm"); err == nil || !strings.Contains(err.Error(), "unknown tool") {
		t.Fatalf("got %v", err)
	}
}

func TestSchema_BuildsAndCompiles(t *testing.T) {
	cfg := mustParse(t, sampleYAML)
	schema, err := cfg.Schema("dotnet", "build")
	if err != nil {
		t.Fatal(err)
	}
	again, _ := cfg.Schema("dotnet", "build")
	if again != schema {
		t.Fatal("Schema should return the same instance")
	}

	settingsOpt, err := schema.Lookup("settings")
	if err != nil {
		t.Fatal(err)
	}
	inner, err := options.Apply(options.New(settingsOpt.Schema), options.Set("results", "out"))
	if err != nil {
		t.Fatal(err)
	}

	reg, err := cfg.FormatterRegistry()
	if err != nil {
		t.Fatal(err)
	}
	s, err := options.Apply(options.New(schema),
		options.Set("project", "app.csproj"),
		options.Set("verbosity", "q"),
		options.SetEntry("properties", "DefineConstants", "A;B"),
		options.SetNested("settings", inner),
	)
	if err != nil {
		t.Fatal(err)
	}
	got, err := options.NewCompiler(options.WithFormatters(reg)).Compile(s)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"app.csproj", "--verbosity", "quiet", "/p:DefineConstants=A%3BB", "--", "RunConfiguration.ResultsDirectory=out"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSchema_SelfReferencingNested(t *testing.T) {
	cfg := mustParse(t, sampleYAML)
	schema, _ := cfg.Schema("dotnet", "build")
	settings, _ := schema.Lookup("settings")
	inner, err := settings.Schema.Lookup("inner")
	if err != nil {
		t.Fatal(err)
	}
	if inner.Schema != settings.Schema {
		t.Fatal("self reference should resolve to the same schema")
	}
}

func TestApplyPresets(t *testing.T) {
	cfg := mustParse(t, sampleYAML)
	_, cmd, _ := cfg.Command("dotnet", "build")
	schema, _ := cfg.Schema("dotnet", "build")

	local, err := ApplyPresets(options.New(schema), cmd, Facts{OS: "linux", Env: map[string]string{}})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := local.Scalar("configuration"); v != "Debug" {
		t.Fatalf("configuration = %v, want Debug", v)
	}
	if local.Has("nologo") {
		t.Fatal("CI preset applied outside CI")
	}

	ci, err := ApplyPresets(options.New(schema), cmd, Facts{OS: "linux", Env: map[string]string{"CI": "true"}})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := ci.Scalar("nologo"); v != true {
		t.Fatalf("nologo = %v", v)
	}
	if items, _ := ci.List("sources"); len(items) != 1 {
		t.Fatalf("sources = %v", items)
	}
	if v, ok := ci.Get("properties").Lookup("ContinuousIntegrationBuild"); !ok || v != true {
		t.Fatalf("property = %v (%v)", v, ok)
	}
}

func TestPreset_NonBoolCondition(t *testing.T) {
	p := Preset{When: `os + "x"`}
	if _, err := p.Matches(Facts{}); err == nil {
		t.Fatal("expected error for non-bool condition")
	}
}

func TestCurrentFacts(t *testing.T) {
	t.Setenv("NUKE_FACTS_TEST", "yes")
	f := CurrentFacts()
	if f.OS == "" || f.Arch == "" {
		t.Fatalf("got %+v", f)
	}
	if f.Env["NUKE_FACTS_TEST"] != "yes" {
		t.Fatal("env not captured")
	}
}

func TestFormatterRegistry_InvalidExpression(t *testing.T) {
	_, err := Parse([]byte(`
formatters:
  bad: "value +"
tools:
  - name: x
    commands: [{name: y}]
`))
	if err == nil || !strings.HasPrefix(err.Error(), "config:") {
		t.Fatalf("got %v", err)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("tools: [")); err == nil {
		t.Fatal("expected error")
	}
}

func TestParse_OptionErrorsUnwrap(t *testing.T) {
	_, err := Parse([]byte(`
tools:
  - name: x
    commands:
      - name: y
        options:
          - name: flags
            kind: list
            alt-format: "--on"
`))
	if !errors.Is(err, options.ErrInvalidOption) {
		t.Fatalf("got %v, want ErrInvalidOption", err)
	}
}

func TestApplyPresets_NullUnsets(t *testing.T) {
	cfg := mustParse(t, `
tools:
  - name: dotnet
    commands:
      - name: build
        options:
          - name: configuration
            kind: scalar
            format: "--configuration {value}"
        presets:
          - set:
              configuration: Debug
          - set:
              configuration: ~
`)
	_, cmd, err := cfg.Command("dotnet", "build")
	if err != nil {
		t.Fatal(err)
	}
	schema, err := cfg.Schema("dotnet", "build")
	if err != nil {
		t.Fatal(err)
	}
	s, err := ApplyPresets(options.New(schema), cmd, Facts{OS: "linux"})
	if err != nil {
		t.Fatal(err)
	}
	if s.Has("configuration") {
		t.Fatal("null preset value should unset the option")
	}
	got, err := options.Compile(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %q, want no tokens", got)
	}
}
