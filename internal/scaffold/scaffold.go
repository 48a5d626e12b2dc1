package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dansiegel/nuke/internal/ux"
)

var configTemplate = `# Tool definitions. Run 'nuke docs tools' for the full reference.
formatters:
  verbosity: 'value == "q" ? "quiet" : value'

tools:
  - name: dotnet
    description: .NET SDK
    env:
      DOTNET_CLI_TELEMETRY_OPTOUT: "1"
    commands:
      - name: build
        description: Build a project or solution
        arguments: build
        timeout: 30
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
        presets:
          - set:
              configuration: Debug
          - when: '"CI" in env'
            set:
              configuration: Release
              nologo: true
`

var gitignoreTemplate = `temp/
logs/
history.json
`

// Init creates a new .nuke/ directory with an example tools file.
func Init(targetDir string) error {
	nukeDir := filepath.Join(targetDir, ".nuke")
	if _, err := os.Stat(nukeDir); err == nil {
		return fmt.Errorf(".nuke directory already exists in %s", targetDir)
	}

	if err := os.MkdirAll(filepath.Join(nukeDir, "temp"), 0755); err != nil {
		return fmt.Errorf("creating .nuke/temp: %w", err)
	}

	configPath := filepath.Join(nukeDir, "tools.yaml")
	if err := os.WriteFile(configPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing tools.yaml: %w", err)
	}

	ignorePath := filepath.Join(nukeDir, ".gitignore")
	if err := os.WriteFile(ignorePath, []byte(gitignoreTemplate), 0644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	fmt.Fprintf(ux.Out, "\n%s%s✓ Initialized .nuke/ directory%s\n\n", ux.Bold, ux.Green, ux.Reset)
	fmt.Fprintf(ux.Out, "  Created:\n")
	fmt.Fprintf(ux.Out, "    %s.nuke/tools.yaml%s  — tool and option definitions\n\n", ux.Cyan, ux.Reset)
	fmt.Fprintf(ux.Out, "  Next steps:\n")
	fmt.Fprintf(ux.Out, "    1. Edit %s.nuke/tools.yaml%s to describe your tools\n", ux.Cyan, ux.Reset)
	fmt.Fprintf(ux.Out, "    2. Run %snuke render dotnet build%s to preview the arguments\n\n", ux.Cyan, ux.Reset)

	return nil
}
