package docker

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// RunningInDockerVar is set inside containers launched by nuke.
const RunningInDockerVar = "NUKE_RUNNING_IN_DOCKER"

// hostOnly lists host variables that point at host paths and must not leak
// into the container.
var hostOnly = map[string]bool{
	"USERPROFILE":  true,
	"USERNAME":     true,
	"LOCALAPPDATA": true,
	"APPDATA":      true,
	"TEMP":         true,
	"TMP":          true,
	"HOMEPATH":     true,
	"HOME":         true,
	"PATH":         true,
	"PWD":          true,
}

// ContainerEnv builds the variables passed to the container. tempDir is
// relative to the mounted root. Host variables never override the defaults.
func ContainerEnv(workDir, tempDir string, environ []string) map[string]string {
	temp := path.Join(workDir, tempDir)
	if isWindowsPath(workDir) {
		temp = workDir + `\` + strings.ReplaceAll(tempDir, "/", `\`)
	}
	env := map[string]string{
		RunningInDockerVar:                  "1",
		"DOTNET_SKIP_FIRST_TIME_EXPERIENCE": "1",
		"DOTNET_CLI_TELEMETRY_OPTOUT":       "1",
		"DOTNET_CLI_HOME":                   workDir,
		"TEMP":                              temp,
		"TMP":                               temp,
		"COMPlus_EnableDiagnostics":         "0",
	}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" || strings.ContainsAny(k, " \t") || hostOnly[strings.ToUpper(k)] {
			continue
		}
		// env files are line based
		if strings.ContainsAny(v, "\r\n") {
			continue
		}
		if _, exists := env[k]; exists {
			continue
		}
		env[k] = v
	}
	return env
}

// ReadEnvFiles merges dotenv files; later files win.
func ReadEnvFiles(files ...string) (map[string]string, error) {
	merged := make(map[string]string)
	for _, f := range files {
		vars, err := godotenv.Read(f)
		if err != nil {
			return nil, fmt.Errorf("docker: reading %s: %w", f, err)
		}
		for k, v := range vars {
			merged[k] = v
		}
	}
	return merged, nil
}

// WriteEnvFile writes vars in the `docker run --env-file` format: one
// KEY=VALUE per line, no quoting. Values containing newlines cannot be
// represented and are rejected.
func WriteEnvFile(file string, vars map[string]string) error {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := vars[k]
		if strings.ContainsAny(v, "\r\n") {
			return fmt.Errorf("docker: env %s: multi-line values are not supported in env files", k)
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v)
		b.WriteByte('\n')
	}
	return os.WriteFile(file, []byte(b.String()), 0600)
}

func isWindowsPath(p string) bool {
	return len(p) >= 2 && p[1] == ':'
}
