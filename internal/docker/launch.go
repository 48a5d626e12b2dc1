package docker

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dansiegel/nuke/internal/dispatch"
	"github.com/dansiegel/nuke/internal/log"
	"github.com/dansiegel/nuke/internal/options"
	"github.com/dansiegel/nuke/internal/tool"
)

// Settings describe one containerised run.
type Settings struct {
	Image    string
	Platform string
	Name     string
	// Pull forces a pull even when the image is present locally.
	Pull bool

	// RootDir is mounted at the working directory inside the container.
	RootDir string
	// TempDir is relative to RootDir.
	TempDir string
	Volumes []string
	// EnvFiles are dotenv files merged into the container environment.
	EnvFiles []string
	Env      map[string]string
	Labels   map[string]string

	Command string
	Args    []string
	// ArgsDisplay replaces Args in logged command lines when set.
	ArgsDisplay []string

	// Timeout bounds `docker run`; image checks and pulls are not limited.
	Timeout time.Duration
	// Capture keeps container output in the result.
	Capture bool
	// Quiet stops container output from being echoed.
	Quiet bool
}

// WorkingDirectory is where RootDir is mounted for a platform.
func WorkingDirectory(platform string) string {
	if strings.HasPrefix(strings.ToLower(platform), "win") {
		return `c:\Build`
	}
	return "/build"
}

// RunArgs builds the `docker run` store for s using envFile.
func RunArgs(s Settings, envFile string) (options.Store, error) {
	workDir := WorkingDirectory(s.Platform)
	volumes := []any{s.RootDir + ":" + workDir}
	volumes = append(volumes, options.Items(s.Volumes)...)

	return options.Apply(options.New(RunSchema),
		options.Set("rm", true),
		options.When(s.Name != "", options.Set("name", s.Name)),
		options.When(s.Platform != "", options.Set("platform", s.Platform)),
		options.Set("workdir", workDir),
		options.When(envFile != "", options.Set("env-file", envFile)),
		options.SetList("volumes", volumes...),
		options.When(len(s.Env) > 0, options.SetMap("env", sortedEntries(s.Env)...)),
		options.When(len(s.Labels) > 0, options.SetMap("labels", sortedEntries(s.Labels)...)),
		options.Set("image", s.Image),
		options.When(s.Command != "", options.Set("command", s.Command)),
		options.When(len(s.Args) > 0, options.SetList("args", options.Items(s.Args)...)),
	)
}

// Launch makes sure the image is available, then runs the container. Env
// vars go through a temporary env file that is removed afterwards.
func Launch(ctx context.Context, d dispatch.Dispatcher, r *tool.Resolver, s Settings, logger *log.Logger) (*dispatch.Result, error) {
	if s.Image == "" {
		return nil, fmt.Errorf("docker: image is required")
	}
	docker, err := r.Resolve("docker")
	if err != nil {
		return nil, err
	}

	if err := ensureImage(ctx, d, docker, s, logger); err != nil {
		return nil, err
	}

	vars := ContainerEnv(WorkingDirectory(s.Platform), s.TempDir, os.Environ())
	extra, err := ReadEnvFiles(s.EnvFiles...)
	if err != nil {
		return nil, err
	}
	for k, v := range extra {
		vars[k] = v
	}

	f, err := os.CreateTemp("", "nuke-*.env")
	if err != nil {
		return nil, err
	}
	envFile := f.Name()
	f.Close()
	defer os.Remove(envFile)
	if err := WriteEnvFile(envFile, vars); err != nil {
		return nil, err
	}

	store, err := RunArgs(s, envFile)
	if err != nil {
		return nil, err
	}
	inv, err := invocation(docker, []string{"run"}, store)
	if err != nil {
		return nil, err
	}
	inv.Timeout = s.Timeout
	inv.CaptureStdout = s.Capture
	inv.CaptureStderr = s.Capture
	inv.Echo = !s.Quiet
	if s.ArgsDisplay != nil {
		shown := s
		shown.Args = s.ArgsDisplay
		store, err := RunArgs(shown, envFile)
		if err != nil {
			return nil, err
		}
		masked, err := invocation(docker, []string{"run"}, store)
		if err != nil {
			return nil, err
		}
		inv.Display = masked.Display
	}

	logger.Info("launching %s", s.Image)
	return d.Dispatch(ctx, inv)
}

func ensureImage(ctx context.Context, d dispatch.Dispatcher, docker string, s Settings, logger *log.Logger) error {
	store, err := options.Apply(options.New(ImageSchema), options.Set("image", s.Image))
	if err != nil {
		return err
	}
	if !s.Pull {
		inv, err := invocation(docker, []string{"image", "inspect"}, store)
		if err != nil {
			return err
		}
		res, err := d.Dispatch(ctx, inv)
		if err == nil && res.ExitCode == 0 {
			return nil
		}
	}

	logger.Info("pulling %s", s.Image)
	pull, err := options.Apply(store,
		options.Set("quiet", true),
		options.When(s.Platform != "", options.Set("platform", s.Platform)),
	)
	if err != nil {
		return err
	}
	inv, err := invocation(docker, []string{"pull"}, pull)
	if err != nil {
		return err
	}
	res, err := d.Dispatch(ctx, inv)
	if err != nil {
		return fmt.Errorf("docker: pulling %s: %w", s.Image, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("docker: pulling %s: exit code %d", s.Image, res.ExitCode)
	}
	return nil
}

func invocation(docker string, prefix []string, store options.Store) (dispatch.Invocation, error) {
	args, err := options.Compile(store)
	if err != nil {
		return dispatch.Invocation{}, err
	}
	display, err := options.Redact(store)
	if err != nil {
		return dispatch.Invocation{}, err
	}
	return dispatch.Invocation{
		ToolPath: docker,
		Args:     append(append([]string{}, prefix...), args...),
		Display:  append(append([]string{}, prefix...), display...),
	}, nil
}

func sortedEntries(m map[string]string) []options.Entry {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]options.Entry, len(keys))
	for i, k := range keys {
		entries[i] = options.Entry{Key: k, Value: m[k]}
	}
	return entries
}
