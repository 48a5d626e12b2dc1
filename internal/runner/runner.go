package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dansiegel/nuke/internal/config"
	"github.com/dansiegel/nuke/internal/dispatch"
	"github.com/dansiegel/nuke/internal/docker"
	"github.com/dansiegel/nuke/internal/history"
	"github.com/dansiegel/nuke/internal/log"
	"github.com/dansiegel/nuke/internal/options"
	"github.com/dansiegel/nuke/internal/tool"
	"github.com/dansiegel/nuke/internal/ux"
)

// Runner turns configured tool commands into processes.
type Runner struct {
	Config     *config.Config
	Dispatcher dispatch.Dispatcher
	Resolver   *tool.Resolver
	Logger     *log.Logger
	// ProjectRoot is the working directory of every run.
	ProjectRoot string
	// StateDir holds history.json and per-run logs. Empty disables history.
	StateDir string
	Facts    config.Facts
}

// Plan is a fully compiled invocation that has not run yet.
type Plan struct {
	Tool    *config.Tool
	Command *config.Command
	Store   options.Store
	// Prefix holds the command's fixed arguments, e.g. "build".
	Prefix  []string
	Args    []string
	Display []string
	Env     map[string]string
	Timeout time.Duration
}

// Argv is the full argument list after the executable.
func (p *Plan) Argv() []string {
	return append(append([]string{}, p.Prefix...), p.Args...)
}

// DisplayArgv is Argv with secrets masked.
func (p *Plan) DisplayArgv() []string {
	return append(append([]string{}, p.Prefix...), p.Display...)
}

// RunOptions adjust a single run.
type RunOptions struct {
	Quiet   bool
	Timeout time.Duration
	// Image, when set, runs the tool inside that docker image.
	Image    string
	Platform string
	Pull     bool
	EnvFiles []string
}

func (r *Runner) vars() map[string]string {
	return map[string]string{"PROJECT_ROOT": r.ProjectRoot}
}

// Plan builds the store for tool/command from its presets and muts, then
// compiles it.
func (r *Runner) Plan(toolName, command string, muts []Mutation) (*Plan, error) {
	t, cmd, err := r.Config.Command(toolName, command)
	if err != nil {
		return nil, err
	}
	schema, err := r.Config.Schema(toolName, command)
	if err != nil {
		return nil, err
	}
	formatters, err := r.Config.FormatterRegistry()
	if err != nil {
		return nil, err
	}

	store, err := config.ApplyPresets(options.New(schema), cmd, r.Facts)
	if err != nil {
		return nil, err
	}
	ops, err := Ops(schema, muts)
	if err != nil {
		return nil, err
	}
	store, err = options.Apply(store, ops...)
	if err != nil {
		return nil, err
	}

	prefix, err := dispatch.ParseArgs(dispatch.ExpandVars(cmd.Arguments, r.vars()))
	if err != nil {
		return nil, fmt.Errorf("%s %s: arguments: %w", toolName, command, err)
	}

	c := options.NewCompiler(options.WithFormatters(formatters))
	args, err := c.Compile(store)
	if err != nil {
		return nil, err
	}
	display, err := c.Redacted(store)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Tool:    t,
		Command: cmd,
		Store:   store,
		Prefix:  prefix,
		Args:    args,
		Display: display,
		Env:     dispatch.ExpandEnv(t.Env, r.vars()),
		Timeout: cmd.TimeoutDuration(),
	}, nil
}

// Run executes p and records the outcome in the history. A non-zero exit
// code is reported as an error alongside the entry.
func (r *Runner) Run(ctx context.Context, p *Plan, opts RunOptions) (*history.Entry, error) {
	timeout := p.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	ux.InvocationHeader(p.Tool.Name, p.Command.Name, p.DisplayArgv())
	start := time.Now()

	result, err := r.dispatch(ctx, p, opts, timeout)

	entry := history.Entry{
		Tool:    p.Tool.Name,
		Command: p.Command.Name,
		Args:    p.DisplayArgv(),
		Start:   start,
	}
	if result != nil {
		entry.ID = result.ID
		entry.ExitCode = result.ExitCode
		entry.Duration = result.Duration.Round(time.Millisecond).String()
	}
	switch {
	case errors.Is(err, dispatch.ErrTimeout):
		entry.Status = history.StatusTimedOut
		entry.Error = err.Error()
	case err != nil:
		entry.Status = history.StatusError
		entry.Error = err.Error()
	case result.ExitCode != 0:
		entry.Status = history.StatusFailed
		entry.Error = fmt.Sprintf("exit code %d", result.ExitCode)
		err = fmt.Errorf("%s %s: %s", p.Tool.Name, p.Command.Name, entry.Error)
	default:
		entry.Status = history.StatusSucceeded
	}

	if err != nil {
		ux.Fail(p.Tool.Name, entry.Error)
	} else {
		ux.Complete(p.Tool.Name, time.Since(start))
	}
	r.record(entry, result)
	return &entry, err
}

func (r *Runner) dispatch(ctx context.Context, p *Plan, opts RunOptions, timeout time.Duration) (*dispatch.Result, error) {
	if opts.Image != "" {
		return docker.Launch(ctx, r.Dispatcher, r.Resolver, docker.Settings{
			Image:       opts.Image,
			Platform:    opts.Platform,
			Pull:        opts.Pull,
			EnvFiles:    opts.EnvFiles,
			RootDir:     r.ProjectRoot,
			TempDir:     ".nuke/temp",
			Env:         p.Env,
			Command:     p.Tool.Executable,
			Args:        p.Argv(),
			ArgsDisplay: p.DisplayArgv(),
			Timeout:     timeout,
			Capture:     true,
			Quiet:       opts.Quiet,
		}, r.Logger)
	}

	exe, err := r.Resolver.Resolve(p.Tool.Executable)
	if err != nil {
		return nil, err
	}
	return r.Dispatcher.Dispatch(ctx, dispatch.Invocation{
		ToolPath:      exe,
		Args:          p.Argv(),
		Display:       p.DisplayArgv(),
		Dir:           r.ProjectRoot,
		Env:           p.Env,
		Timeout:       timeout,
		CaptureStdout: true,
		CaptureStderr: true,
		Echo:          !opts.Quiet,
	})
}

func (r *Runner) record(e history.Entry, result *dispatch.Result) {
	if r.StateDir == "" {
		return
	}
	if err := history.Record(r.StateDir, e); err != nil {
		r.Logger.Warn("recording history: %v", err)
		fmt.Fprintf(os.Stderr, "warning: failed to record history: %v\n", err)
		return
	}
	if result == nil || e.ID == "" {
		return
	}
	var lines []string
	for _, o := range result.Output {
		lines = append(lines, o.Type.String()+": "+o.Text)
	}
	if err := history.WriteLog(r.StateDir, e.ID, lines); err != nil {
		r.Logger.Warn("writing log for %s: %v", e.ID, err)
	}
}

// Preflight checks that every tool executable in the config resolves.
func (r *Runner) Preflight() error {
	names := make([]string, 0, len(r.Config.Tools))
	for _, t := range r.Config.Tools {
		names = append(names, t.Executable)
	}
	return tool.Preflight(r.Resolver, names...)
}
