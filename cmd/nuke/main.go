package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"

	"github.com/dansiegel/nuke/internal/config"
	"github.com/dansiegel/nuke/internal/dispatch"
	"github.com/dansiegel/nuke/internal/docs"
	"github.com/dansiegel/nuke/internal/history"
	"github.com/dansiegel/nuke/internal/log"
	"github.com/dansiegel/nuke/internal/options"
	"github.com/dansiegel/nuke/internal/runner"
	"github.com/dansiegel/nuke/internal/scaffold"
	"github.com/dansiegel/nuke/internal/tool"
	"github.com/dansiegel/nuke/internal/ux"
)

var logger = log.Discard()

func main() {
	app := &cli.Command{
		Name:                      "nuke",
		Usage:                     "Declarative command-line builder for external tools",
		Description:               "Run 'nuke docs' for documentation on the tools file, option kinds, presets, and more.",
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "Diagnostic level: debug, info, warn, error", Sources: cli.EnvVars("NUKE_LOG_LEVEL")},
			&cli.StringFlag{Name: "log-file", Usage: "Also write diagnostics to this file (rotated)", Sources: cli.EnvVars("NUKE_LOG_FILE")},
			&cli.BoolFlag{Name: "log-json", Usage: "Write diagnostics as JSON lines"},
		},
		Before: setup,
		After: func(ctx context.Context, cmd *cli.Command) error {
			return logger.Close()
		},
		Commands: []*cli.Command{
			initCmd(),
			toolsCmd(),
			renderCmd(),
			runCmd(),
			historyCmd(),
			doctorCmd(),
			docsCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		os.Exit(1)
	}
}

func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level, err := log.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return ctx, err
	}
	logger = log.New(log.Config{
		Level: level,
		File:  cmd.String("log-file"),
		JSON:  cmd.Bool("log-json"),
	})
	return ctx, nil
}

func mutationFlags() []cli.Flag {
	usage := map[string]string{
		runner.VerbSet:         "Set a scalar or replace a list: NAME=VALUE",
		runner.VerbReset:       "Make an option absent: NAME",
		runner.VerbAdd:         "Append a list item: NAME=VALUE",
		runner.VerbRemove:      "Remove a list item: NAME=VALUE",
		runner.VerbClear:       "Make a collection present and empty: NAME",
		runner.VerbEntry:       "Set a map entry: NAME:KEY=VALUE",
		runner.VerbAddEntry:    "Add a new map entry: NAME:KEY=VALUE",
		runner.VerbRemoveEntry: "Remove a map entry or multimap key: NAME:KEY",
		runner.VerbValues:      "Replace multimap values: NAME:KEY=V1,V2",
		runner.VerbAddValues:   "Append multimap values: NAME:KEY=V1,V2",
		runner.VerbRemoveValue: "Remove one multimap value: NAME:KEY=VALUE",
	}
	flags := make([]cli.Flag, 0, len(runner.Verbs))
	for _, verb := range runner.Verbs {
		flags = append(flags, &cli.StringSliceFlag{Name: verb, Usage: usage[verb], Category: "Options"})
	}
	return flags
}

// loadDotEnv loads root/.env without overriding variables already set.
func loadDotEnv(root string) error {
	// a missing .env is normal
	if err := godotenv.Load(filepath.Join(root, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// project loads the .env and tools file of the enclosing project.
func project() (string, *config.Config, error) {
	root, err := findProjectRoot()
	if err != nil {
		return "", nil, err
	}
	if err := loadDotEnv(root); err != nil {
		return "", nil, err
	}
	cfg, err := config.Load(filepath.Join(root, ".nuke", "tools.yaml"))
	if err != nil {
		return "", nil, fmt.Errorf("loading tools: %w", err)
	}
	return root, cfg, nil
}

func newRunner(root string, cfg *config.Config) (*runner.Runner, error) {
	resolver, err := tool.NewResolver(0)
	if err != nil {
		return nil, err
	}
	return &runner.Runner{
		Config:      cfg,
		Dispatcher:  &dispatch.DefaultDispatcher{Logger: logger.Named("dispatch")},
		Resolver:    resolver,
		Logger:      logger.Named("runner"),
		ProjectRoot: root,
		StateDir:    filepath.Join(root, ".nuke"),
		Facts:       config.CurrentFacts(),
	}, nil
}

func plan(cmd *cli.Command) (*runner.Runner, *runner.Plan, error) {
	if cmd.Args().Len() < 2 {
		return nil, nil, fmt.Errorf("usage: nuke %s <tool> <command> [options]", cmd.Name)
	}
	root, cfg, err := project()
	if err != nil {
		return nil, nil, err
	}
	r, err := newRunner(root, cfg)
	if err != nil {
		return nil, nil, err
	}
	muts := mutations(os.Args[1:])
	logger.Debug("%d mutations for %s %s", len(muts), cmd.Args().Get(0), cmd.Args().Get(1))
	p, err := r.Plan(cmd.Args().Get(0), cmd.Args().Get(1), muts)
	if err != nil {
		return nil, nil, err
	}
	return r, p, nil
}

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Print the arguments a command would run with",
		ArgsUsage: "<tool> <command>",
		Flags: append(mutationFlags(),
			&cli.BoolFlag{Name: "show-secrets", Usage: "Print secret values instead of [REDACTED]"},
			&cli.BoolFlag{Name: "lines", Usage: "Print one argument per line"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, p, err := plan(cmd)
			if err != nil {
				return err
			}
			argv := p.DisplayArgv()
			if cmd.Bool("show-secrets") {
				argv = p.Argv()
			}
			if cmd.Bool("lines") {
				ux.Tokens(argv)
				return nil
			}
			fmt.Fprintln(ux.Out, options.JoinForDisplay(append([]string{p.Tool.Executable}, argv...)))
			return nil
		},
	}
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run a configured tool command",
		ArgsUsage: "<tool> <command>",
		Flags: append(mutationFlags(),
			&cli.DurationFlag{Name: "timeout", Usage: "Override the command timeout"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Do not echo tool output"},
			&cli.StringFlag{Name: "image", Usage: "Run inside this docker image", Category: "Docker"},
			&cli.StringFlag{Name: "platform", Usage: "Docker image platform", Category: "Docker"},
			&cli.BoolFlag{Name: "pull", Usage: "Always pull the image", Category: "Docker"},
			&cli.StringSliceFlag{Name: "env-file", Usage: "Extra dotenv files for the container", Category: "Docker"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			r, p, err := plan(cmd)
			if err != nil {
				return err
			}
			if cmd.String("image") == "" {
				if _, err := r.Resolver.Resolve(p.Tool.Executable); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			entry, err := r.Run(ctx, p, runner.RunOptions{
				Quiet:    cmd.Bool("quiet"),
				Timeout:  cmd.Duration("timeout"),
				Image:    cmd.String("image"),
				Platform: cmd.String("platform"),
				Pull:     cmd.Bool("pull"),
				EnvFiles: cmd.StringSlice("env-file"),
			})
			if err != nil && entry != nil && entry.ID != "" {
				ux.Hint(fmt.Sprintf("output saved to %s", history.LogPath(r.StateDir, entry.ID)))
			}
			return err
		},
	}
}

func toolsCmd() *cli.Command {
	return &cli.Command{
		Name:  "tools",
		Usage: "List configured tools and commands",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Show options"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, cfg, err := project()
			if err != nil {
				return err
			}
			ux.RenderTools(cfg, cmd.Bool("verbose"))
			return nil
		},
	}
}

func historyCmd() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent runs",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 10, Usage: "Number of runs to show"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			root, err := findProjectRoot()
			if err != nil {
				return err
			}
			h, err := history.Load(filepath.Join(root, ".nuke"))
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}
			ux.RenderHistory(h.Last(int(cmd.Int("count"))))
			return nil
		},
	}
}

func doctorCmd() *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "Check that every configured executable can be found",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			root, cfg, err := project()
			if err != nil {
				return err
			}
			r, err := newRunner(root, cfg)
			if err != nil {
				return err
			}
			if err := r.Preflight(); err != nil {
				return err
			}
			fmt.Fprintf(ux.Out, "%s✓ all %d tools found%s\n", ux.Green, len(cfg.Tools), ux.Reset)
			return nil
		},
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a new .nuke/ directory with an example tools file",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			return scaffold.Init(dir)
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Fprint(ux.Out, "\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Fprintf(ux.Out, "  %-14s %s\n", t.Name, t.Summary)
				}
				fmt.Fprintln(ux.Out, "\nRun 'nuke docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Fprint(ux.Out, t.Content)
			return nil
		},
	}
}

// findProjectRoot walks up from cwd looking for .nuke/tools.yaml.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		configPath := filepath.Join(dir, ".nuke", "tools.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no .nuke/tools.yaml found (searched from cwd to root); run 'nuke init'")
		}
		dir = parent
	}
}
