package dispatch

import (
	"context"
	"errors"
	"os"
	"sort"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/dansiegel/nuke/internal/log"
)

// ErrTimeout is returned when an invocation exceeds its timeout.
var ErrTimeout = errors.New("dispatch: process timed out")

// OutputType tells which stream a captured line came from.
type OutputType int

const (
	Std OutputType = iota
	Err
)

func (t OutputType) String() string {
	if t == Err {
		return "stderr"
	}
	return "stdout"
}

// Output is one captured line.
type Output struct {
	Type OutputType
	Text string
}

// Invocation describes one external process run.
type Invocation struct {
	ToolPath string
	Args     []string
	// Display is the redacted form of Args used in logs. When nil, only the
	// argument count is logged.
	Display []string
	Dir     string
	Env     map[string]string
	Timeout time.Duration

	CaptureStdout bool
	CaptureStderr bool
	// Echo copies output to the terminal as it arrives.
	Echo bool
}

// Result holds the outcome of an invocation.
type Result struct {
	ID       string
	ExitCode int
	Output   []Output
	Duration time.Duration
}

// Lines returns the captured lines of one stream.
func (r *Result) Lines(t OutputType) []string {
	var out []string
	for _, o := range r.Output {
		if o.Type == t {
			out = append(out, o.Text)
		}
	}
	return out
}

// ParseArgs splits a single joined argument string the way a POSIX shell
// would, so callers may pass either form.
func ParseArgs(line string) ([]string, error) {
	return shellquote.Split(line)
}

// BuildEnv returns the environment for child processes: the current
// environment with extra appended in key order. Later entries win.
func BuildEnv(extra map[string]string) []string {
	base := os.Environ()
	result := make([]string, len(base), len(base)+len(extra))
	copy(result, base)
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		result = append(result, k+"="+extra[k])
	}
	return result
}

// Dispatcher is the interface for running invocations. Tests can substitute a mock.
type Dispatcher interface {
	Dispatch(ctx context.Context, inv Invocation) (*Result, error)
}

// DefaultDispatcher runs invocations as real processes.
type DefaultDispatcher struct {
	Logger *log.Logger
}

func (d *DefaultDispatcher) Dispatch(ctx context.Context, inv Invocation) (*Result, error) {
	return Run(ctx, inv, d.Logger)
}
