package dispatch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"

	"github.com/dansiegel/nuke/internal/log"
)

// Run starts inv.ToolPath with inv.Args and waits for it. A non-zero exit is
// reported through Result.ExitCode, not as an error; errors mean the process
// could not be started, timed out, or ctx was cancelled.
func Run(ctx context.Context, inv Invocation, logger *log.Logger) (*Result, error) {
	if inv.ToolPath == "" {
		return nil, fmt.Errorf("dispatch: tool path is required")
	}
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	id := uuid.Must(uuid.NewV7()).String()
	logger.Info("%s: %s", id, describe(inv))

	cmd := exec.CommandContext(ctx, inv.ToolPath, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = BuildEnv(inv.Env)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
	}
	cmd.WaitDelay = 5 * time.Second

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("dispatch: starting %s: %w", inv.ToolPath, err)
	}

	var c collector
	var wg sync.WaitGroup
	wg.Add(2)
	go c.scan(&wg, stdout, Std, inv.CaptureStdout, echoTo(inv.Echo, os.Stdout))
	go c.scan(&wg, stderr, Err, inv.CaptureStderr, echoTo(inv.Echo, os.Stderr))
	// pipes must be drained before Wait closes them
	wg.Wait()

	code, waitErr := exitCode(cmd.Wait())
	result := &Result{ID: id, ExitCode: code, Output: c.lines, Duration: time.Since(start)}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if inv.Timeout > 0 && errors.Is(ctxErr, context.DeadlineExceeded) {
			logger.Warn("%s: timed out after %s", id, inv.Timeout)
			return result, fmt.Errorf("%w after %s: %s", ErrTimeout, inv.Timeout, inv.ToolPath)
		}
		return result, ctxErr
	}
	if waitErr != nil {
		return nil, waitErr
	}
	logger.Debug("%s: exit %d in %s", id, code, result.Duration.Round(time.Millisecond))
	return result, nil
}

func describe(inv Invocation) string {
	if inv.Display == nil {
		return fmt.Sprintf("%s <%d arguments>", inv.ToolPath, len(inv.Args))
	}
	return shellquote.Join(append([]string{inv.ToolPath}, inv.Display...)...)
}

func echoTo(echo bool, w io.Writer) io.Writer {
	if !echo {
		return nil
	}
	return w
}

type collector struct {
	mu    sync.Mutex
	lines []Output
}

func (c *collector) scan(wg *sync.WaitGroup, r io.Reader, typ OutputType, capture bool, echo io.Writer) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if echo != nil {
			fmt.Fprintln(echo, line)
		}
		if capture {
			c.mu.Lock()
			c.lines = append(c.lines, Output{Type: typ, Text: line})
			c.mu.Unlock()
		}
	}
	// an over-long line stops the scanner; keep the pipe flowing
	io.Copy(io.Discard, r)
}
