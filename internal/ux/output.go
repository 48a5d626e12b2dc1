package ux

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dansiegel/nuke/internal/options"
)

// ANSI color helpers
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

// Out is where all ux output goes. Tests swap it.
var Out io.Writer = os.Stdout

func timestamp() string {
	return time.Now().Format("15:04:05")
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %02ds", m, s)
}

// InvocationHeader prints the redacted command line about to run.
func InvocationHeader(tool, command string, display []string) {
	fmt.Fprintf(Out, "\n%s[%s]%s %s══════════════════════════════════════%s\n",
		Dim, timestamp(), Reset, Cyan, Reset)
	fmt.Fprintf(Out, "%s[%s]%s  %s%s %s%s\n",
		Dim, timestamp(), Reset, Bold, tool, command, Reset)
	if len(display) > 0 {
		fmt.Fprintf(Out, "%s[%s]%s  %s%s%s\n",
			Dim, timestamp(), Reset, Dim, options.JoinForDisplay(display), Reset)
	}
	fmt.Fprintf(Out, "%s[%s]%s %s══════════════════════════════════════%s\n",
		Dim, timestamp(), Reset, Cyan, Reset)
}

// Complete prints a completion message.
func Complete(tool string, duration time.Duration) {
	fmt.Fprintf(Out, "%s[%s]%s  %s✓ %s complete (%s)%s\n",
		Dim, timestamp(), Reset, Green, tool, formatDuration(duration), Reset)
}

// Fail prints a failure message.
func Fail(tool, errMsg string) {
	fmt.Fprintf(Out, "%s[%s]%s  %s✗ %s failed: %s%s\n",
		Dim, timestamp(), Reset, Red, tool, errMsg, Reset)
}

// Hint prints a follow-up suggestion.
func Hint(msg string) {
	fmt.Fprintf(Out, "\n%sHint:%s %s\n", Yellow, Reset, msg)
}

// Tokens prints one argument per line, the way render shows them.
func Tokens(tokens []string) {
	for i, tok := range tokens {
		fmt.Fprintf(Out, "  %s%2d%s  %s\n", Dim, i, Reset, strings.TrimSpace(options.JoinForDisplay([]string{tok})))
	}
}
