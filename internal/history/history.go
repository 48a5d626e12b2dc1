package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// MaxEntries bounds the history file; older entries are dropped first.
const MaxEntries = 100

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusTimedOut  = "timed-out"
	StatusError     = "error"
)

// Entry records one tool invocation. Args are always the redacted form.
type Entry struct {
	ID       string    `json:"id"`
	Tool     string    `json:"tool"`
	Command  string    `json:"command"`
	Args     []string  `json:"args"`
	ExitCode int       `json:"exit_code"`
	Status   string    `json:"status"`
	Error    string    `json:"error,omitempty"`
	Start    time.Time `json:"start"`
	Duration string    `json:"duration,omitempty"`
}

type History struct {
	mu      sync.Mutex
	Entries []Entry `json:"entries"`
}

func historyPath(dir string) string {
	return filepath.Join(dir, "history.json")
}

// EnsureDir creates the state directory and its logs subdirectory.
func EnsureDir(dir string) error {
	for _, d := range []string{dir, filepath.Join(dir, "logs")} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("creating state dir %s: %w", d, err)
		}
	}
	return nil
}

// Load reads the history from dir. A missing file yields an empty history.
func Load(dir string) (*History, error) {
	data, err := os.ReadFile(historyPath(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &History{}, nil
		}
		return nil, err
	}
	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("history: %s: %w", historyPath(dir), err)
	}
	return &h, nil
}

// Save writes the history to dir.
func (h *History) Save(dir string) error {
	h.mu.Lock()
	data, err := json.MarshalIndent(h, "", "  ")
	h.mu.Unlock()
	if err != nil {
		return err
	}
	return writeFileAtomic(historyPath(dir), data, 0644)
}

// Add appends an entry, dropping the oldest entries beyond MaxEntries.
func (h *History) Add(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Entries = append(h.Entries, e)
	if over := len(h.Entries) - MaxEntries; over > 0 {
		h.Entries = append([]Entry(nil), h.Entries[over:]...)
	}
}

// Last returns up to n of the most recent entries, newest first.
func (h *History) Last(n int) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n <= 0 || n > len(h.Entries) {
		n = len(h.Entries)
	}
	out := make([]Entry, 0, n)
	for i := len(h.Entries) - 1; i >= len(h.Entries)-n; i-- {
		out = append(out, h.Entries[i])
	}
	return out
}

// Record loads the history in dir, appends e and saves it.
func Record(dir string, e Entry) error {
	if err := EnsureDir(dir); err != nil {
		return err
	}
	h, err := Load(dir)
	if err != nil {
		return err
	}
	h.Add(e)
	return h.Save(dir)
}

// LogPath returns the path of the captured output log of one invocation.
func LogPath(dir, id string) string {
	return filepath.Join(dir, "logs", id+".log")
}

// WriteLog stores captured output lines for one invocation.
func WriteLog(dir, id string, lines []string) error {
	if err := EnsureDir(dir); err != nil {
		return err
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return writeFileAtomic(LogPath(dir, id), []byte(b.String()), 0644)
}
