package tool

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/hashicorp/golang-lru/v2"
)

// ErrNotFound is wrapped by Resolve when no executable matches.
var ErrNotFound = errors.New("tool: executable not found")

// Resolver maps tool names to executable paths. A NAME_EXE environment
// variable (upper-cased, '-' and '.' as '_') overrides the PATH lookup.
// Successful lookups are cached.
type Resolver struct {
	cache    *lru.Cache[string, string]
	lookPath func(string) (string, error)
	getenv   func(string) string
}

// NewResolver returns a resolver caching up to size lookups.
func NewResolver(size int) (*Resolver, error) {
	if size <= 0 {
		size = 64
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Resolver{cache: cache, lookPath: exec.LookPath, getenv: os.Getenv}, nil
}

// EnvVar returns the override variable consulted for name. Directory and
// extension are ignored, so "bin/nuget.exe" maps to NUGET_EXE.
func EnvVar(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	r := strings.NewReplacer("-", "_", ".", "_", " ", "_")
	return strings.ToUpper(r.Replace(base)) + "_EXE"
}

// Resolve returns the path of the named executable. name may also be an
// explicit path, which is checked but not searched.
func (r *Resolver) Resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("tool: empty executable name")
	}
	if path, ok := r.cache.Get(name); ok {
		return path, nil
	}

	path, err := r.resolve(name)
	if err != nil {
		return "", err
	}
	r.cache.Add(name, path)
	return path, nil
}

func (r *Resolver) resolve(name string) (string, error) {
	if override := r.getenv(EnvVar(name)); override != "" {
		if _, err := os.Stat(override); err != nil {
			return "", fmt.Errorf("%w: %s=%s: %v", ErrNotFound, EnvVar(name), override, err)
		}
		return override, nil
	}
	path, err := r.lookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return path, nil
}

// Forget drops a cached lookup, e.g. after the tool was installed.
func (r *Resolver) Forget(name string) {
	r.cache.Remove(name)
}
