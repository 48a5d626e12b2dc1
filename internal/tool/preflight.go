package tool

import (
	"fmt"
	"sort"
	"strings"
)

// Preflight checks that every named executable resolves, reporting all
// missing ones at once.
func Preflight(r *Resolver, names ...string) error {
	needed := make(map[string]bool)
	for _, n := range names {
		needed[n] = true
	}

	var missing []string
	for bin := range needed {
		if _, err := r.Resolve(bin); err != nil {
			missing = append(missing, bin)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("required executables not found: %s (set %s or add them to PATH)",
			strings.Join(missing, ", "), EnvVar(missing[0]))
	}
	return nil
}
