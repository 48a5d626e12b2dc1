package dispatch

import (
	"os"
)

// ExpandVars substitutes $VAR and ${VAR} in template using vars, falling
// back to the process environment.
func ExpandVars(template string, vars map[string]string) string {
	return os.Expand(template, func(key string) string {
		if v, ok := vars[key]; ok {
			return v
		}
		return os.Getenv(key)
	})
}

// ExpandEnv expands every value of env against vars and the process
// environment. The input map is not modified.
func ExpandEnv(env map[string]string, vars map[string]string) map[string]string {
	if env == nil {
		return nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = ExpandVars(v, vars)
	}
	return out
}
