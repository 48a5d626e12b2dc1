package main

import (
	"strings"

	"github.com/dansiegel/nuke/internal/runner"
)

// mutations recovers mutation flags from raw arguments in the order they
// were given. The cli library groups repeated flags by name, which loses
// the interleaving that --add/--remove pairs depend on.
func mutations(args []string) []runner.Mutation {
	verbs := make(map[string]bool, len(runner.Verbs))
	for _, v := range runner.Verbs {
		verbs[v] = true
	}

	var out []runner.Mutation
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			break
		}
		if !strings.HasPrefix(a, "-") {
			continue
		}
		name, value, inline := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if !verbs[name] {
			continue
		}
		if !inline {
			if i+1 >= len(args) {
				break
			}
			i++
			value = args[i]
		}
		out = append(out, runner.Mutation{Verb: name, Arg: value})
	}
	return out
}
