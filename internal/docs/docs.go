package docs

import (
	"fmt"
	"strings"
)

// Topic is one built-in documentation page shown by 'nuke docs'.
type Topic struct {
	Name    string // argument to 'nuke docs'
	Title   string
	Summary string // shown in the topic list
	Content string // plain text, no ANSI
}

// All returns every topic in display order.
func All() []Topic {
	return topics
}

// Names lists topic names in display order.
func Names() []string {
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = t.Name
	}
	return names
}

// Get finds a topic by name, ignoring case. A unique prefix is enough, so
// 'nuke docs pre' opens presets.
func Get(name string) (Topic, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	var matches []Topic
	for _, t := range topics {
		if t.Name == name {
			return t, nil
		}
		if name != "" && strings.HasPrefix(t.Name, name) {
			matches = append(matches, t)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 {
		names := make([]string, len(matches))
		for i, t := range matches {
			names[i] = t.Name
		}
		return Topic{}, fmt.Errorf("topic %q is ambiguous: %s", name, strings.Join(names, ", "))
	}
	return Topic{}, fmt.Errorf("unknown topic %q (topics: %s)", name, strings.Join(Names(), ", "))
}
