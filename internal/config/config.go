package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dansiegel/nuke/internal/options"
)

// Option declares one option of a command or named schema.
type Option struct {
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"`
	Description string `yaml:"description"`
	Format      string `yaml:"format"`
	AltFormat   string `yaml:"alt-format"`
	EmptyFormat string `yaml:"empty-format"`
	Position    *int   `yaml:"position"`
	Secret      bool   `yaml:"secret"`
	Separator   string `yaml:"separator"`
	Formatter   string `yaml:"formatter"`
	Container   string `yaml:"container"`
	Schema      string `yaml:"schema"`
}

// Preset applies values when its CEL condition holds. An empty condition
// always holds.
type Preset struct {
	When    string                    `yaml:"when"`
	Set     map[string]any            `yaml:"set"`
	Add     map[string][]any          `yaml:"add"`
	Entries map[string]map[string]any `yaml:"entries"`
}

type Command struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Arguments   string   `yaml:"arguments"`
	Timeout     int      `yaml:"timeout"`
	Options     []Option `yaml:"options"`
	Presets     []Preset `yaml:"presets"`
}

// TimeoutDuration returns the command timeout; zero means none.
func (c *Command) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Minute
}

// SchemaDef is a named option set referenced by nested options.
type SchemaDef struct {
	Name    string   `yaml:"name"`
	Options []Option `yaml:"options"`
}

type Tool struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Executable  string            `yaml:"executable"`
	Env         map[string]string `yaml:"env"`
	Commands    []Command         `yaml:"commands"`
	Schemas     []SchemaDef       `yaml:"schemas"`
}

type Config struct {
	// Formatters maps formatter names to expr-lang expressions.
	Formatters map[string]string `yaml:"formatters"`
	Tools      []Tool            `yaml:"tools"`

	mu    sync.Mutex
	built map[string]*options.Schema
}

// Load reads a YAML tools file and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a tools document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Tool returns the named tool.
func (c *Config) Tool(name string) (*Tool, error) {
	for i := range c.Tools {
		if c.Tools[i].Name == name {
			return &c.Tools[i], nil
		}
	}
	return nil, fmt.Errorf("config: unknown tool %q", name)
}

// Command returns the named command of a tool.
func (c *Config) Command(tool, command string) (*Tool, *Command, error) {
	t, err := c.Tool(tool)
	if err != nil {
		return nil, nil, err
	}
	for i := range t.Commands {
		if t.Commands[i].Name == command {
			return t, &t.Commands[i], nil
		}
	}
	return nil, nil, fmt.Errorf("config: tool %q has no command %q", tool, command)
}

// FormatterRegistry returns the built-in formatters plus every expression
// formatter declared in the file.
func (c *Config) FormatterRegistry() (*options.FormatterRegistry, error) {
	reg := options.DefaultFormatters()
	for _, name := range sortedKeys(c.Formatters) {
		if err := reg.RegisterExpr(name, c.Formatters[name]); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return reg, nil
}
