package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/philipp01105/hlog/appender"
	"github.com/philipp01105/hlog/core"
)

// Appender types.
const (
	TypeConsole = "console"
	TypeFile    = "file"
	TypeAsync   = "async"
	TypeMulti   = "multi"
	TypeZap     = "zap"
	TypeNull    = "null"
	// TypeDiscard is another name for TypeNull.
	TypeDiscard = "discard"
)

// ErrUnknownAppender is wrapped by validation errors for references to
// appenders that are not defined.
var ErrUnknownAppender = errors.New("unknown appender")

// Config is a complete hierarchy configuration.
type Config struct {
	Root      LoggerConfig              `yaml:"root"`
	Disable   string                    `yaml:"disable"`
	Loggers   map[string]LoggerConfig   `yaml:"loggers"`
	Appenders map[string]AppenderConfig `yaml:"appenders"`
}

// LoggerConfig configures one logger.
type LoggerConfig struct {
	// Level is a level name; empty inherits (root: keep the default)
	Level string `yaml:"level"`
	// Additivity defaults to true
	Additivity *bool `yaml:"additivity"`
	// Appenders lists appender names, attached in order
	Appenders []string `yaml:"appenders"`
}

// AppenderConfig configures one appender. Which fields apply depends on Type.
type AppenderConfig struct {
	Type      string `yaml:"type"`
	Threshold string `yaml:"threshold"`

	// Formatting (console, file)
	Format           string `yaml:"format"`
	IncludeCaller    bool   `yaml:"include_caller"`
	IncludeGoroutine bool   `yaml:"include_goroutine"`
	TimestampFormat  string `yaml:"timestamp_format"`

	// console
	Target string `yaml:"target"`

	// file
	Filename   string `yaml:"filename"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`

	// BufferSize is the write buffer of a file appender in bytes, or the
	// queue length of an async appender
	BufferSize int `yaml:"buffer_size"`

	// async
	Overflow     string        `yaml:"overflow"`
	BlockTimeout time.Duration `yaml:"block_timeout"`
	DrainTimeout time.Duration `yaml:"drain_timeout"`

	// zap
	Encoding string `yaml:"encoding"`
	Output   string `yaml:"output"`

	// async, multi
	Appenders []string `yaml:"appenders"`
}

// UnmarshalYAML decodes an appender definition. An unquoted
// `type: null` is a YAML null rather than a string, so it is read as
// TypeNull; an empty `type:` stays empty.
func (ac *AppenderConfig) UnmarshalYAML(n *yaml.Node) error {
	type plain AppenderConfig
	if err := n.Decode((*plain)(ac)); err != nil {
		return err
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Value == "type" && v.ShortTag() == "!!null" && v.Value != "" {
			ac.Type = TypeNull
		}
	}
	return nil
}

// Default returns a configuration with a DEBUG root logging text to stdout.
func Default() *Config {
	return &Config{
		Root: LoggerConfig{
			Level:     "DEBUG",
			Appenders: []string{"console"},
		},
		Appenders: map[string]AppenderConfig{
			"console": {Type: TypeConsole, Target: "stdout", Format: "text"},
		},
	}
}

// Load reads, parses and validates the YAML file at path, then applies
// environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses and validates YAML, then applies environment overrides.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks levels, appender definitions and references.
func (c *Config) Validate() error {
	var errs []error

	if c.Root.Level != "" {
		if l, ok := core.LevelFromString(c.Root.Level); !ok {
			errs = append(errs, fmt.Errorf("root.level: unknown level %q", c.Root.Level))
		} else if l == core.NotSetLevel {
			errs = append(errs, errors.New("root.level: the root logger needs an explicit level"))
		}
	}
	if c.Disable != "" {
		if _, ok := core.LevelFromString(c.Disable); !ok {
			errs = append(errs, fmt.Errorf("disable: unknown level %q", c.Disable))
		}
	}

	errs = append(errs, c.checkRefs("root", c.Root.Appenders)...)
	for _, name := range sortedKeys(c.Loggers) {
		lc := c.Loggers[name]
		if name == "" {
			errs = append(errs, errors.New("loggers: empty logger name"))
		}
		if lc.Level != "" {
			if _, ok := core.LevelFromString(lc.Level); !ok {
				errs = append(errs, fmt.Errorf("loggers.%s.level: unknown level %q", name, lc.Level))
			}
		}
		errs = append(errs, c.checkRefs("loggers."+name, lc.Appenders)...)
	}

	for _, name := range sortedKeys(c.Appenders) {
		errs = append(errs, c.validateAppender(name, c.Appenders[name])...)
	}
	if cycle := c.findCycle(); cycle != "" {
		errs = append(errs, errors.New("appenders: cycle through "+cycle))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %w", multierr.Combine(errs...))
	}
	return nil
}

func (c *Config) checkRefs(path string, names []string) []error {
	var errs []error
	for _, n := range names {
		if _, ok := c.Appenders[n]; !ok {
			errs = append(errs, fmt.Errorf("%s.appenders: %w %q", path, ErrUnknownAppender, n))
		}
	}
	return errs
}

func (c *Config) validateAppender(name string, ac AppenderConfig) []error {
	var errs []error
	path := "appenders." + name

	if ac.Threshold != "" {
		if _, ok := core.LevelFromString(ac.Threshold); !ok {
			errs = append(errs, fmt.Errorf("%s.threshold: unknown level %q", path, ac.Threshold))
		}
	}
	switch strings.ToLower(ac.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%s.format: unknown format %q", path, ac.Format))
	}

	switch strings.ToLower(ac.Type) {
	case TypeConsole:
		switch strings.ToLower(ac.Target) {
		case "", "stdout", "stderr":
		default:
			errs = append(errs, fmt.Errorf("%s.target: must be stdout or stderr", path))
		}
	case TypeFile:
		if ac.Filename == "" {
			errs = append(errs, errors.New(path+".filename is required"))
		}
		if ac.MaxSizeMB < 0 || ac.MaxBackups < 0 || ac.MaxAgeDays < 0 || ac.BufferSize < 0 {
			errs = append(errs, errors.New(path+": sizes and counts must not be negative"))
		}
	case TypeAsync:
		if ac.Overflow != "" {
			if _, ok := appender.ParseOverflowPolicy(ac.Overflow); !ok {
				errs = append(errs, fmt.Errorf("%s.overflow: unknown policy %q", path, ac.Overflow))
			}
		}
		if len(ac.Appenders) == 0 {
			errs = append(errs, errors.New(path+".appenders: async appender needs at least one appender"))
		}
		errs = append(errs, c.checkRefs(path, ac.Appenders)...)
	case TypeMulti:
		errs = append(errs, c.checkRefs(path, ac.Appenders)...)
	case TypeZap:
		switch strings.ToLower(ac.Encoding) {
		case "", "json", "console":
		default:
			errs = append(errs, fmt.Errorf("%s.encoding: must be json or console", path))
		}
	case TypeNull, TypeDiscard:
	case "":
		errs = append(errs, errors.New(path+".type is required"))
	default:
		errs = append(errs, fmt.Errorf("%s.type: unknown type %q", path, ac.Type))
	}
	return errs
}

// findCycle returns the name of an appender that reaches itself through
// the appenders lists of composites, or "".
func (c *Config) findCycle() string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(c.Appenders))
	var visit func(string) bool
	visit = func(name string) bool {
		switch state[name] {
		case visiting:
			return true
		case done:
			return false
		}
		state[name] = visiting
		for _, child := range c.Appenders[name].Appenders {
			if _, ok := c.Appenders[child]; ok && visit(child) {
				return true
			}
		}
		state[name] = done
		return false
	}
	for _, name := range sortedKeys(c.Appenders) {
		if visit(name) {
			return name
		}
	}
	return ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
