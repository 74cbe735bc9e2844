// Package config loads the esm command's settings from TOML or YAML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the complete command configuration
type Config struct {
	Log       LogConfig       `toml:"log" yaml:"log"`
	Report    ReportConfig    `toml:"report" yaml:"report"`
	Divide    DivideConfig    `toml:"divide" yaml:"divide"`
	Trace     TraceConfig     `toml:"trace" yaml:"trace"`
	Propagate PropagateConfig `toml:"propagate" yaml:"propagate"`
	Resources ResourcesConfig `toml:"resources" yaml:"resources"`
	Bank      BankConfig      `toml:"bank" yaml:"bank"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// ReportConfig holds terminal report settings
type ReportConfig struct {
	Format string `toml:"format" yaml:"format"`
}

// DivideConfig holds the operands of the divide scenario
type DivideConfig struct {
	Numerators   []int `toml:"numerators" yaml:"numerators"`
	Denominators []int `toml:"denominators" yaml:"denominators"`
}

// TraceConfig holds the stack trace scenario settings
type TraceConfig struct {
	Size  int `toml:"size" yaml:"size"`
	Index int `toml:"index" yaml:"index"`
}

// PropagateConfig names the file the propagation scenario opens
type PropagateConfig struct {
	File string `toml:"file" yaml:"file"`
}

// ResourcesConfig holds the resource scenario settings. An empty Root means an
// in-memory filesystem.
type ResourcesConfig struct {
	Root         string   `toml:"root" yaml:"root"`
	File         string   `toml:"file" yaml:"file"`
	ReleaseDelay Duration `toml:"release_delay" yaml:"release_delay"`
}

// BankConfig holds the bank account scenario settings
type BankConfig struct {
	Balance int `toml:"balance" yaml:"balance"`
	Amount  int `toml:"amount" yaml:"amount"`
}

// Duration wraps time.Duration for text parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults(func(...string) bool { return false })
	return cfg
}

// definedFunc reports whether a dotted key path was set in the config file.
type definedFunc func(key ...string) bool

// Load reads configuration from path. The format follows the extension:
// .toml, or .yaml/.yml. An empty path yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var (
		cfg     Config
		defined definedFunc
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		defined = md.IsDefined
	case ".yaml", ".yml":
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		if doc.Kind != 0 {
			if err := doc.Decode(&cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
		defined = yamlDefined(&doc)
	default:
		return nil, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}

	cfg.applyDefaults(defined)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// yamlDefined looks keys up in a decoded YAML document. A key with a null
// value counts as missing.
func yamlDefined(doc *yaml.Node) definedFunc {
	return func(key ...string) bool {
		n := doc
		if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
			n = n.Content[0]
		}
		for _, k := range key {
			if n.Kind != yaml.MappingNode {
				return false
			}
			var next *yaml.Node
			for i := 0; i+1 < len(n.Content); i += 2 {
				if n.Content[i].Value == k {
					next = n.Content[i+1]
					break
				}
			}
			if next == nil {
				return false
			}
			n = next
		}
		return n.Tag != "!!null"
	}
}

// applyDefaults sets default values for missing configuration. Numeric
// settings are defaulted only when their key is absent, so an explicit zero
// is kept.
func (c *Config) applyDefaults(defined definedFunc) {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Report.Format == "" {
		c.Report.Format = "text"
	}

	// Divide: the third pair divides by zero.
	if !defined("divide", "numerators") && !defined("divide", "denominators") {
		c.Divide.Numerators = []int{1, 2, 3, 4, 6}
		c.Divide.Denominators = []int{1, 2, 0, 4, 6}
	}

	if !defined("trace", "size") {
		c.Trace.Size = 3
	}
	if !defined("trace", "index") {
		c.Trace.Index = 5
	}

	if c.Propagate.File == "" {
		c.Propagate.File = "nonexistent.txt"
	}

	if c.Resources.File == "" {
		c.Resources.File = "example.txt"
	}

	if !defined("bank", "balance") {
		c.Bank.Balance = 100
	}
	if !defined("bank", "amount") {
		c.Bank.Amount = 150
	}
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	var problems []string

	if _, err := c.Log.SlogLevel(); err != nil {
		problems = append(problems, fmt.Sprintf("log.level: %v", err))
	}
	if !oneOf(c.Log.Format, "text", "json") {
		problems = append(problems, fmt.Sprintf("log.format: %q is not text or json", c.Log.Format))
	}
	if !oneOf(c.Report.Format, "text", "json") {
		problems = append(problems, fmt.Sprintf("report.format: %q is not text or json", c.Report.Format))
	}
	if c.Trace.Size < 0 {
		problems = append(problems, "trace.size: must not be negative")
	}
	if c.Resources.ReleaseDelay.Duration < 0 {
		problems = append(problems, "resources.release_delay: must not be negative")
	}
	if c.Bank.Balance < 0 {
		problems = append(problems, "bank.balance: must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// SlogLevel parses Level ("debug", "info", "warn", "error").
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, err
	}
	return lvl, nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
