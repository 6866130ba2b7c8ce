package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcncl/jsontree/internal/graph"
	"gopkg.in/yaml.v3"
)

// Output formats understood by the renderer.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// Config represents the complete configuration for jsontree
type Config struct {
	Layout LayoutConfig `yaml:"layout"`
	Render RenderConfig `yaml:"render"`
	Server ServerConfig `yaml:"server"`
	Dev    DevConfig    `yaml:"dev"`
}

// LayoutConfig controls node spacing
type LayoutConfig struct {
	LevelXGap   float64 `yaml:"level_x_gap"`
	SiblingYGap float64 `yaml:"sibling_y_gap"`
}

// RenderConfig controls graph output
type RenderConfig struct {
	Format         string  `yaml:"format"`
	HighlightColor string  `yaml:"highlight_color"`
	Palette        Palette `yaml:"palette"`
}

// Palette holds the colours used for each node kind
type Palette struct {
	Object    Colors `yaml:"object"`
	Array     Colors `yaml:"array"`
	Primitive Colors `yaml:"primitive"`
}

// Colors is the fill, text and border colour of one node kind
type Colors struct {
	Fill   string `yaml:"fill"`
	Text   string `yaml:"text"`
	Border string `yaml:"border"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Layout: LayoutConfig{
			LevelXGap:   graph.LevelXGap,
			SiblingYGap: graph.SiblingYGap,
		},
		Render: RenderConfig{
			Format:         FormatJSON,
			HighlightColor: "#facc15",
			Palette: Palette{
				Object:    Colors{Fill: "#1e1b4b", Text: "#ddd6fe", Border: "#3730a3"},
				Array:     Colors{Fill: "#064e3b", Text: "#d1fae5", Border: "#065f46"},
				Primitive: Colors{Fill: "#7c2d12", Text: "#ffedd5", Border: "#9a3412"},
			},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 10 << 20,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsontree.yml", ".jsontree.yaml", "jsontree.yml", "jsontree.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks that the configuration can be used
func (c *Config) Validate() error {
	if c.Layout.LevelXGap <= 0 {
		return fmt.Errorf("layout.level_x_gap must be positive, got %v", c.Layout.LevelXGap)
	}
	if c.Layout.SiblingYGap <= 0 {
		return fmt.Errorf("layout.sibling_y_gap must be positive, got %v", c.Layout.SiblingYGap)
	}
	if !IsFormat(c.Render.Format) {
		return fmt.Errorf("render.format must be one of json, dot, svg; got %q", c.Render.Format)
	}
	for _, entry := range []struct {
		name   string
		colors Colors
	}{
		{"object", c.Render.Palette.Object},
		{"array", c.Render.Palette.Array},
		{"primitive", c.Render.Palette.Primitive},
	} {
		if entry.colors.Fill == "" || entry.colors.Text == "" || entry.colors.Border == "" {
			return fmt.Errorf("render.palette.%s must set fill, text and border", entry.name)
		}
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	return nil
}

// IsFormat reports whether format names a supported output format
func IsFormat(format string) bool {
	switch strings.ToLower(format) {
	case FormatJSON, FormatDOT, FormatSVG:
		return true
	}
	return false
}

// LayoutOptions returns the graph builder options for this configuration
func (c *Config) LayoutOptions() graph.Options {
	return graph.Options{LevelXGap: c.Layout.LevelXGap, SiblingYGap: c.Layout.SiblingYGap}
}

// For returns the palette entry for a node kind
func (p Palette) For(kind graph.Kind) Colors {
	switch kind {
	case graph.KindObject:
		return p.Object
	case graph.KindArray:
		return p.Array
	default:
		return p.Primitive
	}
}

// LoadConfigWithCLI loads config with CLI argument precedence.
// Empty CLI values leave the file or default value in place.
func LoadConfigWithCLI(configPath, cliFormat, cliAddr string, cliDebug bool) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cliFormat != "" {
		cfg.Render.Format = strings.ToLower(cliFormat)
	}
	if cliAddr != "" {
		cfg.Server.Addr = cliAddr
	}
	// A debug flag can only turn debugging on.
	if cliDebug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
