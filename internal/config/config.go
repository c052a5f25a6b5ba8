package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// ProjectFile is the per-directory override, searched upward from the
// working directory.
const ProjectFile = ".kgview.toml"

// Config holds kgview configuration.
type Config struct {
	Canvas   CanvasConfig   `toml:"canvas"`
	Layout   LayoutConfig   `toml:"layout"`
	View     ViewConfig     `toml:"view"`
	Render   RenderConfig   `toml:"render"`
	Parallel ParallelConfig `toml:"parallel"`
	Log      LogConfig      `toml:"log"`
}

// CanvasConfig sets the drawing area.
type CanvasConfig struct {
	Width      int       `toml:"width" validate:"gte=1"`
	Height     Dimension `toml:"height" validate:"gte=1"`
	Background string    `toml:"background" validate:"hexcolor"`
}

// LayoutConfig tunes the force simulation.
type LayoutConfig struct {
	Iterations         int     `toml:"iterations" validate:"gte=0"`
	RelayoutIterations int     `toml:"relayout_iterations" validate:"gte=1"`
	Jitter             float64 `toml:"jitter" validate:"gte=0"`
	Seed               uint64  `toml:"seed"` // 0 derives the seed from the graph
	Cache              bool    `toml:"cache"`
}

// ViewConfig holds the initial view state.
type ViewConfig struct {
	NodeSize   float64 `toml:"node_size" validate:"gt=0"`
	ShowLabels bool    `toml:"show_labels"`
	TypeFilter string  `toml:"type_filter"`
}

// RenderConfig controls output files.
type RenderConfig struct {
	FontSize float64 `toml:"font_size" validate:"gt=0"`
	Format   string  `toml:"format" validate:"oneof=png svg"`
}

// ParallelConfig controls concurrent rendering.
type ParallelConfig struct {
	Concurrency int `toml:"concurrency" validate:"gte=1"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `toml:"level" validate:"oneof=debug info warn error"`
	Development bool   `toml:"development"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Canvas:   CanvasConfig{Width: 1200, Height: 600, Background: "#ffffff"},
		Layout:   LayoutConfig{Iterations: 100, RelayoutIterations: 200, Jitter: 25, Cache: true},
		View:     ViewConfig{NodeSize: 20, ShowLabels: true, TypeFilter: "all"},
		Render:   RenderConfig{FontSize: 12, Format: "png"},
		Parallel: ParallelConfig{Concurrency: 4},
		Log:      LogConfig{Level: "info"},
	}
}

// Dimension is a pixel length written as 600, "600" or "600px".
type Dimension int

// UnmarshalTOML accepts an integer or a pixel string.
func (d *Dimension) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		if x <= 0 {
			return fmt.Errorf("dimension must be positive, got %d", x)
		}
		*d = Dimension(x)
		return nil
	case string:
		n, err := ParseHeight(x)
		if err != nil {
			return err
		}
		*d = Dimension(n)
		return nil
	default:
		return fmt.Errorf("dimension must be an integer or a string like \"600px\", got %T", v)
	}
}

// MarshalText writes the CSS-style form.
func (d Dimension) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%dpx", int(d))), nil
}

// ParseHeight parses a display height: "600" or "600px".
func ParseHeight(s string) (int, error) {
	raw := strings.TrimSpace(s)
	num := strings.TrimSuffix(raw, "px")
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid height %q: want a positive pixel count like 600 or \"600px\"", s)
	}
	return n, nil
}

// ConfigDir returns the kgview config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "kgview")
}

// Path returns the user config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the user config and then the nearest project file over it.
// Missing files leave the defaults in place; malformed ones are errors.
func Load() (*Config, error) {
	cfg := Default()
	if err := overlay(cfg, Path()); err != nil {
		return nil, err
	}
	if p := findProjectConfig(); p != "" {
		if err := overlay(cfg, p); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// LoadFile reads one explicit config file over the defaults. Unlike Load,
// the file must exist.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := overlay(cfg, path); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func overlay(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

// findProjectConfig walks up from the working directory looking for
// ProjectFile.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		p := filepath.Join(dir, ProjectFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			problems := make([]error, 0, len(verrs))
			for _, fe := range verrs {
				problems = append(problems, fmt.Errorf("%s: fails %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %w", errors.Join(problems...))
		}
		return err
	}
	return nil
}

// Save writes the config to the user config path.
func Save(cfg *Config) error {
	return SaveFile(cfg, Path())
}

// SaveFile writes the config to path.
func SaveFile(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
// It reports whether a file was written.
func EnsureExists() (bool, error) {
	if _, err := os.Stat(Path()); err == nil {
		return false, nil
	}
	return true, Save(Default())
}
