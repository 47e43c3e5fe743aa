package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/BenJenkinson/react-spaces/pkg/errors"
	"github.com/BenJenkinson/react-spaces/pkg/pipeline"
)

const (
	// defaultCellWidth and defaultCellHeight map terminal cells to layout
	// pixels in the TUI.
	defaultCellWidth  = 8.0
	defaultCellHeight = 16.0
)

// Config is the optional user config file. Zero values mean "not set":
// the layout document or the pipeline defaults decide.
type Config struct {
	Width      float64  `toml:"width"`
	Height     float64  `toml:"height"`
	Formats    []string `toml:"formats"`
	HandleSize float64  `toml:"handle_size"`
	CellWidth  float64  `toml:"cell_width"`
	CellHeight float64  `toml:"cell_height"`
	Cache      *bool    `toml:"cache"`

	// RedisURL selects a shared Redis artifact cache instead of the
	// cache directory.
	RedisURL string `toml:"redis_url"`
}

// DefaultConfig returns the config used when no file exists.
func DefaultConfig() Config {
	return Config{
		CellWidth:  defaultCellWidth,
		CellHeight: defaultCellHeight,
	}
}

// CacheEnabled reports whether artifacts should be cached. Caching is on
// unless the config turns it off.
func (c Config) CacheEnabled() bool {
	return c.Cache == nil || *c.Cache
}

// LoadConfig reads the config at path. An empty path means the default
// location, where a missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFile)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	if cfg.CellWidth == 0 {
		cfg.CellWidth = defaultCellWidth
	}
	if cfg.CellHeight == 0 {
		cfg.CellHeight = defaultCellHeight
	}
	return cfg, nil
}

// Validate rejects negative sizes and unknown formats.
func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"width":       c.Width,
		"height":      c.Height,
		"handle_size": c.HandleSize,
		"cell_width":  c.CellWidth,
		"cell_height": c.CellHeight,
	} {
		if v < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "%s must not be negative, got %g", name, v)
		}
	}
	return pipeline.ValidateFormats(c.Formats)
}
