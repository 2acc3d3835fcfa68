package scan

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v9"
	"github.com/lewtec/drivescan/internal/composer"
	"github.com/lewtec/drivescan/internal/editor"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override
const EnvPrefix = "DRIVESCAN_"

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	Database string        `yaml:"database" env:"DATABASE"`
	Storage  StorageConfig `yaml:"storage" envPrefix:"STORAGE_"`
	Page     PageConfig    `yaml:"page" envPrefix:"PAGE_"`
	Editor   EditorConfig  `yaml:"editor" envPrefix:"EDITOR_"`
	HTTP     HTTPConfig    `yaml:"http" envPrefix:"HTTP_"`
}

type StorageConfig struct {
	Backend string      `yaml:"backend" env:"BACKEND"`
	Redis   RedisConfig `yaml:"redis" envPrefix:"REDIS_"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
}

type PageConfig struct {
	Format      string  `yaml:"format" env:"FORMAT"`
	Margin      float64 `yaml:"margin" env:"MARGIN"`
	JPEGQuality int     `yaml:"jpeg_quality" env:"JPEG_QUALITY"`
}

type EditorConfig struct {
	MaxPreview int `yaml:"max_preview" env:"MAX_PREVIEW"`
}

type HTTPConfig struct {
	Listen string `yaml:"listen" env:"LISTEN"`
}

// DefaultConfig is what an empty config file means
func DefaultConfig() *Config {
	return &Config{
		Database: "drivescan.db",
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Page: PageConfig{
			Format:      composer.A4.Name,
			JPEGQuality: composer.DefaultQuality,
		},
		Editor: EditorConfig{MaxPreview: editor.DefaultMaxPreview},
		HTTP:   HTTPConfig{Listen: "127.0.0.1:8080"},
	}
}

// LoadConfig reads the YAML file over the defaults and then applies
// DRIVESCAN_* environment overrides. A missing file is not an error.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()
	if filename != "" {
		f, err := os.Open(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			defer f.Close()
			if err := cfg.decode(f); err != nil {
				return nil, fmt.Errorf("while parsing config '%s': %w", filename, err)
			}
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("while reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// Validate checks the settings that cannot be fixed with a default
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Database == "" {
			return fmt.Errorf("storage backend sqlite needs a database path")
		}
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage backend redis needs an address")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if _, err := c.PageFormat(); err != nil {
		return err
	}
	if c.Page.JPEGQuality < 1 || c.Page.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality %d out of range 1-100", c.Page.JPEGQuality)
	}
	if c.Editor.MaxPreview <= 0 {
		return fmt.Errorf("editor max_preview must be positive")
	}
	return nil
}

// PageFormat resolves the configured page format with its margin
func (c *Config) PageFormat() (composer.PageFormat, error) {
	format, err := composer.LookupFormat(c.Page.Format)
	if err != nil {
		return composer.PageFormat{}, err
	}
	format = format.WithMargin(c.Page.Margin)
	if w, h := format.ContentSize(); c.Page.Margin < 0 || w <= 0 || h <= 0 {
		return composer.PageFormat{}, fmt.Errorf("page margin %g does not fit %s", c.Page.Margin, format.Name)
	}
	return format, nil
}

// WriteConfig stores cfg as YAML
func WriteConfig(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
