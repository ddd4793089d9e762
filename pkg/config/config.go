// Package config loads ridgeline settings.
//
// Settings come from three layers, later ones winning:
//
//  1. [Default] values
//  2. an optional TOML file (see [DefaultPath])
//  3. RIDGELINE_* environment variables
//
// Nested sections map to prefixed variables, for example
// RIDGELINE_SERVER_ADDR, RIDGELINE_CACHE_REDIS_URL and
// RIDGELINE_CONTACT_SERVICE_ID.
package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/matzehuels/ridgeline/pkg/backdrop"
	"github.com/matzehuels/ridgeline/pkg/contact"
	"github.com/matzehuels/ridgeline/pkg/errors"
	"github.com/matzehuels/ridgeline/pkg/nav"
	"github.com/matzehuels/ridgeline/pkg/noise"
	"github.com/matzehuels/ridgeline/pkg/pipeline"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "RIDGELINE_"

// Cache backends.
const (
	CacheFile   = "file"
	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"
)

// Content sources.
const (
	ContentEmbedded = "embedded"
	ContentTOML     = "toml"
	ContentMongo    = "mongo"
)

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server" envPrefix:"SERVER_"`
	Backdrop BackdropConfig `toml:"backdrop" envPrefix:"BACKDROP_"`
	Cache    CacheConfig    `toml:"cache" envPrefix:"CACHE_"`
	Content  ContentConfig  `toml:"content" envPrefix:"CONTENT_"`
	Contact  contact.Config `toml:"contact" envPrefix:"CONTACT_"`
	Nav      NavConfig      `toml:"nav" envPrefix:"NAV_"`
}

// ServerConfig configures `ridgeline serve`.
type ServerConfig struct {
	Addr            string        `toml:"addr" env:"ADDR"`
	ReadTimeout     time.Duration `toml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `toml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// BackdropConfig holds default render settings.
type BackdropConfig struct {
	Preset string `toml:"preset" env:"PRESET"`
	Noise  string `toml:"noise" env:"NOISE"`
	Seed   uint64 `toml:"seed" env:"SEED"`
	Width  int    `toml:"width" env:"WIDTH"`
	Height int    `toml:"height" env:"HEIGHT"`
	Frames int    `toml:"frames" env:"FRAMES"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend  string `toml:"backend" env:"BACKEND"`
	Dir      string `toml:"dir" env:"DIR"` // Empty uses the user cache directory
	RedisURL string `toml:"redis_url" env:"REDIS_URL"`
	Prefix   string `toml:"prefix" env:"PREFIX"` // Key namespace, see cache.ScopedKeyer
}

// ContentConfig selects the content registry.
type ContentConfig struct {
	Source        string `toml:"source" env:"SOURCE"`
	Path          string `toml:"path" env:"PATH"`
	MongoURI      string `toml:"mongo_uri" env:"MONGO_URI"`
	MongoDatabase string `toml:"mongo_database" env:"MONGO_DATABASE"`
}

// NavConfig holds measured section offsets for the scroll tracker, in
// pixels from the top of the page. RIDGELINE_NAV_OFFSETS takes
// "projects:900,clubs:2700".
type NavConfig struct {
	Offsets map[string]float64 `toml:"offsets" env:"OFFSETS"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Backdrop: BackdropConfig{
			Preset: backdrop.DefaultPreset,
			Seed:   pipeline.DefaultSeed,
			Width:  pipeline.DefaultWidth,
			Height: pipeline.DefaultHeight,
			Frames: pipeline.DefaultFrames,
		},
		Cache:   CacheConfig{Backend: CacheFile},
		Content: ContentConfig{Source: ContentEmbedded},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/ridgeline/config.toml, or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ridgeline", "config.toml"), nil
}

// Load reads the configuration. An empty path tries [DefaultPath] and
// tolerates its absence; a named file must exist.
func Load(path string) (Config, error) {
	return load(path, nil)
}

// load applies the layers. A nil environ reads the process environment.
func load(path string, environ map[string]string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		// No config file at the default path is the common case.
		err := decodeFile(path, &cfg)
		if err != nil && (explicit || !errors.Is(err, errors.ErrCodeFileNotFound)) {
			return Config{}, err
		}
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return err
	}
	defer f.Close()
	return Decode(f, cfg)
}

// Decode overlays TOML from r onto cfg. Unknown keys are errors.
func Decode(r io.Reader, cfg *Config) error {
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	return nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	v := errors.NewValidation(errors.ErrCodeInvalidConfig)

	v.Check(c.Server.Addr != "", "server.addr", "is required")
	v.Check(c.Server.ReadTimeout >= 0, "server.read_timeout", "must not be negative")
	v.Check(c.Server.WriteTimeout >= 0, "server.write_timeout", "must not be negative")
	v.Check(c.Server.ShutdownTimeout >= 0, "server.shutdown_timeout", "must not be negative")

	if _, err := backdrop.Preset(c.Backdrop.Preset); err != nil {
		v.Add("backdrop.preset", "unknown preset %q", c.Backdrop.Preset)
	}
	if c.Backdrop.Noise != "" {
		if _, err := noise.ParseKind(c.Backdrop.Noise); err != nil {
			v.Add("backdrop.noise", "unknown noise %q", c.Backdrop.Noise)
		}
	}
	v.Check(c.Backdrop.Width > 0 && c.Backdrop.Width <= pipeline.MaxDimension, "backdrop.width", "must be in [1, %d]", pipeline.MaxDimension)
	v.Check(c.Backdrop.Height > 0 && c.Backdrop.Height <= pipeline.MaxDimension, "backdrop.height", "must be in [1, %d]", pipeline.MaxDimension)
	v.Check(c.Backdrop.Frames > 0 && c.Backdrop.Frames <= pipeline.MaxFrames, "backdrop.frames", "must be in [1, %d]", pipeline.MaxFrames)

	backends := []string{CacheFile, CacheRedis, CacheMemory, CacheNone}
	v.Check(slices.Contains(backends, c.Cache.Backend), "cache.backend", "must be one of %v, got %q", backends, c.Cache.Backend)
	v.Check(c.Cache.Backend != CacheRedis || c.Cache.RedisURL != "", "cache.redis_url", "is required for the redis backend")

	sources := []string{ContentEmbedded, ContentTOML, ContentMongo}
	v.Check(slices.Contains(sources, c.Content.Source), "content.source", "must be one of %v, got %q", sources, c.Content.Source)
	v.Check(c.Content.Source != ContentTOML || c.Content.Path != "", "content.path", "is required for the toml source")
	v.Check(c.Content.Source != ContentMongo || c.Content.MongoURI != "", "content.mongo_uri", "is required for the mongo source")

	for id := range c.Nav.Offsets {
		v.Check(nav.Valid(id), "nav.offsets", "unknown section %q", id)
	}

	if c.ContactEnabled() {
		if err := c.Contact.Validate(); err != nil {
			v.Add("contact", "%s", errors.UserMessage(err))
		}
	}
	return v.Err()
}

// ContactEnabled reports whether any EmailJS credential is configured.
func (c Config) ContactEnabled() bool {
	return c.Contact.ServiceID != "" || c.Contact.TemplateID != "" || c.Contact.PublicKey != ""
}

// PipelineOptions returns render options seeded from the backdrop section.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Seed:   c.Backdrop.Seed,
		Preset: c.Backdrop.Preset,
		Noise:  c.Backdrop.Noise,
		Width:  c.Backdrop.Width,
		Height: c.Backdrop.Height,
		Frames: c.Backdrop.Frames,
	}
}
