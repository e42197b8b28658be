// Package config loads meru settings and scene presets from TOML.
//
// Settings come from $XDG_CONFIG_HOME/meru/config.toml when present,
// then MERU_* environment variables, then built-in defaults. Presets are
// TOML files listing scenes to generate in one run; one preset ships
// embedded in the binary (see [Builtin]).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	merr "github.com/matzehuels/meru/pkg/errors"
)

// Backend names for cache and store.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// DefaultAddr is the listen address of "meru serve".
const DefaultAddr = ":8080"

// Settings is the contents of config.toml.
type Settings struct {
	Cache  CacheSettings  `toml:"cache"`
	Store  StoreSettings  `toml:"store"`
	Server ServerSettings `toml:"server"`
}

// CacheSettings selects the artifact cache.
type CacheSettings struct {
	Backend  string `toml:"backend" validate:"oneof=none file redis"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url" validate:"required_if=Backend redis"`
	Prefix   string `toml:"prefix"`
}

// StoreSettings selects where saved scenes live.
type StoreSettings struct {
	Backend    string   `toml:"backend" validate:"oneof=file mongo"`
	Dir        string   `toml:"dir"`
	MongoURI   string   `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	Database   string   `toml:"database"`
	Collection string   `toml:"collection"`
	Timeout    Duration `toml:"timeout"`
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr         string   `toml:"addr" validate:"required"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	Metrics      bool     `toml:"metrics"`
}

// Duration decodes TOML strings such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the settings used when no file or environment
// overrides exist.
func Default() Settings {
	return Settings{
		Cache: CacheSettings{Backend: BackendFile},
		Store: StoreSettings{Backend: BackendFile, Timeout: Duration{10 * time.Second}},
		Server: ServerSettings{
			Addr:         DefaultAddr,
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
			Metrics:      true,
		},
	}
}

// Load reads settings from path. An empty path means the default
// location; a missing default file is not an error.
func Load(path string) (Settings, error) {
	s := Default()

	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return s, err
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &s); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			err = nil
		} else {
			return s, merr.Wrap(merr.ErrCodeInvalidConfig, err, "read %s", path)
		}
	}

	s.applyEnv()
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func (s *Settings) applyEnv() {
	if v := os.Getenv("MERU_CACHE"); v != "" {
		s.Cache.Backend = v
	}
	if v := os.Getenv("MERU_REDIS_URL"); v != "" {
		s.Cache.RedisURL = v
		if os.Getenv("MERU_CACHE") == "" {
			s.Cache.Backend = BackendRedis
		}
	}
	if v := os.Getenv("MERU_MONGO_URI"); v != "" {
		s.Store.MongoURI = v
		s.Store.Backend = BackendMongo
	}
	if v := os.Getenv("MERU_ADDR"); v != "" {
		s.Server.Addr = v
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() { validate = validator.New() })
	return validate
}

// Validate checks backend names and required connection strings.
func (s Settings) Validate() error {
	if err := validatorInstance().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return merr.New(merr.ErrCodeInvalidConfig, "%s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return merr.Wrap(merr.ErrCodeInvalidConfig, err, "invalid settings")
	}
	return nil
}

// String renders the settings as TOML.
func (s Settings) String() string {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Sprintf("%+v", s)
	}
	return string(data)
}
