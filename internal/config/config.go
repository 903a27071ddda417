// Package config loads sirsim settings from YAML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "sirsim.yaml"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config is the full set of sirsim settings.
type Config struct {
	Simulation Simulation `yaml:"simulation" json:"simulation"`
	Logging    Logging    `yaml:"logging" json:"logging"`
	Store      Store      `yaml:"store" json:"store"`
	Server     Server     `yaml:"server" json:"server"`
	Ensemble   Ensemble   `yaml:"ensemble" json:"ensemble"`
}

// Simulation holds default run parameters. Seed 0 means a fresh random seed per run.
type Simulation struct {
	domain.Params `yaml:",inline" mapstructure:",squash"`
	Seed          uint64 `yaml:"seed" json:"seed"`
}

// Logging selects the log level: debug, info, warn or error.
type Logging struct {
	Level string `yaml:"level" json:"level"`
}

// Store selects the run store backend. Path applies to the file and sqlite backends.
type Store struct {
	Backend string `yaml:"backend" json:"backend"`
	Path    string `yaml:"path" json:"path"`
	Redis   Redis  `yaml:"redis" json:"redis"`
}

// Redis configures the redis backend. A zero TTL keeps runs forever.
type Redis struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
}

// Server configures the HTTP API.
type Server struct {
	Port string `yaml:"port" json:"port"`
}

// Ensemble holds the defaults for replicate batches.
type Ensemble struct {
	Replicates  int `yaml:"replicates" json:"replicates"`
	Concurrency int `yaml:"concurrency" json:"concurrency"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Simulation: Simulation{Params: domain.DefaultParams()},
		Logging:    Logging{Level: "warn"},
		Store: Store{
			Backend: BackendMemory,
			Redis: Redis{
				Addr:   "localhost:6379",
				Prefix: "sirsim:run:",
			},
		},
		Server:   Server{Port: "8080"},
		Ensemble: Ensemble{Replicates: 100, Concurrency: 4},
	}
}

// Load reads the file at path over the defaults.
// A missing file yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := decode(raw, "yaml", &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the parameters and the store backend.
func (c Config) Validate() error {
	if err := c.Simulation.Params.Validate(); err != nil {
		return err
	}
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendSQLite:
	default:
		return &domain.ValidationError{Field: "store.backend", Reason: "unknown backend", Value: c.Store.Backend}
	}
	if c.Ensemble.Replicates < 1 {
		return &domain.ValidationError{Field: "ensemble.replicates", Reason: "must be at least 1", Value: c.Ensemble.Replicates}
	}
	return nil
}

// DecodeParams decodes loosely typed values (tool arguments, form input)
// over DefaultParams. Numbers may arrive as float64 or strings.
func DecodeParams(args map[string]any) (domain.Params, error) {
	p := domain.DefaultParams()
	if err := decode(args, "mapstructure", &p); err != nil {
		return p, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	return p, nil
}

func decode(input map[string]any, tag string, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          tag,
		WeaklyTypedInput: true,
		Squash:           true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			wholeNumberHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// wholeNumberHookFunc rejects floats with a fractional part bound for an
// integer field; weak typing would otherwise truncate them.
func wholeNumberHookFunc() mapstructure.DecodeHookFuncKind {
	return func(from, to reflect.Kind, data any) (any, error) {
		if from != reflect.Float32 && from != reflect.Float64 {
			return data, nil
		}
		switch to {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		default:
			return data, nil
		}
		f := reflect.ValueOf(data).Float()
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("expected a whole number, got %v", f)
		}
		return data, nil
	}
}
