// Package config loads the canvas configuration from YAML, .env files and
// CANVAS_* environment variables, in increasing order of precedence.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/canvas/internal/logging"
)

// EnvPrefix marks the environment variables read as overrides.
// CANVAS_MODEL_API_KEY sets model.api_key.
const EnvPrefix = "CANVAS_"

type Config struct {
	Model  ModelConfig  `mapstructure:"model" yaml:"model"`
	Store  StoreConfig  `mapstructure:"store" yaml:"store"`
	HTTP   HTTPConfig   `mapstructure:"http" yaml:"http"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`
}

type ModelConfig struct {
	// Provider is one of openai, gemini or scripted.
	Provider    string   `mapstructure:"provider" yaml:"provider"`
	Name        string   `mapstructure:"name" yaml:"name"`
	APIKey      string   `mapstructure:"api_key" yaml:"api_key"`
	BaseURL     string   `mapstructure:"base_url" yaml:"base_url"`
	Temperature *float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int      `mapstructure:"max_tokens" yaml:"max_tokens"`
	// Retries > 1 wraps the model with exponential backoff.
	Retries int `mapstructure:"retries" yaml:"retries"`
}

type StoreConfig struct {
	// Kind is one of memory, file or redis.
	Kind          string        `mapstructure:"kind" yaml:"kind"`
	Path          string        `mapstructure:"path" yaml:"path"`
	Capacity      int           `mapstructure:"capacity" yaml:"capacity"`
	RedisAddr     string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" yaml:"redis_db"`
	Prefix        string        `mapstructure:"prefix" yaml:"prefix"`
	SessionTTL    time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`

	// EncryptionKey is a base64 AES-256 key; when set sessions are sealed at rest.
	EncryptionKey string `mapstructure:"encryption_key" yaml:"encryption_key"`
	// FallbackKeys still decrypt sessions sealed before a key rotation.
	FallbackKeys []string `mapstructure:"fallback_keys" yaml:"fallback_keys,omitempty"`
	// Redact lists regular expressions masked in persisted messages.
	Redact []string `mapstructure:"redact" yaml:"redact,omitempty"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
	// MaxInputSize bounds request bodies in bytes.
	MaxInputSize int64 `mapstructure:"max_input_size" yaml:"max_input_size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type EngineConfig struct {
	ThemeApproval          bool `mapstructure:"theme_approval" yaml:"theme_approval"`
	StrictRouting          bool `mapstructure:"strict_routing" yaml:"strict_routing"`
	RejectPendingOverwrite bool `mapstructure:"reject_pending_overwrite" yaml:"reject_pending_overwrite"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Model: ModelConfig{Provider: "scripted", Name: "echo"},
		Store: StoreConfig{Kind: "memory", Path: ".canvas/sessions", Prefix: "canvas:session:"},
		HTTP:  HTTPConfig{Addr: ":8080", MaxInputSize: 1 << 20},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

// LoadEnvFile loads a .env file into the process environment.
// A missing file is not an error; variables already set are kept.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads path (optional) and applies CANVAS_* overrides from environ.
func Load(path string, environ []string) (*Config, error) {
	raw, err := toMap(Default())
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		var file map[string]any
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		merge(raw, file)
	}

	merge(raw, fromEnv(environ))

	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Model.APIKey == "" && cfg.Model.Provider == "openai" {
		cfg.Model.APIKey = lookup(environ, "OPENAI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	var errs []error
	switch c.Model.Provider {
	case "openai", "gemini", "scripted":
	default:
		errs = append(errs, fmt.Errorf("model.provider: unknown provider %q", c.Model.Provider))
	}
	if c.Model.Name == "" {
		errs = append(errs, errors.New("model.name is required"))
	}
	switch c.Store.Kind {
	case "memory", "file", "redis":
	default:
		errs = append(errs, fmt.Errorf("store.kind: unknown store %q", c.Store.Kind))
	}
	if c.Store.Kind == "redis" && c.Store.RedisAddr == "" {
		errs = append(errs, errors.New("store.redis_addr is required for the redis store"))
	}
	if c.Store.EncryptionKey != "" {
		if _, _, err := c.Store.Keys(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if c.HTTP.MaxInputSize <= 0 {
		errs = append(errs, errors.New("http.max_input_size must be positive"))
	}
	return errors.Join(errs...)
}

// Keys decodes the active and fallback encryption keys.
func (s StoreConfig) Keys() (active []byte, fallback [][]byte, err error) {
	active, err = decodeKey("encryption_key", s.EncryptionKey)
	if err != nil {
		return nil, nil, err
	}
	for i, k := range s.FallbackKeys {
		key, err := decodeKey(fmt.Sprintf("fallback_keys[%d]", i), k)
		if err != nil {
			return nil, nil, err
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(name, s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid base64: %w", name, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%s: want 32 bytes, got %d", name, len(key))
	}
	return key, nil
}

// fromEnv maps CANVAS_SECTION_KEY=value to {section: {key: value}}.
// CANVAS_CONFIG and CANVAS_ENV_FILE name files and are skipped.
func fromEnv(environ []string) map[string]any {
	out := map[string]any{}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, EnvPrefix) {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
		if name == "config" || name == "env_file" {
			continue
		}
		section, key, ok := strings.Cut(name, "_")
		if !ok || key == "" {
			continue
		}
		sub, _ := out[section].(map[string]any)
		if sub == nil {
			sub = map[string]any{}
			out[section] = sub
		}
		sub[key] = v
	}
	return out
}

func lookup(environ []string, key string) string {
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v
		}
	}
	return ""
}

// merge copies src into dst, descending into nested maps.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if sv, ok := v.(map[string]any); ok {
			if dv, ok := dst[k].(map[string]any); ok {
				merge(dv, sv)
				continue
			}
		}
		dst[k] = v
	}
}

// toMap renders c as nested maps keyed like the YAML file.
func toMap(c Config) (map[string]any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
