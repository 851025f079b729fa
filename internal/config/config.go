package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     int    `json:"port"`
	DataDir  string `json:"data_dir"`
	LogLevel string `json:"log_level"`
	Line     struct {
		ChannelSecret      string `json:"channel_secret"`
		ChannelAccessToken string `json:"channel_access_token"`
		SkipVerify         bool   `json:"skip_verify"`
	} `json:"line"`
	Push struct {
		OperatorUserID string `json:"operator_user_id"`
	} `json:"push"`
}

func Load(path string) (*Config, error) {
	// Pull in a local .env first so the overrides below can see it.
	_ = godotenv.Load()

	cfg := &Config{
		Port:     10000,
		DataDir:  filepath.Join(os.Getenv("HOME"), ".linkbot"),
		LogLevel: "info",
	}

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := writeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if secret := strings.TrimSpace(os.Getenv("CHANNEL_SECRET")); secret != "" {
		cfg.Line.ChannelSecret = secret
	}
	if token := strings.TrimSpace(os.Getenv("CHANNEL_ACCESS_TOKEN")); token != "" {
		cfg.Line.ChannelAccessToken = token
	}
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.Port = n
		}
	}
	if operator := os.Getenv("OPERATOR_USER_ID"); operator != "" {
		cfg.Push.OperatorUserID = operator
	}
	if skip := os.Getenv("SKIP_SIGNATURE_CHECK"); skip != "" {
		cfg.Line.SkipVerify = skip == "1" || strings.EqualFold(skip, "true")
	}

	return cfg, nil
}

// Save persists the config to path.
func Save(path string, cfg *Config) error {
	return writeFile(path, cfg)
}

// BindingsPath returns the binding store file under the data dir.
func (c *Config) BindingsPath() string {
	return filepath.Join(c.DataDir, "users.json")
}

func writeFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// ListValues returns the config as a flat dot-separated key map, with
// secrets masked when masked is true.
func ListValues(cfg *Config, masked bool) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var nested map[string]any
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	flat := Flatten(nested)
	if masked {
		flat = MaskSecrets(flat)
	}
	return flat, nil
}

// GetValue reads one dot-separated key from the config file at path.
func GetValue(path, key string) (any, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	flat, err := ListValues(cfg, false)
	if err != nil {
		return nil, err
	}
	val, ok := flat[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return val, nil
}

// SetValue writes one dot-separated key into the config file at path,
// coercing bools and numbers from their string form.
func SetValue(path, key, value string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	flat, err := ListValues(cfg, false)
	if err != nil {
		return err
	}
	if _, ok := flat[key]; !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	flat[key] = coerce(value)

	nested := Unflatten(flat)
	data, err := json.Marshal(nested)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	updated := &Config{}
	if err := json.Unmarshal(data, updated); err != nil {
		return fmt.Errorf("apply config value: %w", err)
	}
	return writeFile(path, updated)
}

func coerce(value string) any {
	if value == "true" || value == "false" {
		return value == "true"
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	return value
}
