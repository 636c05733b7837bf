package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName        = "ionctl"
	ConfigFileName = "config.json"
	DefaultAPIURL  = "https://api.ionicjs.com"
)

var ErrUnknownKey = errors.New("unknown config key")

// Config is the CLI global configuration. Project settings live in
// ionic.config.json and are handled by the project package.
type Config struct {
	Telemetry   bool     `json:"telemetry"`
	Interactive bool     `json:"interactive"`
	URLs        URLs     `json:"urls"`
	User        User     `json:"user"`
	Tokens      Tokens   `json:"tokens"`
	Proxies     []string `json:"proxies"`
}

type URLs struct {
	API string `json:"api"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Tokens struct {
	User string `json:"user"`
}

func DefaultConfig() Config {
	return Config{
		Telemetry:   envBool("IONCTL_TELEMETRY", true),
		Interactive: envBool("IONCTL_INTERACTIVE", true),
		URLs: URLs{
			API: envString("IONCTL_API_URL", DefaultAPIURL),
		},
	}
}

// ConfigDir honours IONCTL_CONFIG_DIRECTORY before falling back to the user
// config directory.
func ConfigDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("IONCTL_CONFIG_DIRECTORY")); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Store is the loaded global config together with the file it came from.
type Store struct {
	Path   string
	Config Config
}

// Open loads the config file from ConfigPath.
func Open() (*Store, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return &Store{Path: path, Config: cfg}, nil
}

func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Save writes the config back to disk, creating the directory if needed.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	return writeConfig(s.Path, s.Config)
}

// Init writes a default config.json if one doesn't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Get returns the value at a dotted key such as "urls.api". An empty key
// returns the whole config.
func (s *Store) Get(key string) (any, error) {
	tree, err := toMap(s.Config)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(key) == "" {
		return tree, nil
	}

	var current any = tree
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		current, ok = m[part]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
	}
	return current, nil
}

// Set assigns raw to a dotted key. raw is parsed as JSON5 when possible so
// that "false" and "[\"a\"]" keep their types; anything else is kept as a
// string. The result is decoded back into Config so unknown keys and type
// mismatches are rejected.
func (s *Store) Set(key string, raw string) error {
	parts := strings.Split(strings.TrimSpace(key), ".")
	if len(parts) == 0 || parts[0] == "" {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	tree, err := toMap(s.Config)
	if err != nil {
		return err
	}

	var value any
	if err := json5.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}

	node := tree
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		node = child
	}
	leaf := parts[len(parts)-1]
	if _, ok := node[leaf]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	node[leaf] = value

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(tree); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	s.Config = cfg
	return nil
}

// LoadProxies resolves proxies from the flag value, IONCTL_PROXIES, then the
// config file, in that order.
func LoadProxies(flagValue string, cfg Config) []string {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue)
	}

	if env := strings.TrimSpace(os.Getenv("IONCTL_PROXIES")); env != "" {
		return splitCSV(env)
	}

	return cfg.Proxies
}

func toMap(cfg Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	tree := map[string]any{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
