package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultStorageKey     = "tasks"
	DefaultListenAddr     = "127.0.0.1:8080"

	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	appDirName = "todolist"
	envConfig  = "TODO_CONFIG"
)

type Keymap struct {
	Quit     string `toml:"quit"`
	Next     string `toml:"next"`
	Prev     string `toml:"prev"`
	Activate string `toml:"activate"`
}

type Config struct {
	DBPath     string `toml:"db_path"`
	Backend    string `toml:"backend"`
	StorageKey string `toml:"storage_key"`
	LogPath    string `toml:"log_path"`
	LogLevel   string `toml:"log_level"`
	ListenAddr string `toml:"listen_addr"`
	Keys       Keymap `toml:"keys"`
}

// ResolveConfigPath picks $TODO_CONFIG, then the per-user config directory,
// then config.toml in the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(envConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fillDefaults()
	if cfg.Backend != BackendSQLite && cfg.Backend != BackendMemory {
		return cfg, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.StorageKey == "" {
		c.StorageKey = d.StorageKey
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.ListenAddr == "" {
		c.ListenAddr = d.ListenAddr
	}
	if c.Keys.Quit == "" {
		c.Keys.Quit = d.Keys.Quit
	}
	if c.Keys.Next == "" {
		c.Keys.Next = d.Keys.Next
	}
	if c.Keys.Prev == "" {
		c.Keys.Prev = d.Keys.Prev
	}
	if c.Keys.Activate == "" {
		c.Keys.Activate = d.Keys.Activate
	}
}

func Default() Config {
	return Config{
		DBPath:     DefaultDBName,
		Backend:    BackendSQLite,
		StorageKey: DefaultStorageKey,
		LogLevel:   "info",
		ListenAddr: DefaultListenAddr,
		Keys: Keymap{
			Quit:     "q",
			Next:     "tab",
			Prev:     "shift+tab",
			Activate: "enter",
		},
	}
}
