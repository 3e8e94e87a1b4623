// Package config loads server configuration. It uses koanf to merge an
// optional YAML file with environment variables; env vars win.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string `koanf:"port"`
	Environment  string `koanf:"env"`
	ReadTimeout  int    `koanf:"read_timeout"`
	WriteTimeout int    `koanf:"write_timeout"`

	DBPath         string `koanf:"db_path"`
	MigrationsPath string `koanf:"migrations_path"`
	StorageRoot    string `koanf:"storage_root"`
}

const (
	DefaultPort           = "3000"
	DefaultEnv            = "development"
	DefaultReadTimeout    = 10
	DefaultWriteTimeout   = 10
	DefaultDBPath         = "data/editor.db"
	DefaultMigrationsPath = "migrations/001_init_editor.sql"
	DefaultStorageRoot    = "data/storage"
)

// Load reads the optional YAML file named by CONFIG_PATH, then applies
// environment variable overrides and defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	readTimeout, err := getEnvIntOrDefault("READ_TIMEOUT", k.Int("read_timeout"), DefaultReadTimeout)
	if err != nil {
		return nil, err
	}
	writeTimeout, err := getEnvIntOrDefault("WRITE_TIMEOUT", k.Int("write_timeout"), DefaultWriteTimeout)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:           getEnvOrDefault("PORT", k.String("port"), DefaultPort),
		Environment:    getEnvOrDefault("ENV", k.String("env"), DefaultEnv),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		DBPath:         getEnvOrDefault("DB_PATH", k.String("db_path"), DefaultDBPath),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", k.String("migrations_path"), DefaultMigrationsPath),
		StorageRoot:    getEnvOrDefault("STORAGE_ROOT", k.String("storage_root"), DefaultStorageRoot),
	}, nil
}

func getEnvOrDefault(envKey, koanfVal, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

func getEnvIntOrDefault(envKey string, koanfVal, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", envKey, err)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}
