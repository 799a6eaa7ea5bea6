// Package config resolves settings from config.yaml, RECIPEKEEPER_* env vars
// and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"recipe-keeper/internal/model"
)

const (
	KeyDB       = "db"
	KeySort     = "sort"
	KeyLogLevel = "log.level"
	KeyLogFile  = "log.file"

	EnvPrefix = "RECIPEKEEPER"
	DirEnv    = "RECIPEKEEPER_CONFIG_DIR"
	FileName  = "config.yaml"

	// DefaultDB matches where earlier versions kept their database.
	DefaultDB = "recipes.db"
)

type Config struct {
	Dir      string
	DB       string
	Sort     model.SortMode
	LogLevel slog.Level
	LogFile  string
}

// Overrides carries flag values. Empty fields leave the file/env value alone.
type Overrides struct {
	DB       string
	LogLevel string
}

// DefaultDir is $RECIPEKEEPER_CONFIG_DIR, else ~/.recipekeeper.
func DefaultDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv(DirEnv)); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(home, ".recipekeeper"), nil
}

// Load reads dir/config.yaml if present. A missing file is not an error.
func Load(dir string, o Overrides) (Config, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return Config{}, err
		}
		dir = d
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, FileName))
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyDB, DefaultDB)
	v.SetDefault(KeySort, model.SortAlphabetical.String())
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, filepath.Join(dir, "recipekeeper.log"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read %s: %w", FileName, err)
		}
	}

	if s := strings.TrimSpace(o.DB); s != "" {
		v.Set(KeyDB, s)
	}
	if s := strings.TrimSpace(o.LogLevel); s != "" {
		v.Set(KeyLogLevel, s)
	}

	sort, err := model.ParseSortMode(v.GetString(KeySort))
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", KeySort, err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", KeyLogLevel, err)
	}

	return Config{
		Dir:      dir,
		DB:       v.GetString(KeyDB),
		Sort:     sort,
		LogLevel: level,
		LogFile:  v.GetString(KeyLogFile),
	}, nil
}
