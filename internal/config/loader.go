package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the config file looked up when no path is given.
const FileName = "pno.yaml"

// EnvPrefix prefixes environment overrides, e.g. PNO_SEED_WORKERS.
const EnvPrefix = "PNO"

// Loader reads configuration with viper.
type Loader struct {
	viper *viper.Viper
	path  string
	dirs  []string
}

// NewLoader creates a loader. An empty path searches FileName in the working
// directory and in $HOME/.config/pno; a missing file is not an error then.
func NewLoader(path string) *Loader {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "pno"))
	}
	return &Loader{viper: viper.New(), path: path, dirs: dirs}
}

// Load merges defaults, the config file and the environment. The result is
// not validated; callers validate after applying flag overrides.
func (l *Loader) Load() (*Config, error) {
	v := l.viper
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// DATABASE_URL is honored for compatibility with existing tooling.
	if err := v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	v.SetConfigType("yaml")
	if l.path != "" {
		v.SetConfigFile(l.path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		for _, dir := range l.dirs {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// ConfigFileUsed returns the file that was read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.viper.ConfigFileUsed()
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("database.url", d.Database.URL)
	v.SetDefault("database.max_conns", d.Database.MaxConns)
	v.SetDefault("database.statement_timeout", d.Database.StatementTimeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("seed.seed", d.Seed.Seed)
	v.SetDefault("seed.workers", d.Seed.Workers)
	v.SetDefault("pexels.api_key", d.Pexels.APIKey)
	v.SetDefault("pexels.base_url", d.Pexels.BaseURL)
	v.SetDefault("pexels.max_page", d.Pexels.MaxPage)
	v.SetDefault("generate.taxonomy_terms", d.Generate.TaxonomyTerms)
	v.SetDefault("generate.first_priority", d.Generate.FirstPriority)
	v.SetDefault("generate.options_per_field", d.Generate.OptionsPerField)
}
