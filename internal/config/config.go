package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath    = "nasaudit.yaml"
	DefaultLogFile = "delete_log.txt"

	EnvRoot    = "NASAUDIT_ROOT"
	EnvLog     = "NASAUDIT_LOG"
	EnvWorkers = "NASAUDIT_WORKERS"
)

type Config struct {
	Exclude    []string     `yaml:"exclude"`
	OutputFile string       `yaml:"output_file"`
	SQLiteFile string       `yaml:"sqlite_file"`
	Delete     DeleteConfig `yaml:"delete"`
}

type DeleteConfig struct {
	Root    string `yaml:"root"`
	LogFile string `yaml:"log_file"`
	Workers int    `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Exclude: []string{
			"@eaDir/",
			"#recycle/",
			"#snapshot/",
			".AppleDouble/",
			".DS_Store",
			"._*",
			"Thumbs.db",
			"desktop.ini",
		},
		Delete: DeleteConfig{
			LogFile: DefaultLogFile,
			Workers: 1,
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Config{
		Delete: DeleteConfig{LogFile: DefaultLogFile, Workers: 1},
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	// Initialize Exclude slice if nil (for empty configs)
	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}
	if cfg.Delete.LogFile == "" {
		cfg.Delete.LogFile = DefaultLogFile
	}
	if cfg.Delete.Workers < 1 {
		cfg.Delete.Workers = 1
	}

	return &cfg, nil
}

// ApplyEnv overrides deletion settings from the environment, reading a .env
// file in the working directory first when one exists.
func (c *Config) ApplyEnv() error {
	_ = godotenv.Load()

	if v := os.Getenv(EnvRoot); v != "" {
		c.Delete.Root = v
	}
	if v := os.Getenv(EnvLog); v != "" {
		c.Delete.LogFile = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid %s %q: must be a positive integer", EnvWorkers, v)
		}
		c.Delete.Workers = n
	}
	return nil
}
