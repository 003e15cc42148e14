// Package config loads server configuration from a YAML file with
// environment variable overrides. Environment always wins, so deploys
// can tweak a single knob without editing the file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/niletry/beijing-fushengji-server/internal/domain/session"
)

// Config is the full server configuration.
type Config struct {
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`

	Storage struct {
		SQLitePath     string `yaml:"sqlite_path"`
		BackupInterval int    `yaml:"backup_interval_seconds"`
	} `yaml:"storage"`

	Leaderboard struct {
		DedupSalt string `yaml:"dedup_salt"`
	} `yaml:"leaderboard"`

	Tuning struct {
		Profile string `yaml:"profile"`
	} `yaml:"tuning"`

	Difficulties []session.Preset `yaml:"difficulties"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.ListenAddr = ":8080"
	cfg.Storage.SQLitePath = "./fushengji.db"
	cfg.Storage.BackupInterval = 60
	cfg.Leaderboard.DedupSalt = "fushengji-dedup"
	cfg.Tuning.Profile = "default"
	cfg.Difficulties = session.DefaultPresets()
	return cfg
}

// Load reads the YAML file at path (if it exists) over the defaults,
// then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if len(cfg.Difficulties) == 0 {
		cfg.Difficulties = session.DefaultPresets()
	}
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FSJ_LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
	if v := os.Getenv("FSJ_SQLITE_PATH"); v != "" {
		c.Storage.SQLitePath = v
	}
	if v := os.Getenv("FSJ_BACKUP_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Storage.BackupInterval = n
		}
	}
	if v := os.Getenv("FSJ_DEDUP_SALT"); v != "" {
		c.Leaderboard.DedupSalt = v
	}
	if v := os.Getenv("FSJ_TUNING_PROFILE"); v != "" {
		c.Tuning.Profile = v
	}
}
