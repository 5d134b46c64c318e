package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML friendly types.
type FileConfig struct {
	Input           string `toml:"input"`
	Output          string `toml:"output"`
	Audit           *bool  `toml:"audit"`
	AuditDir        string `toml:"audit_dir"`
	AuditPrefix     string `toml:"audit_prefix"`
	AuditMaxSizeMB  int    `toml:"audit_max_size_mb"`
	AuditMaxBackups int    `toml:"audit_max_backups"`
	Timestamp       *bool  `toml:"timestamp"`
	Baud            int    `toml:"baud"`
	Follow          *bool  `toml:"follow"`
	FollowPoll      string `toml:"follow_poll"`
	Overflow        string `toml:"overflow"`
	MaxLine         int    `toml:"max_line"`
	StatsFile       string `toml:"stats_file"`
	Quiet           *bool  `toml:"quiet"`
	LogLevel        string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.nmeacheck/config.toml, or "" without a home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".nmeacheck", "config.toml")
	}
	return ""
}

// ApplyFileConfig copies file values into cfg, skipping flags in changed.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("input", fc.Input, &cfg.Input)
	s.setString("output", fc.Output, &cfg.Output)
	s.setString("audit-dir", fc.AuditDir, &cfg.AuditDir)
	s.setString("audit-prefix", fc.AuditPrefix, &cfg.AuditPrefix)
	s.setString("overflow", fc.Overflow, &cfg.Overflow)
	s.setString("stats-file", fc.StatsFile, &cfg.StatsFile)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("follow-poll", fc.FollowPoll, &cfg.FollowPoll); err != nil {
		return err
	}

	s.setInt("audit-max-size", fc.AuditMaxSizeMB, &cfg.AuditMaxSizeMB)
	s.setInt("audit-max-backups", fc.AuditMaxBackups, &cfg.AuditMaxBackups)
	s.setInt("baud", fc.Baud, &cfg.Baud)
	s.setInt("max-line", fc.MaxLine, &cfg.MaxLine)

	s.setBool("audit", fc.Audit, &cfg.Audit)
	s.setBool("timestamp", fc.Timestamp, &cfg.Timestamp)
	s.setBool("follow", fc.Follow, &cfg.Follow)
	s.setBool("quiet", fc.Quiet, &cfg.Quiet)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
