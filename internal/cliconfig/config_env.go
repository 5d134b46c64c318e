package cliconfig

import "os"

// ApplyEnvConfig applies NMEACHECK_* environment variables, skipping flags in changed.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("input", os.Getenv("NMEACHECK_INPUT"), &cfg.Input)
	s.setString("output", os.Getenv("NMEACHECK_OUTPUT"), &cfg.Output)
	s.setString("audit-dir", os.Getenv("NMEACHECK_AUDIT_DIR"), &cfg.AuditDir)
	s.setString("audit-prefix", os.Getenv("NMEACHECK_AUDIT_PREFIX"), &cfg.AuditPrefix)
	s.setString("overflow", os.Getenv("NMEACHECK_OVERFLOW"), &cfg.Overflow)
	s.setString("stats-file", os.Getenv("NMEACHECK_STATS_FILE"), &cfg.StatsFile)
	s.setString("log-level", os.Getenv("NMEACHECK_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("follow-poll", os.Getenv("NMEACHECK_FOLLOW_POLL"), &cfg.FollowPoll); err != nil {
		return err
	}

	if err := s.setIntFromString("audit-max-size", os.Getenv("NMEACHECK_AUDIT_MAX_SIZE_MB"), &cfg.AuditMaxSizeMB); err != nil {
		return err
	}
	if err := s.setIntFromString("audit-max-backups", os.Getenv("NMEACHECK_AUDIT_MAX_BACKUPS"), &cfg.AuditMaxBackups); err != nil {
		return err
	}
	if err := s.setIntFromString("baud", os.Getenv("NMEACHECK_BAUD"), &cfg.Baud); err != nil {
		return err
	}
	if err := s.setIntFromString("max-line", os.Getenv("NMEACHECK_MAX_LINE"), &cfg.MaxLine); err != nil {
		return err
	}

	s.setBoolFromString("audit", os.Getenv("NMEACHECK_AUDIT"), &cfg.Audit)
	s.setBoolFromString("timestamp", os.Getenv("NMEACHECK_TIMESTAMP"), &cfg.Timestamp)
	s.setBoolFromString("follow", os.Getenv("NMEACHECK_FOLLOW"), &cfg.Follow)
	s.setBoolFromString("quiet", os.Getenv("NMEACHECK_QUIET"), &cfg.Quiet)

	return nil
}
