package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/nmeacheck/internal/adapters/serial"
	"github.com/bft-labs/nmeacheck/pkg/nmea"
)

// Default values.
const (
	DefaultAuditDir    = "."
	DefaultAuditPrefix = "nmea_checker"
	DefaultLogLevel    = "info"
	DefaultOverflow    = "split"
	DefaultFollowPoll  = time.Second
)

// Config holds CLI configuration for nmeacheck.
type Config struct {
	Input  string
	Output string

	Audit           bool
	AuditDir        string
	AuditPrefix     string
	AuditMaxSizeMB  int
	AuditMaxBackups int
	Timestamp       bool

	Baud       int
	Follow     bool
	FollowPoll time.Duration
	Overflow   string
	MaxLine    int

	StatsFile string
	Quiet     bool
	LogLevel  string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AuditDir:    DefaultAuditDir,
		AuditPrefix: DefaultAuditPrefix,
		Baud:        serial.DefaultBaud,
		FollowPoll:  DefaultFollowPoll,
		Overflow:    DefaultOverflow,
		MaxLine:     nmea.DefaultMaxLineLength,
		LogLevel:    DefaultLogLevel,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input is required")
	}
	if c.Output != "" && c.Output == c.Input {
		return fmt.Errorf("output must differ from input")
	}

	if c.AuditDir == "" {
		c.AuditDir = DefaultAuditDir
	}
	if c.AuditPrefix == "" {
		c.AuditPrefix = DefaultAuditPrefix
	}
	if strings.ContainsAny(c.AuditPrefix, `/\`) {
		return fmt.Errorf("audit prefix must not contain path separators")
	}
	if c.AuditMaxSizeMB < 0 || c.AuditMaxBackups < 0 {
		return fmt.Errorf("audit rotation settings must not be negative")
	}

	if c.Baud == 0 {
		c.Baud = serial.DefaultBaud
	}
	if !serial.SupportedBaud(c.Baud) {
		return fmt.Errorf("unsupported baud rate %d", c.Baud)
	}

	if c.FollowPoll <= 0 {
		c.FollowPoll = DefaultFollowPoll
	}
	if _, err := nmea.ParseOverflowPolicy(c.Overflow); err != nil {
		return err
	}
	if c.Overflow == "" {
		c.Overflow = DefaultOverflow
	}
	if c.MaxLine == 0 {
		c.MaxLine = nmea.DefaultMaxLineLength
	}
	if c.MaxLine < 1 || c.MaxLine > nmea.MaxLineLengthLimit {
		return fmt.Errorf("max line must be between 1 and %d", nmea.MaxLineLengthLimit)
	}

	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	return nil
}

// configSetter applies values unless the corresponding flag was set explicitly.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses environment values; non-positive values are ignored.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
