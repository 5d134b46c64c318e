package fs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bft-labs/nmeacheck/pkg/checker"
)

// StatsFile persists run counters as JSON.
type StatsFile struct {
	path string
}

func NewStatsFile(path string) *StatsFile {
	return &StatsFile{path: path}
}

// Load reads previously saved counters. A missing file yields zero Stats.
func (s *StatsFile) Load() (checker.Stats, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return checker.Stats{}, nil
		}
		return checker.Stats{}, err
	}

	var st checker.Stats
	if err := json.Unmarshal(data, &st); err != nil {
		return checker.Stats{}, err
	}
	return st, nil
}

// Save writes st atomically (temp file, then rename).
func (s *StatsFile) Save(st checker.Stats) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Path returns the stats file path.
func (s *StatsFile) Path() string { return s.path }
