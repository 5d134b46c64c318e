package checker

import "time"

// Stats counts line outcomes for one run.
type Stats struct {
	Lines      uint64    `json:"lines"`
	Valid      uint64    `json:"valid"`
	Invalid    uint64    `json:"invalid"`
	Dropped    uint64    `json:"dropped"`
	Misordered uint64    `json:"misordered"`
	Truncated  uint64    `json:"truncated"`
	Discarded  uint64    `json:"discarded_bytes"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at,omitempty"`
}

func (s *Stats) record(ev Event) {
	s.Lines++
	switch ev.Disposition {
	case Valid:
		s.Valid++
	case Invalid:
		s.Invalid++
	default:
		s.Dropped++
		if ev.Reason == ReasonMisordered {
			s.Misordered++
		}
	}
	if ev.Truncated {
		s.Truncated++
	}
	s.Discarded += uint64(ev.Discarded)
}
