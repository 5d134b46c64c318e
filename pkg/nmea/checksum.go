package nmea

import "time"

// TimestampLayout is the audit timestamp prefix layout (YYYY-MM-DD,HH:MM:SS,).
const TimestampLayout = "2006-01-02,15:04:05,"

// Checksum returns the exclusive-or of every byte in payload.
// The checksum of an empty payload is 0.
func Checksum(payload []byte) byte {
	var sum byte
	for _, b := range payload {
		sum ^= b
	}
	return sum
}

// FormatTimestamp renders t as an audit line prefix in t's location.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
