// Package log is the structured logging port used by the checker and its
// adapters. Diagnostics go through Logger; the per-sentence console trace does not.
package log

import "time"

// Logger provides leveled structured logging.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field is a key-value pair attached to a log message.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field { return Field{Key: key, Value: value} }

func Int(key string, value int) Field { return Field{Key: key, Value: value} }

func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Hex renders a byte as two upper-case hex digits, the way checksums are written on the wire.
func Hex(key string, value byte) Field {
	const digits = "0123456789ABCDEF"
	return Field{Key: key, Value: string([]byte{digits[value>>4], digits[value&0x0f]})}
}

// Err creates an error field with key "error".
func Err(err error) Field { return Field{Key: "error", Value: err} }

func Any(key string, value any) Field { return Field{Key: key, Value: value} }
