// Package nmea frames a byte stream into lines and validates the checksum
// carried by NMEA 0183 style sentences.
//
// A sentence is the text between '$' and '*', followed by two hexadecimal
// digits holding the exclusive-or of every byte in between:
//
//	$GPGLL,5300.97914,N,00259.98174,E,125926,A*28\r\n
//
// The package does not interpret sentence fields. It only answers three
// questions for each line read from a source:
//
//   - where does the line end ([Framer])
//   - where is the sentence and what checksum does it claim ([Extract])
//   - does the claimed checksum match the payload ([Checksum], [Sentence.Valid])
//
// # Framing
//
// [Framer] reads one byte at a time from an [io.ByteReader]. A line ends at a
// line feed (0x0A) or when [DefaultMaxLineLength] bytes have been stored.
// Null bytes are consumed but never stored. What happens to bytes beyond the
// cap is controlled by [OverflowPolicy].
//
// # Errors
//
// [ErrEndOfStream] is returned when the source is exhausted. Any other read
// failure is wrapped in a [*SourceError]. Lines without a sentence yield
// [ErrNoSentence] or [ErrMisordered] from [Extract]; both are ordinary
// outcomes that callers are expected to count and skip.
package nmea
