package nmea

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genPayload() gopter.Gen {
	// Printable ASCII without the delimiters.
	return gen.SliceOf(gen.UInt8Range(0x20, 0x7e).SuchThat(func(b uint8) bool {
		return b != '$' && b != '*'
	}))
}

func TestChecksumProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("checksum is invariant under reversal", prop.ForAll(
		func(p []byte) bool {
			rev := make([]byte, len(p))
			for i, b := range p {
				rev[len(p)-1-i] = b
			}
			return Checksum(p) == Checksum(rev)
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("appending the checksum yields zero", prop.ForAll(
		func(p []byte) bool {
			return Checksum(append(append([]byte(nil), p...), Checksum(p))) == 0
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("valid iff claimed xor computed is zero", prop.ForAll(
		func(p []byte, claimed uint8) bool {
			line := []byte(fmt.Sprintf("$%s*%02X\r\n", p, claimed))
			s, err := Extract(line)
			if err != nil {
				return false
			}
			return s.Valid() == (Checksum(p)^claimed == 0)
		},
		genPayload(),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}

func TestFramerProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("no line exceeds the cap plus terminator", prop.ForAll(
		func(data []byte, max int) bool {
			f := NewFramer(bytes.NewReader(data), WithMaxLength(max))
			for {
				l, err := f.Next()
				if len(l.Bytes) > max+1 {
					return false
				}
				if bytes.IndexByte(l.Bytes, 0) >= 0 {
					return false
				}
				if err != nil {
					return true
				}
			}
		},
		gen.SliceOf(gen.UInt8Range(0, 0x7f)),
		gen.IntRange(1, 64),
	))

	properties.Property("split framing loses no non-null bytes", prop.ForAll(
		func(data []byte, max int) bool {
			f := NewFramer(bytes.NewReader(data), WithMaxLength(max))
			var joined []byte
			for {
				l, err := f.Next()
				joined = append(joined, l.Bytes...)
				if err != nil {
					break
				}
			}
			return bytes.Equal(joined, bytes.ReplaceAll(data, []byte{0}, nil))
		},
		gen.SliceOf(gen.UInt8Range(0, 0x7f)),
		gen.IntRange(1, 64),
	))

	properties.TestingRun(t)
}
