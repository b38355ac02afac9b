package bytesize

import (
	"fmt"
	"strconv"
	"strings"
)

// ByteSize is a byte count that configs spell either as a bare number
// or with a unit suffix ("10MB", "512KiB", "1.5Gi"). Binary suffixes
// multiply by 1024, decimal ones by 1000.
type ByteSize uint64

const (
	Byte ByteSize = 1

	KB ByteSize = 1000 * Byte
	MB ByteSize = 1000 * KB
	GB ByteSize = 1000 * MB
	TB ByteSize = 1000 * GB

	KiB ByteSize = 1024 * Byte
	MiB ByteSize = 1024 * KiB
	GiB ByteSize = 1024 * MiB
	TiB ByteSize = 1024 * GiB
)

var suffixes = map[string]ByteSize{
	"": Byte, "b": Byte,
	"k": KB, "kb": KB,
	"m": MB, "mb": MB,
	"g": GB, "gb": GB,
	"t": TB, "tb": TB,
	"ki": KiB, "kib": KiB,
	"mi": MiB, "mib": MiB,
	"gi": GiB, "gib": GiB,
	"ti": TiB, "tib": TiB,
}

// Parse converts spellings like "10MB", "512 KiB" or "1048576" into a
// ByteSize. Unit letters are case-insensitive.
func Parse(s string) (ByteSize, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	// Scan back over the unit letters; everything before is the number.
	split := len(trimmed)
	for split > 0 {
		c := trimmed[split-1]
		if (c >= '0' && c <= '9') || c == '.' {
			break
		}
		split--
	}
	numPart := strings.TrimSpace(trimmed[:split])
	unitPart := strings.ToLower(strings.TrimSpace(trimmed[split:]))

	mult, ok := suffixes[unitPart]
	if !ok {
		return 0, fmt.Errorf("unknown byte size unit %q in %q", trimmed[split:], s)
	}
	if numPart == "" {
		return 0, fmt.Errorf("missing number in byte size %q", s)
	}

	if strings.Contains(numPart, ".") {
		f, err := strconv.ParseFloat(numPart, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid byte size number %q", numPart)
		}
		return ByteSize(f * float64(mult)), nil
	}

	n, err := strconv.ParseUint(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number %q", numPart)
	}
	return ByteSize(n) * mult, nil
}

// String renders the size with the largest binary unit that divides it
// evenly, falling back to plain bytes. Parse accepts every spelling
// String produces, so rendering a value and parsing it back is exact.
func (b ByteSize) String() string {
	switch {
	case b == 0:
		return "0B"
	case b%TiB == 0:
		return strconv.FormatUint(uint64(b/TiB), 10) + "TiB"
	case b%GiB == 0:
		return strconv.FormatUint(uint64(b/GiB), 10) + "GiB"
	case b%MiB == 0:
		return strconv.FormatUint(uint64(b/MiB), 10) + "MiB"
	case b%KiB == 0:
		return strconv.FormatUint(uint64(b/KiB), 10) + "KiB"
	default:
		return strconv.FormatUint(uint64(b), 10) + "B"
	}
}

// MarshalText implements encoding.TextMarshaler so configs are written
// back in human units.
func (b ByteSize) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, letting ByteSize
// fields decode from config strings.
func (b *ByteSize) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Uint64 returns the count as a uint64.
func (b ByteSize) Uint64() uint64 { return uint64(b) }

// Int64 returns the count as an int64. Sizes beyond the int64 range
// are not meaningful for this daemon.
func (b ByteSize) Int64() int64 { return int64(b) }
