package size

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/internal/logger"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/types"
)

const (
	// KiB is the factor between adjacent binary units (KB→MB, MB→GB).
	KiB = 1024

	// DiskMultiplier is the on-disk expansion factor applied to a normalized
	// size. Decompressing an archive with fasterq-dump needs about 20x the
	// download size.
	DiskMultiplier = 20

	// GB is one gigabyte expressed in the canonical unit (megabytes).
	GB = float64(KiB)
)

// unit suffixes, checked in this order.
var units = []struct {
	suffix string
	factor float64
}{
	{"GB", KiB},
	{"MB", 1},
	{"KB", 1.0 / KiB},
}

// Normalizer converts heterogeneous size representations to megabytes.
type Normalizer struct {
	logger types.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger used for malformed-size warnings.
func WithLogger(l types.Logger) Option {
	return func(n *Normalizer) {
		n.logger = l
	}
}

// NewNormalizer creates a Normalizer. Without options, warnings are discarded.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{logger: logger.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	n.logger = logger.OrNop(n.logger)

	return n
}

// Normalize returns raw as megabytes, or 0 for missing and malformed input.
//
// Accepted input:
//   - nil: 0
//   - any Go integer or float: the value itself (already megabytes)
//   - numeric string: parsed as megabytes
//   - string with a GB, MB or KB suffix: converted with binary factors
//
// Anything else logs a warning and yields 0. Normalize never fails, so one bad
// record cannot abort a balancing run.
//
// Example:
//
//	n := size.NewNormalizer()
//	n.Normalize("2GB")   // 2048
//	n.Normalize("500KB") // 0.48828125
//	n.Normalize(nil)     // 0
func (n *Normalizer) Normalize(raw any) float64 {
	mb, err := Parse(raw)
	if err != nil {
		n.logger.Warn("unexpected size format", "raw", raw, "error", err)
		return 0
	}

	return mb
}

// DiskRequirement returns Normalize(raw) scaled by DiskMultiplier.
func (n *Normalizer) DiskRequirement(raw any) float64 {
	return n.Normalize(raw) * DiskMultiplier
}

// Parse is the strict form of Normalize: malformed input returns an error
// wrapping types.ErrMalformedSize instead of being logged.
//
// Missing input (nil, empty or whitespace-only string) is not malformed and
// parses to 0. Negative and non-finite values are malformed.
//
// Returns:
//   - float64: Size in megabytes
//   - error: nil, or an error wrapping types.ErrMalformedSize
func Parse(raw any) (float64, error) {
	var mb float64

	switch v := raw.(type) {
	case nil:
		return 0, nil
	case string:
		return parseString(v)
	case float64:
		mb = v
	case float32:
		mb = float64(v)
	case int:
		mb = float64(v)
	case int8:
		mb = float64(v)
	case int16:
		mb = float64(v)
	case int32:
		mb = float64(v)
	case int64:
		mb = float64(v)
	case uint:
		mb = float64(v)
	case uint8:
		mb = float64(v)
	case uint16:
		mb = float64(v)
	case uint32:
		mb = float64(v)
	case uint64:
		mb = float64(v)
	case fmt.Stringer:
		return parseString(v.String())
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", types.ErrMalformedSize, raw)
	}

	return checkRange(mb, raw)
}

func parseString(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	if mb, err := strconv.ParseFloat(s, 64); err == nil {
		return checkRange(mb, s)
	}

	for _, u := range units {
		if !strings.Contains(s, u.suffix) {
			continue
		}

		num := strings.TrimSpace(strings.Replace(s, u.suffix, "", 1))
		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", types.ErrMalformedSize, s)
		}

		return checkRange(v*u.factor, s)
	}

	return 0, fmt.Errorf("%w: %q", types.ErrMalformedSize, s)
}

func checkRange(mb float64, raw any) (float64, error) {
	if math.IsNaN(mb) || math.IsInf(mb, 0) {
		return 0, fmt.Errorf("%w: non-finite value %v", types.ErrMalformedSize, raw)
	}
	if mb < 0 {
		return 0, fmt.Errorf("%w: negative value %v", types.ErrMalformedSize, raw)
	}

	return mb, nil
}

// Format renders a size in megabytes as an IEC string such as "1.5 GiB".
func Format(mb float64) string {
	if mb <= 0 || math.IsNaN(mb) || math.IsInf(mb, 0) {
		return humanize.IBytes(0)
	}

	return humanize.IBytes(uint64(math.Round(mb * KiB * KiB)))
}

// GigabytesCeil returns mb expressed in whole gigabytes, rounded up.
func GigabytesCeil(mb float64) int64 {
	if mb <= 0 {
		return 0
	}

	return int64(math.Ceil(mb / GB))
}
