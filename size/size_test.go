package size

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/internal/logger"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/types"
)

func TestNormalize_UnitConversion(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{"gigabytes", "2GB", 2048},
		{"kilobytes", "500KB", 500.0 / 1024},
		{"megabytes", "10MB", 10},
		{"nil", nil, 0},
		{"empty string", "   ", 0},
		{"numeric string", "123.5", 123.5},
		{"padded numeric string", "  42 ", 42},
		{"unit with space", "1.5 GB", 1536},
		{"float", 7.25, 7.25},
		{"int", 3, 3},
		{"int64", int64(9), 9},
		{"uint32", uint32(11), 11},
		{"json number", json.Number("64"), 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, n.Normalize(tt.raw), 1e-9)
		})
	}

	require.InDelta(t, 0.488, n.Normalize("500KB"), 0.001)
}

func TestNormalize_MalformedWarnsAndReturnsZero(t *testing.T) {
	tl := logger.NewTest(t)
	n := NewNormalizer(WithLogger(tl))

	for _, raw := range []any{"12 TB", "abcGB", "NaN", "-5", -3.0, math.Inf(1), []int{1}} {
		require.Zero(t, n.Normalize(raw), "raw=%v", raw)
	}

	require.Equal(t, 7, tl.Count("WARN"))
}

func TestNormalize_Idempotent(t *testing.T) {
	n := NewNormalizer()

	for _, raw := range []any{"2GB", "500KB", "10MB", nil, "junk", 0.125, 99} {
		once := n.Normalize(raw)
		require.Equal(t, once, n.Normalize(once), "raw=%v", raw)
	}
}

func TestDiskRequirement(t *testing.T) {
	n := NewNormalizer()

	require.Equal(t, 2048.0*DiskMultiplier, n.DiskRequirement("2GB"))
	require.Equal(t, 0.0, n.DiskRequirement(nil))
	require.Equal(t, 200.0, n.DiskRequirement(10))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("12 TB")
	require.Error(t, err)
	require.True(t, errors.Is(err, types.ErrMalformedSize))

	_, err = Parse(struct{}{})
	require.ErrorIs(t, err, types.ErrMalformedSize)
	require.Contains(t, err.Error(), "unsupported type")

	mb, err := Parse(nil)
	require.NoError(t, err)
	require.Zero(t, mb)
}

func TestFormat(t *testing.T) {
	require.Equal(t, "0 B", Format(0))
	require.Equal(t, "0 B", Format(-1))
	require.Equal(t, "2.0 GiB", Format(2048))
	require.Equal(t, "10 MiB", Format(10))
}

func TestGigabytesCeil(t *testing.T) {
	require.Equal(t, int64(0), GigabytesCeil(0))
	require.Equal(t, int64(1), GigabytesCeil(1))
	require.Equal(t, int64(1), GigabytesCeil(1024))
	require.Equal(t, int64(2), GigabytesCeil(1025))
}
