package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTestLogger_RecordsLines(t *testing.T) {
	l := NewTest(t)

	l.Info("nodes", "count", 4)
	l.Warn("unexpected size format", "raw", "abc")
	l.Warn("threshold raised")
	l.Debug("odd", "dangling")

	lines := l.Lines()
	require.Len(t, lines, 4)
	require.Equal(t, "INFO: nodes count=4", lines[0])
	require.Equal(t, "WARN: unexpected size format raw=abc", lines[1])
	require.Equal(t, "DEBUG: odd dangling=<missing>", lines[3])
	require.Equal(t, 2, l.Count("WARN"))
	require.Equal(t, 0, l.Count("ERROR"))
}
