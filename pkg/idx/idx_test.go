package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewGeneratesValidULIDs(t *testing.T) {
	t.Parallel()

	seen := make(map[ID]struct{})
	for range 1000 {
		id := New()
		require.False(t, id.IsZero())

		_, err := Parse(id.String())
		require.NoError(t, err)

		_, dup := seen[id]
		require.False(t, dup, "duplicate id generated: %s", id)
		seen[id] = struct{}{}
	}
}

func TestNewIsMonotonicWithinSameMillisecond(t *testing.T) {
	t.Parallel()

	prev := New()
	for range 100 {
		next := New()
		require.Less(t, prev.String(), next.String())
		prev = next
	}
}

func TestNewAtEmbedsTimestamp(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	id := NewAt(at)

	require.WithinDuration(t, at, id.Time(), time.Millisecond)
}

func TestParseRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "  ", "not-a-ulid", "01BX5ZZKBKACTAV9WEVGEMMV!!"} {
		_, err := Parse(input)
		require.ErrorIs(t, err, ErrInvalid, "input %q", input)
	}
}

func TestParseTrimsWhitespace(t *testing.T) {
	t.Parallel()

	id := New()
	parsed, err := Parse("  " + id.String() + "  ")
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}
