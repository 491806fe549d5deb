package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecapKey(t *testing.T) {
	start := time.Date(2024, time.June, 1, 15, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "recap:arena:2024-06-01:2024-06-30", recapKey("arena", start, end))
	assert.Equal(t, "recap:watch:arena", watchKey("arena"))
}

func TestRangeCodec(t *testing.T) {
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

	r, err := decodeRange(encodeRange(start, end))
	require.NoError(t, err)
	assert.True(t, r.StartDate.Equal(start))
	assert.True(t, r.EndDate.Equal(end))

	for _, bad := range []string{"", "2024-06-01", "2024-06-01|june", "x|2024-06-01"} {
		_, err := decodeRange(bad)
		assert.Error(t, err, bad)
	}
}
