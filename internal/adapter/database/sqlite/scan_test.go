package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimestamp_Scan(t *testing.T) {
	want := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

	inputs := []any{
		want,
		"2026-10-14 09:30:00",
		[]byte("2026-10-14 09:30:00"),
		"2026-10-14T09:30:00Z",
		want.Unix(),
	}

	for _, in := range inputs {
		var ts Timestamp

		assert.NoError(t, ts.Scan(in), "%v", in)
		assert.True(t, want.Equal(ts.Time), "%v", in)
	}
}

func TestTimestamp_ScanRejectsGarbage(t *testing.T) {
	var ts Timestamp

	assert.Error(t, ts.Scan("yesterday"))
	assert.Error(t, ts.Scan(3.14))
}

func TestTimestamp_ScanNull(t *testing.T) {
	ts := Timestamp{Time: time.Now()}

	assert.NoError(t, ts.Scan(nil))
	assert.True(t, ts.Time.IsZero())
}
