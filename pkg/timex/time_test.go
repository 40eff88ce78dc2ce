package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTime_JSONRoundTrip(t *testing.T) {
	src := Time(time.Date(2024, 1, 1, 12, 30, 45, 0, time.Local))

	data, err := json.Marshal(src)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-01 12:30:45"`, string(data))

	var parsed Time
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, src.Unix(), parsed.Unix())
}

func TestTime_JSONZero(t *testing.T) {
	var zero Time

	data, err := json.Marshal(zero)
	require.NoError(t, err)
	assert.Equal(t, `""`, string(data))

	var parsed Time
	require.NoError(t, json.Unmarshal([]byte(`""`), &parsed))
	assert.True(t, parsed.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`null`), &parsed))
	assert.True(t, parsed.IsZero())
}

func TestTime_JSONInvalid(t *testing.T) {
	var parsed Time
	assert.Error(t, json.Unmarshal([]byte(`123`), &parsed))
	assert.Error(t, json.Unmarshal([]byte(`"not-a-time"`), &parsed))
}

func TestTime_ValueAndScan(t *testing.T) {
	src := Time(time.Date(2024, 6, 15, 8, 0, 0, 0, time.Local))

	v, err := src.Value()
	require.NoError(t, err)

	var scanned Time
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, src.Unix(), scanned.Unix())

	// 零值入库为 NULL
	var zero Time
	v, err = zero.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())
}

func TestTime_ScanString(t *testing.T) {
	var scanned Time
	require.NoError(t, scanned.Scan("2024-06-15 08:00:00"))
	assert.Equal(t, "2024-06-15 08:00:00", scanned.String())

	require.NoError(t, scanned.Scan([]byte("2024-06-15 09:00:00")))
	assert.Equal(t, "2024-06-15 09:00:00", scanned.String())

	assert.Error(t, scanned.Scan(12345))
}
