package core

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeToSeconds(t *testing.T) {
	cases := map[string]float64{
		"0:00:00":      0,
		"0:03:00":      180,
		"1:02:03":      3723,
		"00:01:30":     90,
		"123:00:01":    442801,
		"0:00:01.500":  1.5,
		" 0:00:10 ":    10,
		"10:59:59":     39599,
		"0:1:2":        62,
		"0:00:00.0001": 0.0001,
	}
	for in, want := range cases {
		got, err := TimeToSeconds(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}
}

func TestTimeToSecondsRejectsMalformed(t *testing.T) {
	for _, in := range []string{
		"", "1:00", "1:00:00:00", "a:00:00", "0:60:00", "0:00:60",
		"0:000:00", "-1:00:00", "0:00:0x", "0:00:01.", "0:00:01.x", "NOT_IMPLEMENTED",
	} {
		_, err := TimeToSeconds(in)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, ErrFormat, in)
	}
}

func TestHugeHoursDoNotOverflow(t *testing.T) {
	secs, err := TimeToSeconds("9999999999999999:00:00")
	require.NoError(t, err)
	assert.InDelta(t, 3.6e19, secs, 1e6)

	d, err := ParseClock("3000000:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(math.MaxInt64), d)

	d, err = ParseClock("2562046:59:59")
	require.NoError(t, err)
	assert.Greater(t, d, time.Duration(0))
	assert.Equal(t, "2562046:59:59", FormatClock(d))
}

func TestSecondsToTime(t *testing.T) {
	assert.Equal(t, "0:00:00", SecondsToTime(0))
	assert.Equal(t, "0:03:00", SecondsToTime(180))
	assert.Equal(t, "0:03:00", SecondsToTime(180.99))
	assert.Equal(t, "1:02:03", SecondsToTime(3723))
	assert.Equal(t, "100:00:00", SecondsToTime(360000))
	assert.Equal(t, "0:00:00", SecondsToTime(-5))
}

func TestTimeRoundTrip(t *testing.T) {
	for _, x := range []float64{0, 0.4, 1, 59.9, 60, 3599, 3600, 86399.7, 400000} {
		got, err := TimeToSeconds(SecondsToTime(x))
		require.NoError(t, err)
		assert.Equal(t, float64(int64(x)), got, "x=%v", x)
	}
	for _, s := range []string{"0:00:00", "0:05:09", "9:59:59", "12:34:56", "101:00:00"} {
		secs, err := TimeToSeconds(s)
		require.NoError(t, err)
		assert.Equal(t, s, SecondsToTime(secs))
	}
	secs, err := TimeToSeconds("01:02:03")
	require.NoError(t, err)
	assert.Equal(t, "1:02:03", SecondsToTime(secs))
}

func TestParseAndFormatClock(t *testing.T) {
	d, err := ParseClock("0:01:02.250")
	require.NoError(t, err)
	assert.Equal(t, 62*time.Second+250*time.Millisecond, d)
	assert.Equal(t, "0:01:02", FormatClock(d))
	assert.Equal(t, "0:00:00", FormatClock(-time.Second))
}

func TestPercentToDuration(t *testing.T) {
	total := 200 * time.Second
	assert.Equal(t, time.Duration(0), PercentToDuration(0, total))
	assert.Equal(t, 60*time.Second, PercentToDuration(30, total))
	assert.Equal(t, total, PercentToDuration(100, total))
	assert.Equal(t, total, PercentToDuration(250, total))
	assert.Equal(t, time.Duration(0), PercentToDuration(-10, total))
	assert.Equal(t, time.Duration(0), PercentToDuration(50, 0))
}

func TestVolumeConversions(t *testing.T) {
	assert.Equal(t, int64(100), PercentToNative(150, 100))
	assert.Equal(t, int64(0), PercentToNative(-10, 100))
	assert.Equal(t, int64(20), PercentToNative(40, 50))
	assert.Equal(t, int64(0), PercentToNative(50, 0))
	assert.Equal(t, 40, NativeToPercent(20, 50))
	assert.Equal(t, 100, NativeToPercent(120, 100))
	assert.Equal(t, 0, NativeToPercent(-3, 100))
	assert.Equal(t, 0, NativeToPercent(5, 0))
}

func TestVolumeConversionsAreNearInverse(t *testing.T) {
	for _, maxVolume := range []int64{1, 7, 30, 60, 64, 100, 255, 65535} {
		for pct := 0; pct <= 100; pct++ {
			back := NativeToPercent(PercentToNative(float64(pct), maxVolume), maxVolume)
			if maxVolume >= 100 {
				assert.InDelta(t, pct, back, 1, "pct=%d max=%d", pct, maxVolume)
			}
			assert.GreaterOrEqual(t, back, 0)
			assert.LessOrEqual(t, back, 100)
		}
	}
}
