package core

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeToSeconds parses an "H:MM:SS" clock string. The hour has no upper bound;
// minutes and seconds must be within [0,59]. A fractional second suffix
// ("0:01:02.500") is accepted.
func TimeToSeconds(s string) (float64, error) {
	c, err := parseClock(s)
	if err != nil {
		return 0, err
	}
	return float64(c.hours)*3600 + float64(c.minutes*60+c.seconds) + c.frac.Seconds(), nil
}

// SecondsToTime formats seconds as "H:MM:SS", flooring fractions.
func SecondsToTime(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	return formatWhole(int64(math.Floor(seconds)))
}

// ParseClock is TimeToSeconds over time.Duration. Times beyond the largest
// Duration saturate to it.
func ParseClock(s string) (time.Duration, error) {
	c, err := parseClock(s)
	if err != nil {
		return 0, err
	}
	if c.hours >= maxClockHours {
		return time.Duration(math.MaxInt64), nil
	}
	return time.Duration(c.hours)*time.Hour +
		time.Duration(c.minutes)*time.Minute +
		time.Duration(c.seconds)*time.Second + c.frac, nil
}

const maxClockHours = int64(math.MaxInt64 / time.Hour)

// FormatClock is SecondsToTime over time.Duration.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return formatWhole(int64(d / time.Second))
}

// PercentToDuration scales total by pct, clamping pct to [0,100] and the
// result to [0,total].
func PercentToDuration(pct float64, total time.Duration) time.Duration {
	if total <= 0 {
		return 0
	}
	pct = clampPercent(pct)
	d := time.Duration(float64(total) * pct / 100)
	return clamp(d, 0, total)
}

// PercentToNative converts a [0,100] volume to the device scale [0,maxVolume].
func PercentToNative(pct float64, maxVolume int64) int64 {
	if maxVolume <= 0 {
		return 0
	}
	pct = clampPercent(pct)
	native := int64(math.Round(pct * float64(maxVolume) / 100))
	return clamp(native, 0, maxVolume)
}

// NativeToPercent converts a device volume to [0,100].
func NativeToPercent(native int64, maxVolume int64) int {
	if maxVolume <= 0 {
		return 0
	}
	pct := int(math.Round(float64(native) * 100 / float64(maxVolume)))
	return clamp(pct, 0, 100)
}

type clockValue struct {
	hours, minutes, seconds int64
	frac                    time.Duration
}

func parseClock(s string) (clockValue, error) {
	raw := strings.TrimSpace(s)
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return clockValue{}, formatErr(s, "expected H:MM:SS")
	}
	secPart := parts[2]
	var frac time.Duration
	if idx := strings.IndexByte(secPart, '.'); idx >= 0 {
		digits := secPart[idx+1:]
		if digits == "" || !allDigits(digits) {
			return clockValue{}, formatErr(s, "invalid fractional seconds")
		}
		if len(digits) > 9 {
			digits = digits[:9]
		}
		n, _ := strconv.ParseInt(digits+strings.Repeat("0", 9-len(digits)), 10, 64)
		frac = time.Duration(n)
		secPart = secPart[:idx]
	}

	hours, err := parseField(parts[0], 0, -1)
	if err != nil {
		return clockValue{}, formatErr(s, "hours "+err.Error())
	}
	minutes, err := parseField(parts[1], 2, 59)
	if err != nil {
		return clockValue{}, formatErr(s, "minutes "+err.Error())
	}
	seconds, err := parseField(secPart, 2, 59)
	if err != nil {
		return clockValue{}, formatErr(s, "seconds "+err.Error())
	}
	return clockValue{hours: hours, minutes: minutes, seconds: seconds, frac: frac}, nil
}

// parseField parses an unsigned decimal field. maxDigits <= 0 and limit < 0
// disable the respective checks.
func parseField(field string, maxDigits int, limit int64) (int64, error) {
	if field == "" || !allDigits(field) {
		return 0, fmt.Errorf("%q is not a number", field)
	}
	if maxDigits > 0 && len(field) > maxDigits {
		return 0, fmt.Errorf("%q has too many digits", field)
	}
	n, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q out of range", field)
	}
	if limit >= 0 && n > limit {
		return 0, fmt.Errorf("%d exceeds %d", n, limit)
	}
	return n, nil
}

func formatWhole(total int64) string {
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func formatErr(input string, msg string) *Error {
	return newError(KindFormat, "", fmt.Sprintf("invalid time %q: %s", input, msg), nil)
}

func clampPercent(pct float64) float64 {
	if math.IsNaN(pct) {
		return 0
	}
	return clamp(pct, 0, 100)
}

func clamp[T cmp.Ordered](v, lo, hi T) T {
	return max(lo, min(hi, v))
}
