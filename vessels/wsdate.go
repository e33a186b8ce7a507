package vessels

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// The API encodes timestamps the way .NET's DataContractJsonSerializer does:
// "/Date(1704096000000-0800)/", milliseconds since the Unix epoch with an
// optional UTC offset that only affects presentation.
var wsDatePattern = regexp.MustCompile(`^/Date\((-?\d+)([+-]\d{4})?\)/$`)

// IsDate reports whether s is an API-encoded timestamp.
func IsDate(s string) bool {
	return wsDatePattern.MatchString(s)
}

// ParseDate decodes an API-encoded timestamp. The returned time carries the
// encoded offset as its location, or UTC when there is none.
func ParseDate(s string) (time.Time, error) {
	m := wsDatePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("not a /Date()/ value: %q", s)
	}
	ms, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("date milliseconds %q: %w", m[1], err)
	}
	t := time.UnixMilli(ms).UTC()
	if m[2] == "" {
		return t, nil
	}
	sign := 1
	if m[2][0] == '-' {
		sign = -1
	}
	hh, _ := strconv.Atoi(m[2][1:3])
	mm, _ := strconv.Atoi(m[2][3:5])
	offset := sign * (hh*3600 + mm*60)
	return t.In(time.FixedZone(m[2], offset)), nil
}

// FormatDate encodes t the way the API does, keeping t's UTC offset.
func FormatDate(t time.Time) string {
	_, offset := t.Zone()
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("/Date(%d%c%02d%02d)/", t.UnixMilli(), sign, offset/3600, (offset%3600)/60)
}
