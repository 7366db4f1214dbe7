package scoring

import (
	"fmt"
	"time"
)

// DateLayout is the only accepted textual form of a due date.
const DateLayout = "2006-01-02"

// ParseDueDate turns a raw due-date value into a civil date.
// It never fails: nil, empty or malformed values report ok=false.
func ParseDueDate(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	}
	d, err := time.Parse(DateLayout, fmt.Sprint(raw))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// civil strips the clock and zone from t, keeping its calendar day.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole number of calendar days from today to due.
func daysBetween(today, due time.Time) int {
	return int(civil(due).Sub(civil(today)).Hours() / 24)
}
