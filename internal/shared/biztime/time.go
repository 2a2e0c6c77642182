// Package biztime provides business timezone helpers for reporting.
// Storage uses UTC; the business timezone only decides where a day starts
// when tickets are grouped per day.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimezone is used when no timezone is configured.
const DefaultTimezone = "UTC"

// DayLayout is the key format of a business day.
const DayLayout = "2006-01-02"

var (
	mu          sync.RWMutex
	bizLocation *time.Location
)

// Init sets the business timezone. An empty tz selects DefaultTimezone.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", tz, err)
	}
	mu.Lock()
	bizLocation = loc
	mu.Unlock()
	return nil
}

// Location returns the business timezone, UTC when not initialised.
func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	if bizLocation == nil {
		return time.UTC
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayUTC returns 00:00 of t's business day, expressed in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	b := t.In(Location())
	return time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, Location()).UTC()
}

// DayKey formats t as its business day.
func DayKey(t time.Time) string {
	return t.In(Location()).Format(DayLayout)
}

// LastDays returns the keys of the n business days ending with the day of
// now, oldest first, together with the UTC start of the oldest day.
func LastDays(now time.Time, n int) ([]string, time.Time) {
	if n <= 0 {
		return nil, StartOfDayUTC(now)
	}
	b := now.In(Location())
	first := time.Date(b.Year(), b.Month(), b.Day()-(n-1), 0, 0, 0, 0, Location())
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = first.AddDate(0, 0, i).Format(DayLayout)
	}
	return keys, first.UTC()
}
