package utils

import (
	"sync"
	"time"
)

var (
	mskOnce sync.Once
	mskLoc  *time.Location
)

// GetMskTimeLocation returns the Europe/Moscow location, falling back to a
// fixed UTC+3 zone when tzdata is not available.
func GetMskTimeLocation() *time.Location {
	mskOnce.Do(func() {
		loc, err := time.LoadLocation("Europe/Moscow")
		if err != nil {
			loc = time.FixedZone("MSK", 3*60*60)
		}
		mskLoc = loc
	})
	return mskLoc
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
