package syncer

import (
	"fmt"
	"time"
)

// buddhistEraOffset converts a Gregorian year to the Thai solar calendar.
const buddhistEraOffset = 543

// FormatTimestamp renders t like a th-TH locale string, e.g. "16/10/2569 14:03:05".
// With buddhistEra false the Gregorian year is kept.
func FormatTimestamp(t time.Time, loc *time.Location, buddhistEra bool) string {
	if loc != nil {
		t = t.In(loc)
	}
	year := t.Year()
	if buddhistEra {
		year += buddhistEraOffset
	}
	return fmt.Sprintf("%d/%d/%d %s", t.Day(), int(t.Month()), year, t.Format("15:04:05"))
}
