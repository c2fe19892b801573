package itinerary

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration the way the trip listings show it:
// "1h05" from one hour up, "42 min" below. Partial minutes round up.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	hours := int64(d / time.Hour)
	rest := d % time.Hour
	minutes := int64((rest + time.Minute - 1) / time.Minute)

	if d < time.Hour {
		return fmt.Sprintf("%d min", minutes)
	}
	if minutes == 60 {
		hours++
		minutes = 0
	}
	return fmt.Sprintf("%dh%02d", hours, minutes)
}
