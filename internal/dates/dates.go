// Package dates builds the departure day candidates offered to the user
// and turns a chosen day label and hour slot into a search timestamp.
package dates

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a day label or hour slot cannot be
// turned into a timestamp.
var ErrInvalidDate = errors.New("invalid date")

// LabelLayout is the long weekday/month/day form of a day label.
const LabelLayout = "Monday, January 2"

// TimestampLayout is the format of the departure sent to the search.
const TimestampLayout = "2006-01-02T15:04:05"

// Slots are the coarse departure hours offered for a search.
var Slots = []string{"6h", "8h", "10h", "12h", "14h", "16h", "18h", "20h", "22h"}

// Day is one departure day candidate.
type Day struct {
	Label     string
	Date      time.Time // midnight, in now's location
	IsWeekend bool
	IsNear    bool // today or tomorrow
}

// NextDays returns n consecutive calendar days starting with now's day.
func NextDays(now time.Time, n int) []Day {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	days := make([]Day, 0, max(n, 0))
	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i)
		wd := d.Weekday()
		days = append(days, Day{
			Label:     d.Format(LabelLayout),
			Date:      d,
			IsWeekend: wd == time.Saturday || wd == time.Sunday,
			IsNear:    i <= 1,
		})
	}
	return days
}

// Labels returns the labels of days, in order.
func Labels(days []Day) []string {
	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = d.Label
	}
	return labels
}

// ParseSlot parses an hour slot such as "14h".
func ParseSlot(slot string) (int, error) {
	s := strings.TrimSpace(slot)
	h, err := strconv.Atoi(strings.TrimSuffix(s, "h"))
	if err != nil || !strings.HasSuffix(s, "h") || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: hour slot %q", ErrInvalidDate, slot)
	}
	return h, nil
}

// Combine resolves a day label and an hour slot to a local timestamp with
// no minute precision. Labels are looked up in days first so a window
// spanning New Year keeps the right year; other labels are read against
// now's year and must name the right weekday.
func Combine(label, slot string, days []Day, now time.Time) (time.Time, error) {
	hour, err := ParseSlot(slot)
	if err != nil {
		return time.Time{}, err
	}

	label = strings.TrimSpace(label)
	for _, d := range days {
		if d.Label == label {
			y, m, dd := d.Date.Date()
			return time.Date(y, m, dd, hour, 0, 0, 0, d.Date.Location()), nil
		}
	}

	parsed, err := time.Parse(LabelLayout, label)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day %q", ErrInvalidDate, label)
	}
	t := time.Date(now.Year(), parsed.Month(), parsed.Day(), hour, 0, 0, 0, now.Location())
	if t.Month() != parsed.Month() {
		// February 29 outside a leap year rolls over into March.
		return time.Time{}, fmt.Errorf("%w: %q does not exist in %d", ErrInvalidDate, label, now.Year())
	}
	if name, _, _ := strings.Cut(label, ","); name != t.Weekday().String() {
		return time.Time{}, fmt.Errorf("%w: %q is a %s in %d", ErrInvalidDate, label, t.Weekday(), now.Year())
	}
	return t, nil
}

// FormatTimestamp renders t with TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
