package itinerary

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"railbook/internal/booking"
)

// Summary is the one-line form of a trip used in pick lists:
// "14:07 Paris Gare de Lyon > 16:04 Lyon Part-Dieu  1h57  45 EUR".
func Summary(trip booking.Trip) string {
	h := TripHeadline(trip)
	s := fmt.Sprintf("%s %s > %s %s  %s", h.Departure, trip.DepartureStation, h.Arrival, trip.ArrivalStation, h.Duration)
	if fare, ok := SummarizeFare(trip); ok {
		s += "  " + fare.String()
	}
	return s
}

// StopsLine lists the layovers of a trip built by BuildStops:
// "direct", or "via Dijon (15 min), Lyon Part-Dieu (5 min)".
func StopsLine(trip booking.Trip) string {
	if len(trip.Stops) == 0 {
		return "direct"
	}
	parts := make([]string, len(trip.Stops))
	for i, s := range trip.Stops {
		parts[i] = fmt.Sprintf("%s (%s)", s.Station, FormatDuration(s.Duration))
	}
	return "via " + strings.Join(parts, ", ")
}

// ClassLabel renders one fare class choice: "Economy: 45 EUR".
func ClassLabel(name string, opt booking.FareOption) string {
	return fmt.Sprintf("%s: %s %s", cases.Title(language.English).String(name), FormatCents(opt.Cents), opt.Currency)
}
