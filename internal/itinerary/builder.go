// Package itinerary turns raw search results into what the user reads:
// layovers between segments, fare summaries and headline times.
package itinerary

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"railbook/internal/booking"
)

// ErrInvalidItinerary is returned when a trip's segments overlap, which
// means the service sent them out of order.
var ErrInvalidItinerary = errors.New("invalid itinerary")

// Canonical travel class names.
const (
	ClassEconomy = "economy"
	ClassFirst   = "first"
)

// BuildStops derives the layovers of a trip. A trip of N segments gets
// N-1 stops, each timed from the previous segment's arrival to the next
// segment's departure. The input trip is not modified.
func BuildStops(trip booking.Trip) (booking.Trip, error) {
	stops := make([]booking.Stop, 0, max(len(trip.Segments)-1, 0))
	for i := 1; i < len(trip.Segments); i++ {
		seg := trip.Segments[i]
		prev := trip.Segments[i-1]

		wait := seg.DepartureDate.Sub(prev.ArrivalDate)
		if wait < 0 {
			return trip, fmt.Errorf("%w: segment %d at %s departs %v before previous arrival",
				ErrInvalidItinerary, i, seg.DepartureStation, -wait)
		}
		stops = append(stops, booking.Stop{
			Station:   seg.DepartureStation,
			TrainName: seg.TrainName,
			Duration:  wait,
		})
	}
	trip.Stops = stops
	return trip, nil
}

// Price is an amount in a currency.
type Price struct {
	Cents    int
	Currency string
}

func (p Price) String() string {
	return FormatCents(p.Cents) + " " + p.Currency
}

// Fare is the single-line fare display of a trip: the economy price and,
// when offered, the first class price.
type Fare struct {
	Primary   Price
	Secondary *Price
}

func (f Fare) String() string {
	if f.Secondary == nil {
		return f.Primary.String()
	}
	return FormatCents(f.Primary.Cents) + " / " + FormatCents(f.Secondary.Cents) + " " + f.Primary.Currency
}

// SummarizeFare picks the prices shown next to a trip. When economy is not
// offered the first class in canonical order stands in as primary.
// It reports false for a trip without any travel class.
func SummarizeFare(trip booking.Trip) (Fare, bool) {
	names := ClassNames(trip.TravelClasses)
	if len(names) == 0 {
		return Fare{}, false
	}

	primary := trip.TravelClasses[names[0]]
	fare := Fare{Primary: Price{Cents: primary.Cents, Currency: primary.Currency}}
	if names[0] != ClassFirst {
		if first, ok := trip.TravelClasses[ClassFirst]; ok {
			fare.Secondary = &Price{Cents: first.Cents, Currency: first.Currency}
		}
	}
	return fare, true
}

// Headline is the summary line of a trip.
type Headline struct {
	Duration  string
	Departure string
	Arrival   string
}

// TripHeadline formats the total duration and the departure and arrival
// clock times of a trip.
func TripHeadline(trip booking.Trip) Headline {
	return Headline{
		Duration:  FormatDuration(trip.ArrivalDate.Sub(trip.DepartureDate)),
		Departure: trip.DepartureDate.Format("15:04"),
		Arrival:   trip.ArrivalDate.Format("15:04"),
	}
}

// ClassNames returns the class names of a fare map in display order:
// economy, first, then anything else alphabetically.
func ClassNames(classes map[string]booking.FareOption) []string {
	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		ra, rb := classRank(a), classRank(b)
		if ra != rb {
			return ra - rb
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
	return names
}

func classRank(name string) int {
	switch name {
	case ClassEconomy:
		return 0
	case ClassFirst:
		return 1
	default:
		return 2
	}
}

// FormatCents renders an amount without trailing zero decimals:
// 4500 is "45", 4550 is "45.5".
func FormatCents(cents int) string {
	return strconv.FormatFloat(float64(cents)/100, 'f', -1, 64)
}
