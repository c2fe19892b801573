// Package render draws the terminal views of the client as templ
// components: listings of booked trips, itineraries and status lines.
package render

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/a-h/templ"
	"github.com/fatih/color"

	"railbook/internal/booking"
	"railbook/internal/itinerary"
)

var (
	info    = color.New(color.FgYellow).SprintFunc()
	success = color.New(color.FgBlue).SprintFunc()
	failure = color.New(color.FgRed).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
)

// Welcome greets a returning user.
func Welcome(u booking.User) templ.Component {
	return line(info(fmt.Sprintf("Welcome %s %s!", u.FirstName, u.LastName)))
}

// Connected confirms a login.
func Connected(u booking.User) templ.Component {
	return line(success(fmt.Sprintf("You are now connected as %s %s!", u.FirstName, u.LastName)))
}

// Error prints a message in red.
func Error(msg string) templ.Component {
	return line(failure(msg))
}

// Warning prints a message in yellow.
func Warning(msg string) templ.Component {
	return line(info(msg))
}

// Message prints msg as is.
func Message(msg string) templ.Component {
	return line(msg)
}

func line(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintln(w, s)
		return err
	})
}

// TripsTable lists booked trips: reference, dates, stations, passenger
// and price. Dates are relative to now.
func TripsTable(trips []booking.BookedTrip, now time.Time) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if len(trips) == 0 {
			_, err := fmt.Fprintln(w, "Nothing to show.")
			return err
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, t := range trips {
			dep := Calendar(t.DepartureDate, now)
			arr := Calendar(t.ArrivalDate, now)
			if arr == dep {
				arr = ""
			}
			price := itinerary.Price{Cents: t.Cents, Currency: t.Currency}.String()
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%12s\n",
				t.Reference, dep, t.DepartureStation.Name, t.Passenger.FirstName, price)
			fmt.Fprintf(tw, "\t%s\t%s\t\t\n", arr, t.ArrivalStation.Name)
		}
		return tw.Flush()
	})
}

// Itinerary draws a trip with its stops, in the layout of the trip picker:
// duration and departure, one line per layover, then fare and arrival.
func Itinerary(trip booking.Trip) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := itinerary.TripHeadline(trip)
		fare := ""
		if f, ok := itinerary.SummarizeFare(trip); ok {
			fare = f.String()
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "%s\t%s  %s\n", bold(h.Duration), h.Departure, trip.DepartureStation)
		for _, s := range trip.Stops {
			fmt.Fprintf(tw, "\t      %s  %s\n", itinerary.FormatDuration(s.Duration), s.Station)
		}
		fmt.Fprintf(tw, "%s\t%s  %s\n", fare, h.Arrival, trip.ArrivalStation)
		return tw.Flush()
	})
}

// Resolved prints the outcome of a search.
func Resolved(tripID, class string, trip booking.Trip) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := Itinerary(trip).Render(ctx, w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "%s %s (%s)\n", success("Trip:"), tripID, class)
		return err
	})
}

// Calendar formats t relative to now: "Today at 14:07", "Tomorrow at
// 08:00", "Monday at 10:00" within the coming week, else "05/01/2026".
func Calendar(t, now time.Time) string {
	t = t.In(now.Location())
	day := func(x time.Time) time.Time {
		return time.Date(x.Year(), x.Month(), x.Day(), 0, 0, 0, 0, x.Location())
	}
	diff := int(math.Round(day(t).Sub(day(now)).Hours() / 24))
	clock := t.Format("15:04")

	switch {
	case diff == 0:
		return "Today at " + clock
	case diff == 1:
		return "Tomorrow at " + clock
	case diff == -1:
		return "Yesterday at " + clock
	case diff > 1 && diff < 7:
		return t.Weekday().String() + " at " + clock
	case diff < -1 && diff > -7:
		return "Last " + t.Weekday().String() + " at " + clock
	}
	return t.Format("02/01/2006")
}

// String renders c to a string, for prompts that need plain text.
func String(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
