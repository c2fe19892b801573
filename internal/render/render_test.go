package render

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"railbook/internal/booking"
	"railbook/internal/itinerary"
)

func init() {
	color.NoColor = true
}

var now = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC) // a Monday

func TestCalendar(t *testing.T) {
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Date(2026, 1, 5, 14, 7, 0, 0, time.UTC), "Today at 14:07"},
		{time.Date(2026, 1, 6, 8, 0, 0, 0, time.UTC), "Tomorrow at 08:00"},
		{time.Date(2026, 1, 4, 22, 15, 0, 0, time.UTC), "Yesterday at 22:15"},
		{time.Date(2026, 1, 9, 10, 0, 0, 0, time.UTC), "Friday at 10:00"},
		{time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC), "Last Thursday at 10:00"},
		{time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC), "14/02/2026"},
	}
	for _, tt := range tests {
		if got := Calendar(tt.t, now); got != tt.want {
			t.Errorf("Calendar(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestTripsTable(t *testing.T) {
	trips := []booking.BookedTrip{{
		Reference:        "ABC123",
		DepartureDate:    time.Date(2026, 1, 5, 14, 7, 0, 0, time.UTC),
		ArrivalDate:      time.Date(2026, 1, 5, 16, 4, 0, 0, time.UTC),
		DepartureStation: booking.Station{ID: 1, Name: "Paris Gare de Lyon"},
		ArrivalStation:   booking.Station{ID: 2, Name: "Lyon Part-Dieu"},
		Passenger:        booking.Passenger{ID: 7, FirstName: "Ada"},
		Cents:            4550,
		Currency:         "EUR",
	}}

	out, err := String(context.Background(), TripsTable(trips, now))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"ABC123", "Today at 14:07", "Paris Gare de Lyon", "Lyon Part-Dieu", "Ada", "45.5 EUR"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "Today at 16:04") {
		t.Errorf("arrival time missing:\n%s", out)
	}
}

func TestTripsTable_Empty(t *testing.T) {
	out, err := String(context.Background(), TripsTable(nil, now))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(out) != "Nothing to show." {
		t.Errorf("empty table = %q", out)
	}
}

func TestItinerary(t *testing.T) {
	dep := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	trip := booking.Trip{
		DepartureStation: "Paris Gare de Lyon",
		ArrivalStation:   "Lyon Part-Dieu",
		DepartureDate:    dep,
		ArrivalDate:      dep.Add(3*time.Hour + 30*time.Minute),
		Segments: []booking.Segment{
			{DepartureStation: "Paris Gare de Lyon", DepartureDate: dep, ArrivalDate: dep.Add(95 * time.Minute)},
			{DepartureStation: "Dijon", DepartureDate: dep.Add(110 * time.Minute), ArrivalDate: dep.Add(210 * time.Minute), TrainName: "TER 891"},
		},
		TravelClasses: map[string]booking.FareOption{
			"economy": {Cents: 4500, Currency: "EUR", TripID: "T1"},
			"first":   {Cents: 9000, Currency: "EUR", TripID: "T2"},
		},
	}
	built, err := itinerary.BuildStops(trip)
	if err != nil {
		t.Fatalf("BuildStops: %v", err)
	}

	out, err := String(context.Background(), Itinerary(built))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	for i, want := range []string{"3h30", "15 min  Dijon", "45 / 90 EUR"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], want)
		}
	}
}

func TestWarning_NoColor(t *testing.T) {
	out, err := String(context.Background(), Warning("Select at least one passenger."))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Select at least one passenger.\n" {
		t.Errorf("Warning = %q", out)
	}
}
