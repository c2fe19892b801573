package itinerary

import (
	"errors"
	"slices"
	"testing"
	"time"

	"railbook/internal/booking"
)

var day = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func seg(from, to string, dep, arr time.Time, train string) booking.Segment {
	return booking.Segment{
		DepartureStation: from,
		ArrivalStation:   to,
		DepartureDate:    dep,
		ArrivalDate:      arr,
		TrainName:        train,
	}
}

func TestBuildStops_ThreeSegments(t *testing.T) {
	trip := booking.Trip{
		DepartureStation: "Paris Gare de Lyon",
		ArrivalStation:   "Marseille Saint-Charles",
		DepartureDate:    at(8, 0),
		ArrivalDate:      at(13, 10),
		Segments: []booking.Segment{
			seg("Paris Gare de Lyon", "Dijon", at(8, 0), at(9, 35), "TGV 6701"),
			seg("Dijon", "Lyon Part-Dieu", at(9, 50), at(11, 30), "TER 891"),
			seg("Lyon Part-Dieu", "Marseille Saint-Charles", at(11, 30), at(13, 10), "TGV 6171"),
		},
	}

	got, err := BuildStops(trip)
	if err != nil {
		t.Fatalf("BuildStops: %v", err)
	}
	if len(got.Stops) != 2 {
		t.Fatalf("got %d stops, want 2", len(got.Stops))
	}

	want := []booking.Stop{
		{Station: "Dijon", TrainName: "TER 891", Duration: 15 * time.Minute},
		{Station: "Lyon Part-Dieu", TrainName: "TGV 6171", Duration: 0},
	}
	for i, w := range want {
		if got.Stops[i] != w {
			t.Errorf("stop %d = %+v, want %+v", i, got.Stops[i], w)
		}
		if got.Stops[i].Duration < 0 {
			t.Errorf("stop %d has negative duration", i)
		}
	}
	if trip.Stops != nil {
		t.Error("input trip should not be modified")
	}
}

func TestBuildStops_Direct(t *testing.T) {
	trip := booking.Trip{
		Segments: []booking.Segment{
			seg("Paris Gare de Lyon", "Lyon Part-Dieu", at(14, 7), at(16, 4), "TGV 6615"),
		},
	}

	got, err := BuildStops(trip)
	if err != nil {
		t.Fatalf("BuildStops: %v", err)
	}
	if got.Stops == nil || len(got.Stops) != 0 {
		t.Errorf("direct trip stops = %#v, want empty list", got.Stops)
	}
}

func TestBuildStops_Overlap(t *testing.T) {
	trip := booking.Trip{
		Segments: []booking.Segment{
			seg("A", "B", at(8, 0), at(10, 0), "1"),
			seg("B", "C", at(9, 30), at(11, 0), "2"),
		},
	}

	if _, err := BuildStops(trip); !errors.Is(err, ErrInvalidItinerary) {
		t.Fatalf("err = %v, want ErrInvalidItinerary", err)
	}
}

func TestSummarizeFare(t *testing.T) {
	tests := []struct {
		name    string
		classes map[string]booking.FareOption
		want    string
		ok      bool
	}{
		{
			name:    "economy only",
			classes: map[string]booking.FareOption{"economy": {Cents: 4500, Currency: "EUR", TripID: "T1"}},
			want:    "45 EUR",
			ok:      true,
		},
		{
			name: "economy and first",
			classes: map[string]booking.FareOption{
				"economy": {Cents: 4550, Currency: "EUR", TripID: "T1"},
				"first":   {Cents: 9000, Currency: "EUR", TripID: "T2"},
			},
			want: "45.5 / 90 EUR",
			ok:   true,
		},
		{
			name:    "first only",
			classes: map[string]booking.FareOption{"first": {Cents: 9000, Currency: "EUR", TripID: "T2"}},
			want:    "90 EUR",
			ok:      true,
		},
		{
			name:    "no classes",
			classes: nil,
			ok:      false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fare, ok := SummarizeFare(booking.Trip{TravelClasses: tt.classes})
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && fare.String() != tt.want {
				t.Errorf("fare = %q, want %q", fare.String(), tt.want)
			}
		})
	}
}

func TestTripHeadline(t *testing.T) {
	h := TripHeadline(booking.Trip{DepartureDate: at(14, 7), ArrivalDate: at(16, 12)})
	if h.Duration != "2h05" || h.Departure != "14:07" || h.Arrival != "16:12" {
		t.Errorf("headline = %+v", h)
	}
}

func TestClassNames(t *testing.T) {
	classes := map[string]booking.FareOption{
		"premier": {}, "first": {}, "economy": {}, "business": {},
	}
	want := []string{"economy", "first", "business", "premier"}
	if got := ClassNames(classes); !slices.Equal(got, want) {
		t.Errorf("ClassNames = %v, want %v", got, want)
	}
}

func TestSummary(t *testing.T) {
	trip := booking.Trip{
		DepartureStation: "Paris Gare de Lyon",
		ArrivalStation:   "Lyon Part-Dieu",
		DepartureDate:    at(14, 7),
		ArrivalDate:      at(16, 4),
		TravelClasses: map[string]booking.FareOption{
			"economy": {Cents: 4500, Currency: "EUR", TripID: "T1"},
		},
	}
	want := "14:07 Paris Gare de Lyon > 16:04 Lyon Part-Dieu  1h57  45 EUR"
	if got := Summary(trip); got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
}

func TestStopsLine(t *testing.T) {
	if got := StopsLine(booking.Trip{}); got != "direct" {
		t.Errorf("StopsLine(direct) = %q", got)
	}
	trip := booking.Trip{Stops: []booking.Stop{
		{Station: "Dijon", Duration: 15 * time.Minute},
		{Station: "Lyon Part-Dieu", Duration: 90 * time.Minute},
	}}
	want := "via Dijon (15 min), Lyon Part-Dieu (1h30)"
	if got := StopsLine(trip); got != want {
		t.Errorf("StopsLine = %q, want %q", got, want)
	}
}

func TestClassLabel(t *testing.T) {
	got := ClassLabel("first", booking.FareOption{Cents: 9050, Currency: "EUR"})
	if got != "First: 90.5 EUR" {
		t.Errorf("ClassLabel = %q", got)
	}
}
