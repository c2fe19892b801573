package resolve

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"railbook/internal/booking"
)

// scriptedPrompter answers prompts from a fixed list and records warnings.
type scriptedPrompter struct {
	answers  []Answer
	asked    []Stage
	warnings []string
	abortAt  Stage
}

func (s *scriptedPrompter) Ask(_ context.Context, p Prompt) (Answer, error) {
	s.asked = append(s.asked, p.Stage)
	if s.abortAt != 0 && p.Stage == s.abortAt {
		return Answer{}, ErrAborted
	}
	if len(s.answers) == 0 {
		return Answer{}, errors.New("script exhausted at " + p.Stage.String())
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *scriptedPrompter) Warn(msg string) {
	s.warnings = append(s.warnings, msg)
}

func TestRun_RepromptsAfterRecoverableErrors(t *testing.T) {
	svc := testService()
	svc.trips = []booking.Trip{directTrip(map[string]booking.FareOption{
		"economy": {Cents: 4500, Currency: "EUR", TripID: "T1"},
	})}
	p := &scriptedPrompter{answers: []Answer{
		Text("Atlantis"), // not found, asked again
		Text("Paris"),
		Text("Lyon"),
		Text("Monday, January 5"),
		Choice(4), // 14h
		Choices(), // empty, asked again
		Choices(0),
		Choice(0),
	}}

	res, err := Run(context.Background(), newTestWorkflow(svc), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.TripID != "T1" {
		t.Errorf("trip id = %q, want T1", res.TripID)
	}
	if len(p.warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", p.warnings)
	}
	if !strings.Contains(p.warnings[0], "Atlantis") {
		t.Errorf("first warning = %q", p.warnings[0])
	}
	wantAsked := []Stage{
		StageOrigin, StageOrigin, StageDestination, StageDate, StageHour,
		StagePassengers, StagePassengers, StageItinerary,
	}
	if len(p.asked) != len(wantAsked) {
		t.Fatalf("asked = %v, want %v", p.asked, wantAsked)
	}
	for i := range wantAsked {
		if p.asked[i] != wantAsked[i] {
			t.Errorf("asked[%d] = %s, want %s", i, p.asked[i], wantAsked[i])
		}
	}
}

func TestRun_NoTrips(t *testing.T) {
	p := &scriptedPrompter{answers: []Answer{
		Text("Paris"), Text("Lyon"), Choice(4), Choice(4), Choices(0),
	}}

	res, err := Run(context.Background(), newTestWorkflow(testService()), p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.NoTrips || res.TripID != "" {
		t.Errorf("result = %+v, want no trips", res)
	}
}

func TestRun_ServiceUnavailableStops(t *testing.T) {
	svc := testService()
	svc.err = booking.ErrServiceUnavailable
	p := &scriptedPrompter{answers: []Answer{Text("Paris")}}
	w := newTestWorkflow(svc)

	_, err := Run(context.Background(), w, p)
	if !errors.Is(err, booking.ErrServiceUnavailable) {
		t.Fatalf("err = %v, want ErrServiceUnavailable", err)
	}
	if len(p.asked) != 1 {
		t.Errorf("asked %d times, want 1 (no silent retry)", len(p.asked))
	}
	if w.Stage() != StageAborted {
		t.Errorf("stage = %s, want aborted", w.Stage())
	}
}

func TestRun_Abort(t *testing.T) {
	p := &scriptedPrompter{
		answers: []Answer{Text("Paris"), Text("Lyon")},
		abortAt: StageDate,
	}
	w := newTestWorkflow(testService())

	res, err := Run(context.Background(), w, p)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}
	if res.TripID != "" {
		t.Error("aborted run must not return a trip id")
	}
	if q := w.Query(); q.FromName != "" {
		t.Errorf("query should be discarded, got %+v", q)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, newTestWorkflow(testService()), &scriptedPrompter{})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}
}

func TestRun_NoPassengersIsFatal(t *testing.T) {
	sess := testSession()
	sess.Passengers = nil
	w := New(sess, testService(), Options{Now: func() time.Time { return now }})
	p := &scriptedPrompter{answers: []Answer{
		Text("Paris"), Text("Lyon"), Choice(4), Choice(4), Choices(),
	}}

	if _, err := Run(context.Background(), w, p); !errors.Is(err, ErrNoPassengers) {
		t.Fatalf("err = %v, want ErrNoPassengers", err)
	}
}
