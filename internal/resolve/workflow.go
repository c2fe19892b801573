// Package resolve walks the user from loose input (station names, a day,
// an hour slot, passengers) to one bookable trip id.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"railbook/internal/booking"
	"railbook/internal/dates"
	"railbook/internal/itinerary"
	"railbook/internal/station"
	"railbook/internal/suggest"
)

var (
	// ErrEmptySelection is returned when no passenger was selected.
	ErrEmptySelection = errors.New("no passenger selected")
	// ErrInvalidChoice is returned for an answer outside the offered options.
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrNoPassengers is returned when the account has no passenger at all.
	ErrNoPassengers = errors.New("account has no passengers")
	// ErrAborted is returned when the user gives up before a trip is chosen.
	ErrAborted = errors.New("search aborted")
)

// Stage is a step of the workflow. Stages only ever move forward.
type Stage int

const (
	StageOrigin Stage = iota
	StageDestination
	StageDate
	StageHour
	StagePassengers
	StageSearch
	StageItinerary
	StageFareClass
	StageResolved
	StageNoTrips
	StageAborted
)

var stageNames = [...]string{
	"origin", "destination", "date", "hour", "passengers",
	"search", "itinerary", "fare class", "resolved", "no trips", "aborted",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// Service is the part of the booking service the workflow needs.
type Service interface {
	station.Searcher
	SearchTrips(ctx context.Context, originID, destinationID int, passengerIDs []int, departure string) ([]booking.Trip, error)
}

// Query holds the answers gathered so far. It lives only as long as the
// workflow that owns it.
type Query struct {
	FromName     string
	ToName       string
	DateLabel    string
	HourLabel    string
	PassengerIDs []int

	Origin      booking.Station
	Destination booking.Station
	Departure   time.Time
}

// Result is the outcome of a finished workflow.
type Result struct {
	TripID  string
	Class   string
	Trip    booking.Trip
	NoTrips bool
}

// Options tunes a Workflow.
type Options struct {
	Days     int // departure days offered, 90 when zero
	PageSize int // visible rows of a list, 5 when zero
	Now      func() time.Time
}

// Workflow is the trip resolution state machine. It performs no terminal
// I/O: Prompt describes what the current stage needs and Answer applies
// the reply, so every transition can be driven directly from tests.
type Workflow struct {
	svc      Service
	stations *station.Resolver
	tracker  *suggest.Tracker
	now      func() time.Time
	pageSize int

	days       []dates.Day
	passengers []booking.Passenger // display order

	stage   Stage
	query   Query
	trips   []booking.Trip
	classes map[string]booking.FareOption
	chosen  booking.Trip
	result  Result
	notices []string
}

// New creates a workflow for the connected user.
func New(session *booking.Session, svc Service, opts Options) *Workflow {
	if opts.Days <= 0 {
		opts.Days = 90
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 5
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Workflow{
		svc:        svc,
		stations:   station.NewResolver(svc, session.Stations),
		tracker:    suggest.NewTracker(),
		now:        opts.Now,
		pageSize:   opts.PageSize,
		days:       dates.NextDays(opts.Now(), opts.Days),
		passengers: orderPassengers(session.Passengers),
		stage:      StageOrigin,
	}
}

// orderPassengers lists preselected passengers first, keeping the
// service's order inside each group.
func orderPassengers(ps []booking.Passenger) []booking.Passenger {
	out := slices.Clone(ps)
	slices.SortStableFunc(out, func(a, b booking.Passenger) int {
		switch {
		case a.IsSelected == b.IsSelected:
			return 0
		case a.IsSelected:
			return -1
		default:
			return 1
		}
	})
	return out
}

// Stage returns the current stage.
func (w *Workflow) Stage() Stage { return w.stage }

// Query returns a copy of the answers gathered so far.
func (w *Workflow) Query() Query {
	q := w.query
	q.PassengerIDs = slices.Clone(q.PassengerIDs)
	return q
}

// Done reports whether the workflow reached a terminal stage.
func (w *Workflow) Done() bool {
	return w.stage == StageResolved || w.stage == StageNoTrips || w.stage == StageAborted
}

// Result returns the outcome once Done.
func (w *Workflow) Result() Result { return w.result }

// Notices returns and clears the messages produced since the last call.
func (w *Workflow) Notices() []string {
	n := w.notices
	w.notices = nil
	return n
}

// Abort discards the query. No trip id is produced afterwards.
func (w *Workflow) Abort() {
	w.query = Query{}
	w.trips = nil
	w.classes = nil
	w.result = Result{}
	w.stage = StageAborted
	w.tracker.Reset(StageOrigin.String())
	w.tracker.Reset(StageDestination.String())
}

// Prompt describes the question of the current stage. It reports false
// for stages that run without user input and for terminal stages.
func (w *Workflow) Prompt() (Prompt, bool) {
	switch w.stage {
	case StageOrigin:
		return w.stationPrompt("From:"), true
	case StageDestination:
		return w.stationPrompt("To:"), true
	case StageDate:
		hints := make([]string, len(w.days))
		for i, d := range w.days {
			hints[i] = dayHint(i, d)
		}
		return Prompt{
			Stage:    w.stage,
			Kind:     KindSelect,
			Message:  "Departure date:",
			Options:  dates.Labels(w.days),
			Hints:    hints,
			Filter:   true,
			PageSize: w.pageSize,
		}, true
	case StageHour:
		return Prompt{
			Stage:    w.stage,
			Kind:     KindSelect,
			Message:  "Time:",
			Options:  slices.Clone(dates.Slots),
			PageSize: len(dates.Slots),
		}, true
	case StagePassengers:
		p := Prompt{
			Stage:    w.stage,
			Kind:     KindMultiSelect,
			Message:  "Passengers:",
			PageSize: max(w.pageSize, len(w.passengers)),
		}
		for i, ps := range w.passengers {
			p.Options = append(p.Options, ps.FullName())
			if ps.IsSelected {
				p.Defaults = append(p.Defaults, i)
			}
		}
		return p, true
	case StageItinerary:
		p := Prompt{
			Stage:    w.stage,
			Kind:     KindSelect,
			Message:  "Available trips:",
			PageSize: 20,
		}
		for _, t := range w.trips {
			p.Options = append(p.Options, itinerary.Summary(t))
			p.Hints = append(p.Hints, itinerary.StopsLine(t))
		}
		return p, true
	case StageFareClass:
		p := Prompt{
			Stage:    w.stage,
			Kind:     KindSelect,
			Message:  "Travel class:",
			PageSize: w.pageSize,
		}
		for _, name := range itinerary.ClassNames(w.classes) {
			p.Options = append(p.Options, itinerary.ClassLabel(name, w.classes[name]))
		}
		return p, true
	}
	return Prompt{}, false
}

func dayHint(i int, d dates.Day) string {
	switch {
	case i == 0:
		return "today"
	case i == 1:
		return "tomorrow"
	case d.IsWeekend:
		return "weekend"
	}
	return ""
}

func (w *Workflow) stationPrompt(msg string) Prompt {
	field := w.stage.String()
	return Prompt{
		Stage:    w.stage,
		Kind:     KindText,
		Message:  msg,
		PageSize: w.pageSize,
		Suggest: func(ctx context.Context, input string) ([]string, bool, error) {
			return w.tracker.Fetch(ctx, field, func(ctx context.Context) ([]string, error) {
				return w.stations.Resolve(ctx, input)
			})
		},
	}
}

// Answer applies the user's reply to the current stage. Recoverable
// errors (see Recoverable) leave the workflow ready to ask again.
func (w *Workflow) Answer(ctx context.Context, a Answer) error {
	switch w.stage {
	case StageOrigin:
		st, err := w.stations.Identify(ctx, a.Text)
		if err != nil {
			return fmt.Errorf("origin: %w", err)
		}
		w.query.FromName, w.query.Origin = a.Text, st
		w.stage = StageDestination
	case StageDestination:
		st, err := w.stations.Identify(ctx, a.Text)
		if err != nil {
			return fmt.Errorf("destination: %w", err)
		}
		w.query.ToName, w.query.Destination = a.Text, st
		w.stage = StageDate
	case StageDate:
		label := a.Text
		if label == "" {
			if a.Choice < 0 || a.Choice >= len(w.days) {
				return fmt.Errorf("%w: day %d", ErrInvalidChoice, a.Choice)
			}
			label = w.days[a.Choice].Label
		}
		w.query.DateLabel = label
		w.stage = StageHour
	case StageHour:
		if a.Choice < 0 || a.Choice >= len(dates.Slots) {
			return fmt.Errorf("%w: hour %d", ErrInvalidChoice, a.Choice)
		}
		slot := dates.Slots[a.Choice]
		t, err := dates.Combine(w.query.DateLabel, slot, w.days, w.now())
		if err != nil {
			// The day and the hour are one state: ask for both again.
			w.query.DateLabel = ""
			w.stage = StageDate
			return err
		}
		w.query.HourLabel, w.query.Departure = slot, t
		w.stage = StagePassengers
		if len(w.passengers) == 0 {
			return ErrNoPassengers
		}
	case StagePassengers:
		if len(w.passengers) == 0 {
			return ErrNoPassengers
		}
		var ids []int
		for _, i := range a.Choices {
			if i < 0 || i >= len(w.passengers) {
				return fmt.Errorf("%w: passenger %d", ErrInvalidChoice, i)
			}
			if id := w.passengers[i].ID; !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return ErrEmptySelection
		}
		w.query.PassengerIDs = ids
		w.stage = StageSearch
	case StageItinerary:
		if a.Choice < 0 || a.Choice >= len(w.trips) {
			return fmt.Errorf("%w: trip %d", ErrInvalidChoice, a.Choice)
		}
		w.chosen = w.trips[a.Choice]
		w.classes = w.chosen.TravelClasses
		if len(w.classes) == 1 {
			for name, opt := range w.classes {
				w.resolve(name, opt)
			}
			return nil
		}
		w.stage = StageFareClass
	case StageFareClass:
		names := itinerary.ClassNames(w.classes)
		if a.Choice < 0 || a.Choice >= len(names) {
			return fmt.Errorf("%w: class %d", ErrInvalidChoice, a.Choice)
		}
		w.resolve(names[a.Choice], w.classes[names[a.Choice]])
	default:
		return fmt.Errorf("stage %s takes no answer", w.stage)
	}
	return nil
}

// Advance runs the stages that need no input.
func (w *Workflow) Advance(ctx context.Context) error {
	if w.stage != StageSearch {
		return fmt.Errorf("stage %s cannot advance on its own", w.stage)
	}

	q := w.query
	found, err := w.svc.SearchTrips(ctx, q.Origin.ID, q.Destination.ID, q.PassengerIDs, dates.FormatTimestamp(q.Departure))
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	w.trips = w.trips[:0]
	for _, t := range found {
		built, err := itinerary.BuildStops(t)
		if err != nil {
			w.notices = append(w.notices, fmt.Sprintf("Skipping trip %s: %v", itinerary.Summary(t), err))
			continue
		}
		if len(built.TravelClasses) == 0 {
			w.notices = append(w.notices, fmt.Sprintf("Skipping trip %s: no fare offered", itinerary.Summary(t)))
			continue
		}
		w.trips = append(w.trips, built)
	}

	if len(w.trips) == 0 {
		w.result = Result{NoTrips: true}
		w.stage = StageNoTrips
		return nil
	}
	w.stage = StageItinerary
	return nil
}

func (w *Workflow) resolve(class string, opt booking.FareOption) {
	w.result = Result{TripID: opt.TripID, Class: class, Trip: w.chosen}
	w.stage = StageResolved
}
