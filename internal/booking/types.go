package booking

import "time"

// Station is a station as returned by the booking service.
type Station struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Passenger is one of the passengers attached to the user's account.
type Passenger struct {
	ID         int    `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	IsSelected bool   `json:"is_selected"` // service-side preselection
}

// FullName returns "First Last".
func (p Passenger) FullName() string {
	return p.FirstName + " " + p.LastName
}

// User is the authenticated account holder.
type User struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Session is the connected user's profile plus the opaque API token.
type Session struct {
	Token      string      `json:"token"`
	User       User        `json:"user"`
	Passengers []Passenger `json:"passengers"`
	Stations   []Station   `json:"stations"` // frequent stations
}

// PassengerIDs returns the ids of all passengers on the session.
func (s *Session) PassengerIDs() []int {
	ids := make([]int, len(s.Passengers))
	for i, p := range s.Passengers {
		ids[i] = p.ID
	}
	return ids
}

// Segment is one non-stop leg of a trip.
type Segment struct {
	DepartureStation string    `json:"departure_station"`
	ArrivalStation   string    `json:"arrival_station"`
	DepartureDate    time.Time `json:"departure_date"`
	ArrivalDate      time.Time `json:"arrival_date"`
	TrainName        string    `json:"train_name"`
}

// Stop is a layover between two consecutive segments. It is derived
// client-side and never sent by the service.
type Stop struct {
	Station   string
	TrainName string
	Duration  time.Duration
}

// FareOption is the price of a trip in one travel class, with the
// bookable identifier for that class.
type FareOption struct {
	Cents    int    `json:"cents"`
	Currency string `json:"currency"`
	TripID   string `json:"trip_id"`
}

// Trip is a search result.
type Trip struct {
	DepartureStation string                `json:"departure_station"`
	ArrivalStation   string                `json:"arrival_station"`
	DepartureDate    time.Time             `json:"departure_date"`
	ArrivalDate      time.Time             `json:"arrival_date"`
	Segments         []Segment             `json:"segments"`
	TravelClasses    map[string]FareOption `json:"travel_classes"`

	Stops []Stop `json:"-"`
}

// BookedTrip is an entry of the user's trips or basket.
type BookedTrip struct {
	Reference        string    `json:"reference"`
	DepartureDate    time.Time `json:"departure_date"`
	ArrivalDate      time.Time `json:"arrival_date"`
	DepartureStation Station   `json:"departure_station"`
	ArrivalStation   Station   `json:"arrival_station"`
	Passenger        Passenger `json:"passenger"`
	Cents            int       `json:"cents"`
	Currency         string    `json:"currency"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinResponse struct {
	Meta struct {
		Token string `json:"token"`
	} `json:"meta"`
	User       User        `json:"user"`
	Passengers []Passenger `json:"passengers"`
	Stations   []Station   `json:"stations"`
}

type stationsResponse struct {
	Stations []Station `json:"stations"`
}

type searchRequest struct {
	Search searchParams `json:"search"`
}

type searchParams struct {
	DepartureDate      string `json:"departure_date"`
	DepartureStationID int    `json:"departure_station_id"`
	ArrivalStationID   int    `json:"arrival_station_id"`
	PassengerIDs       []int  `json:"passenger_ids"`
}

type searchResponse struct {
	Trips []Trip `json:"trips"`
}

type tripsResponse struct {
	Trips []BookedTrip `json:"trips"`
}
