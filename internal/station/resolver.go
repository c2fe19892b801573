// Package station resolves free-text station input to stations of the
// booking service.
package station

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"railbook/internal/booking"
	"railbook/internal/fuzzy"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("station not found")

// NotFoundError reports a query that matched no station.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no station matches %q", e.Query)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Searcher looks stations up on the booking service.
type Searcher interface {
	SearchStation(ctx context.Context, text string) ([]booking.Station, error)
}

// Resolver turns what the user typed into station suggestions and, on
// confirmation, into a single station.
type Resolver struct {
	svc   Searcher
	known []booking.Station
}

// NewResolver creates a Resolver. known are the user's frequent stations,
// offered before anything is typed.
func NewResolver(svc Searcher, known []booking.Station) *Resolver {
	return &Resolver{svc: svc, known: known}
}

// Resolve returns the station names to suggest for text.
func (r *Resolver) Resolve(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return names(r.known), nil
	}

	stations, err := r.svc.SearchStation(ctx, text)
	if err != nil {
		return nil, err
	}
	all := names(stations)

	// The service also matches aliases ("CDG" for the airport station), which
	// a subsequence filter would throw away.
	if refined := fuzzy.Filter(text, all); len(refined) > 0 {
		return refined, nil
	}
	return all, nil
}

// Identify returns the best service match for text.
func (r *Resolver) Identify(ctx context.Context, text string) (booking.Station, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return booking.Station{}, &NotFoundError{Query: text}
	}

	stations, err := r.svc.SearchStation(ctx, text)
	if err != nil {
		return booking.Station{}, err
	}
	if len(stations) == 0 {
		return booking.Station{}, &NotFoundError{Query: text}
	}
	return stations[0], nil
}

func names(stations []booking.Station) []string {
	out := make([]string, len(stations))
	for i, s := range stations {
		out[i] = s.Name
	}
	return out
}
