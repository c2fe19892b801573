package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var (
	// ErrServiceUnavailable is returned when the booking service cannot be
	// reached or keeps answering with server errors.
	ErrServiceUnavailable = errors.New("booking service unavailable")

	// ErrUnauthorized is returned for rejected credentials or an expired token.
	ErrUnauthorized = errors.New("not authorized")
)

const (
	endpointSignin   = "signin"
	endpointStations = "stations"
	endpointSearch   = "search"
	endpointTrips    = "trips"
	endpointBasket   = "basket"
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Retries   int           // extra attempts after a transport or 5xx failure
	CacheTTL  time.Duration // station search cache lifetime
	UserAgent string
}

// Client is an HTTP client for the train booking API.
type Client struct {
	baseURL  string
	retries  int
	client   *http.Client
	stations *Cache[[]Station]
	metrics  *Metrics
	logger   *slog.Logger

	mu    sync.RWMutex
	token string

	newBackOff func() backoff.BackOff
}

// NewClient creates a booking API client.
func NewClient(opts Options, logger *slog.Logger) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = "railbook"
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		retries: opts.Retries,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: withTransport(http.DefaultTransport, opts.UserAgent, logger),
		},
		stations: NewCache[[]Station](opts.CacheTTL),
		metrics:  newMetrics(),
		logger:   logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}
}

// Metrics exposes the client's request counters.
func (c *Client) Metrics() *Metrics {
	return c.metrics
}

// SetToken sets the API token sent with every authenticated request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges credentials for a session. The token of the returned
// session is also installed on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var result signinResponse
	body := signinRequest{Email: email, Password: password}
	if err := c.do(ctx, endpointSignin, http.MethodPost, "/account/signin", body, &result); err != nil {
		return nil, fmt.Errorf("login %s: %w", email, err)
	}
	if result.Meta.Token == "" {
		return nil, fmt.Errorf("login %s: %w", email, ErrUnauthorized)
	}

	c.SetToken(result.Meta.Token)
	return &Session{
		Token:      result.Meta.Token,
		User:       result.User,
		Passengers: result.Passengers,
		Stations:   result.Stations,
	}, nil
}

// SearchStation returns the stations matching a free-text query, best
// match first.
func (c *Client) SearchStation(ctx context.Context, text string) ([]Station, error) {
	cacheKey := strings.ToLower(strings.TrimSpace(text))
	if cached, ok := c.stations.Get(cacheKey); ok {
		c.metrics.cacheHit(endpointStations)
		return cached, nil
	}

	path := "/stations?" + url.Values{"q": {text}}.Encode()
	var result stationsResponse
	if err := c.do(ctx, endpointStations, http.MethodGet, path, nil, &result); err != nil {
		return nil, fmt.Errorf("search station %q: %w", text, err)
	}

	c.stations.Set(cacheKey, result.Stations)
	return result.Stations, nil
}

// SearchTrips searches the journeys between two stations departing around
// departure (formatted 2006-01-02T15:04:05) for the given passengers.
func (c *Client) SearchTrips(ctx context.Context, originID, destinationID int, passengerIDs []int, departure string) ([]Trip, error) {
	body := searchRequest{Search: searchParams{
		DepartureDate:      departure,
		DepartureStationID: originID,
		ArrivalStationID:   destinationID,
		PassengerIDs:       passengerIDs,
	}}

	var result searchResponse
	if err := c.do(ctx, endpointSearch, http.MethodPost, "/search", body, &result); err != nil {
		return nil, fmt.Errorf("search trips %d -> %d: %w", originID, destinationID, err)
	}
	return result.Trips, nil
}

// Trips lists the user's booked trips.
func (c *Client) Trips(ctx context.Context) ([]BookedTrip, error) {
	var result tripsResponse
	if err := c.do(ctx, endpointTrips, http.MethodGet, "/trips", nil, &result); err != nil {
		return nil, fmt.Errorf("fetch trips: %w", err)
	}
	return result.Trips, nil
}

// Basket lists the trips waiting in the user's basket.
func (c *Client) Basket(ctx context.Context) ([]BookedTrip, error) {
	var result tripsResponse
	if err := c.do(ctx, endpointBasket, http.MethodGet, "/basket", nil, &result); err != nil {
		return nil, fmt.Errorf("fetch basket: %w", err)
	}
	return result.Trips, nil
}

// do sends one logical request, retrying transport failures and 5xx
// answers, and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, endpoint, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	attempt := 0
	op := func() error {
		attempt++
		c.metrics.request(endpoint)
		return c.roundTrip(ctx, method, path, payload, out)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(max(c.retries, 0))), ctx)
	err := backoff.RetryNotify(op, b, func(err error, wait time.Duration) {
		c.logger.Debug("retrying booking request", "endpoint", endpoint, "attempt", attempt, "wait", wait, "error", err)
	})
	if err != nil {
		c.metrics.failure(endpoint)
		c.logger.Debug("booking request failed", "endpoint", endpoint, "attempts", attempt, "error", err)
		return err
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	u := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return backoff.Permanent(err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Token token=%q", token))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: HTTP %d from %s", ErrServiceUnavailable, resp.StatusCode, u)
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusUnprocessableEntity:
		return backoff.Permanent(fmt.Errorf("%w: HTTP %d", ErrUnauthorized, resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return backoff.Permanent(fmt.Errorf("HTTP %d from %s", resp.StatusCode, u))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
