package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/a-h/templ"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"railbook/internal/booking"
	"railbook/internal/config"
	"railbook/internal/prompt"
	"railbook/internal/render"
	"railbook/internal/resolve"
	"railbook/internal/storage"
)

// env carries what every command needs once the app is set up.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer

	db       *storage.DB
	client   *booking.Client
	term     *prompt.Terminal
	session  *booking.Session
	registry *prometheus.Registry
}

func (e *env) setup(c *cli.Context) error {
	db, err := storage.Open(e.cfg.DBPath, e.logger)
	if err != nil {
		return err
	}
	e.db = db

	e.client = booking.NewClient(booking.Options{
		BaseURL:  e.cfg.APIURL,
		Timeout:  e.cfg.HTTPTimeout,
		Retries:  e.cfg.Retries,
		CacheTTL: e.cfg.CacheTTL,
	}, e.logger)
	e.registry = prometheus.NewRegistry()
	e.registry.MustRegister(e.client.Metrics().Collectors()...)
	e.term = prompt.NewTerminal(e.logger)

	sess, err := db.LoadSession(c.Context)
	if err != nil {
		return err
	}
	if sess != nil {
		e.session = sess
		e.client.SetToken(sess.Token)
		if c.Args().First() != "login" {
			e.show(c.Context, render.Welcome(sess.User))
		}
	}
	return nil
}

func (e *env) teardown(c *cli.Context) error {
	if c.Bool("stats") && e.registry != nil {
		if err := writeStats(e.out, e.registry); err != nil {
			e.logger.Error("write stats", "error", err)
		}
	}
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

func (e *env) show(ctx context.Context, comp templ.Component) {
	if err := comp.Render(ctx, e.out); err != nil {
		e.logger.Error("render", "error", err)
	}
}

// requireSession reports a missing login to the user.
func (e *env) requireSession(ctx context.Context) error {
	if e.session != nil {
		return nil
	}
	e.show(ctx, render.Error("You are not connected. Use login --email"))
	return cli.Exit("", 1)
}

// apiFailure turns booking errors into a message and a non-zero exit.
func (e *env) apiFailure(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrUnauthorized):
		e.show(ctx, render.Error("Your session has expired. Use login --email"))
	case errors.Is(err, booking.ErrServiceUnavailable):
		e.show(ctx, render.Error("The booking service is unavailable, try again later."))
	default:
		return err
	}
	return cli.Exit("", 1)
}

func (e *env) loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "connect to your account",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Usage:    "account email address",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			password, err := e.term.Password("Password:")
			if err != nil {
				return err
			}

			sess, err := e.client.Login(c.Context, c.String("email"), password)
			if errors.Is(err, booking.ErrUnauthorized) {
				e.show(c.Context, render.Error("Wrong password or wrong email address"))
				return cli.Exit("", 1)
			}
			if err != nil {
				return e.apiFailure(c.Context, err)
			}

			if err := e.db.SaveSession(c.Context, sess); err != nil {
				return err
			}
			e.session = sess
			e.show(c.Context, render.Connected(sess.User))
			return nil
		},
	}
}

func (e *env) logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "forget the stored session",
		Action: func(c *cli.Context) error {
			if err := e.requireSession(c.Context); err != nil {
				return err
			}
			if err := e.db.ClearSession(c.Context); err != nil {
				return err
			}
			e.session = nil
			e.show(c.Context, render.Message("You are now disconnected."))
			return nil
		},
	}
}

func (e *env) searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "find a trip interactively",
		Action: func(c *cli.Context) error {
			if err := e.requireSession(c.Context); err != nil {
				return err
			}

			w := resolve.New(e.session, e.client, resolve.Options{
				Days:     e.cfg.SearchDays,
				PageSize: e.cfg.PageSize,
			})
			res, err := resolve.Run(c.Context, w, e.term)
			switch {
			case errors.Is(err, resolve.ErrAborted):
				e.show(c.Context, render.Message("Search cancelled."))
				return nil
			case errors.Is(err, resolve.ErrNoPassengers):
				e.show(c.Context, render.Error("Your account has no passengers, add one on the website first."))
				return cli.Exit("", 1)
			case err != nil:
				return e.apiFailure(c.Context, err)
			}

			if res.NoTrips {
				e.show(c.Context, render.Message("No trips found"))
				return nil
			}
			e.show(c.Context, render.Resolved(res.TripID, res.Class, res.Trip))
			return nil
		},
	}
}

func (e *env) tripsCommand() *cli.Command {
	return &cli.Command{
		Name:  "trips",
		Usage: "list your booked trips",
		Action: func(c *cli.Context) error {
			if err := e.requireSession(c.Context); err != nil {
				return err
			}
			trips, err := e.client.Trips(c.Context)
			if err != nil {
				return e.apiFailure(c.Context, err)
			}
			if len(trips) > e.cfg.TripsLimit {
				trips = trips[:e.cfg.TripsLimit]
			}
			e.show(c.Context, render.TripsTable(trips, time.Now()))
			return nil
		},
	}
}

func (e *env) basketCommand() *cli.Command {
	return &cli.Command{
		Name:  "basket",
		Usage: "list the trips waiting in your basket",
		Action: func(c *cli.Context) error {
			if err := e.requireSession(c.Context); err != nil {
				return err
			}
			trips, err := e.client.Basket(c.Context)
			if err != nil {
				return e.apiFailure(c.Context, err)
			}
			e.show(c.Context, render.TripsTable(trips, time.Now()))
			return nil
		},
	}
}

// writeStats prints every counter gathered from g, one per line.
func writeStats(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, lp := range m.GetLabel() {
				name += fmt.Sprintf(" %s=%s", lp.GetName(), lp.GetValue())
			}
			if _, err := fmt.Fprintf(w, "%s %g\n", name, m.GetCounter().GetValue()); err != nil {
				return err
			}
		}
	}
	return nil
}
