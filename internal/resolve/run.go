package resolve

import (
	"context"
	"errors"
	"fmt"

	"railbook/internal/dates"
	"railbook/internal/station"
)

// Recoverable reports whether err only needs the same question asked again.
func Recoverable(err error) bool {
	return errors.Is(err, station.ErrNotFound) ||
		errors.Is(err, dates.ErrInvalidDate) ||
		errors.Is(err, ErrEmptySelection) ||
		errors.Is(err, ErrInvalidChoice)
}

// Explain turns a recoverable error into a message for the user.
func Explain(err error) string {
	var nf *station.NotFoundError
	switch {
	case errors.As(err, &nf):
		if nf.Query == "" {
			return "Please enter a station name."
		}
		return fmt.Sprintf("No station found for %q, try another name.", nf.Query)
	case errors.Is(err, dates.ErrInvalidDate):
		return "That date could not be read, pick the day and time again."
	case errors.Is(err, ErrEmptySelection):
		return "Select at least one passenger."
	case errors.Is(err, ErrInvalidChoice):
		return "Pick one of the listed options."
	}
	return err.Error()
}

// Run drives w to a terminal stage through p. Recoverable errors are shown
// and the same stage is asked again; any other error, including an
// unavailable booking service, ends the workflow and is returned.
func Run(ctx context.Context, w *Workflow, p Prompter) (Result, error) {
	for !w.Done() {
		if err := ctx.Err(); err != nil {
			w.Abort()
			return Result{}, fmt.Errorf("%w: %v", ErrAborted, err)
		}
		warnAll(p, w.Notices())

		var err error
		if pr, ok := w.Prompt(); ok {
			var a Answer
			if a, err = p.Ask(ctx, pr); err != nil {
				w.Abort()
				return Result{}, err
			}
			err = w.Answer(ctx, a)
		} else {
			err = w.Advance(ctx)
		}

		if err != nil {
			if Recoverable(err) {
				p.Warn(Explain(err))
				continue
			}
			w.Abort()
			return Result{}, err
		}
	}
	warnAll(p, w.Notices())
	return w.Result(), nil
}

func warnAll(p Prompter, msgs []string) {
	for _, m := range msgs {
		p.Warn(m)
	}
}
