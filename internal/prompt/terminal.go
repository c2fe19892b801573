// Package prompt puts the workflow's questions to a terminal user.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"railbook/internal/fuzzy"
	"railbook/internal/render"
	"railbook/internal/resolve"
)

// Terminal implements resolve.Prompter on an interactive terminal.
type Terminal struct {
	in     terminal.FileReader
	out    terminal.FileWriter
	errOut io.Writer
	logger *slog.Logger
}

// NewTerminal creates a Terminal on the process's standard streams.
func NewTerminal(logger *slog.Logger) *Terminal {
	return &Terminal{in: os.Stdin, out: os.Stdout, errOut: os.Stderr, logger: logger}
}

func (t *Terminal) stdio() survey.AskOpt {
	return survey.WithStdio(t.in, t.out, t.errOut)
}

// Ask puts p to the user.
func (t *Terminal) Ask(ctx context.Context, p resolve.Prompt) (resolve.Answer, error) {
	switch p.Kind {
	case resolve.KindText:
		return t.askText(ctx, p)
	case resolve.KindSelect:
		return t.askSelect(p)
	case resolve.KindMultiSelect:
		return t.askMulti(p)
	}
	return resolve.Answer{}, fmt.Errorf("unknown prompt kind %d", p.Kind)
}

func (t *Terminal) askText(ctx context.Context, p resolve.Prompt) (resolve.Answer, error) {
	q := &survey.Input{
		Message: p.Message,
		Help:    "Press Tab to list matching stations",
	}
	if p.Suggest != nil {
		q.Suggest = newSuggester(ctx, p.Suggest, t.Warn).suggest
	}

	opts := []survey.AskOpt{t.stdio()}
	if p.PageSize > 0 {
		opts = append(opts, survey.WithPageSize(p.PageSize))
	}

	var text string
	if err := survey.AskOne(q, &text, opts...); err != nil {
		return resolve.Answer{}, mapErr(err)
	}
	return resolve.Text(text), nil
}

func (t *Terminal) askSelect(p resolve.Prompt) (resolve.Answer, error) {
	q := &survey.Select{
		Message:  p.Message,
		Options:  p.Options,
		PageSize: p.PageSize,
	}
	if len(p.Hints) == len(p.Options) {
		q.Description = func(_ string, i int) string { return p.Hints[i] }
	}
	if p.Filter {
		q.Filter = func(filter, _ string, i int) bool {
			return fuzzy.Match(filter, p.Options[i])
		}
	} else {
		q.Filter = func(string, string, int) bool { return true }
	}

	var choice int
	if err := survey.AskOne(q, &choice, t.stdio()); err != nil {
		return resolve.Answer{}, mapErr(err)
	}
	return resolve.Choice(choice), nil
}

func (t *Terminal) askMulti(p resolve.Prompt) (resolve.Answer, error) {
	defaults := make([]string, 0, len(p.Defaults))
	for _, i := range p.Defaults {
		defaults = append(defaults, p.Options[i])
	}
	q := &survey.MultiSelect{
		Message:  p.Message,
		Options:  p.Options,
		Default:  defaults,
		PageSize: p.PageSize,
	}

	var choices []int
	if err := survey.AskOne(q, &choices, t.stdio()); err != nil {
		return resolve.Answer{}, mapErr(err)
	}
	return resolve.Choices(choices...), nil
}

// Password asks for a secret without echoing it.
func (t *Terminal) Password(msg string) (string, error) {
	var secret string
	q := &survey.Password{Message: msg}
	if err := survey.AskOne(q, &secret, t.stdio(), survey.WithValidator(survey.Required)); err != nil {
		return "", mapErr(err)
	}
	return secret, nil
}

// Warn shows msg on the terminal.
func (t *Terminal) Warn(msg string) {
	if err := render.Warning(msg).Render(context.Background(), t.out); err != nil {
		t.logger.Error("write warning", "error", err)
	}
}

func mapErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) || errors.Is(err, io.EOF) {
		return resolve.ErrAborted
	}
	return err
}

// suggester adapts a resolve.SuggestFunc to survey's synchronous Suggest
// hook. Superseded lookups keep the previous list on screen.
type suggester struct {
	ctx  context.Context
	fn   resolve.SuggestFunc
	warn func(string)
	last []string
}

func newSuggester(ctx context.Context, fn resolve.SuggestFunc, warn func(string)) *suggester {
	return &suggester{ctx: ctx, fn: fn, warn: warn}
}

func (s *suggester) suggest(input string) []string {
	options, fresh, err := s.fn(s.ctx, input)
	if !fresh {
		return s.last
	}
	if err != nil {
		s.warn(fmt.Sprintf("Station search failed: %v", err))
		return s.last
	}
	s.last = options
	return options
}
