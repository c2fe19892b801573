package resolve

import "context"

// Kind is the input widget a stage needs.
type Kind int

const (
	KindText Kind = iota
	KindSelect
	KindMultiSelect
)

// SuggestFunc returns suggestions for the text typed so far. fresh is false
// when a newer keystroke superseded this lookup; the caller should then keep
// showing what it had.
type SuggestFunc func(ctx context.Context, input string) (options []string, fresh bool, err error)

// Prompt describes the question of the current stage, independent of how
// it is put to the user.
type Prompt struct {
	Stage    Stage
	Kind     Kind
	Message  string
	Options  []string
	Hints    []string // optional, one per option
	Defaults []int    // preselected options of a multi-select
	Filter   bool     // narrow Options by fuzzy matching while typing
	PageSize int
	Suggest  SuggestFunc // text prompts only
}

// Answer is the user's reply to a Prompt. Text prompts fill Text, selects
// fill Choice and multi-selects fill Choices, all indexes into Options.
type Answer struct {
	Text    string
	Choice  int
	Choices []int
}

// Text answers a text prompt.
func Text(s string) Answer { return Answer{Text: s} }

// Choice answers a select.
func Choice(i int) Answer { return Answer{Choice: i} }

// Choices answers a multi-select.
func Choices(is ...int) Answer { return Answer{Choices: is} }

// Prompter puts prompts to the user.
type Prompter interface {
	// Ask blocks until the user answers. It returns ErrAborted when the user
	// gives up.
	Ask(ctx context.Context, p Prompt) (Answer, error)
	// Warn shows a message without expecting an answer.
	Warn(msg string)
}
