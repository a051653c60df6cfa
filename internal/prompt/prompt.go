package prompt

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrAborted is returned when the operator cancels a question.
	ErrAborted = errors.New("aborted by user")
	// ErrNoAnswer is returned by a scripted prompter that has no answer and
	// no default for a question.
	ErrNoAnswer = errors.New("no answer provided")
	// ErrInvalidAnswer wraps answers rejected by valid values or validators.
	ErrInvalidAnswer = errors.New("invalid answer")
)

// Yes and No are the tokens used for confirmations.
const (
	Yes = "Yes"
	No  = "No"
)

// Query describes one question.
type Query struct {
	// Name identifies the question, used as the answer-file key.
	Name string
	// Note is the text shown to the operator.
	Note string
	// ValidValues restricts the answer when non-empty.
	ValidValues []string
	// Default is used for an empty answer when set.
	Default *string
	// CaseSensitive keeps the answer as typed; otherwise it is lowercased.
	CaseSensitive bool
	// Hidden masks the input.
	Hidden bool
	// Validate is applied to the effective answer.
	Validate func(string) error
}

// Prompter asks the operator questions and shows notes.
type Prompter interface {
	QueryString(ctx context.Context, q Query) (string, error)
	Note(text string)
}

// Resolve applies default, case folding, valid values and the validator to a
// raw answer. Prompter implementations share it so both behave alike.
func (q Query) Resolve(raw string) (string, error) {
	answer := raw
	if answer == "" && q.Default != nil {
		answer = *q.Default
	}
	if !q.CaseSensitive {
		answer = strings.ToLower(answer)
	}

	if len(q.ValidValues) > 0 {
		valid := q.ValidValues
		if !q.CaseSensitive {
			valid = make([]string, len(q.ValidValues))
			for i, v := range q.ValidValues {
				valid[i] = strings.ToLower(v)
			}
		}
		if !slices.Contains(valid, answer) {
			return "", fmt.Errorf("%w for %s: %q is not one of %s",
				ErrInvalidAnswer, q.Name, answer, strings.Join(q.ValidValues, ", "))
		}
	}

	if q.Validate != nil {
		if err := q.Validate(answer); err != nil {
			return "", fmt.Errorf("%w for %s: %w", ErrInvalidAnswer, q.Name, err)
		}
	}
	return answer, nil
}

// Confirm asks a Yes/No question and reports whether the answer was yes.
func Confirm(ctx context.Context, p Prompter, name, note string, def bool) (bool, error) {
	d := No
	if def {
		d = Yes
	}
	answer, err := p.QueryString(ctx, Query{
		Name:        name,
		Note:        note,
		ValidValues: []string{Yes, No},
		Default:     &d,
	})
	if err != nil {
		return false, err
	}
	return answer == strings.ToLower(Yes), nil
}
