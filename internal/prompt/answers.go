package prompt

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Answers replays pre-recorded answers keyed by query name.
type Answers struct {
	values   map[string]string
	fallback Prompter
	log      logrus.FieldLogger
}

// NewAnswers creates a scripted prompter. Questions without an answer are
// delegated to fallback when it is non-nil, otherwise the query default is
// used, otherwise ErrNoAnswer is returned.
func NewAnswers(values map[string]string, fallback Prompter, log logrus.FieldLogger) *Answers {
	if values == nil {
		values = map[string]string{}
	}
	return &Answers{
		values:   values,
		fallback: fallback,
		log:      log.WithField("component", "answers"),
	}
}

// LoadAnswers reads a flat YAML mapping of query name to answer.
func LoadAnswers(path string) (map[string]string, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answer file: %w", err)
	}

	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answer file: %w", err)
	}
	return values, nil
}

// Note forwards to the fallback or logs the text.
func (a *Answers) Note(text string) {
	if a.fallback != nil {
		a.fallback.Note(text)
		return
	}
	a.log.Info(text)
}

// Unattended returns a prompter that never reaches an operator. Scripted
// answers of p are kept when p is an *Answers; every other question resolves
// to its default or fails with ErrNoAnswer.
func Unattended(p Prompter, log logrus.FieldLogger) Prompter {
	if a, ok := p.(*Answers); ok {
		return &Answers{values: a.values, log: a.log}
	}
	return NewAnswers(nil, nil, log)
}

// QueryString answers q from the script.
func (a *Answers) QueryString(ctx context.Context, q Query) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	raw, ok := a.values[q.Name]
	switch {
	case ok:
		a.log.WithField("query", q.Name).Debug("answered from script")
	case a.fallback != nil:
		return a.fallback.QueryString(ctx, q)
	case q.Default != nil:
		a.log.WithField("query", q.Name).Debug("using default answer")
	default:
		return "", fmt.Errorf("%w for %s", ErrNoAnswer, q.Name)
	}

	return q.Resolve(raw)
}

// ReachesOperator reports whether asking q through p would wait on a person.
// Questions answered by a script, or by a default with no fallback behind the
// script, do not.
func ReachesOperator(p Prompter, q Query) bool {
	a, ok := p.(*Answers)
	if !ok {
		return true
	}
	if _, scripted := a.values[q.Name]; scripted || a.fallback == nil {
		return false
	}
	return ReachesOperator(a.fallback, q)
}
