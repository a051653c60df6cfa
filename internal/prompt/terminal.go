package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Terminal asks questions on a terminal using huh forms.
type Terminal struct {
	in         io.Reader
	out        io.Writer
	accessible bool
	style      lipgloss.Style
}

// NewTerminal creates a terminal prompter on the given streams. When in is
// not a TTY the forms run in accessible mode, reading plain lines.
func NewTerminal(in *os.File, out io.Writer) *Terminal {
	tty := isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd())
	t := &Terminal{in: in, out: out, accessible: !tty, style: noteStyle}
	if !tty {
		t.style = plainStyle
	}
	return t
}

// Note prints text to the terminal.
func (t *Terminal) Note(text string) {
	_, _ = fmt.Fprintln(t.out, t.style.Render(text))
}

// QueryString asks q and keeps asking until the answer is valid.
func (t *Terminal) QueryString(ctx context.Context, q Query) (string, error) {
	var (
		answer string
		field  huh.Field
	)

	if len(q.ValidValues) > 0 {
		if q.Default != nil {
			answer = *q.Default
		}
		field = huh.NewSelect[string]().
			Title(q.Note).
			Options(huh.NewOptions(q.ValidValues...)...).
			Value(&answer)
	} else {
		input := huh.NewInput().
			Title(q.Note).
			Value(&answer).
			Validate(func(v string) error {
				_, err := q.Resolve(v)
				return err
			})
		if q.Default != nil && *q.Default != "" {
			input = input.Placeholder(*q.Default).
				Description(hintStyle.Render("leave empty for " + *q.Default))
		}
		if q.Hidden {
			input = input.EchoMode(huh.EchoModePassword)
		}
		field = input
	}

	err := huh.NewForm(huh.NewGroup(field)).
		WithAccessible(t.accessible).
		WithInput(t.in).
		WithOutput(t.out).
		RunWithContext(ctx)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("failed to ask %s: %w", q.Name, err)
	}

	return q.Resolve(answer)
}
