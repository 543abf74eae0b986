// Package prompt asks the operator which files to act on.
package prompt

import (
	"context"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/term"
)

// ErrCancelled means the operator aborted the interactive session
var ErrCancelled = errors.Base("selection cancelled")

// 🙋 Prompter selects a subset of choices. The returned order is not
// guaranteed to match the input order.
type Prompter interface {
	SelectFiles(ctx context.Context, message string, choices []string) ([]string, error)
}

var (
	_ Prompter = (*TerminalPrompter)(nil)
	_ Prompter = AutoPrompter{}
	_ Prompter = NonePrompter{}
)

// TerminalPrompter shows a pterm multiselect on the terminal
type TerminalPrompter struct {
	// In must be a terminal. Defaults to os.Stdin.
	In *os.File
	// MaxHeight limits the number of visible rows
	MaxHeight int
}

func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{In: os.Stdin, MaxHeight: 15}
}

// IsInteractive reports whether In is a terminal
func (p *TerminalPrompter) IsInteractive() bool {
	in := p.In
	if in == nil {
		in = os.Stdin
	}
	return term.IsTerminal(int(in.Fd()))
}

func (p *TerminalPrompter) SelectFiles(ctx context.Context, message string, choices []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("prompting: %w", err)
	}
	if len(choices) == 0 {
		return nil, nil
	}
	if !p.IsInteractive() {
		return nil, errors.New("interactive selection requires a terminal, use --yes for unattended runs")
	}

	interrupted := false
	printer := pterm.DefaultInteractiveMultiselect.
		WithOptions(choices).
		WithDefaultText(message).
		WithOnInterruptFunc(func() { interrupted = true })
	if p.MaxHeight > 0 {
		printer = printer.WithMaxHeight(p.MaxHeight)
	}

	selected, err := printer.Show()
	if interrupted {
		return nil, errors.WithStack(ErrCancelled)
	}
	if err != nil {
		return nil, errors.Errorf("showing selection: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("message", message).Strs("selected", selected).Msg("operator selection")

	return selected, nil
}

// AutoPrompter selects every choice, for unattended runs
type AutoPrompter struct{}

func (AutoPrompter) SelectFiles(ctx context.Context, _ string, choices []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("prompting: %w", err)
	}
	return append([]string(nil), choices...), nil
}

// NonePrompter selects nothing
type NonePrompter struct{}

func (NonePrompter) SelectFiles(ctx context.Context, _ string, _ []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("prompting: %w", err)
	}
	return nil, nil
}
