// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	actionWidth = 10 // Width for the action
	detailWidth = 15 // Width for detail text
)

// 🎯 FileOperation is one file touched (or deliberately not touched) by a run
type FileOperation struct {
	Name      string // Full file name
	Action    string // created/updated/skipped
	Detail    string // Free text, e.g. "local-only"
	IsNew     bool   // File was created
	IsUpdated bool   // File was overwritten
	IsSkipped bool   // File was left alone
}

// Category is one titled list inside a boxed report
type Category struct {
	Title string
	Files []string
}

// 🎯 Logger writes user-facing lines to the console and mirrors them into zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a logger printing to console
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a silent one when none is set
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return New(io.Discard, zerolog.Nop())
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsNew:
		symbol = '✓'
		symbolColor = color.FgGreen
	case op.IsUpdated:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	return fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Name),
		color.New(symbolColor).Sprint(fmt.Sprintf("%-*s", actionWidth, op.Action)),
		fmt.Sprintf("%-*s", detailWidth, op.Detail))
}

// 📝 LogFileOperation prints one file row
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	l.zlog.Info().
		Str("file", op.Name).
		Str("action", op.Action).
		Str("detail", op.Detail).
		Bool("is_new", op.IsNew).
		Bool("is_updated", op.IsUpdated).
		Bool("is_skipped", op.IsSkipped).
		Msg("file operation")
}

// 📦 Categories prints the non-empty categories in one box. It returns false,
// printing nothing, when every category is empty.
func (l *Logger) Categories(title string, categories []Category) bool {
	var lines []string
	for _, c := range categories {
		if len(c.Files) == 0 {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, color.New(color.Bold).Sprint(c.Title))
		for _, f := range c.Files {
			lines = append(lines, " - "+f)
		}
	}
	if len(lines) == 0 {
		return false
	}

	box := pterm.DefaultBox.
		WithTitle(title).
		WithTitleTopLeft().
		WithLeftPadding(1).
		WithRightPadding(1).
		Sprint(strings.Join(lines, "\n"))

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "\n%s\n", box)

	ev := l.zlog.Info()
	for _, c := range categories {
		ev = ev.Strs(c.Title, c.Files)
	}
	ev.Msg(title)

	return true
}

// 🛑 Diff prints the diff for one changed file
func (l *Logger) Diff(name, diff string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "🛑 Diff for %s:\n%s\n", color.New(color.Bold).Sprint(name), strings.TrimRight(diff, "\n"))
	l.zlog.Debug().Str("file", name).Int("diff_bytes", len(diff)).Msg("displayed diff")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// Println writes a plain line to the console only
func (l *Logger) Println(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, line)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("metasync")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
