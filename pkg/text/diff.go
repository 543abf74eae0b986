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

package text

import (
	"context"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"gitlab.com/tozd/go/errors"
)

// DiffUnavailable is shown in place of a diff that could not be produced.
const DiffUnavailable = "Unable to generate diff."

// DefaultContextLines is the number of unchanged lines kept around each hunk.
const DefaultContextLines = 3

// noNewlineMarker follows a last line that has no trailing newline
const noNewlineMarker = "\\ No newline at end of file"

// 🔍 Differ renders a human-readable diff between local and remote content
type Differ interface {
	// Diff returns the diff for the named file, or "" when both sides are equal
	Diff(ctx context.Context, name, local, remote string) (string, error)
}

// 📝 LineDiffer produces unified line diffs in process
type LineDiffer struct {
	// ContextLines is the number of unchanged lines shown around a change
	ContextLines int
	// Color enables red/green/cyan highlighting of the output
	Color bool
}

// 🏭 NewLineDiffer creates a LineDiffer with default context
func NewLineDiffer(colored bool) *LineDiffer {
	return &LineDiffer{
		ContextLines: DefaultContextLines,
		Color:        colored,
	}
}

// Diff implements Differ
func (d *LineDiffer) Diff(ctx context.Context, name, local, remote string) (out string, err error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Errorf("diffing %s: %w", name, err)
	}
	if local == remote {
		return "", nil
	}

	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = errors.Errorf("diffing %s: %v", name, r)
		}
	}()

	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(local),
		B:        splitLines(remote),
		FromFile: "local/" + name,
		ToFile:   "remote/" + name,
		Context:  d.contextLines(),
	})
	if err != nil {
		return "", errors.Errorf("diffing %s: %w", name, err)
	}
	if !d.Color || unified == "" {
		return unified, nil
	}

	return d.colorize(unified), nil
}

func (d *LineDiffer) contextLines() int {
	if d.ContextLines < 0 {
		return 0
	}
	return d.ContextLines
}

// colorize paints each line of a unified diff by its prefix. The first two
// lines are always the file headers.
func (d *LineDiffer) colorize(unified string) string {
	lines := strings.SplitAfter(unified, "\n")

	var sb strings.Builder
	for i, line := range lines {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")

		var attr color.Attribute
		switch {
		case i < 2:
			attr = color.FgHiBlack
		case strings.HasPrefix(body, "@@"):
			attr = color.FgCyan
		case strings.HasPrefix(body, "-"):
			attr = color.FgRed
		case strings.HasPrefix(body, "+"):
			attr = color.FgGreen
		default:
			sb.WriteString(line)
			continue
		}
		sb.WriteString(color.New(attr).Sprint(body) + "\n")
	}
	return sb.String()
}

// splitLines breaks content into newline-terminated lines. A last line without
// a newline carries the usual marker so that "a" and "a\n" still differ.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	last := len(lines) - 1
	if lines[last] == "" {
		return lines[:last]
	}
	lines[last] += "\n" + noNewlineMarker + "\n"
	return lines
}

// SafeDiff runs the differ and degrades any failure to DiffUnavailable
func SafeDiff(ctx context.Context, d Differ, name, local, remote string) (string, error) {
	out, err := d.Diff(ctx, name, local, remote)
	if err != nil {
		return DiffUnavailable, err
	}
	return out, nil
}
