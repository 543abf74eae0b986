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

package operation

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/walteh/metasync/pkg/config"
	"github.com/walteh/metasync/pkg/prompt"
	"github.com/walteh/metasync/pkg/reconcile"
	"github.com/walteh/metasync/pkg/remote"
	"github.com/walteh/metasync/pkg/state"
	"github.com/walteh/metasync/pkg/text"
	"github.com/walteh/metasync/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operator defines the main interface for metasync operations
type Operator interface {
	// Sync reconciles, prompts and pulls the selected remote content locally
	Sync(ctx context.Context) (*Summary, error)
	// Status reconciles without prompting or writing
	Status(ctx context.Context) (*reconcile.Differences, error)
}

// 🔧 Options contains configuration for the operator
type Options struct {
	// Sync holds the resolved run parameters
	Sync config.SyncOptions
	// Source fetches remote records
	Source remote.Source
	// Prompter asks which files to act on. Only Sync needs it.
	Prompter prompt.Prompter
	// Differ renders diffs for changed files. Defaults to text.LineDiffer.
	Differ text.Differ
	// Registry holds the workspaces of one run. Defaults to a new registry.
	Registry *workspace.Registry
	// FS resolves the local directory. Defaults to the host filesystem.
	FS billy.Filesystem
	// LockDir overrides where the directory lock lives
	LockDir string
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (Operator, error) {
	if opts.Source == nil {
		return nil, errors.Errorf("source is required")
	}
	if opts.Prompter == nil {
		return nil, errors.Errorf("prompter is required")
	}
	if opts.Registry == nil {
		opts.Registry = workspace.NewRegistry()
	}
	if opts.Differ == nil {
		opts.Differ = text.NewLineDiffer(false)
	}
	return &operator{opts: opts}, nil
}

// 🎮 operator implements the Operator interface
type operator struct {
	opts Options
}

// 📋 Summary reports what a Sync run did
type Summary struct {
	Created   []string
	Updated   []string
	Skipped   []string
	LocalOnly []string
	Phases    []state.Phase
	Cancelled bool
}

// Writes is the number of local files written
func (s *Summary) Writes() int {
	return len(s.Created) + len(s.Updated)
}

// PreconditionError lists every problem found before the run touched anything
type PreconditionError struct {
	Problems []string
}

func (e *PreconditionError) Error() string {
	if len(e.Problems) == 1 {
		return "precondition failed: " + e.Problems[0]
	}
	return fmt.Sprintf("%d preconditions failed: %s", len(e.Problems), strings.Join(e.Problems, "; "))
}
