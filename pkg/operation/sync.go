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

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/rs/zerolog"
	"github.com/walteh/metasync/pkg/log"
	"github.com/walteh/metasync/pkg/prompt"
	"github.com/walteh/metasync/pkg/reconcile"
	"github.com/walteh/metasync/pkg/state"
	"github.com/walteh/metasync/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

const (
	remoteOnlyMessage = "Choose the missing files you want to retrieve from the remote workspace:"
	viewDiffMessage   = "Select the files for which you want to view the differences:"
	overwriteMessage  = "Choose which changed files should be updated with remote content:"
)

// run carries the state of one Sync call
type run struct {
	*operator
	machine *state.Machine
	pair    workspace.Pair
	summary *Summary
	locked  bool
}

// 🔄 Sync reconciles both workspaces, asks which remote-only and changed files
// to pull, and writes the selection locally. Local-only files are never touched.
func (o *operator) Sync(ctx context.Context) (*Summary, error) {
	logger := zerolog.Ctx(ctx)
	ui := log.FromContext(ctx)

	r := &run{operator: o, machine: state.NewMachine(), summary: &Summary{}}
	defer func() { r.summary.Phases = r.machine.History() }()

	pair, err := o.initialize(ctx, r.machine)
	if err != nil {
		return nil, err
	}
	r.pair = pair
	defer r.unlock(ctx)

	diffs, err := o.reconcile(ctx, r.machine, pair)
	if err != nil {
		return nil, err
	}
	r.summary.LocalOnly = diffs.LocalOnlyNames()

	ui.Categories("ℹ File Differences", []log.Category{
		{Title: "Missing Files (present in Salesforce but not locally)", Files: diffs.RemoteOnlyNames()},
		{Title: "Local-Only Files (not found in Salesforce)", Files: diffs.LocalOnlyNames()},
		{Title: "Changed Files (content differences)", Files: diffs.ChangedNames()},
	})
	if diffs.Empty() {
		ui.Success("Everything is up to date. Nothing to synchronize.")
		return r.summary, r.machine.Advance(state.Done)
	}

	for _, step := range []func(context.Context, *reconcile.Differences) error{
		r.applyRemoteOnly,
		r.applyChanged,
	} {
		if err := step(ctx, diffs); err != nil {
			if errors.Is(err, prompt.ErrCancelled) {
				logger.Info().Str("phase", r.machine.Current().String()).Msg("sync cancelled")
				ui.Info("Selection cancelled. No further changes were made.")
				r.summary.Cancelled = true
				return r.summary, r.machine.Advance(state.Done)
			}
			return nil, err
		}
	}

	if err := r.machine.Advance(state.Applied); err != nil {
		return nil, err
	}

	r.summary.Skipped = append(r.summary.Skipped, r.summary.LocalOnly...)

	ui.Categories("ℹ Sync Summary", []log.Category{
		{Title: "Created Files (from Salesforce metadata)", Files: r.summary.Created},
		{Title: "Updated Files (with Salesforce metadata)", Files: r.summary.Updated},
		{Title: "Skipped Files (local-only, not found in Salesforce)", Files: r.summary.LocalOnly},
	})
	ui.Success("Synchronization completed successfully.")

	logger.Info().
		Int("created", len(r.summary.Created)).
		Int("updated", len(r.summary.Updated)).
		Int("skipped", len(r.summary.Skipped)).
		Msg("sync complete")

	return r.summary, r.machine.Advance(state.Done)
}

// applyRemoteOnly pulls the selected remote-only files into the local workspace
func (r *run) applyRemoteOnly(ctx context.Context, diffs *reconcile.Differences) error {
	if len(diffs.RemoteOnly) == 0 {
		return nil
	}
	if err := r.machine.Advance(state.AwaitingRemoteOnlySelection); err != nil {
		return err
	}

	ui := log.FromContext(ctx)

	selected, err := r.opts.Prompter.SelectFiles(ctx, remoteOnlyMessage, diffs.RemoteOnlyNames())
	if err != nil {
		return errors.Errorf("selecting remote-only files: %w", err)
	}
	selection := mapset.NewThreadUnsafeSet(selected...)
	if selection.Cardinality() == 0 {
		ui.Info("No files were selected to retrieve.")
	}

	for _, rf := range diffs.RemoteOnly {
		if !selection.Contains(rf.FullName()) || !r.pair.Remote.FileExists(rf.Name()) {
			r.summary.Skipped = append(r.summary.Skipped, rf.FullName())
			continue
		}
		content, err := rf.Read()
		if err != nil {
			return errors.Errorf("reading remote %s: %w", rf.FullName(), err)
		}
		if err := r.write(ctx, rf.Name(), content); err != nil {
			return err
		}
		r.summary.Created = append(r.summary.Created, rf.FullName())
		ui.LogFileOperation(ctx, log.FileOperation{
			Name:   rf.FullName(),
			Action: "created",
			Detail: "from remote",
			IsNew:  true,
		})
	}

	return nil
}

// applyChanged shows the requested diffs and overwrites the selected changed files
func (r *run) applyChanged(ctx context.Context, diffs *reconcile.Differences) error {
	if len(diffs.Changed.Files) == 0 {
		return nil
	}
	if err := r.machine.Advance(state.AwaitingChangedSelection); err != nil {
		return err
	}

	ui := log.FromContext(ctx)
	names := diffs.ChangedNames()

	if !r.opts.Sync.NoDiff {
		view := names
		if len(names) > 1 {
			chosen, err := r.opts.Prompter.SelectFiles(ctx, viewDiffMessage, names)
			if err != nil {
				return errors.Errorf("selecting diffs to view: %w", err)
			}
			viewSet := mapset.NewThreadUnsafeSet(chosen...)
			view = nil
			for _, n := range names {
				if viewSet.Contains(n) {
					view = append(view, n)
				}
			}
		}
		for _, n := range view {
			ui.Diff(n, diffs.Changed.Diffs[n])
		}
	}

	selected, err := r.opts.Prompter.SelectFiles(ctx, overwriteMessage, names)
	if err != nil {
		return errors.Errorf("selecting changed files: %w", err)
	}
	selection := mapset.NewThreadUnsafeSet(selected...)
	if selection.Cardinality() == 0 {
		ui.Info("No files were selected for update.")
	}

	for _, lf := range diffs.Changed.Files {
		rf, ok := r.pair.Remote.FileForName(lf.Name())
		if !selection.Contains(lf.FullName()) || !ok {
			r.summary.Skipped = append(r.summary.Skipped, lf.FullName())
			continue
		}
		content, err := rf.Read()
		if err != nil {
			return errors.Errorf("reading remote %s: %w", rf.FullName(), err)
		}
		if err := r.write(ctx, lf.Name(), content); err != nil {
			return err
		}
		r.summary.Updated = append(r.summary.Updated, lf.FullName())
		ui.LogFileOperation(ctx, log.FileOperation{
			Name:      lf.FullName(),
			Action:    "updated",
			Detail:    "with remote content",
			IsUpdated: true,
		})
	}

	return nil
}

// write takes the directory lock on first use and stores content locally
func (r *run) write(ctx context.Context, name, content string) error {
	if !r.locked {
		if err := r.pair.Local.Lock(); err != nil {
			return errors.Errorf("locking %s: %w", r.pair.Local.Dir(), err)
		}
		r.locked = true
		zerolog.Ctx(ctx).Debug().Str("dir", r.pair.Local.Dir()).Msg("acquired workspace lock")
	}

	lf := r.pair.Local.FileForName(name)
	if err := lf.Write(content); err != nil {
		return errors.Errorf("writing %s: %w", lf.FullName(), err)
	}
	return nil
}

func (r *run) unlock(ctx context.Context) {
	if !r.locked {
		return
	}
	if err := r.pair.Local.Unlock(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("releasing workspace lock")
	}
	r.locked = false
}
