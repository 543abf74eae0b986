package operation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/metasync/pkg/log"
	"github.com/walteh/metasync/pkg/reconcile"
	"github.com/walteh/metasync/pkg/state"
	"github.com/walteh/metasync/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

// initialize builds both workspaces and registers them. Preconditions are
// checked after the local workspace is registered and before the remote fetch.
func (o *operator) initialize(ctx context.Context, machine *state.Machine) (workspace.Pair, error) {
	logger := zerolog.Ctx(ctx)
	opts := o.opts.Sync

	if err := machine.Advance(state.WorkspacesInitializing); err != nil {
		return workspace.Pair{}, err
	}

	var problems []string

	filter, err := workspace.NewFilter(opts.FilesToSync)
	if err != nil {
		problems = append(problems, err.Error())
	}

	local, err := workspace.NewLocalWorkspace(workspace.LocalOptions{
		Dir:       opts.LocalDir,
		Extension: opts.FileExtension,
		Filter:    filter,
		FS:        o.opts.FS,
		LockDir:   o.opts.LockDir,
	})
	if err != nil {
		return workspace.Pair{}, errors.Errorf("creating local workspace: %w", err)
	}
	if err := o.opts.Registry.Set(local); err != nil {
		return workspace.Pair{}, errors.Errorf("registering local workspace: %w", err)
	}

	if !local.Exists() {
		problems = append(problems, fmt.Sprintf("the local directory %q does not exist", opts.LocalDir))
	}
	if !strings.Contains(opts.Query, opts.FilenameField) {
		problems = append(problems, fmt.Sprintf("the field %q is not present in the query", opts.FilenameField))
	}
	if len(problems) > 0 {
		return workspace.Pair{}, errors.WithStack(&PreconditionError{Problems: problems})
	}

	logger.Debug().
		Str("target_org", opts.TargetOrg).
		Str("query", opts.Query).
		Str("source", o.opts.Source.Name()).
		Msg("querying remote records")

	records, err := o.opts.Source.Query(ctx, opts.TargetOrg, opts.Query)
	if err != nil {
		return workspace.Pair{}, errors.Errorf("querying remote records (query: %s): %w", opts.Query, err)
	}

	data := make([]workspace.RemoteFileData, 0, len(records))
	for i, rec := range records {
		name := rec[opts.FilenameField]
		if name == "" {
			logger.Warn().Int("record", i).Str("field", opts.FilenameField).Msg("skipping record without a name")
			log.FromContext(ctx).Warningf("Skipping record %d: field %q is empty", i, opts.FilenameField)
			continue
		}
		data = append(data, workspace.RemoteFileData{Name: name, Content: rec[opts.FieldName]})
	}

	remoteWs := workspace.NewRemoteWorkspace(opts.FileExtension, data, filter)
	if err := o.opts.Registry.Set(remoteWs); err != nil {
		return workspace.Pair{}, errors.Errorf("registering remote workspace: %w", err)
	}

	logger.Debug().Int("records", len(records)).Int("files", len(data)).Msg("remote workspace ready")

	return o.opts.Registry.Workspaces()
}

// reconcile classifies the pair and advances to Reconciled
func (o *operator) reconcile(ctx context.Context, machine *state.Machine, pair workspace.Pair) (*reconcile.Differences, error) {
	diffs, err := reconcile.Gather(ctx, pair, reconcile.Options{
		NoDiff: o.opts.Sync.NoDiff,
		Differ: o.opts.Differ,
	})
	if err != nil {
		return nil, errors.Errorf("reconciling workspaces: %w", err)
	}
	if err := machine.Advance(state.Reconciled); err != nil {
		return nil, err
	}
	return diffs, nil
}
