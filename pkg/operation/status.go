package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/metasync/pkg/reconcile"
	"github.com/walteh/metasync/pkg/state"
)

// 📊 Status reconciles both workspaces without prompting or writing
func (o *operator) Status(ctx context.Context) (*reconcile.Differences, error) {
	machine := state.NewMachine()

	pair, err := o.initialize(ctx, machine)
	if err != nil {
		return nil, err
	}

	diffs, err := o.reconcile(ctx, machine, pair)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Int("remote_only", len(diffs.RemoteOnly)).
		Int("local_only", len(diffs.LocalOnly)).
		Int("changed", len(diffs.Changed.Files)).
		Int("unchanged", len(diffs.Unchanged)).
		Msg("status gathered")

	return diffs, nil
}
