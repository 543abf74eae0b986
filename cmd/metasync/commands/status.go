package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/metasync/cmd/metasync/opts"
	"github.com/walteh/metasync/pkg/operation"
	"github.com/walteh/metasync/pkg/prompt"
	"github.com/walteh/metasync/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewStatusCmd creates a new status command
func NewStatusCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var sourceName string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which files differ from Salesforce",
		Long: `Status queries Salesforce and prints one row per file: remote-only,
local-only, changed or unchanged. Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			syncOpts, err := resolveSyncOptions(cmd.Flags(), rootOpts.Store)
			if err != nil {
				return err
			}

			source, err := lookupSource(sourceName)
			if err != nil {
				return err
			}

			op, err := operation.New(operation.Options{
				Sync:     *syncOpts,
				Source:   source,
				Prompter: prompt.NonePrompter{},
			})
			if err != nil {
				return errors.Errorf("creating operator: %w", err)
			}

			diffs, err := op.Status(ctx)
			if err != nil {
				return errors.Errorf("checking status: %w", err)
			}

			entries := status.FromDifferences(diffs)

			rootOpts.UI.Header("status of " + syncOpts.LocalDir)
			for _, e := range entries {
				rootOpts.UI.Println(status.FormatEntry(e))
			}
			rootOpts.UI.LogNewline()
			rootOpts.UI.Println(status.FormatCounts(status.Count(entries)))

			return nil
		},
	}

	addSyncFlags(cmd.Flags())
	cmd.Flags().StringVar(&sourceName, "source", defaultSource, "remote source to query")

	return cmd
}
