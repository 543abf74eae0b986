package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/metasync/cmd/metasync/opts"
	"github.com/walteh/metasync/pkg/operation"
	"github.com/walteh/metasync/pkg/prompt"
	"github.com/walteh/metasync/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// NewSyncCmd creates a new sync command
func NewSyncCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var (
		yes        bool
		sourceName string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync Salesforce metadata with local files",
		Long: `Sync queries Salesforce, compares the records with the local directory and
lets you choose which missing files to create and which changed files to
overwrite. Local-only files are reported and never modified.

Every flag can also be set through the environment, e.g. METASYNC_TARGET_ORG.`,
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

			var prompter prompt.Prompter = prompt.NewTerminalPrompter()
			if yes {
				prompter = prompt.AutoPrompter{}
			}

			op, err := operation.New(operation.Options{
				Sync:     *syncOpts,
				Source:   source,
				Prompter: prompter,
				Differ:   text.NewLineDiffer(true),
			})
			if err != nil {
				return errors.Errorf("creating operator: %w", err)
			}

			rootOpts.UI.Header("syncing " + syncOpts.LocalDir)

			summary, err := op.Sync(ctx)
			if err != nil {
				return errors.Errorf("syncing: %w", err)
			}
			if summary.Cancelled {
				rootOpts.UI.Infof("Sync cancelled after %d write(s).", summary.Writes())
			}

			return nil
		},
	}

	addSyncFlags(cmd.Flags())
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "select every file without prompting")
	cmd.Flags().StringVar(&sourceName, "source", defaultSource, "remote source to query")

	return cmd
}
