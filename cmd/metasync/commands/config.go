package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/metasync/cmd/metasync/opts"
	"github.com/walteh/metasync/pkg/config"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd(rootOpts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage saved sync configurations",
		Long: `Config manages the alias store. An alias saves every sync parameter
under one name so a run only needs --config-alias.`,
	}

	cmd.AddCommand(
		newConfigListCmd(rootOpts),
		newConfigShowCmd(rootOpts),
		newConfigSetCmd(rootOpts),
		newConfigDeleteCmd(rootOpts),
		newConfigDefaultOrgCmd(rootOpts),
		newConfigPathCmd(rootOpts),
	)

	return cmd
}

func newConfigListCmd(rootOpts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := rootOpts.Store
			if len(store.Configs) == 0 {
				rootOpts.UI.Info("No configurations found, create one with `metasync config set`.")
				return nil
			}
			if store.DefaultTargetOrg != "" {
				rootOpts.UI.Infof("Default target organization: %s", store.DefaultTargetOrg)
			}
			for _, c := range store.Configs {
				rootOpts.UI.Println(" - " + c.String())
			}
			return nil
		},
	}
}

func newConfigShowCmd(rootOpts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show <alias>",
		Short: "Print one saved configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ok := rootOpts.Store.Get(args[0])
			if !ok {
				return errors.Errorf("%s: %w", args[0], config.ErrAliasNotFound)
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return errors.Errorf("encoding %s: %w", args[0], err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newConfigSetCmd(rootOpts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <alias>",
		Short: "Create or update a saved configuration",
		Long: `Set stores the given flags under alias. Flags that are not given keep
their saved value when the alias already exists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store := rootOpts.Store
			flags := cmd.Flags()

			cfg, exists := store.Get(args[0])
			cfg.Alias = args[0]

			for name, dst := range map[string]*string{
				flagTargetOrg:     &cfg.TargetOrg,
				flagLocalDir:      &cfg.LocalDir,
				flagFileExtension: &cfg.FileExtension,
				flagQuery:         &cfg.Query,
				flagFilenameField: &cfg.FilenameField,
				flagFieldName:     &cfg.FieldName,
			} {
				if flags.Changed(name) {
					v, err := flags.GetString(name)
					if err != nil {
						return errors.Errorf("reading --%s: %w", name, err)
					}
					*dst = v
				}
			}
			if flags.Changed(flagNoDiff) {
				v, err := flags.GetBool(flagNoDiff)
				if err != nil {
					return errors.Errorf("reading --%s: %w", flagNoDiff, err)
				}
				cfg.NoDiff = v
			}
			if flags.Changed(flagFilesToSync) {
				v, err := flags.GetStringSlice(flagFilesToSync)
				if err != nil {
					return errors.Errorf("reading --%s: %w", flagFilesToSync, err)
				}
				cfg.FilesToSync = v
			}

			cfg.FileExtension = config.NormalizeExtension(cfg.FileExtension)
			if cfg.LocalDir != "" {
				dir, err := config.ResolveDirectoryPath(cfg.LocalDir)
				if err != nil {
					return err
				}
				if info, err := os.Stat(dir); err != nil || !info.IsDir() {
					return errors.Errorf("directory %q does not exist or is not a folder", dir)
				}
				cfg.LocalDir = dir
			}

			if err := store.Upsert(cfg); err != nil {
				return err
			}
			if err := store.Save(ctx); err != nil {
				return err
			}

			if exists {
				rootOpts.UI.Successf("Configuration for alias %q updated successfully!", cfg.Alias)
			} else {
				rootOpts.UI.Successf("Configuration for alias %q created successfully!", cfg.Alias)
			}
			return nil
		},
	}

	addSyncFlags(cmd.Flags())
	_ = cmd.Flags().MarkHidden(flagConfigAlias)

	return cmd
}

func newConfigDeleteCmd(rootOpts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <alias>",
		Short: "Delete a saved configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !rootOpts.Store.Delete(args[0]) {
				return errors.Errorf("%s: %w", args[0], config.ErrAliasNotFound)
			}
			if err := rootOpts.Store.Save(cmd.Context()); err != nil {
				return err
			}
			rootOpts.UI.Successf("Deleted configuration %q.", args[0])
			return nil
		},
	}
}

func newConfigDefaultOrgCmd(rootOpts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "default-org [org]",
		Short: "Show or set the default target organization",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := rootOpts.Store
			if len(args) == 0 {
				if store.DefaultTargetOrg == "" {
					rootOpts.UI.Info("No default target organization is set.")
					return nil
				}
				rootOpts.UI.Println(store.DefaultTargetOrg)
				return nil
			}

			store.DefaultTargetOrg = args[0]
			if err := store.Save(cmd.Context()); err != nil {
				return err
			}
			rootOpts.UI.Successf("Default target organization set to %q.", args[0])
			return nil
		},
	}
}

func newConfigPathCmd(rootOpts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the location of the alias store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rootOpts.UI.Println(rootOpts.Store.Location())
			return nil
		},
	}
}
