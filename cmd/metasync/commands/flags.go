package commands

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/walteh/metasync/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// EnvPrefix is prepended to every flag name when read from the environment,
// e.g. METASYNC_TARGET_ORG
const EnvPrefix = "METASYNC"

const (
	flagConfigAlias   = "config-alias"
	flagTargetOrg     = "target-org"
	flagLocalDir      = "local-dir"
	flagFileExtension = "file-extension"
	flagQuery         = "query"
	flagFilenameField = "filename-field"
	flagFieldName     = "field-name"
	flagNoDiff        = "no-diff"
	flagFilesToSync   = "files-to-sync"
)

// addSyncFlags registers the run parameter flags shared by sync and status
func addSyncFlags(flags *pflag.FlagSet) {
	flags.StringP(flagConfigAlias, "c", "", "alias of a stored configuration")
	flags.String(flagTargetOrg, "", "Salesforce org alias or username")
	flags.String(flagLocalDir, "", "local directory for files")
	flags.String(flagFileExtension, "", "file extension for local files, e.g. .dwl")
	flags.String(flagQuery, "", "SOQL query selecting the records")
	flags.String(flagFilenameField, "", "record field holding the file name")
	flags.String(flagFieldName, "", "record field holding the file content")
	flags.Bool(flagNoDiff, false, "disable diff display for changed files")
	flags.StringSlice(flagFilesToSync, nil, "glob patterns limiting which files are synced")
}

// newFlagViper binds flags and METASYNC_* environment variables. Flags win.
func newFlagViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, errors.Errorf("binding flags: %w", err)
	}
	return v, nil
}

// overridesFrom reads the run parameters that were given on the command line
// or through the environment
func overridesFrom(v *viper.Viper) config.Overrides {
	o := config.Overrides{
		ConfigAlias:   v.GetString(flagConfigAlias),
		TargetOrg:     v.GetString(flagTargetOrg),
		LocalDir:      v.GetString(flagLocalDir),
		FileExtension: v.GetString(flagFileExtension),
		Query:         v.GetString(flagQuery),
		FilenameField: v.GetString(flagFilenameField),
		FieldName:     v.GetString(flagFieldName),
	}
	if v.IsSet(flagFilesToSync) {
		o.FilesToSync = v.GetStringSlice(flagFilesToSync)
	}
	if v.IsSet(flagNoDiff) {
		noDiff := v.GetBool(flagNoDiff)
		o.NoDiff = &noDiff
	}
	return o
}

// resolveSyncOptions merges flags, environment and the alias store
func resolveSyncOptions(flags *pflag.FlagSet, store *config.Store) (*config.SyncOptions, error) {
	v, err := newFlagViper(flags)
	if err != nil {
		return nil, err
	}
	return config.Merge(store, overridesFrom(v))
}
