package config

import (
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// SyncOptions are the fully resolved parameters for one run
type SyncOptions struct {
	ConfigAlias   string
	TargetOrg     string
	LocalDir      string
	FileExtension string
	Query         string
	FilenameField string
	FieldName     string
	NoDiff        bool
	FilesToSync   []string
}

// Overrides are values given on the command line or through the environment.
// Empty strings and a nil NoDiff mean "not given".
type Overrides struct {
	ConfigAlias   string
	TargetOrg     string
	LocalDir      string
	FileExtension string
	Query         string
	FilenameField string
	FieldName     string
	NoDiff        *bool
	FilesToSync   []string
}

// MissingFieldsError lists every required option that is still empty after merging
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required sync options: %s", strings.Join(e.Fields, ", "))
}

// 🔀 Merge resolves run options. Overrides win over the alias configuration,
// which wins over the store's default target org. Every missing required field
// is reported at once, before any I/O.
func Merge(store *Store, o Overrides) (*SyncOptions, error) {
	var base SyncConfig
	if o.ConfigAlias != "" {
		if store == nil {
			return nil, errors.Errorf("%s: %w", o.ConfigAlias, ErrAliasNotFound)
		}
		cfg, ok := store.Get(o.ConfigAlias)
		if !ok {
			return nil, errors.Errorf("%s (available: %s): %w",
				o.ConfigAlias, strings.Join(store.Aliases(), ", "), ErrAliasNotFound)
		}
		base = cfg
	}

	defaultOrg := ""
	if store != nil {
		defaultOrg = store.DefaultTargetOrg
	}

	opts := &SyncOptions{
		ConfigAlias:   o.ConfigAlias,
		TargetOrg:     first(o.TargetOrg, base.TargetOrg, defaultOrg),
		LocalDir:      first(o.LocalDir, base.LocalDir),
		FileExtension: NormalizeExtension(first(o.FileExtension, base.FileExtension)),
		Query:         first(o.Query, base.Query),
		FilenameField: first(o.FilenameField, base.FilenameField),
		FieldName:     first(o.FieldName, base.FieldName),
		NoDiff:        base.NoDiff,
		FilesToSync:   NormalizeFilesToSync(base.FilesToSync),
	}
	if o.NoDiff != nil {
		opts.NoDiff = *o.NoDiff
	}
	if files := NormalizeFilesToSync(o.FilesToSync); len(files) > 0 {
		opts.FilesToSync = files
	}

	if missing := opts.missing(); len(missing) > 0 {
		return nil, errors.WithStack(&MissingFieldsError{Fields: missing})
	}

	dir, err := ResolveDirectoryPath(opts.LocalDir)
	if err != nil {
		return nil, errors.Errorf("resolving local directory: %w", err)
	}
	opts.LocalDir = dir

	return opts, nil
}

func (o *SyncOptions) missing() []string {
	var out []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"target-org", o.TargetOrg},
		{"local-dir", o.LocalDir},
		{"file-extension", o.FileExtension},
		{"query", o.Query},
		{"filename-field", o.FilenameField},
		{"field-name", o.FieldName},
	} {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	return out
}

func first(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
