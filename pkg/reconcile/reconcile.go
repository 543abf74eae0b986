// Package reconcile classifies a local and a remote workspace into the files
// only the remote has, the files only the local side has, and the files whose
// content differs.
package reconcile

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/rs/zerolog"
	"github.com/walteh/metasync/pkg/file"
	"github.com/walteh/metasync/pkg/text"
	"github.com/walteh/metasync/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

// Options controls Gather
type Options struct {
	// NoDiff skips diff generation for changed files
	NoDiff bool
	// Differ renders diffs. Defaults to an uncoloured text.LineDiffer.
	Differ text.Differ
}

// ChangedFiles are local files whose content differs from the remote record
type ChangedFiles struct {
	Files []*file.LocalFile
	// Diffs is keyed by full name and left empty when diffs are disabled
	Diffs map[string]string
}

// 📊 Differences is the result of one reconciliation. Bucket order follows the
// listing order of each workspace; callers that need a stable order must sort.
type Differences struct {
	RemoteOnly []*file.RemoteFile
	LocalOnly  []*file.LocalFile
	Changed    ChangedFiles
	// Unchanged lists full names whose content is equal on both sides
	Unchanged []string
}

// Empty reports whether there is nothing to synchronize
func (d *Differences) Empty() bool {
	return len(d.RemoteOnly) == 0 && len(d.LocalOnly) == 0 && len(d.Changed.Files) == 0
}

func (d *Differences) RemoteOnlyNames() []string { return names(d.RemoteOnly) }
func (d *Differences) LocalOnlyNames() []string  { return names(d.LocalOnly) }
func (d *Differences) ChangedNames() []string    { return names(d.Changed.Files) }

func names[T file.File](files []T) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.FullName()
	}
	return out
}

// 🔄 Gather enumerates each workspace once and classifies every full name into
// exactly one of remote-only, local-only, changed or unchanged. Content is
// compared for exact equality after line-ending normalization. Diff failures
// degrade to text.DiffUnavailable and never abort.
func Gather(ctx context.Context, pair workspace.Pair, opts Options) (*Differences, error) {
	logger := zerolog.Ctx(ctx)

	if pair.Local == nil || pair.Remote == nil {
		return nil, errors.Errorf("gathering differences: %w", workspace.ErrNotInitialized)
	}
	if pair.Local.Extension() != pair.Remote.Extension() {
		return nil, errors.Errorf("gathering differences: extension mismatch %q != %q",
			pair.Local.Extension(), pair.Remote.Extension())
	}

	differ := opts.Differ
	if differ == nil {
		differ = text.NewLineDiffer(false)
	}

	localFiles, err := pair.Local.ListFiles(ctx)
	if err != nil {
		return nil, errors.Errorf("listing local files: %w", err)
	}
	remoteFiles := pair.Remote.ListFiles()

	localNames := mapset.NewThreadUnsafeSet(names(localFiles)...)
	remoteNames := mapset.NewThreadUnsafeSet(names(remoteFiles)...)

	diffs := &Differences{
		Changed: ChangedFiles{Diffs: map[string]string{}},
	}

	for _, r := range remoteFiles {
		if !localNames.Contains(r.FullName()) {
			diffs.RemoteOnly = append(diffs.RemoteOnly, r)
		}
	}
	for _, l := range localFiles {
		if !remoteNames.Contains(l.FullName()) {
			diffs.LocalOnly = append(diffs.LocalOnly, l)
		}
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	for _, r := range remoteFiles {
		if !localNames.Contains(r.FullName()) || !seen.Add(r.FullName()) {
			continue
		}

		local := pair.Local.FileForName(r.Name())
		if !local.Exists() {
			logger.Debug().Str("file", r.FullName()).Msg("local counterpart vanished, skipping")
			continue
		}

		localContent, err := local.Read()
		if err != nil {
			return nil, errors.Errorf("reading local %s: %w", local.FullName(), err)
		}
		remoteContent, err := r.Read()
		if err != nil {
			return nil, errors.Errorf("reading remote %s: %w", r.FullName(), err)
		}

		if localContent == remoteContent {
			diffs.Unchanged = append(diffs.Unchanged, r.FullName())
			continue
		}

		diffs.Changed.Files = append(diffs.Changed.Files, local)
		if opts.NoDiff {
			continue
		}

		out, err := text.SafeDiff(ctx, differ, r.FullName(), localContent, remoteContent)
		if err != nil {
			logger.Warn().Err(err).Str("file", r.FullName()).Msg("diff generation failed")
		}
		diffs.Changed.Diffs[r.FullName()] = out
	}

	logger.Debug().
		Int("remote_only", len(diffs.RemoteOnly)).
		Int("local_only", len(diffs.LocalOnly)).
		Int("changed", len(diffs.Changed.Files)).
		Int("unchanged", len(diffs.Unchanged)).
		Msg("gathered differences")

	return diffs, nil
}
