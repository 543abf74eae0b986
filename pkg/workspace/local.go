package workspace

import (
	"context"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"
	"github.com/walteh/metasync/pkg/file"
	"gitlab.com/tozd/go/errors"
)

// LocalOptions configures a LocalWorkspace
type LocalOptions struct {
	// Dir is the workspace directory
	Dir string
	// Extension selects which entries belong to the workspace, e.g. ".dwl"
	Extension string
	// Filter optionally narrows the listing
	Filter *Filter
	// FS resolves Dir. Defaults to the host filesystem.
	FS billy.Filesystem
	// LockDir holds the advisory lock file. Defaults to os.TempDir().
	LockDir string
}

// 💾 LocalWorkspace is a directory of text files. Nothing is cached: every
// listing re-reads the directory.
type LocalWorkspace struct {
	dir    string
	ext    string
	filter *Filter
	base   billy.Filesystem
	root   billy.Filesystem
	lock   *dirLock
}

// 🏭 NewLocalWorkspace creates a LocalWorkspace. The directory need not exist yet.
func NewLocalWorkspace(opts LocalOptions) (*LocalWorkspace, error) {
	if opts.Dir == "" {
		return nil, errors.New("local directory is required")
	}
	if opts.Extension == "" {
		return nil, errors.New("file extension is required")
	}

	base := opts.FS
	if base == nil {
		base = osfs.New("/")
	}

	root, err := base.Chroot(opts.Dir)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", opts.Dir, err)
	}

	lock, err := newDirLock(opts.Dir, opts.LockDir)
	if err != nil {
		return nil, err
	}

	return &LocalWorkspace{
		dir:    opts.Dir,
		ext:    opts.Extension,
		filter: opts.Filter,
		base:   base,
		root:   root,
		lock:   lock,
	}, nil
}

func (w *LocalWorkspace) Side() Side        { return SideLocal }
func (w *LocalWorkspace) Extension() string { return w.ext }
func (w *LocalWorkspace) Dir() string       { return w.dir }

// Exists reports whether the directory exists and is a directory
func (w *LocalWorkspace) Exists() bool {
	info, err := w.base.Stat(w.dir)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ListFiles scans the directory for regular files ending in the workspace
// extension. Only top-level entries are considered.
func (w *LocalWorkspace) ListFiles(ctx context.Context) ([]*file.LocalFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("listing %s: %w", w.dir, err)
	}

	entries, err := w.base.ReadDir(w.dir)
	if err != nil {
		return nil, errors.Errorf("reading directory %s: %w", w.dir, err)
	}

	files := make([]*file.LocalFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !entry.Mode().IsRegular() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, w.ext) || !w.filter.Match(name) {
			continue
		}
		files = append(files, file.NewLocalFile(w.root, strings.TrimSuffix(name, w.ext), w.ext))
	}

	zerolog.Ctx(ctx).Debug().
		Str("dir", w.dir).
		Int("entries", len(entries)).
		Int("files", len(files)).
		Msg("listed local workspace")

	return files, nil
}

// Files implements Workspace
func (w *LocalWorkspace) Files(ctx context.Context) ([]file.File, error) {
	local, err := w.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]file.File, len(local))
	for i, f := range local {
		out[i] = f
	}
	return out, nil
}

// FileForName builds the file handle for a logical name without listing
func (w *LocalWorkspace) FileForName(name string) *file.LocalFile {
	return file.NewLocalFile(w.root, name, w.ext)
}

// FileExists stats storage for the logical name
func (w *LocalWorkspace) FileExists(name string) bool {
	return w.FileForName(name).Exists()
}

// Lock takes the single-writer lock for the directory
func (w *LocalWorkspace) Lock() error {
	return w.lock.acquire()
}

// Unlock releases the lock if this process holds it
func (w *LocalWorkspace) Unlock() error {
	return w.lock.release()
}
