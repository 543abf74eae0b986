// Package file represents one named unit of text content at a specific storage
// location: a file on local disk or a record held in memory from the remote side.
package file

import (
	"os"
	"path"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
	"github.com/walteh/metasync/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📄 File is the storage-independent view of one named piece of content
type File interface {
	// Name is the logical name without extension
	Name() string
	// Extension is fixed per workspace, e.g. ".dwl"
	Extension() string
	// FullName is Name + Extension and is the comparison key
	FullName() string
	// Read returns line-ending normalized content
	Read() (string, error)
	// Write normalizes and stores content
	Write(content string) error
}

// FullName joins a logical name and an extension
func FullName(name, extension string) string {
	return name + extension
}

var (
	_ File = (*LocalFile)(nil)
	_ File = (*RemoteFile)(nil)
)

// 💾 LocalFile is a file inside a local workspace directory. Nothing is cached:
// every call goes to storage.
type LocalFile struct {
	fs        billy.Filesystem
	name      string
	extension string
}

// NewLocalFile creates a LocalFile rooted at fs, which is the workspace directory
func NewLocalFile(fs billy.Filesystem, name, extension string) *LocalFile {
	return &LocalFile{fs: fs, name: name, extension: extension}
}

func (f *LocalFile) Name() string      { return f.name }
func (f *LocalFile) Extension() string { return f.extension }
func (f *LocalFile) FullName() string  { return FullName(f.name, f.extension) }

// Path returns the location of the file on the underlying filesystem
func (f *LocalFile) Path() string {
	return filepath.Join(f.fs.Root(), f.FullName())
}

// Exists reports whether storage currently holds this file
func (f *LocalFile) Exists() bool {
	info, err := f.fs.Stat(f.FullName())
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Read returns the normalized content, or "" when the file does not exist
func (f *LocalFile) Read() (string, error) {
	data, err := util.ReadFile(f.fs, f.FullName())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Errorf("reading %s: %w", f.FullName(), err)
	}
	return text.NormalizeLineEndings(string(data)), nil
}

// DefaultMode is the permission given to files that did not exist before Write
const DefaultMode os.FileMode = 0o644

// Write normalizes content and replaces the file atomically. An existing file
// keeps its permission bits; a new one gets DefaultMode. The workspace
// directory must already exist.
func (f *LocalFile) Write(content string) error {
	normalized := text.NormalizeLineEndings(content)
	target := f.FullName()

	mode := DefaultMode
	if info, err := f.fs.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	tmpName := path.Join(path.Dir(target), "."+target+"."+uuid.NewString()+".tmp")
	tmp, err := f.fs.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return errors.Errorf("creating temp file for %s: %w", target, err)
	}

	if _, err := tmp.Write([]byte(normalized)); err != nil {
		tmp.Close()
		f.fs.Remove(tmpName)
		return errors.Errorf("writing temp file for %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		f.fs.Remove(tmpName)
		return errors.Errorf("closing temp file for %s: %w", target, err)
	}

	if err := f.fs.Rename(tmpName, target); err != nil {
		f.fs.Remove(tmpName)
		return errors.Errorf("renaming temp file to %s: %w", target, err)
	}

	return nil
}

// 🌐 RemoteFile holds remote content in memory. Writes only change the in-memory
// value; they never reach the remote system.
type RemoteFile struct {
	name      string
	extension string
	content   string
}

// NewRemoteFile creates a RemoteFile with normalized content
func NewRemoteFile(name, extension, content string) *RemoteFile {
	return &RemoteFile{
		name:      name,
		extension: extension,
		content:   text.NormalizeLineEndings(content),
	}
}

func (f *RemoteFile) Name() string      { return f.name }
func (f *RemoteFile) Extension() string { return f.extension }
func (f *RemoteFile) FullName() string  { return FullName(f.name, f.extension) }

// Read returns the in-memory content
func (f *RemoteFile) Read() (string, error) {
	return f.content, nil
}

// Write replaces the in-memory content
func (f *RemoteFile) Write(content string) error {
	f.content = text.NormalizeLineEndings(content)
	return nil
}
