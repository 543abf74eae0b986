package workspace

import (
	"context"

	"github.com/walteh/metasync/pkg/file"
)

// RemoteFileData is one fetched record reduced to a name and its content
type RemoteFileData struct {
	Name    string
	Content string
}

// 🌐 RemoteWorkspace is the fixed set of records fetched for one run
type RemoteWorkspace struct {
	ext  string
	data []RemoteFileData
}

// NewRemoteWorkspace keeps the records that pass filter, in fetch order
func NewRemoteWorkspace(extension string, records []RemoteFileData, filter *Filter) *RemoteWorkspace {
	kept := make([]RemoteFileData, 0, len(records))
	for _, r := range records {
		if filter.Match(file.FullName(r.Name, extension)) {
			kept = append(kept, r)
		}
	}
	return &RemoteWorkspace{ext: extension, data: kept}
}

func (w *RemoteWorkspace) Side() Side        { return SideRemote }
func (w *RemoteWorkspace) Extension() string { return w.ext }

// ListFiles returns fresh file values for every record
func (w *RemoteWorkspace) ListFiles() []*file.RemoteFile {
	files := make([]*file.RemoteFile, len(w.data))
	for i, d := range w.data {
		files[i] = file.NewRemoteFile(d.Name, w.ext, d.Content)
	}
	return files
}

// Files implements Workspace
func (w *RemoteWorkspace) Files(ctx context.Context) ([]file.File, error) {
	remote := w.ListFiles()
	out := make([]file.File, len(remote))
	for i, f := range remote {
		out[i] = f
	}
	return out, nil
}

// FileForName finds the first record with the logical name
func (w *RemoteWorkspace) FileForName(name string) (*file.RemoteFile, bool) {
	for _, d := range w.data {
		if d.Name == name {
			return file.NewRemoteFile(d.Name, w.ext, d.Content), true
		}
	}
	return nil, false
}

// FileExists implements Workspace
func (w *RemoteWorkspace) FileExists(name string) bool {
	_, ok := w.FileForName(name)
	return ok
}
