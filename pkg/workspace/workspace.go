// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package workspace groups files that share one storage location and one
// extension: the local directory on one side, the fetched remote records on
// the other.
package workspace

import (
	"context"

	"github.com/walteh/metasync/pkg/file"
)

// Side tags which end of a sync a workspace represents
type Side string

const (
	SideLocal  Side = "local"
	SideRemote Side = "remote"
)

// 📂 Workspace is the part of a workspace that does not depend on storage
type Workspace interface {
	Side() Side
	Extension() string
	// Files lists the current files in listing order
	Files(ctx context.Context) ([]file.File, error)
	// FileExists reports whether a file with the logical name is present
	FileExists(name string) bool
}

var (
	_ Workspace = (*LocalWorkspace)(nil)
	_ Workspace = (*RemoteWorkspace)(nil)
)
