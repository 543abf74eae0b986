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

package workspace

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrAlreadyInitialized means a slot was set twice in one run
	ErrAlreadyInitialized = errors.Base("workspace already initialized")
	// ErrNotInitialized means a slot was read before it was set
	ErrNotInitialized = errors.Base("workspace not initialized")
)

// Pair is the two sides of one run
type Pair struct {
	Local  *LocalWorkspace
	Remote *RemoteWorkspace
}

// 🗂️ Registry holds exactly one local and one remote workspace for a run.
// Create one per run; it is not safe for concurrent use.
type Registry struct {
	local  *LocalWorkspace
	remote *RemoteWorkspace
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Set stores ws in the slot matching its concrete type
func (r *Registry) Set(ws Workspace) error {
	switch w := ws.(type) {
	case *LocalWorkspace:
		if r.local != nil {
			return errors.Errorf("setting local workspace: %w", ErrAlreadyInitialized)
		}
		r.local = w
	case *RemoteWorkspace:
		if r.remote != nil {
			return errors.Errorf("setting remote workspace: %w", ErrAlreadyInitialized)
		}
		r.remote = w
	default:
		return errors.Errorf("unsupported workspace type %T", ws)
	}
	return nil
}

// Workspaces returns both sides, or an error naming every missing one
func (r *Registry) Workspaces() (Pair, error) {
	var missing []string
	if r.local == nil {
		missing = append(missing, string(SideLocal))
	}
	if r.remote == nil {
		missing = append(missing, string(SideRemote))
	}
	if len(missing) > 0 {
		return Pair{}, errors.Errorf("%s: %w", strings.Join(missing, ", "), ErrNotInitialized)
	}
	return Pair{Local: r.local, Remote: r.remote}, nil
}

func (r *Registry) Local() (*LocalWorkspace, error) {
	if r.local == nil {
		return nil, errors.Errorf("local: %w", ErrNotInitialized)
	}
	return r.local, nil
}

func (r *Registry) Remote() (*RemoteWorkspace, error) {
	if r.remote == nil {
		return nil, errors.Errorf("remote: %w", ErrNotInitialized)
	}
	return r.remote, nil
}

// Reset clears both slots
func (r *Registry) Reset() {
	r.local = nil
	r.remote = nil
}
