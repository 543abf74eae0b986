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

package status

import (
	"sort"

	"github.com/walteh/metasync/pkg/reconcile"
)

// 📊 FileStatus is where a file sits in the reconciliation
type FileStatus int

const (
	StatusUnknown    FileStatus = iota
	StatusRemoteOnly            // Remote record with no local file
	StatusLocalOnly             // Local file with no remote record
	StatusChanged               // Both exist, content differs
	StatusUnchanged             // Both exist, content matches
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusRemoteOnly:
		return "remote-only"
	case StatusLocalOnly:
		return "local-only"
	case StatusChanged:
		return "changed"
	case StatusUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// 📄 Entry is one row of a status report
type Entry struct {
	Name   string     // Full file name
	Status FileStatus // Classification
}

// Counts tallies entries per status
type Counts struct {
	RemoteOnly int
	LocalOnly  int
	Changed    int
	Unchanged  int
}

// InSync reports whether nothing needs synchronizing
func (c Counts) InSync() bool {
	return c.RemoteOnly == 0 && c.LocalOnly == 0 && c.Changed == 0
}

// FromDifferences flattens a reconciliation into rows sorted by name
func FromDifferences(d *reconcile.Differences) []Entry {
	if d == nil {
		return nil
	}

	var entries []Entry
	add := func(names []string, s FileStatus) {
		for _, n := range names {
			entries = append(entries, Entry{Name: n, Status: s})
		}
	}
	add(d.RemoteOnlyNames(), StatusRemoteOnly)
	add(d.LocalOnlyNames(), StatusLocalOnly)
	add(d.ChangedNames(), StatusChanged)
	add(d.Unchanged, StatusUnchanged)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Count tallies the entries
func Count(entries []Entry) Counts {
	var c Counts
	for _, e := range entries {
		switch e.Status {
		case StatusRemoteOnly:
			c.RemoteOnly++
		case StatusLocalOnly:
			c.LocalOnly++
		case StatusChanged:
			c.Changed++
		case StatusUnchanged:
			c.Unchanged++
		}
	}
	return c
}
