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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrAliasNotFound is returned when a named configuration is not in the store
var ErrAliasNotFound = errors.Base("configuration alias not found")

// 📦 SyncConfig is one saved set of sync parameters, looked up by alias
type SyncConfig struct {
	Alias         string   `json:"alias" yaml:"alias" toml:"alias" hcl:"alias,label"`
	TargetOrg     string   `json:"target_org,omitempty" yaml:"target_org,omitempty" toml:"target_org,omitempty" hcl:"target_org,optional"`
	LocalDir      string   `json:"local_dir,omitempty" yaml:"local_dir,omitempty" toml:"local_dir,omitempty" hcl:"local_dir,optional"`
	FileExtension string   `json:"file_extension,omitempty" yaml:"file_extension,omitempty" toml:"file_extension,omitempty" hcl:"file_extension,optional"`
	Query         string   `json:"query,omitempty" yaml:"query,omitempty" toml:"query,omitempty" hcl:"query,optional"`
	FilenameField string   `json:"filename_field,omitempty" yaml:"filename_field,omitempty" toml:"filename_field,omitempty" hcl:"filename_field,optional"`
	FieldName     string   `json:"field_name,omitempty" yaml:"field_name,omitempty" toml:"field_name,omitempty" hcl:"field_name,optional"`
	NoDiff        bool     `json:"no_diff,omitempty" yaml:"no_diff,omitempty" toml:"no_diff,omitempty" hcl:"no_diff,optional"`
	FilesToSync   []string `json:"files_to_sync,omitempty" yaml:"files_to_sync,omitempty" toml:"files_to_sync,omitempty" hcl:"files_to_sync,optional"`
}

// 📚 Store is the persisted alias file
type Store struct {
	DefaultTargetOrg string       `json:"default_target_org,omitempty" yaml:"default_target_org,omitempty" toml:"default_target_org,omitempty" hcl:"default_target_org,optional"`
	Configs          []SyncConfig `json:"configs" yaml:"configs" toml:"configs" hcl:"config,block"`

	location string
}

// Location is the file the store was loaded from or will be saved to
func (s *Store) Location() string {
	return s.location
}

// Get returns a copy of the configuration for alias
func (s *Store) Get(alias string) (SyncConfig, bool) {
	for _, c := range s.Configs {
		if c.Alias == alias {
			return c, true
		}
	}
	return SyncConfig{}, false
}

// Aliases lists the saved aliases in file order
func (s *Store) Aliases() []string {
	out := make([]string, len(s.Configs))
	for i, c := range s.Configs {
		out[i] = c.Alias
	}
	return out
}

// Upsert replaces the configuration with the same alias or appends a new one
func (s *Store) Upsert(cfg SyncConfig) error {
	cfg.Alias = strings.TrimSpace(cfg.Alias)
	if cfg.Alias == "" {
		return errors.New("alias cannot be empty")
	}
	cfg.FilesToSync = NormalizeFilesToSync(cfg.FilesToSync)

	for i, c := range s.Configs {
		if c.Alias == cfg.Alias {
			s.Configs[i] = cfg
			return nil
		}
	}
	s.Configs = append(s.Configs, cfg)
	return nil
}

// Delete removes alias, reporting whether it was present
func (s *Store) Delete(alias string) bool {
	before := len(s.Configs)
	s.Configs = slices.DeleteFunc(s.Configs, func(c SyncConfig) bool { return c.Alias == alias })
	return len(s.Configs) != before
}

// 📝 String renders a short summary of one configuration
func (c SyncConfig) String() string {
	return fmt.Sprintf("%s: %s -> %s (*%s)", c.Alias, c.TargetOrg, c.LocalDir, c.FileExtension)
}

// NormalizeFilesToSync splits comma separated entries, trims them and drops
// empties
func NormalizeFilesToSync(entries []string) []string {
	var out []string
	for _, entry := range entries {
		for _, part := range strings.Split(entry, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// ResolveDirectoryPath expands a leading ~ and makes the path absolute
func ResolveDirectoryPath(dir string) (string, error) {
	if dir == "" {
		return "", errors.New("path cannot be empty")
	}

	if dir == "~" || strings.HasPrefix(dir, "~/") || strings.HasPrefix(dir, "~"+string(filepath.Separator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Errorf("resolving home directory: %w", err)
		}
		dir = filepath.Join(home, dir[1:])
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", dir, err)
	}
	return filepath.Clean(abs), nil
}

// NormalizeExtension makes sure a non-empty extension starts with a dot
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
