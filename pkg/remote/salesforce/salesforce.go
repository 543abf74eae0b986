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

package salesforce

import (
	"bytes"
	"context"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/walteh/metasync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// Name is the registry key of this source
const Name = "salesforce"

// DefaultBinary is the Salesforce CLI executable
const DefaultBinary = "sf"

func init() {
	remote.RegisterSource(Name, New(Options{}))
}

// Options configures the Salesforce source
type Options struct {
	// Binary overrides the sf executable
	Binary string
	// Runner executes the CLI. Defaults to ExecRunner.
	Runner Runner
}

// ☁️ Source queries records through `sf data query --json`
type Source struct {
	binary string
	runner Runner
}

var _ remote.Source = (*Source)(nil)

func New(opts Options) *Source {
	s := &Source{binary: opts.Binary, runner: opts.Runner}
	if s.binary == "" {
		s.binary = DefaultBinary
	}
	if s.runner == nil {
		s.runner = ExecRunner{}
	}
	return s
}

func (s *Source) Name() string { return Name }

// envelope is the --json output shared by every sf command
type envelope struct {
	Status  int    `json:"status"`
	Name    string `json:"name"`
	Message string `json:"message"`
	Result  *struct {
		Records   []map[string]json.RawMessage `json:"records"`
		TotalSize int                          `json:"totalSize"`
		Done      bool                         `json:"done"`
	} `json:"result"`
}

// Query runs the SOQL query against the target org
func (s *Source) Query(ctx context.Context, target, query string) ([]remote.Record, error) {
	logger := zerolog.Ctx(ctx)

	args := []string{"data", "query", "--target-org", target, "--query", query, "--json"}
	logger.Debug().Str("binary", s.binary).Strs("args", args).Msg("running salesforce query")

	res, runErr := s.runner.Run(ctx, s.binary, args...)
	if res == nil {
		res = &Result{}
	}

	var env envelope
	decodeErr := json.Unmarshal(bytes.TrimSpace(res.Stdout), &env)

	if runErr != nil {
		detail := strings.TrimSpace(string(res.Stderr))
		if decodeErr == nil && env.Message != "" {
			detail = env.Message
		}
		if detail != "" {
			return nil, errors.Errorf("running %s data query: %s: %w", s.binary, detail, runErr)
		}
		return nil, errors.Errorf("running %s data query: %w", s.binary, runErr)
	}

	if decodeErr != nil {
		return nil, errors.Errorf("decoding query response: %w", decodeErr)
	}
	if env.Status != 0 {
		return nil, errors.Errorf("query failed with status %d: %s", env.Status, env.Message)
	}
	if env.Result == nil || env.Result.Records == nil {
		return nil, errors.New("invalid response from Salesforce: missing result records")
	}
	if len(env.Result.Records) == 0 {
		return nil, errors.Errorf("querying %s: %w", target, remote.ErrNoRecords)
	}

	records := make([]remote.Record, 0, len(env.Result.Records))
	for i, raw := range env.Result.Records {
		rec, err := toRecord(raw)
		if err != nil {
			return nil, errors.Errorf("decoding record %d: %w", i, err)
		}
		records = append(records, rec)
	}

	logger.Debug().Int("records", len(records)).Int("total_size", env.Result.TotalSize).Msg("salesforce query complete")

	return records, nil
}

// toRecord flattens one JSON record into strings. null becomes "", strings
// are kept, and anything else keeps its JSON text.
func toRecord(raw map[string]json.RawMessage) (remote.Record, error) {
	rec := make(remote.Record, len(raw))
	for key, value := range raw {
		if key == "attributes" {
			continue
		}
		trimmed := bytes.TrimSpace(value)
		switch {
		case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
			rec[key] = ""
		case trimmed[0] == '"':
			var s string
			if err := json.Unmarshal(trimmed, &s); err != nil {
				return nil, errors.Errorf("field %s: %w", key, err)
			}
			rec[key] = s
		default:
			rec[key] = string(trimmed)
		}
	}
	return rec, nil
}
