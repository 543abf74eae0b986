package remote

import (
	"context"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

var registry = map[string]Source{}

// RegisterSource makes a source available by name. Registering a name twice
// replaces the earlier source.
func RegisterSource(name string, source Source) {
	registry[name] = source
}

// GetSource looks up a registered source
func GetSource(name string) (Source, error) {
	source, ok := registry[name]
	if !ok {
		options := []string{}
		for k := range registry {
			options = append(options, k)
		}
		sort.Strings(options)
		return nil, errors.Errorf("source %s not found, options: %s", name, strings.Join(options, ", "))
	}
	return source, nil
}

// Record is one remote row: field name to string value
type Record map[string]string

// Source fetches records from a remote system (e.g. a Salesforce org)
type Source interface {
	// Name returns the name of the source (e.g. "salesforce")
	Name() string
	// Query returns the records matched by query in the target, in result
	// order. An empty result is an error.
	Query(ctx context.Context, target, query string) ([]Record, error)
}

// ErrNoRecords is returned by sources when a query matched nothing
var ErrNoRecords = errors.Base("no records found")
