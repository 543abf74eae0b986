package commands

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/metasync/pkg/remote"
	"github.com/walteh/metasync/pkg/remote/salesforce"
)

// defaultSource is the registered source used when --source is not given
const defaultSource = salesforce.Name

var _ remote.Source = (*spinnerSource)(nil)

// spinnerSource shows a terminal spinner while the wrapped source is queried
type spinnerSource struct {
	remote.Source
}

func (s *spinnerSource) Query(ctx context.Context, target, query string) ([]remote.Record, error) {
	spinner, err := pterm.DefaultSpinner.Start("Querying Salesforce metadata. Please wait...")
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("starting spinner")
		return s.Source.Query(ctx, target, query)
	}

	records, err := s.Source.Query(ctx, target, query)
	if err != nil {
		spinner.Fail("Unable to retrieve Salesforce metadata.")
		return nil, err
	}

	spinner.Success("Salesforce metadata retrieved successfully.")
	return records, nil
}

// lookupSource returns the registered source wrapped in a spinner
func lookupSource(name string) (remote.Source, error) {
	src, err := remote.GetSource(name)
	if err != nil {
		return nil, err
	}
	return &spinnerSource{Source: src}, nil
}
