package opts

import (
	"github.com/walteh/metasync/pkg/config"
	"github.com/walteh/metasync/pkg/log"
)

// RootOpts contains shared options used by all commands. It is filled in by
// the root command before any subcommand runs.
type RootOpts struct {
	Store *config.Store
	UI    *log.Logger
	RunID string
}
