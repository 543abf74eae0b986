//go:build tools

// Package tools pins the developer tooling used to lint, license, mock and
// test metasync. Run them with `go run` from this module, e.g.
//
//	go run github.com/vektra/mockery/v2 --config ../.mockery.yaml
package tools

import (
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"
	_ "github.com/google/addlicense"
	_ "github.com/vektra/mockery/v2"
	_ "gotest.tools/gotestsum"
)
