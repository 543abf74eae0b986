package salesforce

import (
	"bytes"
	"context"
	"os/exec"

	"gitlab.com/tozd/go/errors"
)

// Result holds the captured output of one command
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes a program with arguments passed as argv, never through a shell
type Runner interface {
	Run(ctx context.Context, program string, args ...string) (*Result, error)
}

// ExecRunner runs commands on the host
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, program string, args ...string) (*Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}
	if err != nil {
		return res, errors.Errorf("executing %s: %w", program, err)
	}
	return res, nil
}
