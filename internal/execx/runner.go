// Package execx provides a stub-friendly interface for running external commands.
package execx

import (
	"bytes"
	"context"
	"os/exec"
)

// Result holds the outcome of a command execution.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Options holds optional parameters for command execution.
type Options struct {
	Dir string            // working directory (optional)
	Env map[string]string // extra environment variables overlaid on the process env
}

// Runner is the interface for running external commands.
// Implementations must be safe for stubbing in tests.
type Runner interface {
	// Run executes a command and returns the result.
	// Returns Result with ExitCode set if the process exits (even non-zero).
	// Returns error only for execution failures (binary not found, ctx canceled).
	Run(ctx context.Context, name string, args []string, opts Options) (Result, error)
}

// OSRunner is the production Runner backed by os/exec.
type OSRunner struct{}

// NewOSRunner creates a new OSRunner.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

// Run executes the command and captures stdout/stderr.
func (r *OSRunner) Run(ctx context.Context, name string, args []string, opts Options) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}

	if len(opts.Env) > 0 {
		cmd.Env = cmd.Environ()
		for k, v := range opts.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	err := cmd.Run()

	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}

	return result, nil
}
