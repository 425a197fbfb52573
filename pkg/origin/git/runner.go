package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/mtcollect/pkg/logging"
)

// Runner executes git commands.
type Runner interface {
	// Run executes git with args in dir (the current directory when dir is
	// empty) and returns trimmed stdout. Failures are *CommandError.
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// CommandError is a git invocation that exited unsuccessfully.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), msg)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

type execRunner struct {
	binary string
}

// NewExecRunner returns a Runner backed by the given git binary.
func NewExecRunner(binary string) Runner {
	if binary == "" {
		binary = "git"
	}
	return &execRunner{binary: binary}
}

func (r *execRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	logging.LogCommand(r.binary, args)

	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = dir
	// Never block on a credential prompt.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return strings.TrimSpace(stdout.String()), &CommandError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}
