/*
Package algorithm owns the boundary to the external algorithm process: it
launches the pre-built executable, frames its command stream into lines,
executes the commands sequentially on a dedicated worker, and writes the
responses back.

The algorithm writes commands to its standard error stream, one per line, so
its standard output stays free for diagnostic text. Responses arrive on its
standard input, one line per response, in the order the commands completed.
*/
package algorithm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Process-related errors.
var ErrMissingExecutable = errors.New("algorithm executable not found")

// Process is a launched algorithm executable and its standard streams.
type Process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser
}

// StartProcess launches the pre-built algorithm executable at path. A
// missing or unrunnable executable is a configuration error; the caller must
// treat it as fatal at startup.
func StartProcess(ctx context.Context, path string) (*Process, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %q", ErrMissingExecutable, path)
	}

	cmd := exec.CommandContext(ctx, path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("opening stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("opening stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting algorithm %q: %w", path, err)
	}

	return &Process{
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}, nil
}

// Stdin is the stream responses are written to.
func (p *Process) Stdin() io.Writer {
	return p.stdin
}

// Stdout is the algorithm's diagnostic stream.
func (p *Process) Stdout() io.Reader {
	return p.stdout
}

// Stderr is the algorithm's command stream.
func (p *Process) Stderr() io.Reader {
	return p.stderr
}

// Terminate kills the process and reaps it. Closing the pipes unblocks any
// reader still waiting on the streams.
func (p *Process) Terminate() {
	_ = p.stdin.Close()
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	_ = p.cmd.Wait()
}
