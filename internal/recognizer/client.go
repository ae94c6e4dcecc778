package recognizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ResultFileName is the output artifact written into the export directory.
// It is kept after a run for diagnostics.
const ResultFileName = "facerecognition.txt"

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, stdout io.Writer) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps the external face-recognition CLI.
type Client struct {
	binary string
	exec   Executor
}

// New constructs a recognizer client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("recognizer binary required")
	}
	client := &Client{
		binary: binary,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Available reports whether the recognizer binary can be resolved.
// The pipeline checks this before exporting anything so a missing tool
// causes no side effects at all.
func (c *Client) Available() error {
	if _, err := exec.LookPath(c.binary); err != nil {
		return fmt.Errorf("face recognition tool %q not found: %w", c.binary, err)
	}
	return nil
}

// Recognize runs the external tool over exportDir against the reference
// images in knownDir, capturing stdout into the result file inside
// exportDir. The call blocks for the tool's whole duration.
//
// cores <= 0 is forwarded as -1, meaning "use all available".
//
// The artifact path is returned even when the process fails, so callers
// can distinguish "tool crashed" from "tool succeeded with zero
// detections" and still inspect partial output.
func (c *Client) Recognize(ctx context.Context, cores int, knownDir, exportDir string) (string, error) {
	artifact := filepath.Join(exportDir, ResultFileName)

	out, err := os.Create(artifact)
	if err != nil {
		return "", fmt.Errorf("could not create result file: %w", err)
	}

	if cores <= 0 {
		cores = -1
	}
	args := []string{"--cpus", strconv.Itoa(cores), knownDir, exportDir}

	runErr := c.exec.Run(ctx, c.binary, args, out)
	if closeErr := out.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	if runErr != nil {
		return artifact, fmt.Errorf("face recognition process failed: %w", runErr)
	}

	return artifact, nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, stdout io.Writer) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec // argv vector, no shell interpolation
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", binary, err)
	}
	return nil
}
