package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Command runs an external summary tool once per replay.
type Command struct {
	cfg Config
}

// NewCommand returns a parser backed by cfg.Command.
func NewCommand(cfg Config) (*Command, error) {
	if cfg.Command == "" {
		return nil, errors.New("parser command is not configured")
	}
	if _, err := exec.LookPath(cfg.Command); err != nil {
		return nil, fmt.Errorf("failed to locate parser command %q: %w", cfg.Command, err)
	}
	return &Command{cfg: cfg}, nil
}

// Version returns the configured parser version.
func (c *Command) Version() string {
	return c.cfg.Version
}

// Parse feeds data to the command on stdin and decodes its JSON output.
// A non-zero exit or undecodable output is reported as ErrInvalidFormat.
func (c *Command) Parse(ctx context.Context, data []byte) (*Summary, error) {
	timeout := c.cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 60
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.cfg.Command, c.cfg.Args...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("failed to run parser: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("failed to run parser: %w", err)
	}

	return Decode(stdout.Bytes())
}

// Decode reads a JSON summary and validates it.
func Decode(raw []byte) (*Summary, error) {
	var summary Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if err := summary.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return &summary, nil
}
