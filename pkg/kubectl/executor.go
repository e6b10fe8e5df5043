package kubectl

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Executor runs one inventory query and returns its standard output.
type Executor interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// CommandError is returned when kubectl exits non-zero or cannot be started.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("kubectl %s failed: %v", strings.Join(e.Args, " "), e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Options selects the kubectl binary and cluster connection.
type Options struct {
	Binary     string
	Kubeconfig string
	Context    string
	// Timeout bounds each invocation; zero leaves it to kubectl.
	Timeout time.Duration
}

// CLI shells out to kubectl.
type CLI struct {
	opts   Options
	logger *logrus.Logger
}

// NewCLI creates a kubectl executor
func NewCLI(opts Options, logger *logrus.Logger) *CLI {
	if opts.Binary == "" {
		opts.Binary = "kubectl"
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &CLI{opts: opts, logger: logger}
}

// Run executes kubectl with the connection flags prepended to args.
func (c *CLI) Run(ctx context.Context, args ...string) (string, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	full := c.buildArgs(args)
	c.logger.Debugf("Running %s %s", c.opts.Binary, strings.Join(full, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.opts.Binary, full...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.String(), &CommandError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}

func (c *CLI) buildArgs(args []string) []string {
	full := make([]string, 0, len(args)+4)
	if c.opts.Kubeconfig != "" {
		full = append(full, "--kubeconfig", c.opts.Kubeconfig)
	}
	if c.opts.Context != "" {
		full = append(full, "--context", c.opts.Context)
	}
	return append(full, args...)
}
