// Package dockerutil drives the host's container runtime for the deployment
// bootstrap: tool presence checks, compose invocation selection, local image
// store inspection, the GPU probe, and bringing the service topology up.
//
// All process execution goes through the interfaces.Runner capability so the
// stages can be exercised in tests without docker on the build host.
package dockerutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/brevis-network/pico-proving-service/interfaces"
)

// ComposeCommand is the selected compose invocation form: either the
// standalone ["docker-compose"] binary or the integrated ["docker",
// "compose"] plugin. It is threaded explicitly through the stages that need
// it rather than held as package state.
type ComposeCommand []string

// Command splits the invocation into the executable name and leading
// arguments, appending extra.
func (c ComposeCommand) Command(extra ...string) (name string, args []string) {
	return c[0], append(append([]string{}, c[1:]...), extra...)
}

func (c ComposeCommand) String() string {
	return strings.Join(c, " ")
}

// ExecRunner runs host processes with os/exec. Run streams the child's
// output to the operator's terminal; Output captures stdout.
type ExecRunner struct {
	Log *slog.Logger
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	r.Log.Debug("Running command", slog.String("cmd", name+" "+strings.Join(args, " ")))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.Log.Debug("Running command", slog.String("cmd", name+" "+strings.Join(args, " ")))
	return exec.CommandContext(ctx, name, args...).Output()
}

func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Client wraps the runtime operations the bootstrap stages need.
type Client struct {
	Runner interfaces.Runner
	Log    *slog.Logger
}

// CheckDocker verifies the container runtime executable is installed.
func (c *Client) CheckDocker() error {
	if _, err := c.Runner.LookPath("docker"); err != nil {
		return fmt.Errorf("%w: docker is not installed, see https://docs.docker.com/engine/install/", interfaces.ErrMissingDependency)
	}
	return nil
}

// SelectCompose picks the compose invocation form to use for the rest of the
// run. The standalone docker-compose binary is preferred when it works; the
// integrated docker compose plugin is the fallback.
func (c *Client) SelectCompose(ctx context.Context) (ComposeCommand, error) {
	if _, err := c.Runner.Output(ctx, "docker-compose", "version"); err == nil {
		c.Log.Debug("Using standalone docker-compose")
		return ComposeCommand{"docker-compose"}, nil
	}

	if _, err := c.Runner.Output(ctx, "docker", "compose", "version"); err == nil {
		c.Log.Debug("Using docker compose plugin")
		return ComposeCommand{"docker", "compose"}, nil
	}

	return nil, fmt.Errorf("%w: neither docker-compose nor the docker compose plugin is available", interfaces.ErrMissingDependency)
}

// ImagePresent reports whether ref is already loaded into the local image
// store. A failed inspect means absent; this deliberately never pulls.
func (c *Client) ImagePresent(ctx context.Context, ref string) bool {
	_, err := c.Runner.Output(ctx, "docker", "image", "inspect", ref)
	return err == nil
}

// GPUProbeImage is the throwaway container image for the hardware probe. It
// is deliberately not one of the service images, which are only required to
// be loaded at the later image gate.
const GPUProbeImage = "nvidia/cuda:12.4.1-base-ubuntu22.04"

// ProbeGPU runs a throwaway container with GPU access to verify accelerated
// execution is reachable through the runtime.
func (c *Client) ProbeGPU(ctx context.Context) error {
	err := c.Runner.Run(ctx, "docker", "run", "--rm", "--gpus", "all", GPUProbeImage, "nvidia-smi")
	if err != nil {
		return fmt.Errorf("gpu probe failed: %w", err)
	}
	return nil
}

// ComposeUp brings the topology declared in composeFile up in detached mode.
func (c *Client) ComposeUp(ctx context.Context, compose ComposeCommand, composeFile string) error {
	name, args := compose.Command("-f", composeFile, "up", "-d")
	if err := c.Runner.Run(ctx, name, args...); err != nil {
		return fmt.Errorf("%w: %s -f %s up -d returned an error", interfaces.ErrOrchestrationFailed, compose, composeFile)
	}
	return nil
}
