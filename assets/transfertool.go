package assets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brevis-network/pico-proving-service/interfaces"
)

// TransferToolSource downloads over plain HTTP(S) GET by driving whichever of
// the host's transfer tools is installed, curl preferred. Progress rendering
// is left to the tool, which streams to the operator's terminal.
type TransferToolSource struct {
	runner interfaces.Runner
	tool   string
	log    *slog.Logger
}

func newTransferToolSource(runner interfaces.Runner, log *slog.Logger) (*TransferToolSource, error) {
	for _, tool := range []string{"curl", "wget"} {
		if _, err := runner.LookPath(tool); err == nil {
			return &TransferToolSource{runner: runner, tool: tool, log: log}, nil
		}
	}
	return nil, fmt.Errorf("%w: neither curl nor wget is installed", interfaces.ErrMissingDependency)
}

// Fetch downloads rawURL to destPath. No timeout is applied: the artifacts
// are multi-gigabyte and transfer time is dominated by the operator's link.
func (s *TransferToolSource) Fetch(ctx context.Context, rawURL, destPath string) error {
	var err error
	switch s.tool {
	case "curl":
		err = s.runner.Run(ctx, "curl", "-fSL", "--progress-bar", "-o", destPath, rawURL)
	default:
		err = s.runner.Run(ctx, "wget", "-O", destPath, rawURL)
	}
	if err != nil {
		return fmt.Errorf("%s failed for %s: %w", s.tool, rawURL, err)
	}
	return nil
}

func (s *TransferToolSource) Name() string {
	return s.tool
}
