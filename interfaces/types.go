package interfaces

import (
	"context"
	"errors"
)

// Sentinel errors for the fatal gate conditions. Stage implementations wrap
// these with fmt.Errorf("...: %w", ...) so the message carries a remediation
// hint while errors.Is still matches the class.
var (
	ErrMissingDependency   = errors.New("missing dependency")
	ErrMissingTemplate     = errors.New("missing configuration template")
	ErrHardwareUnavailable = errors.New("hardware unavailable")
	ErrIncompleteAssetSet  = errors.New("incomplete asset set")
	ErrImageNotLoaded      = errors.New("image not loaded")
	ErrDatabaseUnavailable = errors.New("database unavailable")
	ErrOrchestrationFailed = errors.New("orchestration failed")
)

// Confirmer asks the operator a yes/no question at one of the bootstrap pause
// points. Implementations may prompt interactively, answer from a fixed
// policy, or await a remote approval. A non-nil error means no answer could
// be obtained and the run must halt.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// Runner executes host processes on behalf of the bootstrapper. Run streams
// the child's output to the operator's terminal; Output captures stdout for
// parsing. LookPath reports whether a tool is installed at all.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	LookPath(name string) (string, error)
}

// ArtifactSource transfers a single remote artifact to destPath. The
// destination must only exist after a fully successful transfer; partial
// downloads must never be left at destPath.
type ArtifactSource interface {
	Fetch(ctx context.Context, rawURL, destPath string) error

	// Name returns a short identifier for logging ("curl", "s3", "ipfs").
	Name() string
}
