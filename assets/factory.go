package assets

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/brevis-network/pico-proving-service/interfaces"
)

// SourceFactory resolves artifact locations to transfer implementations by
// URI scheme.
type SourceFactory struct {
	Runner interfaces.Runner
	Log    *slog.Logger
}

// SourceFor returns the ArtifactSource for a location URI.
//
// Supported schemes:
//   - http:// and https:// - external transfer tool (curl or wget)
//   - s3:// - anonymous S3 object read
//   - ipfs:// - IPFS node API
//   - file:// - local filesystem copy
func (sf *SourceFactory) SourceFor(rawURL string) (interfaces.ArtifactSource, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact location %q: %w", rawURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return newTransferToolSource(sf.Runner, sf.Log)
	case "s3":
		return &S3Source{Log: sf.Log}, nil
	case "ipfs":
		return &IPFSSource{Log: sf.Log}, nil
	case "file":
		return &FileSource{}, nil
	default:
		return nil, fmt.Errorf("unsupported artifact location scheme: %s", u.Scheme)
	}
}
