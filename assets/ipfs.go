package assets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	shell "github.com/ipfs/go-ipfs-api"
)

// IPFSSource reads artifacts through an IPFS node's API. Useful for
// deployments that mirror the artifact set over IPFS instead of the public
// bucket.
//
// Location format: ipfs://host:port/cid
type IPFSSource struct {
	Log *slog.Logger
}

// Fetch streams the content identified by the CID in the location path to
// destPath.
func (s *IPFSSource) Fetch(ctx context.Context, rawURL, destPath string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid ipfs location %q: %w", rawURL, err)
	}

	cid := strings.TrimPrefix(u.Path, "/")
	if cid == "" {
		return fmt.Errorf("ipfs location %q has no CID", rawURL)
	}

	sh := shell.NewShell(u.Host)

	reader, err := sh.Cat(cid)
	if err != nil {
		return fmt.Errorf("could not cat %s from ipfs node %s: %w", cid, u.Host, err)
	}
	defer reader.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", destPath, err)
	}

	written, err := io.Copy(out, reader)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("could not write ipfs content to %s: %w", destPath, err)
	}

	s.Log.Debug("Fetched content from IPFS",
		slog.String("cid", cid),
		slog.Int64("bytes", written))

	return nil
}

func (s *IPFSSource) Name() string {
	return "ipfs"
}
