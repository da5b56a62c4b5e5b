package assets

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
)

// FileSource copies artifacts already present elsewhere on the host, for
// air-gapped deployments where the artifact set arrives on removable media.
//
// Location format: file:///absolute/path
type FileSource struct{}

func (s *FileSource) Fetch(ctx context.Context, rawURL, destPath string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid file location %q: %w", rawURL, err)
	}

	in, err := os.Open(u.Path)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", u.Path, err)
	}
	defer in.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", destPath, err)
	}

	_, err = io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("could not copy %s: %w", u.Path, err)
	}

	return nil
}

func (s *FileSource) Name() string {
	return "file"
}
