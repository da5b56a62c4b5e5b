package assets

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/miekg/dns"
	"go.uber.org/atomic"

	"github.com/brevis-network/pico-proving-service/interfaces"
)

// Fetcher ensures every manifest entry exists locally, transferring only what
// is missing.
type Fetcher struct {
	Factory *SourceFactory
	Log     *slog.Logger

	// fetchedBytes counts bytes placed on disk by this run, for the success
	// summary.
	fetchedBytes atomic.Int64
}

// Missing returns the manifest entries whose local path does not exist yet.
// A leftover .partial file from an interrupted transfer does not count as
// present.
func (f *Fetcher) Missing(manifest Manifest) []Entry {
	var missing []Entry
	for _, entry := range manifest {
		if !exists(entry.LocalPath) {
			missing = append(missing, entry)
		}
	}
	return missing
}

// Fetch brings the manifest to completion: present entries are skipped with a
// notice, missing entries are transferred from their primary location with
// mirror fallback. After all entries are attempted, presence of every local
// path is re-verified; any gap fails with ErrIncompleteAssetSet. On full
// success the aggregate size of the asset directory is reported.
func (f *Fetcher) Fetch(ctx context.Context, manifest Manifest) error {
	if len(manifest) == 0 {
		return nil
	}

	assetDir := filepath.Dir(manifest[0].LocalPath)
	if err := os.MkdirAll(assetDir, 0o755); err != nil {
		return fmt.Errorf("could not create asset directory: %w", err)
	}

	f.checkResolvable(manifest)

	for _, entry := range manifest {
		if exists(entry.LocalPath) {
			f.Log.Info("Artifact already present, skipping",
				slog.String("name", entry.Name),
				slog.String("path", entry.LocalPath))
			continue
		}

		if err := f.fetchEntry(ctx, entry); err != nil {
			// Keep going: remaining entries may still succeed, and the final
			// verification pass reports the full missing set at once.
			f.Log.Error("Artifact transfer failed",
				slog.String("name", entry.Name),
				"err", err)
		}
	}

	var stillMissing []string
	for _, entry := range manifest {
		if !exists(entry.LocalPath) {
			stillMissing = append(stillMissing, entry.Name)
		}
	}
	if len(stillMissing) > 0 {
		return fmt.Errorf("%w: %s still missing after fetch, re-run to retry (present artifacts are kept)",
			interfaces.ErrIncompleteAssetSet, strings.Join(stillMissing, ", "))
	}

	total, err := dirSize(assetDir)
	if err != nil {
		return fmt.Errorf("could not measure asset directory: %w", err)
	}
	f.Log.Info("All artifacts present",
		slog.String("dir", assetDir),
		slog.String("total", humanBytes(total)),
		slog.String("fetched", humanBytes(f.fetchedBytes.Load())))

	return nil
}

// fetchEntry transfers one artifact, trying the primary location and then
// each mirror. The transfer lands in a .partial path renamed into place only
// on success.
func (f *Fetcher) fetchEntry(ctx context.Context, entry Entry) error {
	partial := entry.LocalPath + ".partial"

	var lastErr error
	for i, rawURL := range append([]string{entry.URL}, entry.Mirrors...) {
		source, err := f.Factory.SourceFor(rawURL)
		if err != nil {
			return err
		}

		if i > 0 {
			f.Log.Warn("Primary source failed, trying mirror",
				slog.String("name", entry.Name),
				slog.String("mirror", rawURL))
		} else {
			f.Log.Info("Fetching artifact",
				slog.String("name", entry.Name),
				slog.String("url", rawURL),
				slog.String("via", source.Name()))
		}

		if err := source.Fetch(ctx, rawURL, partial); err != nil {
			lastErr = err
			os.Remove(partial)
			continue
		}

		info, err := os.Stat(partial)
		if err != nil {
			lastErr = fmt.Errorf("transfer reported success but left no file: %w", err)
			continue
		}

		if err := os.Rename(partial, entry.LocalPath); err != nil {
			return fmt.Errorf("could not move artifact into place: %w", err)
		}

		f.fetchedBytes.Add(info.Size())
		f.Log.Info("Fetched artifact",
			slog.String("name", entry.Name),
			slog.String("size", humanBytes(info.Size())))
		return nil
	}

	return lastErr
}

// checkResolvable warns about manifest hosts that do not resolve, before any
// transfer tool is invoked. Advisory only: resolution through the system
// resolver can disagree with what curl or the SDKs see.
func (f *Fetcher) checkResolvable(manifest Manifest) {
	config, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(config.Servers) == 0 {
		return
	}
	server := net.JoinHostPort(config.Servers[0], config.Port)

	seen := map[string]bool{}
	for _, entry := range manifest {
		u, err := url.Parse(entry.URL)
		if err != nil || u.Hostname() == "" || seen[u.Hostname()] {
			continue
		}
		host := u.Hostname()
		seen[host] = true

		if net.ParseIP(host) != nil {
			continue
		}

		m := new(dns.Msg)
		m.SetQuestion(dns.Fqdn(host), dns.TypeA)
		m.RecursionDesired = true

		in, _, err := new(dns.Client).Exchange(m, server)
		if err != nil || in.Rcode != dns.RcodeSuccess || len(in.Answer) == 0 {
			f.Log.Warn("Artifact host did not resolve, downloads may fail",
				slog.String("host", host))
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func dirSize(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
