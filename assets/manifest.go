package assets

import "path/filepath"

// Entry describes one required artifact: where it lives remotely and where it
// must end up locally.
type Entry struct {
	// Name is the artifact file name as the gnark sidecar expects it.
	Name string

	// URL is the primary remote location.
	URL string

	// Mirrors are fallback locations, tried in order after URL fails.
	Mirrors []string

	// LocalPath is the absolute destination path. Its presence is the sole
	// completion predicate for this entry.
	LocalPath string
}

// Manifest is the ordered set of artifacts required by the deployment.
type Manifest []Entry

const artifactBaseURL = "https://picobench.s3.us-west-2.amazonaws.com/gnark-artifacts/kb"

const artifactMirror = "s3://picobench/gnark-artifacts/kb"

// artifactNames in fetch order: the circuit first since the sidecar fails
// fastest without it.
var artifactNames = []string{"vm_ccs", "vm_vk", "vm_pk"}

// DefaultManifest returns the manifest for the shipped deployment: the three
// gnark artifacts under assetDir, served from the public artifact bucket with
// a native-S3 mirror of the same objects.
func DefaultManifest(assetDir string) Manifest {
	m := make(Manifest, 0, len(artifactNames))
	for _, name := range artifactNames {
		m = append(m, Entry{
			Name:      name,
			URL:       artifactBaseURL + "/" + name,
			Mirrors:   []string{artifactMirror + "/" + name + "?region=us-west-2"},
			LocalPath: filepath.Join(assetDir, name),
		})
	}
	return m
}
