// Package topology declares the two-service deployment: the proving engine
// and the gnark verification-key sidecar it depends on for on-chain proof
// emission. The topology is rendered to a compose file consumed by the
// service launcher.
//
// The sidecar joins only the deployment's internal network and publishes
// nothing; it is reachable exclusively from the proving engine.
package topology

import (
	"fmt"

	"github.com/google/go-containerregistry/pkg/name"
	"gopkg.in/yaml.v3"
)

// Service names as they appear in the compose file.
const (
	EngineService = "pico-prover"
	GnarkService  = "gnark-server"

	// PrivateNetwork joins the engine and the sidecar. It is marked internal
	// so the sidecar is never routable from outside the deployment.
	PrivateNetwork = "pico-net"
)

// Variant parameterizes the single orchestrator over the CPU/GPU deployment
// flavors, which differ only in the engine image and the hardware gate.
type Variant struct {
	// Name tags logs and operator output ("cpu" or "gpu").
	Name string

	// EngineImage is the pre-built proving engine image expected in the local
	// image store. The bootstrapper never builds or pulls it.
	EngineImage string

	// GnarkImage is the verification-key sidecar image.
	GnarkImage string

	// GPU enables the hardware gate and the compose device reservation.
	GPU bool
}

// The two shipped deployment variants.
var (
	CPU = Variant{
		Name:        "cpu",
		EngineImage: "brevisnetwork/pico-prover:cpu-latest",
		GnarkImage:  "brevisnetwork/pico-gnark-server:latest",
	}
	GPU = Variant{
		Name:        "gpu",
		EngineImage: "brevisnetwork/pico-prover:gpu-latest",
		GnarkImage:  "brevisnetwork/pico-gnark-server:latest",
		GPU:         true,
	}
)

// Validate checks both image references parse as valid registry names.
func (v Variant) Validate() error {
	for _, ref := range []string{v.EngineImage, v.GnarkImage} {
		if _, err := name.ParseReference(ref); err != nil {
			return fmt.Errorf("invalid image reference %q: %w", ref, err)
		}
	}
	return nil
}

// Paths are the host-side locations bound into the services.
type Paths struct {
	// EnvFile is the operator-owned configuration file.
	EnvFile string

	// DataDir is the persistent data directory holding the proof store.
	DataDir string

	// AssetDir holds the fetched verification-key artifacts.
	AssetDir string
}

// File is the compose document root.
type File struct {
	Services map[string]Service `yaml:"services"`
	Networks map[string]Network `yaml:"networks"`
}

// Service is a single compose service declaration.
type Service struct {
	Image         string   `yaml:"image"`
	ContainerName string   `yaml:"container_name,omitempty"`
	Restart       string   `yaml:"restart,omitempty"`
	EnvFile       []string `yaml:"env_file,omitempty"`
	Ports         []string `yaml:"ports,omitempty"`
	Volumes       []string `yaml:"volumes,omitempty"`
	Networks      []string `yaml:"networks,omitempty"`
	DependsOn     []string `yaml:"depends_on,omitempty"`
	Deploy        *Deploy  `yaml:"deploy,omitempty"`
}

// Deploy carries the GPU device reservation for the GPU variant.
type Deploy struct {
	Resources Resources `yaml:"resources"`
}

type Resources struct {
	Reservations Reservations `yaml:"reservations"`
}

type Reservations struct {
	Devices []Device `yaml:"devices"`
}

type Device struct {
	Driver       string   `yaml:"driver"`
	Count        string   `yaml:"count"`
	Capabilities []string `yaml:"capabilities"`
}

// Network is a compose network declaration.
type Network struct {
	Driver   string `yaml:"driver,omitempty"`
	Internal bool   `yaml:"internal,omitempty"`
}

// Compose builds the service topology for the variant with the given host
// paths bound in.
func (v Variant) Compose(p Paths) *File {
	engine := Service{
		Image:         v.EngineImage,
		ContainerName: EngineService,
		Restart:       "unless-stopped",
		EnvFile:       []string{p.EnvFile},
		Ports:         []string{"50052:50052"},
		Volumes: []string{
			p.DataDir + ":/app/data",
		},
		// The engine sits on the default bridge for its published RPC port
		// and on the private network to reach the sidecar.
		Networks:  []string{"default", PrivateNetwork},
		DependsOn: []string{GnarkService},
	}

	if v.GPU {
		engine.Deploy = &Deploy{
			Resources: Resources{
				Reservations: Reservations{
					Devices: []Device{{
						Driver:       "nvidia",
						Count:        "all",
						Capabilities: []string{"gpu"},
					}},
				},
			},
		}
	}

	gnark := Service{
		Image:         v.GnarkImage,
		ContainerName: GnarkService,
		Restart:       "unless-stopped",
		EnvFile:       []string{p.EnvFile},
		Volumes: []string{
			p.AssetDir + ":/gnark/downloads:ro",
		},
		Networks: []string{PrivateNetwork},
	}

	return &File{
		Services: map[string]Service{
			EngineService: engine,
			GnarkService:  gnark,
		},
		Networks: map[string]Network{
			"default":      {},
			PrivateNetwork: {Driver: "bridge", Internal: true},
		},
	}
}

// Render marshals the topology to compose YAML.
func (v Variant) Render(p Paths) ([]byte, error) {
	data, err := yaml.Marshal(v.Compose(p))
	if err != nil {
		return nil, fmt.Errorf("could not render compose file: %w", err)
	}
	return data, nil
}
