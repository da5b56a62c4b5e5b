package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var testPaths = Paths{
	EnvFile:  "/deploy/.env",
	DataDir:  "/data",
	AssetDir: "/deploy/downloads",
}

func TestVariantValidate(t *testing.T) {
	assert.NoError(t, CPU.Validate())
	assert.NoError(t, GPU.Validate())

	bad := Variant{Name: "cpu", EngineImage: "UPPERCASE NOT ALLOWED", GnarkImage: CPU.GnarkImage}
	assert.Error(t, bad.Validate())
}

func TestCompose_SidecarIsPrivate(t *testing.T) {
	file := CPU.Compose(testPaths)

	gnark, ok := file.Services[GnarkService]
	require.True(t, ok)
	assert.Equal(t, []string{PrivateNetwork}, gnark.Networks, "sidecar must join only the private network")
	assert.Empty(t, gnark.Ports, "sidecar must never publish ports")

	network, ok := file.Networks[PrivateNetwork]
	require.True(t, ok)
	assert.True(t, network.Internal, "private network must be internal")
}

func TestCompose_EngineWiring(t *testing.T) {
	file := CPU.Compose(testPaths)

	engine, ok := file.Services[EngineService]
	require.True(t, ok)
	assert.Equal(t, CPU.EngineImage, engine.Image)
	assert.Contains(t, engine.Networks, PrivateNetwork)
	assert.Contains(t, engine.DependsOn, GnarkService)
	assert.Contains(t, engine.Volumes, "/data:/app/data")
	assert.Equal(t, []string{"/deploy/.env"}, engine.EnvFile)
}

func TestCompose_GPUDeviceReservation(t *testing.T) {
	cpu := CPU.Compose(testPaths).Services[EngineService]
	assert.Nil(t, cpu.Deploy, "cpu variant must not reserve devices")

	gpu := GPU.Compose(testPaths).Services[EngineService]
	require.NotNil(t, gpu.Deploy)
	devices := gpu.Deploy.Resources.Reservations.Devices
	require.Len(t, devices, 1)
	assert.Equal(t, "nvidia", devices[0].Driver)
	assert.Contains(t, devices[0].Capabilities, "gpu")
}

func TestRender_RoundTrips(t *testing.T) {
	data, err := GPU.Render(testPaths)
	require.NoError(t, err)

	var parsed File
	require.NoError(t, yaml.Unmarshal(data, &parsed))

	assert.Len(t, parsed.Services, 2)
	assert.Equal(t, GPU.EngineImage, parsed.Services[EngineService].Image)
	assert.True(t, parsed.Networks[PrivateNetwork].Internal)
	require.NotNil(t, parsed.Services[EngineService].Deploy)
}

func TestVariantsDifferOnlyWhereExpected(t *testing.T) {
	assert.NotEqual(t, CPU.EngineImage, GPU.EngineImage)
	assert.Equal(t, CPU.GnarkImage, GPU.GnarkImage)
	assert.False(t, CPU.GPU)
	assert.True(t, GPU.GPU)
}
