package assets

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brevis-network/pico-proving-service/interfaces"
)

func testFactory(runner *MockRunner) *SourceFactory {
	return &SourceFactory{
		Runner: runner,
		Log:    slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
}

func TestSourceFor_Schemes(t *testing.T) {
	runner := new(MockRunner)
	runner.On("LookPath", "curl").Return("/usr/bin/curl", nil)

	factory := testFactory(runner)

	tests := []struct {
		url  string
		name string
	}{
		{"https://picobench.s3.us-west-2.amazonaws.com/gnark-artifacts/kb/vm_ccs", "curl"},
		{"http://mirror.internal/vm_ccs", "curl"},
		{"s3://picobench/gnark-artifacts/kb/vm_ccs?region=us-west-2", "s3"},
		{"ipfs://127.0.0.1:5001/QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", "ipfs"},
		{"file:///mnt/media/vm_ccs", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			source, err := factory.SourceFor(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.name, source.Name())
		})
	}
}

func TestSourceFor_UnsupportedScheme(t *testing.T) {
	_, err := testFactory(new(MockRunner)).SourceFor("ftp://host/vm_ccs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestTransferToolSelection(t *testing.T) {
	t.Run("curl preferred", func(t *testing.T) {
		runner := new(MockRunner)
		runner.On("LookPath", "curl").Return("/usr/bin/curl", nil)

		source, err := newTransferToolSource(runner, slog.Default())
		require.NoError(t, err)
		assert.Equal(t, "curl", source.Name())
	})

	t.Run("wget fallback", func(t *testing.T) {
		runner := new(MockRunner)
		runner.On("LookPath", "curl").Return("", errors.New("not found"))
		runner.On("LookPath", "wget").Return("/usr/bin/wget", nil)

		source, err := newTransferToolSource(runner, slog.Default())
		require.NoError(t, err)
		assert.Equal(t, "wget", source.Name())
	})

	t.Run("neither installed", func(t *testing.T) {
		runner := new(MockRunner)
		runner.On("LookPath", "curl").Return("", errors.New("not found"))
		runner.On("LookPath", "wget").Return("", errors.New("not found"))

		_, err := newTransferToolSource(runner, slog.Default())
		require.Error(t, err)
		assert.True(t, errors.Is(err, interfaces.ErrMissingDependency))
	})
}
