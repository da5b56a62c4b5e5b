package envfile

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brevis-network/pico-proving-service/interfaces"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestBootstrap_CreatesFromTemplate(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ".env")
	templatePath := filepath.Join(dir, ".env.example")

	template := "GRPC_ADDR=0.0.0.0:50052\nPROVER_COUNT=1\n"
	require.NoError(t, os.WriteFile(templatePath, []byte(template), 0o644))

	created, err := Bootstrap(configPath, templatePath, testLogger())
	require.NoError(t, err)
	assert.True(t, created)

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, template, string(content), "template must be copied verbatim")
}

func TestBootstrap_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ".env")
	templatePath := filepath.Join(dir, ".env.example")

	require.NoError(t, os.WriteFile(templatePath, []byte("PROVER_COUNT=1\n"), 0o644))

	edited := "PROVER_COUNT=8\n# operator tuned\n"
	require.NoError(t, os.WriteFile(configPath, []byte(edited), 0o644))

	created, err := Bootstrap(configPath, templatePath, testLogger())
	require.NoError(t, err)
	assert.False(t, created)

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, edited, string(content), "operator-edited configuration must be left untouched")
}

func TestBootstrap_MissingTemplate(t *testing.T) {
	dir := t.TempDir()

	created, err := Bootstrap(filepath.Join(dir, ".env"), filepath.Join(dir, ".env.example"), testLogger())
	assert.False(t, created)
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrMissingTemplate))

	_, statErr := os.Stat(filepath.Join(dir, ".env"))
	assert.True(t, os.IsNotExist(statErr), "no configuration file may be created without a template")
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	content := `# deployment settings
GRPC_ADDR=0.0.0.0:50052

export PROVER_COUNT=4
RUST_LOG="debug"
VK_VERIFICATION='true'
not a key value line
CHUNK_SIZE = 1024
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	values, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"GRPC_ADDR":       "0.0.0.0:50052",
		"PROVER_COUNT":    "4",
		"RUST_LOG":        "debug",
		"VK_VERIFICATION": "true",
		"CHUNK_SIZE":      "1024",
	}, values)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		values   map[string]string
		warnings int
	}{
		{
			name: "all known and numeric",
			values: map[string]string{
				KeyGRPCAddr:    "0.0.0.0:50052",
				KeyProverCount: "4",
				KeyChunkSize:   "4194304",
			},
			warnings: 0,
		},
		{
			name:     "unknown key",
			values:   map[string]string{"SOME_CUSTOM_SETTING": "x"},
			warnings: 1,
		},
		{
			name:     "non-numeric worker count",
			values:   map[string]string{KeyProverCount: "many"},
			warnings: 1,
		},
		{
			name:     "negative chunk size",
			values:   map[string]string{KeyChunkSize: "-1"},
			warnings: 1,
		},
		{
			name:     "empty",
			values:   map[string]string{},
			warnings: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Validate(tt.values), tt.warnings)
		})
	}
}
