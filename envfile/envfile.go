// Package envfile manages the deployment's environment configuration file:
// first-run materialization from the checked-in template, and advisory
// parsing/validation of the settings the proving engine recognizes.
//
// The configuration file is operator-owned. It is created exactly once, from
// the template, and never regenerated or rewritten while present; edits
// happen out of band.
package envfile

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/brevis-network/pico-proving-service/interfaces"
)

// Settings the proving engine reads from the environment file.
const (
	KeyGRPCAddr       = "GRPC_ADDR"
	KeyProverCount    = "PROVER_COUNT"
	KeyChunkSize      = "CHUNK_SIZE"
	KeyBatchSize      = "BATCH_SIZE"
	KeySplitThreshold = "SPLIT_THRESHOLD"
	KeyNumCPUThreads  = "NUM_CPU_THREADS"
	KeyLogVerbosity   = "RUST_LOG"
	KeyVKVerification = "VK_VERIFICATION"
	KeyDatabaseURL    = "DATABASE_URL"
)

var knownKeys = map[string]bool{
	KeyGRPCAddr:       true,
	KeyProverCount:    true,
	KeyChunkSize:      true,
	KeyBatchSize:      true,
	KeySplitThreshold: true,
	KeyNumCPUThreads:  true,
	KeyLogVerbosity:   true,
	KeyVKVerification: true,
	KeyDatabaseURL:    true,
}

var numericKeys = []string{
	KeyProverCount,
	KeyChunkSize,
	KeyBatchSize,
	KeySplitThreshold,
	KeyNumCPUThreads,
}

// Bootstrap ensures the configuration file at configPath exists. On first run
// it copies templatePath verbatim; when configPath is already present it does
// nothing, regardless of content. Returns whether the file was created, so
// the caller can pause for operator review of the copied defaults.
func Bootstrap(configPath, templatePath string, log *slog.Logger) (created bool, err error) {
	if _, err := os.Stat(configPath); err == nil {
		log.Info("Configuration file present, leaving as is", slog.String("path", configPath))
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("could not stat configuration file: %w", err)
	}

	template, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Errorf("%w: %s not found, re-fetch the deployment bundle", interfaces.ErrMissingTemplate, templatePath)
		}
		return false, fmt.Errorf("could not read configuration template: %w", err)
	}

	if err := os.WriteFile(configPath, template, 0o644); err != nil {
		return false, fmt.Errorf("could not write configuration file: %w", err)
	}

	log.Info("Created configuration file from template",
		slog.String("path", configPath),
		slog.String("template", templatePath))

	return true, nil
}

// Parse reads a KEY=VALUE environment file. Blank lines, comment lines and
// "export " prefixes are tolerated; single and double quotes around values
// are stripped. Later assignments win.
func Parse(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open environment file: %w", err)
	}
	defer f.Close()

	values := make(map[string]string)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read environment file: %w", err)
	}

	return values, nil
}

// Validate checks parsed settings and returns human-readable warnings for
// anything suspicious: keys the engine does not recognize, or non-numeric
// values for the numeric settings. Validation never fails the run; the
// engine applies its own defaults, and the operator may carry extra keys for
// their own tooling.
func Validate(values map[string]string) (warnings []string) {
	for key := range values {
		if !knownKeys[key] {
			warnings = append(warnings, fmt.Sprintf("unrecognized setting %s", key))
		}
	}

	for _, key := range numericKeys {
		value, ok := values[key]
		if !ok {
			continue
		}
		if _, err := strconv.ParseUint(value, 10, 64); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s should be a positive integer, got %q", key, value))
		}
	}

	return warnings
}
