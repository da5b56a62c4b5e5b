// Package interfaces defines core interfaces and types for the deployment
// bootstrapper, separating interface definitions from implementations.
//
// The package provides interfaces for the key capabilities of the system:
//
// # Capability Interfaces
//
// Confirmer: Operator confirmation for the interactive pause points (first-run
// configuration review, hardware-gate override, asset-download approval).
// Implementations cover interactive stdin prompting, fixed policies for
// automation, and a remote HTTP approval endpoint.
//
// Runner: Host process execution for the external tools the bootstrapper
// drives (docker, docker compose, curl, wget). Abstracted so stages can be
// tested without a container runtime on the build host.
//
// ArtifactSource: Transfer of a single remote verification-key artifact to a
// local path. One implementation per URI scheme (https via external transfer
// tools, s3, ipfs, file).
//
// # Error Taxonomy
//
// Every fatal gate condition maps to one sentinel error so callers can branch
// with errors.Is while the wrapped message carries the operator remediation
// hint:
//
//   - ErrMissingDependency: required host tool absent
//   - ErrMissingTemplate: no configuration template to bootstrap from
//   - ErrHardwareUnavailable: GPU probe failed and the operator declined
//   - ErrIncompleteAssetSet: artifacts still missing after the fetch stage
//   - ErrImageNotLoaded: expected service image absent from the local store
//   - ErrDatabaseUnavailable: explicitly configured proof store unreachable
//   - ErrOrchestrationFailed: compose invocation returned non-zero
package interfaces
