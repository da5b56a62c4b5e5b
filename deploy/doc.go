// Package deploy implements the deployment bootstrap orchestrator: the
// sequence of idempotent preflight checks, asset provisioning, and
// service-launch gating that brings an uninitialized host to a running
// proving-engine deployment.
//
// # Stage Sequence
//
// Stages run strictly top to bottom; each is a hard gate that either
// succeeds or halts the run. There is no rollback: every stage is
// independently idempotent, so a failed run is always safe to re-run and
// only performs the work that is still outstanding.
//
//  1. Prerequisites: container runtime and compose tooling present; the
//     compose invocation form is selected here and threaded through
//     explicitly.
//  2. Environment: configuration file materialized from the template on
//     first run (never overwritten later), with a pause for operator review
//     of the copied defaults.
//  3. Hardware gate (GPU variant): accelerated execution probed through the
//     runtime, with an explicit operator override since the probe can
//     produce false negatives.
//  4. Artifacts: the verification-key artifact set completed, confirmed with
//     the operator before any transfer starts.
//  5. Image gate: the pre-built service images must already be loaded; this
//     system never builds or pulls them.
//  6. Data directory: the persistent data directory created if needed.
//  7. Proof store (postgres only): the engine's schema applied.
//  8. Launch: the two-service topology brought up detached, with operator
//     hints for logs, status, shutdown, and shell access.
//
// Interactive pauses go through the interfaces.Confirmer capability, so
// automated runs substitute a fixed policy instead of a terminal prompt.
package deploy
