// Package daemon coordinates the long-running Greenroom process and system
// integration points.
//
// It wires configuration, session storage, the workflow manager, the HTTP API
// server, and the audio device monitor into a single lifecycle with
// flock-based locking to prevent multiple instances. The daemon exposes
// session maintenance helpers, accepts typed answers for active interviews,
// emits dependency health summaries, and owns the log stream served to
// clients.
//
// Keep orchestration logic here: individual workflow stages should live in
// their respective packages while the daemon focuses on startup, shutdown,
// and high level coordination.
package daemon
