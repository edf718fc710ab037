// Package preflight provides readiness checks for external services
// and filesystem paths that Greenroom depends on.
//
// These checks run in two contexts:
//   - The workflow manager calls RunFeatureChecks before the daemon starts
//     processing sessions. If any check fails, startup halts so an operator
//     never sits through an interview that cannot be scored or saved.
//   - The CLI "greenroom status" command uses individual check functions
//     (CheckOracle, CheckDirectoryAccess) to display service health.
//
// Each check is gated by its config toggle -- disabled features are skipped.
package preflight
