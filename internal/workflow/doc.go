// Package workflow advances interview sessions through the configured
// processing stages.
//
// The Manager polls the session store, reclaims stale work via heartbeats,
// and feeds sessions into registered stage handlers (preparer, interviewer,
// reporter) while capturing progress and failure metadata. It also aggregates
// session stats, calls stage health checks, and emits queue-level
// notifications when processing starts or completes.
//
// The workflow runs two independent lanes: foreground (preparation and the
// interview itself, which owns the microphone) and background (report
// generation). Each lane polls for sessions matching its statuses and
// processes them independently, so a finished interview can render its report
// while the next session is being interviewed.
//
// Add new lifecycle stages by extending StageSet, updating the session status
// enums, and teaching the manager how to transition sessions; this package is
// the authoritative home for that coordination logic.
package workflow
