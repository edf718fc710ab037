// Package session persists interview sessions in SQLite and exposes helpers
// for driving their lifecycle.
//
// The Store manages database connections, schema initialization, stats
// queries, heartbeat tracking, stuck-session recovery, and status transitions
// that mirror the public workflow enum. Sessions capture progress, the
// prepared question plan, and review flags; answer records capture every
// scored transcript so the reporter can aggregate without additional state.
//
// The database is treated as transient storage for in-flight practice
// sessions rather than a long-term archive. Schema changes bump the version
// in schema.go; users clear the database to adopt the new schema.
//
// Treat this package as the single source of truth for session semantics;
// when you add new statuses or columns, update schema.sql and bump
// schemaVersion.
package session
