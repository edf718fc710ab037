// Package scoring aggregates per-answer evaluations into session-level
// metrics: running means, persona buckets, the plotting series, the dominant
// persona with its consistency percentage, and the score trend.
//
// Aggregation is recomputed on demand from the full record list. There are no
// incremental counters, so a crashed session loses nothing but its in-flight
// answer.
package scoring
