// Package report turns a session's scored answers into the feedback shown to
// the user: aggregate metrics, persona advice, per-question detail, and
// chart.js payloads. The exported JSON document is the durable artifact; the
// CLI renders a table view from the same display model.
package report
