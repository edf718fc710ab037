// Package oracle wraps the external generative-AI endpoint that supplies
// interview questions and answer evaluations.
//
// Two providers are supported: an OpenAI-compatible chat-completions API
// (the default, via OpenRouter) and Google's native Gemini generateContent
// API. Both are driven through the same Completer seam so the interviewer
// never cares which one is configured. Responses are requested as strict
// JSON, but the decoder tolerates the usual model quirks: code fences,
// leading prose, and tool-call argument payloads.
//
// When no credential is configured, or the provider exhausts its retries,
// evaluation degrades to the heuristic evaluator in fallback.go instead of
// failing the session.
package oracle
