// Package transcript normalizes raw speech-to-text output before it reaches
// the persona classifier and the answer evaluator.
//
// The speech layer substitutes canonical marker strings when capture or
// transcription fails. Normalization lowercases and trims transcripts and
// flags those markers (and empty input) as failures so downstream code never
// treats them as literal answer text.
package transcript
