// Package speech handles the audio half of an interview: capturing the
// candidate's spoken answer, transcribing it to text, and optionally speaking
// questions aloud.
//
// Capture runs ffmpeg against the configured input device. Transcription goes
// through the Transcriber seam with two backends: a local whisper CLI and the
// Voxtral HTTP transcription API. Transcription failures never surface as
// errors from CaptureAnswer; they come back as the canonical failure markers
// from the transcript package so the interviewer can score them as edge
// cases and keep the session moving.
package speech
