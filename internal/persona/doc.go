// Package persona classifies interview answers into one of four response
// styles: Efficient, Confused, Chatty, or Edge Case.
//
// Classification is a pure function over the transcript, the evaluation
// score, and the follow-up flag. Rules run in strict priority order:
//
//   - Follow-up answers are always Efficient, even when empty.
//   - Empty transcripts, transcription failures, and "I don't know"
//     responses (exact, contained, or near-exact by fingerprint similarity)
//     are Edge Case.
//   - Redirect phrases (repeat requests, topic changes, discussion
//     requests) and rambling answers are Chatty.
//   - Everything else is Efficient when the score is high and the answer is
//     judged direct, otherwise Confused. A Confused outcome with a score
//     above 4 reclassifies to Efficient.
//
// The label drives persona-bucketed aggregation and the advice selection in
// session reports, so the rule order here must stay stable.
package persona
