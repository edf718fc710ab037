// Package interview holds the three session stages: the preparer plans the
// question list, the interviewer runs the spoken (or typed) Q&A loop, and the
// reporter turns the recorded answers into the exported feedback report.
//
// Stage handlers implement the stage.Handler contract and are driven by the
// workflow manager; none of them owns goroutines of its own.
package interview
