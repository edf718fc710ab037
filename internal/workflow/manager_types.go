package workflow

import (
	"log/slog"

	"greenroom/internal/session"
	"greenroom/internal/stage"
)

// StageSet bundles the concrete workflow handlers the manager orchestrates.
type StageSet struct {
	Preparer    stage.Handler
	Interviewer stage.Handler
	Reporter    stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	startStatus      session.Status
	processingStatus session.Status
	doneStatus       session.Status
}

type laneKind string

const (
	laneForeground laneKind = "foreground"
	laneBackground laneKind = "background"
)

type laneState struct {
	kind                 laneKind
	name                 string
	stages               []pipelineStage
	statusOrder          []session.Status
	stageByStart         map[session.Status]pipelineStage
	processingStatuses   []session.Status
	logger               *slog.Logger
	notificationsEnabled bool
	runReclaimer         bool
}

func (l *laneState) finalize() {
	if l == nil {
		return
	}
	l.stageByStart = make(map[session.Status]pipelineStage, len(l.stages))
	l.statusOrder = make([]session.Status, 0, len(l.stages))
	seenProcessing := make(map[session.Status]struct{})
	for _, stg := range l.stages {
		l.stageByStart[stg.startStatus] = stg
		l.statusOrder = append(l.statusOrder, stg.startStatus)
		if stg.processingStatus != "" {
			if _, ok := seenProcessing[stg.processingStatus]; !ok {
				l.processingStatuses = append(l.processingStatuses, stg.processingStatus)
				seenProcessing[stg.processingStatus] = struct{}{}
			}
		}
	}
}

func (l *laneState) stageForStatus(status session.Status) (pipelineStage, bool) {
	if l == nil {
		return pipelineStage{}, false
	}
	stg, ok := l.stageByStart[status]
	return stg, ok
}
