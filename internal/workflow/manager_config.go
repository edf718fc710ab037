package workflow

import "greenroom/internal/session"

// ConfigureStages registers the concrete stage handlers the workflow will run.
// Preparation and the interview share the foreground lane because the
// interview owns the microphone and must follow preparation immediately;
// reporting runs in the background lane so the next interview can start while
// feedback renders.
func (m *Manager) ConfigureStages(set StageSet) {
	foreground := &laneState{kind: laneForeground, name: "foreground", notificationsEnabled: true}
	background := &laneState{kind: laneBackground, name: "background", notificationsEnabled: false}

	if set.Preparer != nil {
		foreground.stages = append(foreground.stages, pipelineStage{
			name:             "preparer",
			handler:          set.Preparer,
			startStatus:      session.StatusPending,
			processingStatus: session.StatusPreparing,
			doneStatus:       session.StatusPrepared,
		})
	}
	if set.Interviewer != nil {
		foreground.stages = append(foreground.stages, pipelineStage{
			name:             "interviewer",
			handler:          set.Interviewer,
			startStatus:      session.StatusPrepared,
			processingStatus: session.StatusInterviewing,
			doneStatus:       session.StatusInterviewed,
		})
	}
	if set.Reporter != nil {
		background.stages = append(background.stages, pipelineStage{
			name:             "reporter",
			handler:          set.Reporter,
			startStatus:      session.StatusInterviewed,
			processingStatus: session.StatusReporting,
			doneStatus:       session.StatusCompleted,
		})
	}

	lanes := make(map[laneKind]*laneState)
	order := make([]laneKind, 0, 2)

	if len(foreground.stages) > 0 {
		foreground.finalize()
		lanes[foreground.kind] = foreground
		order = append(order, foreground.kind)
	}
	if len(background.stages) > 0 {
		background.finalize()
		lanes[background.kind] = background
		order = append(order, background.kind)
	}

	for _, lane := range lanes {
		if lane == nil {
			continue
		}
		lane.runReclaimer = len(lane.processingStatuses) > 0
	}

	m.mu.Lock()
	m.lanes = lanes
	m.laneOrder = order
	m.mu.Unlock()
}
