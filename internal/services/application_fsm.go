package services

import "alfredoptarigan/hiring-pipeline/internal/models"

// ApplicationEvent names a trigger of the candidate application state
// machine. Forward events are fired only by their stage's decision record.
type ApplicationEvent string

const (
	EventLonglist           ApplicationEvent = "longlist"
	EventShortlist          ApplicationEvent = "shortlist"
	EventPassWrittenTest    ApplicationEvent = "pass_written_test"
	EventSelectForInterview ApplicationEvent = "select_for_interview"
	EventSendOffer          ApplicationEvent = "send_offer"
	EventHire               ApplicationEvent = "hire"
	EventReject             ApplicationEvent = "reject"
	EventWithdraw           ApplicationEvent = "withdraw"
)

var eventTargets = map[ApplicationEvent]models.ApplicationStatus{
	EventLonglist:           models.ApplicationStatusLonglisted,
	EventShortlist:          models.ApplicationStatusShortlisted,
	EventPassWrittenTest:    models.ApplicationStatusTested,
	EventSelectForInterview: models.ApplicationStatusInterviewed,
	EventSendOffer:          models.ApplicationStatusOffered,
	EventHire:               models.ApplicationStatusHired,
	EventReject:             models.ApplicationStatusRejected,
	EventWithdraw:           models.ApplicationStatusWithdrawn,
}

// forwardEdges is the main line of the graph. Reject and withdraw are side
// edges available from every non-terminal state.
var forwardEdges = map[models.ApplicationStatus]ApplicationEvent{
	models.ApplicationStatusReceived:    EventLonglist,
	models.ApplicationStatusLonglisted:  EventShortlist,
	models.ApplicationStatusShortlisted: EventPassWrittenTest,
	models.ApplicationStatusTested:      EventSelectForInterview,
	models.ApplicationStatusInterviewed: EventSendOffer,
	models.ApplicationStatusOffered:     EventHire,
}

// NextApplicationStatus returns the state reached by firing event from
// from, and false when the graph has no such edge.
func NextApplicationStatus(from models.ApplicationStatus, event ApplicationEvent) (models.ApplicationStatus, bool) {
	if from.Terminal() {
		return from, false
	}
	switch event {
	case EventReject, EventWithdraw:
		return eventTargets[event], true
	}
	if forwardEdges[from] == event {
		return eventTargets[event], true
	}
	return from, false
}

// EventTarget is the state an event aims for, used in error reports.
func EventTarget(event ApplicationEvent) models.ApplicationStatus {
	return eventTargets[event]
}
