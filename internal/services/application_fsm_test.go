package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

var allStatuses = []models.ApplicationStatus{
	models.ApplicationStatusReceived,
	models.ApplicationStatusLonglisted,
	models.ApplicationStatusShortlisted,
	models.ApplicationStatusTested,
	models.ApplicationStatusInterviewed,
	models.ApplicationStatusOffered,
	models.ApplicationStatusHired,
	models.ApplicationStatusRejected,
	models.ApplicationStatusWithdrawn,
}

var allEvents = []ApplicationEvent{
	EventLonglist,
	EventShortlist,
	EventPassWrittenTest,
	EventSelectForInterview,
	EventSendOffer,
	EventHire,
	EventReject,
	EventWithdraw,
}

func TestNextApplicationStatus_ForwardPath(t *testing.T) {
	path := []struct {
		event ApplicationEvent
		want  models.ApplicationStatus
	}{
		{EventLonglist, models.ApplicationStatusLonglisted},
		{EventShortlist, models.ApplicationStatusShortlisted},
		{EventPassWrittenTest, models.ApplicationStatusTested},
		{EventSelectForInterview, models.ApplicationStatusInterviewed},
		{EventSendOffer, models.ApplicationStatusOffered},
		{EventHire, models.ApplicationStatusHired},
	}

	status := models.ApplicationStatusReceived
	for _, step := range path {
		next, ok := NextApplicationStatus(status, step.event)
		assert.True(t, ok, "%s from %s", step.event, status)
		assert.Equal(t, step.want, next)
		status = next
	}
}

func TestNextApplicationStatus_OnlyGraphEdges(t *testing.T) {
	for _, from := range allStatuses {
		for _, event := range allEvents {
			next, ok := NextApplicationStatus(from, event)

			var want bool
			switch {
			case from.Terminal():
				want = false
			case event == EventReject || event == EventWithdraw:
				want = true
			default:
				want = forwardEdges[from] == event
			}

			assert.Equal(t, want, ok, "%s from %s", event, from)
			if !ok {
				assert.Equal(t, from, next, "failed transition must not change status")
			}
		}
	}
}

func TestNextApplicationStatus_SkippingIsRejected(t *testing.T) {
	_, ok := NextApplicationStatus(models.ApplicationStatusReceived, EventShortlist)
	assert.False(t, ok)

	_, ok = NextApplicationStatus(models.ApplicationStatusShortlisted, EventHire)
	assert.False(t, ok)

	_, ok = NextApplicationStatus(models.ApplicationStatusOffered, EventLonglist)
	assert.False(t, ok)
}

func TestNextApplicationStatus_TerminalStatesAreFinal(t *testing.T) {
	for _, from := range []models.ApplicationStatus{
		models.ApplicationStatusHired,
		models.ApplicationStatusRejected,
		models.ApplicationStatusWithdrawn,
	} {
		for _, event := range allEvents {
			_, ok := NextApplicationStatus(from, event)
			assert.False(t, ok, "%s from %s", event, from)
		}
	}
}
