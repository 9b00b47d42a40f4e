package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/plexor/service/messaging"
)

func TestService_statusStream(t *testing.T) {
	service, err := New(messaging.VendorMemory)
	assert.NoError(t, err)

	var mux sync.Mutex
	var received []StatusEvent
	err = SetListenerOf[StatusEvent](service, func(anEvent *Event[StatusEvent]) {
		mux.Lock()
		defer mux.Unlock()
		received = append(received, anEvent.Data)
	})
	assert.NoError(t, err)

	publisher, err := PublisherOf[StatusEvent](service)
	assert.NoError(t, err)

	ctx := context.Background()
	statuses := []StatusEvent{
		{RunID: "r1", State: TypeRunStarted, Message: "2 steps"},
		{RunID: "r1", StepID: "r1-000", Ordinal: 0, Tool: "create_terminal", State: TypeStepStarted},
		{RunID: "r1", StepID: "r1-000", Ordinal: 0, Tool: "create_terminal", State: TypeStepCompleted},
	}
	for i := range statuses {
		aContext := &Context{RunID: statuses[i].RunID, StepID: statuses[i].StepID, EventType: statuses[i].State, Tool: statuses[i].Tool}
		assert.NoError(t, publisher.Publish(ctx, NewEvent(aContext, statuses[i])))
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mux.Lock()
		count := len(received)
		mux.Unlock()
		if count == len(statuses) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	mux.Lock()
	defer mux.Unlock()
	assert.Equal(t, len(statuses), len(received))
	if len(received) == len(statuses) {
		assert.Equal(t, TypeRunStarted, received[0].State)
		assert.Equal(t, "create_terminal", received[1].Tool)
	}
}
