package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	broker := NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	broker.Publish(&Event{
		ID:      "e1",
		Type:    EventDeploymentCreated,
		Message: "deployment demo created",
	})

	select {
	case event := <-sub:
		assert.Equal(t, "e1", event.ID)
		assert.Equal(t, EventDeploymentCreated, event.Type)
		assert.False(t, event.Timestamp.IsZero(), "broker stamps events without a timestamp")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestMultipleSubscribers(t *testing.T) {
	broker := NewBroker()
	broker.Start()
	defer broker.Stop()

	sub1 := broker.Subscribe()
	sub2 := broker.Subscribe()
	defer broker.Unsubscribe(sub1)
	defer broker.Unsubscribe(sub2)

	require.Equal(t, 2, broker.SubscriberCount())

	broker.Publish(&Event{ID: "e1", Type: EventDeploymentRemoved})

	for _, sub := range []Subscriber{sub1, sub2} {
		select {
		case event := <-sub:
			assert.Equal(t, "e1", event.ID)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	broker := NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	broker.Unsubscribe(sub)

	_, ok := <-sub
	assert.False(t, ok)
	assert.Equal(t, 0, broker.SubscriberCount())
}

func TestSlowSubscriberDoesNotBlockOthers(t *testing.T) {
	broker := NewBroker()
	broker.Start()
	defer broker.Stop()

	slow := broker.Subscribe()
	fast := broker.Subscribe()
	defer broker.Unsubscribe(slow)
	defer broker.Unsubscribe(fast)

	// Overflow the slow subscriber's buffer without draining it
	for i := 0; i < 60; i++ {
		broker.Publish(&Event{ID: "flood", Type: EventDeploymentHealthy})
	}

	received := 0
	deadline := time.After(2 * time.Second)
	for received < 50 {
		select {
		case <-fast:
			received++
		case <-deadline:
			t.Fatalf("fast subscriber only received %d events", received)
		}
	}
}
