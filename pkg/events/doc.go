/*
Package events provides pub/sub event distribution for deployment
lifecycle changes.

The Broker fans events out to any number of subscribers over buffered
channels. Publishers never block on slow consumers: a subscriber whose
buffer is full simply misses events. This makes the broker safe to call
from the deploy path and the health monitor without backpressure
concerns.

# Architecture

	Publishers                   Broker                  Subscribers
	                      ┌──────────────────┐
	 manager.Deploy ────► │                  │ ────► SSE stream (API)
	 manager.Undeploy ──► │  eventCh (100)   │ ────► CLI watcher
	 monitor transitions► │  fan-out loop    │ ────► tests
	 registry changes ──► │                  │
	                      └──────────────────┘
	                        per-subscriber buffer: 50, drop on full

# Event Types Catalog

	deployment.created     deploy published a new directory
	deployment.removed     undeploy removed a directory
	deployment.healthy     monitor saw an unhealthy→healthy transition
	deployment.unhealthy   monitor saw a healthy→unhealthy transition
	model.registered       a model family was added to the registry
	session.created        a training session was recorded
	session.completed      a training session finished with artifacts

# Usage

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	go func() {
		for event := range sub {
			fmt.Printf("%s: %s\n", event.Type, event.Message)
		}
	}()

	broker.Publish(&events.Event{
		ID:      uuid.New().String(),
		Type:    events.EventDeploymentCreated,
		Message: "deployment churn_v1 created",
	})

Publish stamps a missing Timestamp. Unsubscribe closes the channel, so
range loops over a subscription terminate cleanly.

# Limitations

Delivery is best-effort and in-process only. Events are not persisted
and a subscriber that falls behind loses events silently; consumers that
need complete history must read state, not events.

# See Also

  - pkg/api for the SSE endpoint streaming these events
  - pkg/monitor for health transition publishing
*/
package events
