package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := NewBus()

	var received []*Event
	bus.Subscribe(SweepStarted, func(e *Event) {
		received = append(received, e)
	})

	bus.Publish(SweepStarted, map[string]string{"run_id": "abc"})

	require.Len(t, received, 1)
	assert.Equal(t, SweepStarted, received[0].Type)
	assert.False(t, received[0].Timestamp.IsZero())

	data := received[0].Data.(map[string]string)
	assert.Equal(t, "abc", data["run_id"])
}

func TestPublishFiltersByType(t *testing.T) {
	bus := NewBus()

	count := 0
	bus.Subscribe(SweepCompleted, func(e *Event) { count++ })

	bus.Publish(SweepStarted, nil)
	bus.Publish(SweepFailed, nil)
	assert.Zero(t, count)

	bus.Publish(SweepCompleted, nil)
	assert.Equal(t, 1, count)
}

func TestMultipleSubscribers(t *testing.T) {
	bus := NewBus()

	a, b := 0, 0
	bus.Subscribe(SweepPointCompleted, func(e *Event) { a++ })
	bus.Subscribe(SweepPointCompleted, func(e *Event) { b++ })

	bus.Publish(SweepPointCompleted, nil)
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}
