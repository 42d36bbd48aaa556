package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ether/internal/network"
)

type fakeSender struct {
	send chan network.Message
}

func newFakeSender() *fakeSender {
	return &fakeSender{send: make(chan network.Message, 16)}
}

func (f *fakeSender) Send() chan<- network.Message { return f.send }

func (f *fakeSender) count() int { return len(f.send) }

func TestLocalPublishReachesOnlyGroupMembers(t *testing.T) {
	l := NewLocal()
	a := newFakeSender()
	b := newFakeSender()
	outsider := newFakeSender()

	l.Join("room-1", a)
	l.Join("room-1", b)
	l.Join("room-2", outsider)

	l.Publish("room-1", network.Message{Type: "gameState"})

	assert.Equal(t, 1, a.count())
	assert.Equal(t, 1, b.count())
	assert.Equal(t, 0, outsider.count())
}

func TestLocalLeaveStopsDelivery(t *testing.T) {
	l := NewLocal()
	a := newFakeSender()
	b := newFakeSender()
	l.Join("room-1", a)
	l.Join("room-1", b)

	l.Leave("room-1", a)
	l.Publish("room-1", network.Message{Type: "chat"})

	assert.Equal(t, 0, a.count())
	assert.Equal(t, 1, b.count())
}

func TestLocalPublishToUnknownGroupIsNoop(t *testing.T) {
	l := NewLocal()
	assert.NotPanics(t, func() {
		l.Publish("ghost", network.Message{Type: "chat"})
	})
}

func TestLocalEmptyGroupIsDiscarded(t *testing.T) {
	l := NewLocal()
	a := newFakeSender()
	l.Join("room-1", a)
	l.Leave("room-1", a)

	_, exists := l.groups["room-1"]
	assert.False(t, exists)
}
