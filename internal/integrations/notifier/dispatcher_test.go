package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu      sync.Mutex
	events  []Event
	err     error
	release chan struct{}
}

func (p *recordingPublisher) Publish(ctx context.Context, event Event) error {
	if p.release != nil {
		<-p.release
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

type resultCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *resultCounter) IncNotification(result string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[result]++
}

func (c *resultCounter) get(result string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[result]
}

func TestDispatcher_PublishesQueuedEvents(t *testing.T) {
	pub := &recordingPublisher{}
	counter := &resultCounter{}
	d := NewDispatcher(pub, 10, 2, counter)
	d.Start()

	for i := int64(1); i <= 5; i++ {
		assert.True(t, d.Enqueue(NewEvent(EventBookingRequested, ChannelInApp, 7, i, nil)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	assert.Len(t, pub.published(), 5)
	assert.Equal(t, 5, counter.get(ResultPublished))
}

func TestDispatcher_FullQueueDropsWithoutBlocking(t *testing.T) {
	pub := &recordingPublisher{release: make(chan struct{})}
	counter := &resultCounter{}
	d := NewDispatcher(pub, 1, 1, counter)
	d.Start()

	// первый уходит в обработчик и висит на release, второй занимает очередь
	require.True(t, d.Enqueue(NewEvent(EventSessionReminder, ChannelEmail, 1, 1, nil)))
	require.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, time.Millisecond)
	require.True(t, d.Enqueue(NewEvent(EventSessionReminder, ChannelEmail, 1, 2, nil)))

	done := make(chan bool)
	go func() { done <- d.Enqueue(NewEvent(EventSessionReminder, ChannelEmail, 1, 3, nil)) }()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
	assert.Equal(t, 1, counter.get(ResultDropped))

	var derr *DeliveryError
	require.ErrorAs(t, <-d.Errors(), &derr)
	assert.Equal(t, int64(3), derr.Event.SessionID)

	close(pub.release)
	require.NoError(t, d.Stop(context.Background()))
}

func TestDispatcher_PublishFailureGoesToErrors(t *testing.T) {
	boom := errors.New("broker down")
	pub := &recordingPublisher{err: boom}
	counter := &resultCounter{}
	d := NewDispatcher(pub, 4, 1, counter)
	d.Start()

	d.Enqueue(NewEvent(EventSessionCancelled, ChannelInApp, 3, 9, nil))

	select {
	case err := <-d.Errors():
		assert.ErrorIs(t, err, boom)
	case <-time.After(time.Second):
		t.Fatal("expected delivery error")
	}

	require.NoError(t, d.Stop(context.Background()))
	assert.Equal(t, 1, counter.get(ResultFailed))
}

func TestDispatcher_EnqueueAfterStop(t *testing.T) {
	d := NewDispatcher(&recordingPublisher{}, 1, 1, nil)
	d.Start()
	require.NoError(t, d.Stop(context.Background()))

	assert.False(t, d.Enqueue(NewEvent(EventReviewReceived, ChannelInApp, 1, 1, nil)))
}

func TestEvent_RoutingKey(t *testing.T) {
	e := NewEvent(EventBookingConfirmation, ChannelEmail, 1, 2, map[string]interface{}{"amountDue": 50.0})

	assert.Equal(t, "email.booking_confirmation", e.RoutingKey())
	assert.NotEqual(t, e.ID, NewEvent(EventBookingConfirmation, ChannelEmail, 1, 2, nil).ID)
}
