package pubsub

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestEvent struct {
	contents string
}

type TestSubscriber struct {
	mu             sync.Mutex
	consumedEvents []*TestEvent
}

func (s *TestSubscriber) Name() string {
	return "TestSubscriber"
}

func (s *TestSubscriber) ConsumeEvent(e *TestEvent) error {
	if e == nil {
		return errors.New("No nil events allowed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consumedEvents = append(s.consumedEvents, e)
	return nil
}

func (s *TestSubscriber) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.consumedEvents)
}

func TestSimplePublisher(t *testing.T) {
	subscriber1 := &TestSubscriber{
		consumedEvents: make([]*TestEvent, 0),
	}
	subscriber2 := &TestSubscriber{
		consumedEvents: make([]*TestEvent, 0),
	}

	sp := NewSimplePublisher[TestEvent]()
	sp.AddSubscriber(subscriber1)
	sp.AddSubscriber(subscriber2)

	err := sp.PublishEvent(&TestEvent{contents: "test"})
	assert.Nil(t, err)

	assert.Equal(t, 1, subscriber1.count())
	assert.Equal(t, 1, subscriber2.count())

	err = sp.PublishEvent(nil)
	assert.NotNil(t, err)

	sp.RemoveSubscriber(subscriber1)
	err = sp.PublishEvent(&TestEvent{contents: "again"})
	assert.Nil(t, err)
	assert.Equal(t, 1, subscriber1.count())
	assert.Equal(t, 2, subscriber2.count())
}

func TestSubscriberFunc(t *testing.T) {
	var got string
	s := NewSubscriberFunc("func", func(e *TestEvent) error {
		got = e.contents
		return nil
	})
	assert.Equal(t, "func", s.Name())

	sp := NewSimplePublisher[TestEvent]()
	sp.AddSubscriber(s)
	require.Nil(t, sp.PublishEvent(&TestEvent{contents: "hello"}))
	assert.Equal(t, "hello", got)
}

func TestSimpleChannel(t *testing.T) {
	subscriber := &TestSubscriber{}
	c := NewSimpleChannel[TestEvent](4, subscriber)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error)
	go func() {
		done <- c.Listen(ctx)
	}()

	require.Nil(t, c.PublishEvent(&TestEvent{contents: "1"}))
	// subscriber errors do not stop delivery
	require.Nil(t, c.PublishEvent(nil))
	require.Nil(t, c.PublishEvent(&TestEvent{contents: "2"}))

	assert.Eventually(t, func() bool {
		return subscriber.count() == 2
	}, time.Second, 10*time.Millisecond)

	c.Close()
	assert.Nil(t, <-done)
	assert.ErrorIs(t, c.PublishEvent(&TestEvent{}), ErrChannelClosed)
}
