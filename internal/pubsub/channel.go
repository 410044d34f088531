package pubsub

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

var ErrChannelClosed = errors.New("channel closed")

// SimpleChannel decouples producers from subscribers: events are queued by Send and
// handed to every subscriber, one at a time and in arrival order, by Listen.
type SimpleChannel[E Event] struct {
	publisher *SimplePublisher[E]
	events    chan *E

	closeOnce sync.Once
	done      chan struct{}
}

func NewSimpleChannel[E Event](buffer int, subscribers ...Subscriber[E]) *SimpleChannel[E] {
	c := &SimpleChannel[E]{
		publisher: NewSimplePublisher[E](),
		events:    make(chan *E, buffer),
		done:      make(chan struct{}),
	}
	for _, s := range subscribers {
		c.publisher.AddSubscriber(s)
	}
	return c
}

func (c *SimpleChannel[E]) AddSubscriber(s Subscriber[E]) {
	c.publisher.AddSubscriber(s)
}

func (c *SimpleChannel[E]) RemoveSubscriber(s Subscriber[E]) {
	c.publisher.RemoveSubscriber(s)
}

// PublishEvent queues e for delivery. It blocks while the buffer is full.
func (c *SimpleChannel[E]) PublishEvent(e *E) error {
	select {
	case <-c.done:
		return ErrChannelClosed
	default:
	}
	select {
	case c.events <- e:
		return nil
	case <-c.done:
		return ErrChannelClosed
	}
}

// Listen delivers queued events until ctx is cancelled or the channel is closed.
// Subscriber errors are logged and do not stop delivery.
func (c *SimpleChannel[E]) Listen(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case e := <-c.events:
			err := c.publisher.PublishEvent(e)
			if err != nil {
				log.Error().Err(err).Msgf("error delivering event")
			}
		}
	}
}

func (c *SimpleChannel[E]) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
