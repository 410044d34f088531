package pubsub

import (
	"sync"
)

type Event interface {
}

type Publisher[E Event] interface {
	PublishEvent(*E) error
	AddSubscriber(Subscriber[E])
	RemoveSubscriber(Subscriber[E])
}

type Subscriber[E Event] interface {
	Name() string
	ConsumeEvent(*E) error
}

// SimplePublisher loops through each subscriber and calls ConsumeEvent on it, in the
// order subscribers were added. Publishing stops at the first subscriber error.
type SimplePublisher[E Event] struct {
	mu          sync.RWMutex
	subscribers []Subscriber[E]
}

func NewSimplePublisher[E Event]() *SimplePublisher[E] {
	return &SimplePublisher[E]{
		subscribers: make([]Subscriber[E], 0),
	}
}

func (p *SimplePublisher[E]) PublishEvent(e *E) error {
	p.mu.RLock()
	subscribers := make([]Subscriber[E], len(p.subscribers))
	copy(subscribers, p.subscribers)
	p.mu.RUnlock()

	for _, s := range subscribers {
		err := s.ConsumeEvent(e)
		if err != nil {
			return err
		}
	}

	return nil
}

func (p *SimplePublisher[E]) AddSubscriber(s Subscriber[E]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, s)
}

func (p *SimplePublisher[E]) RemoveSubscriber(s Subscriber[E]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, sub := range p.subscribers {
		if sub == s {
			p.subscribers = append(p.subscribers[:i], p.subscribers[i+1:]...)
			return
		}
	}
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc[E Event] struct {
	name string
	fn   func(*E) error
}

func NewSubscriberFunc[E Event](name string, fn func(*E) error) *SubscriberFunc[E] {
	return &SubscriberFunc[E]{
		name: name,
		fn:   fn,
	}
}

func (s *SubscriberFunc[E]) Name() string {
	return s.name
}

func (s *SubscriberFunc[E]) ConsumeEvent(e *E) error {
	return s.fn(e)
}
