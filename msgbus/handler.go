package msgbus

import "unsafe"

// Handler receives messages for an endpoint or topic. Handlers are
// identified by ID alone: two handlers with the same ID are the same
// handler. Callback is invoked for Go-side delivery; HostRef carries an
// opaque host callable for delivery performed by the host.
type Handler struct {
	ID       string
	Callback func(msg any)
	HostRef  unsafe.Pointer
}

// Subscription binds a handler to a topic pattern with a delivery priority.
type Subscription struct {
	Topic    string
	Handler  Handler
	Priority uint8
	seq      uint64
}

type subscriptionKey struct {
	topic     string
	handlerID string
}

func (s *Subscription) key() subscriptionKey {
	return subscriptionKey{topic: s.Topic, handlerID: s.Handler.ID}
}

// before orders higher priority first, then earlier subscriptions first.
func (s *Subscription) before(other *Subscription) bool {
	if s.Priority != other.Priority {
		return s.Priority > other.Priority
	}
	return s.seq < other.seq
}
