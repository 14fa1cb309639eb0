// Package msgbus provides a message bus supporting point-to-point delivery
// to registered endpoints, publish/subscribe over hierarchical topics with
// wildcard patterns, and request/response correlation keyed by UUID4.
//
// Subscription topics may contain wildcards: '*' matches any run of
// characters and '?' matches a single character, so a handler subscribed to
// "data.*.BINANCE" receives messages published on "data.quotes.BINANCE".
package msgbus

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/rocketbitz/nautilus-ffi-go/core"
)

const defaultName = "MessageBus"

// Option configures a MessageBus.
type Option func(*MessageBus)

// WithName overrides the default bus name.
func WithName(name string) Option {
	return func(b *MessageBus) {
		if name != "" {
			b.name = name
		}
	}
}

// WithLogger sets the logger used for bus diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(b *MessageBus) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithTracer wraps deliveries and requests in spans.
func WithTracer(t Tracer) Option {
	return func(b *MessageBus) {
		b.tracer = t
	}
}

// MessageBus routes messages to handlers. It is safe for concurrent use.
type MessageBus struct {
	traderID string
	name     string
	logger   *zap.Logger
	tracer   Tracer

	mu               sync.RWMutex
	seq              uint64
	subscriptions    map[subscriptionKey]*Subscription
	patterns         map[string][]*Subscription
	endpoints        map[string]Handler
	correlationIndex map[core.UUID4]Handler
}

// New constructs a bus for the trader identified by traderID, which must
// have the form NAME-TAG.
func New(traderID string, opts ...Option) (*MessageBus, error) {
	if err := validateTraderID(traderID); err != nil {
		return nil, err
	}
	b := &MessageBus{
		traderID:         traderID,
		name:             defaultName,
		subscriptions:    make(map[subscriptionKey]*Subscription),
		patterns:         make(map[string][]*Subscription),
		endpoints:        make(map[string]Handler),
		correlationIndex: make(map[core.UUID4]Handler),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = core.Logger()
	}
	b.logger = b.logger.With(zap.String("bus", b.name), zap.String("trader_id", traderID))
	return b, nil
}

func validateTraderID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidTraderID)
	}
	idx := strings.IndexByte(id, '-')
	if idx <= 0 || idx == len(id)-1 {
		return fmt.Errorf("%w: %q must be of the form NAME-TAG", ErrInvalidTraderID, id)
	}
	return nil
}

// TraderID returns the trader id the bus was created for.
func (b *MessageBus) TraderID() string {
	return b.traderID
}

// Name returns the bus name.
func (b *MessageBus) Name() string {
	return b.name
}

// Endpoints returns the registered endpoint addresses in sorted order.
func (b *MessageBus) Endpoints() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.endpoints))
	for endpoint := range b.endpoints {
		out = append(out, endpoint)
	}
	slices.Sort(out)
	return out
}

// Topics returns the distinct topics with active subscriptions in sorted order.
func (b *MessageBus) Topics() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	seen := make(map[string]struct{}, len(b.subscriptions))
	out := make([]string, 0, len(b.subscriptions))
	for key := range b.subscriptions {
		if _, ok := seen[key.topic]; ok {
			continue
		}
		seen[key.topic] = struct{}{}
		out = append(out, key.topic)
	}
	slices.Sort(out)
	return out
}

// HasSubscribers reports whether any subscription matches topic.
func (b *MessageBus) HasSubscribers(topic string) bool {
	return len(b.MatchingSubscriptions(topic)) > 0
}

// IsSubscribed reports whether handler is subscribed to exactly topic.
func (b *MessageBus) IsSubscribed(topic string, handler Handler) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscriptions[subscriptionKey{topic: topic, handlerID: handler.ID}]
	return ok
}

// IsRegistered reports whether a handler is registered for endpoint.
func (b *MessageBus) IsRegistered(endpoint string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.endpoints[endpoint]
	return ok
}

// IsPendingResponse reports whether a request with requestID awaits a response.
func (b *MessageBus) IsPendingResponse(requestID core.UUID4) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.correlationIndex[requestID]
	return ok
}

// Register binds handler to endpoint, replacing any existing handler.
func (b *MessageBus) Register(endpoint string, handler Handler) {
	b.mu.Lock()
	_, replaced := b.endpoints[endpoint]
	b.endpoints[endpoint] = handler
	b.mu.Unlock()
	b.logger.Debug("registered endpoint",
		zap.String("endpoint", endpoint),
		zap.String("handler_id", handler.ID),
		zap.Bool("replaced", replaced),
	)
}

// Deregister removes the handler for endpoint if one exists.
func (b *MessageBus) Deregister(endpoint string) {
	b.mu.Lock()
	delete(b.endpoints, endpoint)
	b.mu.Unlock()
	b.logger.Debug("deregistered endpoint", zap.String("endpoint", endpoint))
}

// Endpoint returns the handler registered for endpoint.
func (b *MessageBus) Endpoint(endpoint string) (Handler, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	h, ok := b.endpoints[endpoint]
	return h, ok
}

// Subscribe subscribes handler to topic, which may contain wildcards.
// Subscribing the same handler to the same topic twice has no effect.
func (b *MessageBus) Subscribe(topic string, handler Handler, priority uint8) {
	b.mu.Lock()
	key := subscriptionKey{topic: topic, handlerID: handler.ID}
	if _, exists := b.subscriptions[key]; exists {
		b.mu.Unlock()
		b.logger.Warn("duplicate subscription ignored",
			zap.String("topic", topic),
			zap.String("handler_id", handler.ID),
		)
		return
	}
	b.seq++
	b.subscriptions[key] = &Subscription{Topic: topic, Handler: handler, Priority: priority, seq: b.seq}
	clear(b.patterns)
	b.mu.Unlock()
	b.logger.Debug("subscribed",
		zap.String("topic", topic),
		zap.String("handler_id", handler.ID),
		zap.Uint8("priority", priority),
	)
}

// Unsubscribe removes handler's subscription to topic.
func (b *MessageBus) Unsubscribe(topic string, handler Handler) {
	b.mu.Lock()
	key := subscriptionKey{topic: topic, handlerID: handler.ID}
	_, existed := b.subscriptions[key]
	delete(b.subscriptions, key)
	if existed {
		clear(b.patterns)
	}
	b.mu.Unlock()
	b.logger.Debug("unsubscribed",
		zap.String("topic", topic),
		zap.String("handler_id", handler.ID),
		zap.Bool("existed", existed),
	)
}

// MatchingSubscriptions returns the subscriptions whose topic pattern
// matches topic, highest priority first and in subscription order within
// a priority. Results are cached per topic until subscriptions change.
func (b *MessageBus) MatchingSubscriptions(topic string) []Subscription {
	b.mu.RLock()
	cached, ok := b.patterns[topic]
	if ok {
		out := copySubscriptions(cached)
		b.mu.RUnlock()
		return out
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	if cached, ok := b.patterns[topic]; ok {
		return copySubscriptions(cached)
	}
	var matched []*Subscription
	for _, sub := range b.subscriptions {
		if IsMatching(topic, sub.Topic) {
			matched = append(matched, sub)
		}
	}
	slices.SortFunc(matched, func(a, c *Subscription) int {
		switch {
		case a.before(c):
			return -1
		case c.before(a):
			return 1
		default:
			return 0
		}
	})
	b.patterns[topic] = matched
	return copySubscriptions(matched)
}

func copySubscriptions(subs []*Subscription) []Subscription {
	out := make([]Subscription, len(subs))
	for i, sub := range subs {
		out[i] = *sub
	}
	return out
}

// Publish delivers msg to every handler subscribed to a pattern matching
// topic, in priority order, and returns the number of Go callbacks invoked.
// Handlers that only carry a host reference are skipped.
func (b *MessageBus) Publish(topic string, msg any) int {
	span := b.startSpan("msgbus.publish", traceAttr("topic", topic))
	subs := b.MatchingSubscriptions(topic)
	delivered := 0
	for _, sub := range subs {
		if sub.Handler.Callback == nil {
			continue
		}
		sub.Handler.Callback(msg)
		delivered++
	}
	if span != nil {
		span.AddEvent("delivered", traceAttr("handlers", delivered))
	}
	endSpan(span, nil)
	if ce := b.logger.Check(zap.DebugLevel, "published"); ce != nil {
		ce.Write(zap.String("topic", topic), zap.Int("matched", len(subs)), zap.Int("delivered", delivered))
	}
	return delivered
}

// Send delivers msg to the handler registered for endpoint.
func (b *MessageBus) Send(endpoint string, msg any) error {
	span := b.startSpan("msgbus.send", traceAttr("endpoint", endpoint))
	h, ok := b.Endpoint(endpoint)
	var err error
	switch {
	case !ok:
		err = fmt.Errorf("%w: %s", ErrEndpointNotFound, endpoint)
	case h.Callback == nil:
		err = fmt.Errorf("%w: %s", ErrNoCallback, h.ID)
	default:
		h.Callback(msg)
	}
	endSpan(span, err)
	if err != nil {
		b.logger.Debug("send failed", zap.String("endpoint", endpoint), zap.Error(err))
	}
	return err
}

// RequestHandler returns the handler for endpoint and records requestID so
// the eventual response can be routed back with ResponseHandler.
func (b *MessageBus) RequestHandler(endpoint string, requestID core.UUID4) (Handler, bool) {
	span := b.startSpan("msgbus.request", traceAttr("endpoint", endpoint), traceAttr("request_id", requestID))
	b.mu.Lock()
	h, ok := b.endpoints[endpoint]
	if ok {
		b.correlationIndex[requestID] = h
	}
	b.mu.Unlock()

	var err error
	if !ok {
		err = fmt.Errorf("%w: %s", ErrEndpointNotFound, endpoint)
	}
	endSpan(span, err)
	return h, ok
}

// ResponseHandler returns and forgets the handler correlated with
// correlationID by a previous RequestHandler call.
func (b *MessageBus) ResponseHandler(correlationID core.UUID4) (Handler, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h, ok := b.correlationIndex[correlationID]
	if ok {
		delete(b.correlationIndex, correlationID)
	}
	return h, ok
}
