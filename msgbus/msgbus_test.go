package msgbus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rocketbitz/nautilus-ffi-go/core"
)

func stubBus(t *testing.T, opts ...Option) *MessageBus {
	t.Helper()
	bus, err := New("trader-001", opts...)
	require.NoError(t, err)
	return bus
}

type inbox struct {
	mu   sync.Mutex
	msgs []string
}

func (in *inbox) handler(id string) Handler {
	return Handler{ID: id, Callback: func(msg any) {
		in.mu.Lock()
		in.msgs = append(in.msgs, id+":"+msg.(string))
		in.mu.Unlock()
	}}
}

func TestNew(t *testing.T) {
	bus := stubBus(t)
	assert.Equal(t, "trader-001", bus.TraderID())
	assert.Equal(t, "MessageBus", bus.Name())

	named := stubBus(t, WithName("RiskBus"))
	assert.Equal(t, "RiskBus", named.Name())
}

func TestNewRejectsInvalidTraderID(t *testing.T) {
	for _, id := range []string{"", "  ", "trader", "-001", "trader-"} {
		_, err := New(id)
		assert.ErrorIs(t, err, ErrInvalidTraderID, "trader id %q", id)
	}
}

func TestEmptyBus(t *testing.T) {
	bus := stubBus(t)
	assert.Empty(t, bus.Endpoints())
	assert.Empty(t, bus.Topics())
	assert.False(t, bus.HasSubscribers("my-topic"))
	assert.False(t, bus.IsSubscribed("my-topic", Handler{ID: "1"}))
	assert.False(t, bus.IsRegistered("MyEndpoint"))
	assert.False(t, bus.IsPendingResponse(core.NewUUID4()))
}

func TestRegisterDeregisterEndpoint(t *testing.T) {
	bus := stubBus(t)
	host := new(int)
	handler := Handler{ID: "1", HostRef: unsafe.Pointer(host)}

	bus.Register("MyEndpoint", handler)
	assert.Equal(t, []string{"MyEndpoint"}, bus.Endpoints())
	got, ok := bus.Endpoint("MyEndpoint")
	require.True(t, ok)
	assert.Equal(t, unsafe.Pointer(host), got.HostRef)

	bus.Deregister("MyEndpoint")
	assert.Empty(t, bus.Endpoints())
	assert.False(t, bus.IsRegistered("MyEndpoint"))
}

func TestSubscribeUnsubscribe(t *testing.T) {
	bus := stubBus(t)
	handler := Handler{ID: "1"}

	bus.Subscribe("my-topic", handler, 1)
	assert.True(t, bus.HasSubscribers("my-topic"))
	assert.True(t, bus.IsSubscribed("my-topic", handler))
	assert.Equal(t, []string{"my-topic"}, bus.Topics())

	bus.Unsubscribe("my-topic", handler)
	assert.False(t, bus.HasSubscribers("my-topic"))
	assert.Empty(t, bus.Topics())
}

func TestDuplicateSubscriptionIgnored(t *testing.T) {
	observed, logs := observer.New(zapcore.DebugLevel)
	bus := stubBus(t, WithLogger(zap.New(observed)))
	handler := Handler{ID: "1"}

	bus.Subscribe("my-topic", handler, 1)
	bus.Subscribe("my-topic", handler, 9)

	subs := bus.MatchingSubscriptions("my-topic")
	require.Len(t, subs, 1)
	assert.Equal(t, uint8(1), subs[0].Priority)
	assert.Equal(t, 1, logs.FilterMessage("duplicate subscription ignored").Len())
}

func TestMatchingSubscriptionsOrderAndWildcards(t *testing.T) {
	bus := stubBus(t)
	bus.Subscribe("data.*", Handler{ID: "low"}, 0)
	bus.Subscribe("data.quotes.*", Handler{ID: "high"}, 10)
	bus.Subscribe("data.quotes.BINANCE", Handler{ID: "mid-a"}, 5)
	bus.Subscribe("data.?uotes.BINANCE", Handler{ID: "mid-b"}, 5)
	bus.Subscribe("data.trades.*", Handler{ID: "other"}, 20)

	subs := bus.MatchingSubscriptions("data.quotes.BINANCE")
	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.Handler.ID)
	}
	assert.Equal(t, []string{"high", "mid-a", "mid-b", "low"}, ids)

	bus.Unsubscribe("data.quotes.*", Handler{ID: "high"})
	subs = bus.MatchingSubscriptions("data.quotes.BINANCE")
	require.Len(t, subs, 3)
	assert.Equal(t, "mid-a", subs[0].Handler.ID)
}

func TestPublishDeliversInPriorityOrder(t *testing.T) {
	bus := stubBus(t)
	var in inbox
	bus.Subscribe("events.*", in.handler("b"), 1)
	bus.Subscribe("events.order", in.handler("a"), 2)
	bus.Subscribe("events.order", Handler{ID: "host-only", HostRef: unsafe.Pointer(new(int))}, 3)

	delivered := bus.Publish("events.order", "filled")
	assert.Equal(t, 2, delivered)
	assert.Equal(t, []string{"a:filled", "b:filled"}, in.msgs)
	assert.Equal(t, 0, bus.Publish("unrelated", "x"))
}

func TestSend(t *testing.T) {
	bus := stubBus(t)
	var in inbox
	bus.Register("RiskEngine.execute", in.handler("risk"))
	bus.Register("HostOnly", Handler{ID: "host", HostRef: unsafe.Pointer(new(int))})

	require.NoError(t, bus.Send("RiskEngine.execute", "cmd"))
	assert.Equal(t, []string{"risk:cmd"}, in.msgs)

	assert.ErrorIs(t, bus.Send("Missing", "cmd"), ErrEndpointNotFound)
	assert.ErrorIs(t, bus.Send("HostOnly", "cmd"), ErrNoCallback)
}

func TestRequestResponseCorrelation(t *testing.T) {
	bus := stubBus(t)
	handler := Handler{ID: "1"}
	bus.Register("MyEndpoint", handler)

	requestID := core.NewUUID4()
	got, ok := bus.RequestHandler("MyEndpoint", requestID)
	require.True(t, ok)
	assert.Equal(t, "1", got.ID)
	assert.True(t, bus.IsPendingResponse(requestID))

	sameID := core.UUID4FromString(requestID.String())
	resp, ok := bus.ResponseHandler(sameID)
	require.True(t, ok)
	assert.Equal(t, "1", resp.ID)
	assert.False(t, bus.IsPendingResponse(requestID))

	_, ok = bus.ResponseHandler(requestID)
	assert.False(t, ok)

	_, ok = bus.RequestHandler("Missing", core.NewUUID4())
	assert.False(t, ok)
}

func TestTracingSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := tracesdk.NewTracerProvider(tracesdk.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	bus := stubBus(t, WithTracer(NewOTelTracer(tp.Tracer("msgbus-test"))))
	var in inbox
	bus.Register("Endpoint", in.handler("e"))
	bus.Subscribe("topic.*", in.handler("s"), 0)

	bus.Publish("topic.a", "m")
	require.NoError(t, bus.Send("Endpoint", "m"))
	err := bus.Send("Missing", "m")
	require.True(t, errors.Is(err, ErrEndpointNotFound))
	bus.RequestHandler("Endpoint", core.NewUUID4())

	names := map[string]int{}
	var failed int
	for _, span := range recorder.Ended() {
		names[span.Name()]++
		if len(span.Events()) > 0 && span.Name() == "msgbus.send" {
			failed++
		}
	}
	assert.Equal(t, 1, names["msgbus.publish"])
	assert.Equal(t, 2, names["msgbus.send"])
	assert.Equal(t, 1, names["msgbus.request"])
	assert.Equal(t, 1, failed, "failed send should record an error event")
}
