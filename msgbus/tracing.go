package msgbus

// TraceAttribute represents a tracing attribute attached to bus spans.
type TraceAttribute struct {
	Key   string
	Value any
}

// Tracer starts spans that wrap message delivery.
type Tracer interface {
	StartSpan(name string, attrs ...TraceAttribute) Span
}

// Span records delivery lifecycle, events, and errors for tracing systems.
type Span interface {
	End(err error)
	AddEvent(name string, attrs ...TraceAttribute)
	RecordError(err error)
}

func traceAttr(key string, value any) TraceAttribute {
	return TraceAttribute{Key: key, Value: value}
}

func (b *MessageBus) startSpan(name string, attrs ...TraceAttribute) Span {
	if b.tracer == nil {
		return nil
	}
	return b.tracer.StartSpan(name, attrs...)
}

func endSpan(span Span, err error) {
	if span != nil {
		span.End(err)
	}
}
