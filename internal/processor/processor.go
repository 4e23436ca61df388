package processor

import "context"

// Dispatcher routes one raw message to a reply.
type Dispatcher interface {
	Dispatch(ctx context.Context, raw string) (string, bool)
}

// MessageProcessor is what chat adapters call for every inbound text.
type MessageProcessor struct {
	dispatcher Dispatcher
}

func New(dispatcher Dispatcher) *MessageProcessor {
	return &MessageProcessor{dispatcher: dispatcher}
}

// Execute returns the reply for raw; ok is false when nothing should be sent.
func (p *MessageProcessor) Execute(ctx context.Context, raw string) (reply string, ok bool) {
	if p == nil || p.dispatcher == nil {
		return "", false
	}
	return p.dispatcher.Dispatch(ctx, raw)
}
