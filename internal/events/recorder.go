package events

import (
	"context"
	"sync"
)

// Message is one event captured by Recorder.
type Message struct {
	Queue   string
	Payload any
}

// Recorder keeps published events in memory. Tests use it to assert what was emitted.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
	Err      error
}

func (r *Recorder) Publish(_ context.Context, queue string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Messages = append(r.Messages, Message{Queue: queue, Payload: payload})
	return nil
}

func (r *Recorder) Queues() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Messages))
	for _, m := range r.Messages {
		out = append(out, m.Queue)
	}
	return out
}
