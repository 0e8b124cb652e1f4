package notify

import (
	"context"
	"sync"
)

// Sent is one notification captured by a Recorder.
type Sent struct {
	UserID  uint
	Type    string
	Title   string
	Message string
	Data    map[string]interface{}
}

// Published is one event captured by a Recorder.
type Published struct {
	Event   string
	Payload interface{}
}

// Recorder is an in-memory Notifier and Publisher. It backs DB_DRIVER=memory
// and tests. When Err is set every call fails with it after recording.
type Recorder struct {
	mu        sync.Mutex
	Err       error
	sent      []Sent
	published []Published
}

func (r *Recorder) Create(_ context.Context, userID uint, kind, title, message string, data map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Sent{UserID: userID, Type: kind, Title: title, Message: message, Data: data})
	return r.Err
}

func (r *Recorder) Publish(_ context.Context, event string, payload interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, Published{Event: event, Payload: payload})
	return r.Err
}

// Notifications returns a copy of what was sent.
func (r *Recorder) Notifications() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sent(nil), r.sent...)
}

// Events returns a copy of what was published.
func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Published(nil), r.published...)
}

// EventNames lists published event names in order.
func (r *Recorder) EventNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.published))
	for i, p := range r.published {
		names[i] = p.Event
	}
	return names
}
