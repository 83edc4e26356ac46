package events

import (
	"sync"
	"time"
)

// Kind identifies what a Event reports.
type Kind string

const (
	CardInserted Kind = "card_inserted"
	CardReadout  Kind = "card_readout"
	CardPunch    Kind = "card_punch"
	CardRemoved  Kind = "card_removed"
	ReaderError  Kind = "reader_error"
)

// Event is one occurrence on the reader's event stream: a card insertion,
// a completed readout, a live punch, or an error encountered while
// polling.
type Event struct {
	Kind      Kind
	Timestamp time.Time
	Payload   any
}

// EventHub fans out Events to any number of subscribers. Each subscriber
// gets its own buffered channel and the most recently broadcast event on
// subscribe, so a late-joining subscriber (a browser tab opened after the
// first card was read) is not left blank.
type EventHub struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
	last *Event
}

// NewHub creates an empty EventHub.
func NewHub() *EventHub {
	return &EventHub{subs: map[int]chan Event{}}
}

// Subscribe registers a new subscriber and returns its id, its event
// channel, and a cancel function that unregisters it and closes the
// channel. Callers must call cancel when done to avoid leaking the
// channel's goroutine-side buffer.
func (h *EventHub) Subscribe() (int, <-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan Event, 16)
	if h.last != nil {
		ch <- *h.last
	}
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.subs[id]; ok {
			close(c)
			delete(h.subs, id)
		}
	}
	return id, ch, cancel
}

// Broadcast delivers event to every current subscriber. A subscriber whose
// channel is full drops the event rather than blocking the reader's event
// loop.
func (h *EventHub) Broadcast(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = &event
	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
