package web

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	ds "github.com/starfederation/datastar-go/datastar"

	"sportident/events"
)

// maxFeedEvents bounds how many recent events a single browser tab keeps
// rendered at once; older ones scroll off rather than growing the page
// without bound on a long-running session.
const maxFeedEvents = 50

// Monitor serves a live browser view of a reader's event stream: a page
// that opens a server-sent-events connection and gets the feed patched in
// as card events arrive.
type Monitor struct {
	hub     *events.EventHub
	handler *http.ServeMux
}

// NewMonitor builds a Monitor that renders events broadcast on hub.
func NewMonitor(hub *events.EventHub) *Monitor {
	m := &Monitor{hub: hub}

	mux := http.NewServeMux()
	mux.HandleFunc("/", m.indexHandler)
	mux.HandleFunc("/events", m.eventsHandler)
	m.handler = mux

	return m
}

// Start listens on addr and serves the monitor until the process exits or
// ListenAndServe fails.
func (m *Monitor) Start(addr string) error {
	log.Printf("sportident: monitor listening on %s", addr)
	return http.ListenAndServe(addr, m.handler)
}

func (m *Monitor) indexHandler(w http.ResponseWriter, _ *http.Request) {
	if err := pageTemplate.Execute(w, nil); err != nil {
		log.Printf("sportident: render index: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// eventsHandler opens an SSE stream scoped to this browser tab: it
// subscribes to the hub, keeps the last maxFeedEvents it has seen, and
// patches the feed element on every new one.
func (m *Monitor) eventsHandler(w http.ResponseWriter, r *http.Request) {
	sse := ds.NewSSE(w, r)

	_, ch, cancel := m.hub.Subscribe()
	defer cancel()

	var feed []events.Event
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			feed = append(feed, event)
			if len(feed) > maxFeedEvents {
				feed = feed[len(feed)-maxFeedEvents:]
			}
			if err := renderFeed(sse, feed); err != nil {
				log.Printf("sportident: patch feed: %v", err)
				return
			}
			if err := renderStatus(sse, event); err != nil {
				log.Printf("sportident: patch status: %v", err)
				return
			}
		}
	}
}

func renderFeed(sse *ds.ServerSentEventGenerator, feed []events.Event) error {
	var buf strings.Builder
	if err := feedTemplate.Execute(&buf, feed); err != nil {
		return err
	}
	return sse.PatchElements(buf.String())
}

// renderStatus patches the connecting/error banner at the top of the page
// from the most recent event seen.
func renderStatus(sse *ds.ServerSentEventGenerator, latest events.Event) error {
	status := "connected"
	if latest.Kind == events.ReaderError {
		status = fmt.Sprintf("error: %v", latest.Payload)
	}

	var buf strings.Builder
	if err := statusTemplate.Execute(&buf, status); err != nil {
		return err
	}
	return sse.PatchElements(buf.String())
}
