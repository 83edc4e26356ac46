package main

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"sportident/config"
	"sportident/events"
	"sportident/protocol"
	"sportident/replay"
	"sportident/session"
	"sportident/web"
)

func main() {
	flags, serialFlags, replayFlags, _ := config.GetFlags()

	hub := events.NewHub()

	if flags.Mode == config.Replay {
		go runReplay(replayFlags, hub)
	} else {
		go runLive(serialFlags, hub)
	}

	monitor := web.NewMonitor(hub)
	if err := monitor.Start(flags.Addr); err != nil {
		log.Fatalf("couldn't start monitor: %v", err)
	}
}

// runLive polls a physical station in a loop. The Reader itself broadcasts
// CardInserted/CardReadout/CardRemoved/ReaderError on hub as it goes
// (see session.WithEventHub), so this loop only has to keep polling and
// log anything fatal enough to stop for.
func runLive(serialFlags *config.SerialFlags, hub *events.EventHub) {
	ctx := context.Background()

	reader, err := connectReader(ctx, serialFlags.Port, hub)
	if err != nil {
		hub.Broadcast(events.Event{Kind: events.ReaderError, Timestamp: time.Now(), Payload: err.Error()})
		log.Printf("couldn't connect to reader: %v", err)
		return
	}
	defer func() {
		if err := reader.Close(); err != nil {
			log.Printf("couldn't close reader: %v", err)
		}
	}()

	for {
		if _, _, err := reader.PollCardWithOwnerData(ctx); err != nil {
			if errors.Is(err, session.ErrPortClosed) {
				return
			}
			log.Printf("poll error: %v", err)
		}
	}
}

func connectReader(ctx context.Context, port string, hub *events.EventHub) (*session.Reader, error) {
	opt := session.WithEventHub(hub)
	if port == "" || port == "auto" {
		return session.AutoConnect(ctx, opt)
	}
	return session.Connect(ctx, port, opt)
}

// runReplay drives the monitor's event feed from a capture file instead of
// live hardware. The replayed bytes are piped straight into a frame
// decoder the same way a live serial port's bytes would be, but each frame
// is only dispatched: CardInserted, CardPunch and decode errors are
// broadcast, while card-memory blocks are not assembled into readouts and
// CardRemoved is not broadcast.
func runReplay(replayFlags *config.ReplayFlags, hub *events.EventHub) {
	pr, pw := io.Pipe()
	player := replay.NewPlayer(replayFlags.Path, replayFlags.Speed, replayFlags.Loop, replayFlags.SkipFrames)

	go func() {
		if err := player.Run(pw); err != nil {
			log.Printf("replay error: %v", err)
		}
		_ = pw.Close()
	}()

	decoder := protocol.NewDecoder(pr)
	for {
		frame, err := decoder.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			hub.Broadcast(events.Event{Kind: events.ReaderError, Timestamp: time.Now(), Payload: err.Error()})
			continue
		}

		resp, err := protocol.Dispatch(frame)
		if err != nil {
			hub.Broadcast(events.Event{Kind: events.ReaderError, Timestamp: time.Now(), Payload: err.Error()})
			continue
		}

		broadcastResponse(hub, resp)
	}
}

func broadcastResponse(hub *events.EventHub, resp any) {
	switch v := resp.(type) {
	case *protocol.Card:
		hub.Broadcast(events.Event{Kind: events.CardInserted, Timestamp: time.Now(), Payload: v})
	case *protocol.CardPunch:
		hub.Broadcast(events.Event{Kind: events.CardPunch, Timestamp: time.Now(), Payload: v})
	case *protocol.SystemConfiguration:
		// Configuration frames in a capture aren't rendered in the feed.
	}
}
