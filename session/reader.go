package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"sportident/events"
	"sportident/protocol"
)

// sportIdentVendorID and sportIdentProductID identify the CP210x-based USB
// serial adapter SportIdent ships its direct-connect stations with.
const (
	sportIdentVendorID  = "10C4"
	sportIdentProductID = "800A"
)

// Reader is a connected SportIdent station: a framed serial link plus the
// system configuration fetched at connect time, which every poll method
// consults to reject calls that don't make sense for the station's current
// operating mode.
type Reader struct {
	port     serial.Port
	decoder  *protocol.Decoder
	encoder  *protocol.Encoder
	sysConf  *protocol.SystemConfiguration
	portName string
	hub      *events.EventHub
}

// Option configures optional Reader behaviour at Connect/AutoConnect time.
type Option func(*Reader)

// WithEventHub makes every poll-relevant transition (card inserted, card
// removed, readout decoded, punch, poll error) broadcast on hub. A
// successful PollOwnerData broadcasts no event of its own. A Reader with no
// hub configured behaves identically, just silently.
func WithEventHub(hub *events.EventHub) Option {
	return func(r *Reader) { r.hub = hub }
}

// Connect opens portName, negotiates master mode and fetches the
// station's system configuration. It tries HighSpeedBaudRate first and
// falls back to LowSpeedBaudRate if the station does not answer, matching
// the two rates direct-connect stations are shipped configured for.
func Connect(ctx context.Context, portName string, opts ...Option) (*Reader, error) {
	mode := &serial.Mode{BaudRate: protocol.HighSpeedBaudRate}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("sportident: open %s: %w", portName, err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("sportident: reset input buffer: %w", err)
	}

	r := &Reader{
		port:     port,
		decoder:  protocol.NewDecoder(port),
		encoder:  protocol.NewEncoder(port),
		portName: portName,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.negotiateMasterMode(ctx); err != nil {
		if setErr := port.SetMode(&serial.Mode{BaudRate: protocol.LowSpeedBaudRate}); setErr != nil {
			_ = port.Close()
			return nil, fmt.Errorf("sportident: set fallback baud rate: %w", setErr)
		}
		if err := r.negotiateMasterMode(ctx); err != nil {
			_ = port.Close()
			return nil, err
		}
	}

	sysConf, err := r.fetchSystemConfiguration(ctx)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	r.sysConf = sysConf

	return r, nil
}

// AutoConnect scans the system's serial ports for a USB device matching
// the vendor/product ID SportIdent ships its readers with, and connects to
// the first one that answers.
func AutoConnect(ctx context.Context, opts ...Option) (*Reader, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("sportident: enumerate ports: %w", err)
	}

	for _, p := range ports {
		if !p.IsUSB {
			continue
		}
		if !strings.EqualFold(p.VID, sportIdentVendorID) || !strings.EqualFold(p.PID, sportIdentProductID) {
			continue
		}
		if reader, err := Connect(ctx, p.Name, opts...); err == nil {
			return reader, nil
		}
	}

	return nil, ErrNoReaderDetected
}

// broadcast delivers event on the Reader's event hub, if one was
// configured with WithEventHub. It is a no-op otherwise.
func (r *Reader) broadcast(kind events.Kind, payload any) {
	if r.hub == nil {
		return
	}
	r.hub.Broadcast(events.Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
}

func (r *Reader) negotiateMasterMode(ctx context.Context) error {
	resp, err := r.sendAndReceive(ctx, protocol.SetMasterSlaveCommand{Mode: protocol.Master})
	if err != nil {
		return err
	}
	if resp != nil {
		return ErrInvalidResponseReceived
	}
	return nil
}

func (r *Reader) fetchSystemConfiguration(ctx context.Context) (*protocol.SystemConfiguration, error) {
	resp, err := r.sendAndReceive(ctx, protocol.GetSystemConfigurationCommand{})
	if err != nil {
		return nil, err
	}
	sysConf, ok := resp.(*protocol.SystemConfiguration)
	if !ok {
		return nil, ErrInvalidResponseReceived
	}
	return sysConf, nil
}

// SystemConfiguration returns the configuration fetched when the session
// was established. It is not re-fetched; reconnect to pick up a
// configuration change made on the station itself.
func (r *Reader) SystemConfiguration() protocol.SystemConfiguration {
	return *r.sysConf
}

// Close releases the underlying serial port.
func (r *Reader) Close() error {
	return r.port.Close()
}

// BeepUntilCardRemoved tells the station to beep and flash until the
// inserted card is removed.
func (r *Reader) BeepUntilCardRemoved(ctx context.Context) error {
	return r.send(ctx, protocol.BeepCommand{})
}

// PollCard blocks until a card is inserted and returns its assembled
// punch readout.
func (r *Reader) PollCard(ctx context.Context) (*protocol.CardReadout, error) {
	card, err := r.awaitCardInserted(ctx)
	if err != nil {
		r.broadcast(events.ReaderError, err)
		return nil, err
	}
	readout, err := protocol.AssembleCardReadout(ctx, r.newBlockSource(ctx), card.Type)
	if err != nil {
		r.broadcast(events.ReaderError, err)
		return nil, err
	}
	r.broadcast(events.CardReadout, readout)
	return readout, nil
}

// PollCardWithOwnerData blocks until a card is inserted and returns both
// its punch readout and its owner data.
func (r *Reader) PollCardWithOwnerData(ctx context.Context) (*protocol.CardReadout, *protocol.CardOwnerData, error) {
	card, err := r.awaitCardInserted(ctx)
	if err != nil {
		r.broadcast(events.ReaderError, err)
		return nil, nil, err
	}
	blocks := protocol.NewCachingBlocks(r.newBlockSource(ctx))
	readout, err := protocol.AssembleCardReadout(ctx, blocks, card.Type)
	if err != nil {
		r.broadcast(events.ReaderError, err)
		return nil, nil, err
	}
	owner, err := protocol.AssembleCardOwnerData(ctx, blocks, card.Type)
	if err != nil {
		r.broadcast(events.ReaderError, err)
		return nil, nil, err
	}
	r.broadcast(events.CardReadout, readout)
	return readout, owner, nil
}

// PollOwnerData blocks until a card is inserted and returns its owner
// data.
func (r *Reader) PollOwnerData(ctx context.Context) (*protocol.CardOwnerData, error) {
	card, err := r.awaitCardInserted(ctx)
	if err != nil {
		r.broadcast(events.ReaderError, err)
		return nil, err
	}
	owner, err := protocol.AssembleCardOwnerData(ctx, r.newBlockSource(ctx), card.Type)
	if err != nil {
		r.broadcast(events.ReaderError, err)
		return nil, err
	}
	return owner, nil
}

// PollPunch blocks until the station auto-sends a punch report. The
// station must be configured with extended protocol and auto-send both
// enabled; PollPunch fails fast otherwise rather than blocking forever on
// a report that will never arrive.
func (r *Reader) PollPunch(ctx context.Context) (*protocol.CardPunch, error) {
	if !r.sysConf.ProtocolConfiguration.Has(protocol.IsExtendedProtocol) {
		return nil, ErrNotExtendedProtocolMode
	}
	if !r.sysConf.ProtocolConfiguration.Has(protocol.AutoSendOut) {
		return nil, ErrNotAutoSendMode
	}

	resp, err := r.receive(ctx)
	if err != nil {
		r.broadcast(events.ReaderError, err)
		return nil, err
	}
	punch, ok := resp.(*protocol.CardPunch)
	if !ok {
		return nil, ErrInvalidResponseReceived
	}
	r.broadcast(events.CardPunch, punch)
	return punch, nil
}

// awaitCardInserted loops reading frames until a CardInserted response
// arrives, having already checked the station is in extended protocol and
// readout mode.
func (r *Reader) awaitCardInserted(ctx context.Context) (*protocol.Card, error) {
	if !r.sysConf.ProtocolConfiguration.Has(protocol.IsExtendedProtocol) {
		return nil, ErrNotExtendedProtocolMode
	}
	if r.sysConf.Mode != protocol.ModeReadout {
		return nil, ErrNotReadoutMode
	}

	for {
		frame, resp, err := r.receiveFrame(ctx)
		if err != nil {
			return nil, err
		}
		if card, ok := resp.(*protocol.Card); ok {
			r.broadcast(events.CardInserted, card)
			return card, nil
		}
		if protocol.IsCardRemoved(frame.Cmd) {
			r.broadcast(events.CardRemoved, nil)
		}
	}
}

func (r *Reader) send(ctx context.Context, cmd protocol.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.encoder.WriteCommand(cmd)
}

func (r *Reader) receive(ctx context.Context) (any, error) {
	_, resp, err := r.receiveFrame(ctx)
	return resp, err
}

// receiveFrame is like receive but also returns the raw frame, for callers
// that need the command byte to disambiguate responses Dispatch decodes to
// a bare nil.
func (r *Reader) receiveFrame(ctx context.Context) (protocol.Frame, any, error) {
	if err := ctx.Err(); err != nil {
		return protocol.Frame{}, nil, err
	}
	frame, err := r.decoder.ReadFrame()
	if err != nil {
		return protocol.Frame{}, nil, translateDecodeError(err)
	}
	resp, err := protocol.Dispatch(frame)
	return frame, resp, err
}

func (r *Reader) sendAndReceive(ctx context.Context, cmd protocol.Command) (any, error) {
	if err := r.send(ctx, cmd); err != nil {
		return nil, err
	}
	return r.receive(ctx)
}

// translateDecodeError maps the decoder's transport-level io.EOF to
// ErrPortClosed, leaving every other decoder error as-is.
func translateDecodeError(err error) error {
	if errors.Is(err, io.EOF) {
		return ErrPortClosed
	}
	return err
}

// newBlockSource returns a protocol.BlockSource that reads card memory
// blocks over this session, reinterpreting a station NACK received
// mid-readout as the card having been pulled rather than as a bare framing
// error.
func (r *Reader) newBlockSource(ctx context.Context) protocol.BlockSource {
	return &readerBlocks{reader: r}
}

type readerBlocks struct {
	reader *Reader
}

func (b *readerBlocks) GetBlock(ctx context.Context, index byte) ([]byte, error) {
	resp, err := b.reader.sendAndReceive(ctx, protocol.ReadCardDataBlockCommand{BlockIndex: index})
	if err != nil {
		if errors.Is(err, protocol.ErrInvalidCommandSent) {
			return nil, ErrCardRemovedWhileReadingData
		}
		return nil, err
	}

	switch v := resp.(type) {
	case *protocol.CardData:
		return v.Block[:], nil
	case nil:
		// A bare CardRemoved acknowledgement decodes to a nil response.
		return nil, ErrCardRemovedWhileReadingData
	default:
		return nil, ErrInvalidResponseReceived
	}
}
