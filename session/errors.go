package session

import "errors"

// Sentinel errors returned by Reader methods. Use errors.Is to check for
// these; they never wrap additional context because none is meaningful
// beyond the condition itself.
var (
	// ErrNotExtendedProtocolMode is returned by the poll methods when the
	// connected station's system configuration reports it is not running
	// in extended protocol mode.
	ErrNotExtendedProtocolMode = errors.New("sportident: station is not in extended protocol mode")

	// ErrNotReadoutMode is returned by PollCard, PollCardWithOwnerData and
	// PollOwnerData when the station's operating mode is not Readout.
	ErrNotReadoutMode = errors.New("sportident: station is not in readout operating mode")

	// ErrNotAutoSendMode is returned by PollPunch when the station's
	// protocol configuration does not have auto-send enabled.
	ErrNotAutoSendMode = errors.New("sportident: station is not in auto-send mode")

	// ErrCardRemovedWhileReadingData is returned when a card is pulled from
	// the station mid-readout. A station NACK received while fetching a
	// block is reinterpreted as this condition rather than surfaced as a
	// raw framing error, since that is what a NACK means in this context.
	ErrCardRemovedWhileReadingData = errors.New("sportident: card removed while reading data")

	// ErrPortClosed is returned when the serial port's read side reaches
	// EOF.
	ErrPortClosed = errors.New("sportident: port closed")

	// ErrNoReaderDetected is returned by AutoConnect when no USB device
	// matching a known SportIdent vendor/product ID is present.
	ErrNoReaderDetected = errors.New("sportident: no reader detected")

	// ErrInvalidResponseReceived is returned when a well-formed frame
	// arrives but carries a response type that does not make sense for the
	// call in progress (e.g. a CardPunch while a card-memory block is being
	// fetched).
	ErrInvalidResponseReceived = errors.New("sportident: invalid response received")
)
