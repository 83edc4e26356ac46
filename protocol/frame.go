package protocol

import (
	"bufio"
	"fmt"
	"io"
)

// Frame is one decoded (cmd, data) pair pulled off the wire: a response
// opcode and its payload, with the two leading "ignored" metadata bytes and
// the CRC already stripped and validated.
type Frame struct {
	Cmd  byte
	Data []byte
}

// Decoder is the read-side framing state machine described in the wire
// protocol: it resynchronises on WAKEUP padding, validates the trailing
// CRC and END byte, and hands back one (cmd, data) pair per call to
// ReadFrame. A decoder error always resets internal state to "waiting for
// the next frame" before it is returned, so the caller may keep calling
// ReadFrame after a framing error without losing synchronisation.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder wraps r in a frame Decoder.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(r, 4096)}
}

// ReadFrame blocks until one complete, checksum-valid frame has been read,
// or an error occurs. Framing and checksum errors leave the decoder ready
// to resynchronise on the next WAKEUP/START pair; transport errors (io.EOF
// included) should be treated as fatal by the caller.
func (d *Decoder) ReadFrame() (Frame, error) {
	if err := d.awaitStart(); err != nil {
		return Frame{}, err
	}

	cmdAndLength := make([]byte, 2)
	if _, err := io.ReadFull(d.r, cmdAndLength); err != nil {
		return Frame{}, err
	}
	cmd, length := cmdAndLength[0], int(cmdAndLength[1])

	if length < ignoredPayloadBytes {
		return Frame{}, &InvalidLengthError{Got: length}
	}

	rest := make([]byte, length+3) // ignored+data, crcHi, crcLo, END (data already excludes the 2 ignored bytes accounted for in length)
	if _, err := io.ReadFull(d.r, rest); err != nil {
		return Frame{}, err
	}

	ignored := rest[:ignoredPayloadBytes]
	data := rest[ignoredPayloadBytes : length]
	crcHi, crcLo, end := rest[length], rest[length+1], rest[length+2]

	if end != End {
		return Frame{}, &InvalidEndByteError{Got: end}
	}

	check := make([]byte, 0, 2+length)
	check = append(check, cmdAndLength...)
	check = append(check, ignored...)
	check = append(check, data...)

	receivedCRC := uint16(crcHi)<<8 | uint16(crcLo)
	computedCRC := crc(check)
	if computedCRC != receivedCRC {
		return Frame{}, &InvalidChecksumError{Expected: computedCRC, Found: receivedCRC}
	}

	return Frame{Cmd: cmd, Data: data}, nil
}

// awaitStart consumes leading WAKEUP padding and the frame's START byte,
// signalling InvalidCommandSent on a station NACK and InvalidStartByte on
// anything else unexpected.
func (d *Decoder) awaitStart() error {
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return err
		}
		if b == Wakeup {
			continue
		}
		if b == Nack {
			return ErrInvalidCommandSent
		}
		if b != Start {
			return &InvalidStartByteError{Got: b}
		}
		return nil
	}
}

// Encoder is the write-side of the frame codec: it serialises a command's
// magic byte and parameters into a complete wire frame.
type Encoder struct {
	w io.Writer
}

// NewEncoder wraps w in a frame Encoder.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// WriteCommand encodes and writes one command frame: WAKEUP START cmd len
// params... crcHi crcLo END.
func (e *Encoder) WriteCommand(cmd Command) error {
	magic, params := cmd.Encode()
	if len(params) > 0xFF {
		return fmt.Errorf("sportident: command parameters too long (max 255 bytes, got %d)", len(params))
	}

	body := make([]byte, 0, 2+len(params))
	body = append(body, magic, byte(len(params)))
	body = append(body, params...)

	frame := make([]byte, 0, 2+len(body)+3)
	frame = append(frame, Wakeup, Start)
	frame = append(frame, body...)
	checksum := crc(body)
	frame = append(frame, byte(checksum>>8), byte(checksum))
	frame = append(frame, End)

	_, err := e.w.Write(frame)
	return err
}
