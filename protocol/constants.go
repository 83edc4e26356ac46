// Package protocol implements the SportIdent station wire protocol: frame
// codec, command encoders, response decoders, and the card-memory decoders
// for the Si8/Si9/Si10/Si11/SIAC/PunchCard generations.
package protocol

// Framing bytes used on the wire. A frame looks like:
//
//	WAKEUP START cmd len payload... crcHi crcLo END
//
// Leading WAKEUP bytes are re-synchronisation padding and are discarded by
// the decoder until a START byte is seen.
const (
	Wakeup byte = 0xFF
	Start  byte = 0x02
	End    byte = 0x03
	Nack   byte = 0x15
)

// Command opcodes (the "magic" byte of an encoded command).
const (
	cmdSetMasterSlave         byte = 0xF0
	cmdGetSystemConfiguration byte = 0x83
	cmdReadCardData           byte = 0xEF
	cmdBeep                   byte = 0x06
)

// Response opcodes, as echoed by the station in a frame's cmd byte.
const (
	respSystemConfiguration byte = 0x83
	respSetMasterSlave      byte = 0xF0
	respCardRemoved         byte = 0xE7
	respCardInserted        byte = 0xE8
	respCardData            byte = 0xEF
	respCardPunch           byte = 0xD3
)

// Baud rates the station negotiates at. HighSpeedBaudRate is tried first;
// LowSpeedBaudRate is the fallback for older stations.
const (
	HighSpeedBaudRate = 38400
	LowSpeedBaudRate  = 4800
)

// BlockSize is the size in bytes of one card-memory block.
const BlockSize = 128

// ignoredPayloadBytes is the number of leading payload bytes in every frame
// that carry no semantic content for this driver but must be present and
// are included in the CRC.
const ignoredPayloadBytes = 2

// IsCardRemoved reports whether cmd is the CardRemoved response opcode.
// Dispatch decodes CardRemoved to a bare nil (it carries no payload), so
// callers that need to distinguish it from other no-payload responses
// (such as the SetMasterSlave acknowledgement) must check the frame's
// command byte directly.
func IsCardRemoved(cmd byte) bool { return cmd == respCardRemoved }

// MasterSlaveMode selects whether SetMasterSlave puts the station into
// master or slave mode.
type MasterSlaveMode byte

const (
	Master MasterSlaveMode = 0x4D
	Slave  MasterSlaveMode = 0x53
)
