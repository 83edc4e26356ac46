package protocol

import (
	"fmt"
	"time"
)

// Model identifies a station's hardware revision.
type Model uint16

const (
	ModelSRRDongle  Model = 0x6F21
	ModelBSF3       Model = 0x8003
	ModelBSF4       Model = 0x8004
	ModelBSM4RS232  Model = 0x8084
	ModelBSM6RS232  Model = 0x8086
	ModelBSF5       Model = 0x8115
	ModelBSF7V1     Model = 0x8117
	ModelBSF8V1     Model = 0x8118
	ModelBSF6       Model = 0x8146
	ModelBSF7Master Model = 0x8187
	ModelBSF8Master Model = 0x8188
	ModelBSF7V2     Model = 0x8197
	ModelBSF8V2     Model = 0x8198
	ModelBSM7RS232  Model = 0x9197
	ModelBSM8SRR    Model = 0x9198
	ModelBS7S       Model = 0x9597
	ModelBS11BL     Model = 0x9D9A
	ModelBS7P       Model = 0xB197
	ModelBS7GSM     Model = 0xB897
	ModelBS11BS     Model = 0xCD9B
)

var knownModels = map[Model]struct{}{
	ModelSRRDongle: {}, ModelBSF3: {}, ModelBSF4: {}, ModelBSM4RS232: {},
	ModelBSM6RS232: {}, ModelBSF5: {}, ModelBSF7V1: {}, ModelBSF8V1: {},
	ModelBSF6: {}, ModelBSF7Master: {}, ModelBSF8Master: {}, ModelBSF7V2: {},
	ModelBSF8V2: {}, ModelBSM7RS232: {}, ModelBSM8SRR: {}, ModelBS7S: {},
	ModelBS11BL: {}, ModelBS7P: {}, ModelBS7GSM: {}, ModelBS11BS: {},
}

var modelNames = map[Model]string{
	ModelSRRDongle: "SRRDongle", ModelBSF3: "BSF3", ModelBSF4: "BSF4",
	ModelBSM4RS232: "BSM4RS232", ModelBSM6RS232: "BSM6RS232", ModelBSF5: "BSF5",
	ModelBSF7V1: "BSF7V1", ModelBSF8V1: "BSF8V1", ModelBSF6: "BSF6",
	ModelBSF7Master: "BSF7Master", ModelBSF8Master: "BSF8Master",
	ModelBSF7V2: "BSF7V2", ModelBSF8V2: "BSF8V2", ModelBSM7RS232: "BSM7RS232",
	ModelBSM8SRR: "BSM8SRR", ModelBS7S: "BS7S", ModelBS11BL: "BS11BL",
	ModelBS7P: "BS7P", ModelBS7GSM: "BS7GSM", ModelBS11BS: "BS11BS",
}

func (m Model) String() string {
	if name, ok := modelNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Model(0x%04X)", uint16(m))
}

// SRRChannel is the radio channel an SRR dongle/station is tuned to.
type SRRChannel byte

const (
	SRRRed  SRRChannel = 0x00
	SRRBlue SRRChannel = 0x01
)

// StationMode is the operating mode a control station is configured for.
type StationMode byte

const (
	ModeSIACSpecial    StationMode = 0x01
	ModeControl        StationMode = 0x02
	ModeStart          StationMode = 0x03
	ModeFinish         StationMode = 0x04
	ModeReadout        StationMode = 0x05
	ModeClearOld       StationMode = 0x06
	ModeClear          StationMode = 0x07
	ModeCheck          StationMode = 0x0A
	ModePrintOut       StationMode = 0x0B
	ModeStartTrigger   StationMode = 0x0C
	ModeFinishTrigger  StationMode = 0x0D
	ModeBeaconControl  StationMode = 0x12
	ModeBeaconStart    StationMode = 0x13
	ModeBeaconFinish   StationMode = 0x14
	ModeBeaconReadout  StationMode = 0x15
)

var knownStationModes = map[StationMode]struct{}{
	ModeSIACSpecial: {}, ModeControl: {}, ModeStart: {}, ModeFinish: {},
	ModeReadout: {}, ModeClearOld: {}, ModeClear: {}, ModeCheck: {},
	ModePrintOut: {}, ModeStartTrigger: {}, ModeFinishTrigger: {},
	ModeBeaconControl: {}, ModeBeaconStart: {}, ModeBeaconFinish: {},
	ModeBeaconReadout: {},
}

var stationModeNames = map[StationMode]string{
	ModeSIACSpecial: "SIACSpecial", ModeControl: "Control", ModeStart: "Start",
	ModeFinish: "Finish", ModeReadout: "Readout", ModeClearOld: "ClearOld",
	ModeClear: "Clear", ModeCheck: "Check", ModePrintOut: "PrintOut",
	ModeStartTrigger: "StartTrigger", ModeFinishTrigger: "FinishTrigger",
	ModeBeaconControl: "BeaconControl", ModeBeaconStart: "BeaconStart",
	ModeBeaconFinish: "BeaconFinish", ModeBeaconReadout: "BeaconReadout",
}

func (m StationMode) String() string {
	if name, ok := stationModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("StationMode(0x%02X)", byte(m))
}

// StationProgram is the broad competition-vs-training distinction carried
// by bit 5 of the station-program byte.
type StationProgram int

const (
	Competition StationProgram = iota
	Training
)

// ProtocolConfiguration is the set of protocol-behaviour flags a station
// reports in its system configuration.
type ProtocolConfiguration byte

const (
	IsExtendedProtocol ProtocolConfiguration = 0b0000_0001
	AutoSendOut        ProtocolConfiguration = 0b0000_0010
	Handshake          ProtocolConfiguration = 0b0000_0100
	PasswordAccess     ProtocolConfiguration = 0b0001_0000
	ReadOut            ProtocolConfiguration = 0b0010_0000
)

// Has reports whether all bits of flag are set in p.
func (p ProtocolConfiguration) Has(flag ProtocolConfiguration) bool {
	return p&flag == flag
}

// PunchFeedback is the set of feedback flags a station gives on a punch.
type PunchFeedback byte

const (
	FeedbackOptical PunchFeedback = 0b0000_0001
	FeedbackAudible PunchFeedback = 0b0000_0100
)

func (p PunchFeedback) Has(flag PunchFeedback) bool {
	return p&flag == flag
}

// SystemConfiguration is the full configuration block a station reports in
// response to GetSystemConfigurationCommand.
type SystemConfiguration struct {
	SerialNumber                  uint32
	SRRConfiguration               byte
	Firmware                      [3]byte
	BuildDate                     time.Time
	Model                         Model
	MemKilobytes                  byte
	BatteryDate                   time.Time
	BatteryCapacityMilliampereHour uint16
	BackupPointerHigh              uint16
	BackupPointerLow               uint16
	SI6CardBlocks                  byte
	SRRChannel                    SRRChannel
	UsedBatteryCapacityPercentage  float64
	MemoryOverflow                bool
	BatteryVoltage                 float64
	StationProgram                StationProgram
	Mode                          StationMode
	StationCode                  uint16
	PunchFeedback                 PunchFeedback
	ProtocolConfiguration         ProtocolConfiguration
	WakeupDate                    time.Time
	ActiveDuration                time.Duration
}

const systemConfigurationLength = 0x81

// DecodeSystemConfiguration decodes a GetSystemConfiguration response
// payload. The payload must be exactly 129 bytes; its leading byte is an
// index echo and is discarded before the fields below are read.
func DecodeSystemConfiguration(payload []byte) (*SystemConfiguration, error) {
	if len(payload) != systemConfigurationLength {
		return nil, &InvalidSystemConfigurationError{Expected: systemConfigurationLength, Got: len(payload)}
	}
	data := payload[1:]

	modelID := uint16(data[11])<<8 | uint16(data[12])
	model := Model(modelID)
	if _, ok := knownModels[model]; !ok {
		return nil, &UnknownModelIDError{ID: modelID}
	}

	buildDate, err := decodeStationDate(data[8], data[9], data[10])
	if err != nil {
		return nil, err
	}
	batteryDate, err := decodeStationDate(data[21], data[22], data[23])
	if err != nil {
		return nil, err
	}
	wakeupDate, err := decodeStationDate(data[117], data[118], data[119])
	if err != nil {
		return nil, err
	}

	srrChannel := SRRChannel(data[52])
	if srrChannel != SRRRed && srrChannel != SRRBlue {
		return nil, &UnknownSRRChannelError{Channel: data[52]}
	}

	mode := StationMode(data[113])
	if _, ok := knownStationModes[mode]; !ok {
		return nil, &UnknownStationModeError{Mode: data[113]}
	}

	program := Competition
	if data[112]&0b0010_0000 != 0 {
		program = Training
	}

	return &SystemConfiguration{
		SerialNumber:                   uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24,
		SRRConfiguration:                data[4],
		Firmware:                        [3]byte{data[5], data[6], data[7]},
		BuildDate:                       buildDate,
		Model:                           model,
		MemKilobytes:                    data[13],
		BatteryDate:                     batteryDate,
		BatteryCapacityMilliampereHour:  uint16(data[25])<<8 | uint16(data[26]),
		BackupPointerHigh:               uint16(data[28])<<8 | uint16(data[29]),
		BackupPointerLow:                uint16(data[33])<<8 | uint16(data[34]),
		SI6CardBlocks:                   data[51],
		SRRChannel:                      srrChannel,
		UsedBatteryCapacityPercentage:   float64(uint32(data[53])<<16+uint32(data[54])<<8+uint32(data[55])) * 2.778e-5,
		MemoryOverflow:                  data[61] != 0,
		BatteryVoltage:                  float64(uint16(data[80])<<8|uint16(data[81])) * (5.0 / 65536.0),
		StationProgram:                  program,
		Mode:                            mode,
		StationCode:                     uint16(data[114])<<8 | uint16(data[115]&0b1100_0000),
		PunchFeedback:                   PunchFeedback(data[115]),
		ProtocolConfiguration:           ProtocolConfiguration(data[116]),
		WakeupDate:                      wakeupDate,
		ActiveDuration:                  time.Duration(data[126]) * time.Minute,
	}, nil
}

// decodeStationDate reconstructs a calendar date from a station's packed
// year/month/day triple; the year byte is an offset from 2000.
func decodeStationDate(year, month, day byte) (time.Time, error) {
	y, m, d := 2000+int(year), int(month), int(day)
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, &InvalidDateError{Year: y, Month: m, Day: d}
	}
	return t, nil
}

// Card identifies a card by number and its derived generation.
type Card struct {
	Type   CardType
	Number uint32
}

const cardInsertedLength = 4

// DecodeCard decodes a CardInserted response payload.
func DecodeCard(data []byte) (*Card, error) {
	if len(data) != cardInsertedLength {
		return nil, &InvalidCardInsertedLengthError{Expected: cardInsertedLength, Got: len(data)}
	}
	number := uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
	cardType, err := ClassifyCardNumber(number)
	if err != nil {
		return nil, err
	}
	return &Card{Type: cardType, Number: number}, nil
}

// DecodeCardRemoved decodes a CardRemoved response. The payload carries no
// data; it exists so dispatch has something to call.
func DecodeCardRemoved(_ []byte) error { return nil }

// DecodeSetMasterSlaveAck decodes a SetMasterSlave acknowledgement. The
// payload carries no data.
func DecodeSetMasterSlaveAck(_ []byte) error { return nil }

// CardData is one 128-byte block of a card's memory.
type CardData struct {
	Block [BlockSize]byte
}

// DecodeCardData decodes a ReadCardData response payload: a leading
// index-echo byte followed by exactly BlockSize bytes of card memory.
func DecodeCardData(payload []byte) (*CardData, error) {
	if len(payload) == 0 {
		return nil, &InvalidBlockSizeError{Expected: BlockSize, Got: 0}
	}
	data := payload[1:]
	if len(data) != BlockSize {
		return nil, &InvalidBlockSizeError{Expected: BlockSize, Got: len(data)}
	}
	var cd CardData
	copy(cd.Block[:], data)
	return &cd, nil
}

const cardPunchLength = 8

// CardPunch is an auto-send punch report: the card that triggered it and
// its sub-second gate time.
type CardPunch struct {
	Card  Card
	Punch SubSecondPunch
}

// DecodeCardPunch decodes a CardPunch response payload. Its time field is
// byte-reordered relative to every other packed-time field on the wire
// ([b0,b3,b1,b2] rather than [b0,b1,b2,b3]); this is a wire quirk, not a
// typo.
func DecodeCardPunch(data []byte) (*CardPunch, error) {
	if len(data) != cardPunchLength {
		return nil, fmt.Errorf("sportident: invalid card punch length (expected %d bytes, got %d)", cardPunchLength, len(data))
	}
	card, err := DecodeCard(data[0:4])
	if err != nil {
		return nil, err
	}
	punch, err := DecodeSubSecondPunch([4]byte{data[4], data[7], data[5], data[6]})
	if err != nil {
		return nil, err
	}
	if punch == nil {
		return nil, ErrInvalidPunchTime
	}
	return &CardPunch{Card: *card, Punch: *punch}, nil
}

// Dispatch decodes a Frame's payload according to its command byte,
// returning the concrete response value. Unknown command bytes fail with
// InvalidCommandError.
func Dispatch(frame Frame) (any, error) {
	switch frame.Cmd {
	case respSystemConfiguration:
		return DecodeSystemConfiguration(frame.Data)
	case respSetMasterSlave:
		return nil, DecodeSetMasterSlaveAck(frame.Data)
	case respCardRemoved:
		return nil, DecodeCardRemoved(frame.Data)
	case respCardInserted:
		return DecodeCard(frame.Data)
	case respCardData:
		return DecodeCardData(frame.Data)
	case respCardPunch:
		return DecodeCardPunch(frame.Data)
	default:
		return nil, &InvalidCommandError{Cmd: frame.Cmd}
	}
}
