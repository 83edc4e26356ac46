package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSystemConfigurationPayload constructs a synthetic but
// field-complete 129-byte GetSystemConfiguration response payload: a
// leading index-echo byte plus every offset DecodeSystemConfiguration
// reads.
func buildSystemConfigurationPayload() []byte {
	payload := make([]byte, systemConfigurationLength)
	data := payload[1:]

	data[0], data[1], data[2], data[3] = 0x78, 0x56, 0x34, 0x12 // serial number LE
	data[8], data[9], data[10] = 20, 6, 15                      // build date 2020-06-15
	data[11], data[12] = 0x81, 0x97                              // model = BSF7V2
	data[21], data[22], data[23] = 19, 1, 1                      // battery date 2019-01-01
	data[25], data[26] = 0x01, 0x2C                              // battery capacity BE
	data[52] = 0x00                                              // SRR channel = Red
	data[80], data[81] = 0x10, 0x00                              // battery voltage BE
	data[113] = 0x05                                             // mode = Readout
	data[114] = 0x12
	data[115] = 0x40 // station code low bits (top 2 bits only) + punch feedback flags
	data[116] = 0x01 // extended protocol
	data[117], data[118], data[119] = 21, 3, 10                  // wakeup date 2021-03-10
	data[126] = 30                                                // active duration minutes

	return payload
}

func TestDecodeSystemConfiguration(t *testing.T) {
	conf, err := DecodeSystemConfiguration(buildSystemConfigurationPayload())
	require.NoError(t, err)

	assert.Equal(t, uint32(0x12345678), conf.SerialNumber)
	assert.Equal(t, ModelBSF7V2, conf.Model)
	assert.Equal(t, ModeReadout, conf.Mode)
	assert.Equal(t, SRRRed, conf.SRRChannel)
	assert.True(t, conf.ProtocolConfiguration.Has(IsExtendedProtocol))
	assert.Equal(t, 30*60.0, conf.ActiveDuration.Seconds())
	assert.Equal(t, 2020, conf.BuildDate.Year())
	assert.Equal(t, 2019, conf.BatteryDate.Year())
	assert.Equal(t, 2021, conf.WakeupDate.Year())
}

func TestDecodeSystemConfiguration_WrongLength(t *testing.T) {
	_, err := DecodeSystemConfiguration([]byte{0x01, 0x02})
	var lenErr *InvalidSystemConfigurationError
	require.ErrorAs(t, err, &lenErr)
}

func TestDecodeSystemConfiguration_UnknownModel(t *testing.T) {
	payload := buildSystemConfigurationPayload()
	payload[1+11], payload[1+12] = 0xFF, 0xFF
	_, err := DecodeSystemConfiguration(payload)
	var modelErr *UnknownModelIDError
	require.ErrorAs(t, err, &modelErr)
}

func TestDecodeSystemConfiguration_InvalidDate(t *testing.T) {
	payload := buildSystemConfigurationPayload()
	payload[1+9] = 13 // month 13 doesn't exist
	_, err := DecodeSystemConfiguration(payload)
	var dateErr *InvalidDateError
	require.ErrorAs(t, err, &dateErr)
}
