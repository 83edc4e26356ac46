package protocol

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSi8Blocks constructs two fabricated 128-byte blocks shaped like a
// PunchCard/Si8/Si9 readout: no check/start/finish punches, one control
// punch at the generation's punch offset, and a card number trailer.
func buildSi8Blocks(punchOffsetWithinBlocks int, cardNumber uint32) StaticBlocks {
	buf := make([]byte, BlockSize*2)
	buf[22] = 1 // punch count
	buf[8], buf[9], buf[10], buf[11] = 0x00, 0x00, 0xEE, 0xEE   // check absent
	buf[12], buf[13], buf[14], buf[15] = 0x00, 0x00, 0xEE, 0xEE // start absent
	buf[16], buf[17], buf[18], buf[19] = 0x00, 0x00, 0xEE, 0xEE // finish absent
	buf[25], buf[26], buf[27] = byte(cardNumber>>16), byte(cardNumber>>8), byte(cardNumber)

	buf[punchOffsetWithinBlocks] = 0x00
	buf[punchOffsetWithinBlocks+1] = 0x05 // control code low byte
	buf[punchOffsetWithinBlocks+2] = 0x00
	buf[punchOffsetWithinBlocks+3] = 0x64 // 100 seconds

	return StaticBlocks{
		0: buf[:BlockSize],
		1: buf[BlockSize:],
	}
}

func TestAssembleCardReadout_Si9(t *testing.T) {
	blocks := buildSi8Blocks(punchesOffset(Si9), 2_500_000)
	readout, err := AssembleCardReadout(context.Background(), blocks, Si9)
	require.NoError(t, err)

	assert.Equal(t, uint32(2_500_000), readout.CardNumber)
	assert.Nil(t, readout.Check)
	assert.Nil(t, readout.Start)
	assert.Nil(t, readout.Finish)
	require.Len(t, readout.Punches, 1)
	assert.Equal(t, uint16(5), readout.Punches[0].Code)
}

func TestAssembleCardReadout_InsufficientData(t *testing.T) {
	blocks := StaticBlocks{
		0: make([]byte, BlockSize),
		1: make([]byte, BlockSize),
	}
	blocks[0][22] = 100 // claims far more punches than the buffer holds

	_, err := AssembleCardReadout(context.Background(), blocks, Si9)
	assert.ErrorIs(t, err, ErrInvalidReadoutDataLength)
}

func TestAssembleCardReadout_Deterministic(t *testing.T) {
	blocks := buildSi8Blocks(punchesOffset(PunchCard), 4_200_000)
	a, err := AssembleCardReadout(context.Background(), blocks, PunchCard)
	require.NoError(t, err)
	b, err := AssembleCardReadout(context.Background(), blocks, PunchCard)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
