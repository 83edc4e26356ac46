package protocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePunch_AbsentSentinel(t *testing.T) {
	p, err := DecodePunch([4]byte{0x00, 0x00, 0xEE, 0xEE})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestDecodePunch_OutOfRangeSeconds(t *testing.T) {
	// 43200 (secondsPerHalfDay) encoded big-endian is out of range.
	_, err := DecodePunch([4]byte{0x00, 0x00, 0xA8, 0xC0})
	assert.ErrorIs(t, err, ErrInvalidPunchTime)
}

func TestDecodePunch_MorningControlPunch(t *testing.T) {
	// seconds=100, day bits 0 -> Sunday, week bits -> FirstWeek, no PM flag.
	p, err := DecodePunch([4]byte{0b0000_0000, 0x2A, 0x00, 0x64})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 100*time.Second, p.Time)
	assert.Equal(t, uint16(0x2A), p.Code)
}

func TestDecodePunch_PMFlagAddsTwelveHours(t *testing.T) {
	p, err := DecodePunch([4]byte{0b0000_0001, 0x00, 0x00, 0x64})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 100*time.Second+12*time.Hour, p.Time)
}

func TestDecodeSubSecondPunch_MillisecondPrecision(t *testing.T) {
	p, err := DecodeSubSecondPunch([4]byte{0x00, 0xFF, 0x00, 0x64})
	require.NoError(t, err)
	require.NotNil(t, p)
	wantMS := int64(255) * 1000 / 255
	assert.Equal(t, 100*time.Second+time.Duration(wantMS)*time.Millisecond, p.Time)
}

func TestDecodeStartOrFinishPunch_TagBit(t *testing.T) {
	normal, err := DecodeStartOrFinishPunch([4]byte{0x00, 0x00, 0x00, 0x64})
	require.NoError(t, err)
	require.NotNil(t, normal)
	assert.NotNil(t, normal.Normal)
	assert.Nil(t, normal.SubSecond)

	subSecond, err := DecodeStartOrFinishPunch([4]byte{0b1000_0000, 0x00, 0x00, 0x64})
	require.NoError(t, err)
	require.NotNil(t, subSecond)
	assert.Nil(t, subSecond.Normal)
	assert.NotNil(t, subSecond.SubSecond)
}
