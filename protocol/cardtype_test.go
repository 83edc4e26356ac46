package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCardNumber(t *testing.T) {
	cases := []struct {
		number uint32
		want   CardType
	}{
		{1_500_000, Si9},
		{2_500_000, Si8},
		{4_500_000, PunchCard},
		{7_500_000, Si10},
		{8_500_000, SIAC},
		{9_500_000, Si11},
	}

	for _, c := range cases {
		got, err := ClassifyCardNumber(c.number)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestClassifyCardNumber_OutOfRange(t *testing.T) {
	_, err := ClassifyCardNumber(999)
	var numErr *InvalidCardNumberError
	require.ErrorAs(t, err, &numErr)
	assert.Equal(t, uint32(999), numErr.Number)
}

func TestClassifyCardNumber_RangeBoundaries(t *testing.T) {
	_, err := ClassifyCardNumber(2_999_999)
	assert.NoError(t, err)

	_, err = ClassifyCardNumber(3_000_000)
	assert.Error(t, err)
}
