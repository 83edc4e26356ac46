package protocol

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleCardOwnerData_LongLayout(t *testing.T) {
	buf := make([]byte, BlockSize*2)
	owner := "Jane;Doe;F;1990-01-01;OK;jane@example.com;555-1234;Springfield;Main St;12345;US;"
	copy(buf[32:], owner)

	blocks := StaticBlocks{0: buf[:BlockSize], 1: buf[BlockSize:]}
	data, err := AssembleCardOwnerData(context.Background(), blocks, Si10)
	require.NoError(t, err)

	assert.Equal(t, "Jane", data.FirstName)
	assert.Equal(t, "Doe", data.LastName)
	assert.Equal(t, "US", data.Country)
}

func TestAssembleCardOwnerData_ShortLayout(t *testing.T) {
	buf := make([]byte, BlockSize*2)
	copy(buf[32:], "Jane;Doe;")

	blocks := StaticBlocks{0: buf[:BlockSize], 1: buf[BlockSize:]}
	data, err := AssembleCardOwnerData(context.Background(), blocks, Si9)
	require.NoError(t, err)

	assert.Equal(t, "Jane", data.FirstName)
	assert.Equal(t, "Doe", data.LastName)
	assert.Empty(t, data.Club)
}

func TestAssembleCardOwnerData_MissingSemicolons(t *testing.T) {
	buf := make([]byte, BlockSize*2)
	copy(buf[32:], "NoSemicolonsHere")

	blocks := StaticBlocks{0: buf[:BlockSize], 1: buf[BlockSize:]}
	_, err := AssembleCardOwnerData(context.Background(), blocks, Si9)
	assert.ErrorIs(t, err, ErrInvalidOwnerData)
}
