package diagnostics

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRecord_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecord(&buf, Record{Millis: 1234, Data: []byte{0xFF, 0x02, 0x83, 0x00}}))

	rec, err := ReadRecord(bufio.NewReader(&buf))
	require.NoError(t, err)
	assert.Equal(t, uint32(1234), rec.Millis)
	assert.Equal(t, []byte{0xFF, 0x02, 0x83, 0x00}, rec.Data)
}

func TestReadRecord_ResyncsPastGarbage(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x01, 0x02, 0xAA}) // garbage, including a lone magic byte
	require.NoError(t, WriteRecord(&buf, Record{Millis: 1, Data: []byte{0x10}}))

	rec, err := ReadRecord(bufio.NewReader(&buf))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x10}, rec.Data)
}

func TestReadRecord_BadChecksum(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecord(&buf, Record{Millis: 1, Data: []byte{0x10}}))

	raw := buf.Bytes()
	raw[len(raw)-1] ^= 0xFF // flip the trailing checksum

	_, err := ReadRecord(bufio.NewReader(bytes.NewReader(raw)))
	assert.ErrorIs(t, err, ErrBadChecksum)
}

func TestReadRecord_EOF(t *testing.T) {
	_, err := ReadRecord(bufio.NewReader(bytes.NewReader(nil)))
	assert.ErrorIs(t, err, io.EOF)
}
