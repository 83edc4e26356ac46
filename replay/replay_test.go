package replay

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportident/diagnostics"
)

func writeCapture(t *testing.T, records ...diagnostics.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.bin")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	for _, rec := range records {
		require.NoError(t, diagnostics.WriteRecord(file, rec))
	}
	return path
}

func TestPlayer_EmitsRecordedBytesInOrder(t *testing.T) {
	path := writeCapture(t,
		diagnostics.Record{Millis: 0, Data: []byte{0xFF, 0x02}},
		diagnostics.Record{Millis: 1, Data: []byte{0x83, 0x00}},
	)

	var out bytes.Buffer
	player := NewPlayer(path, 0, false, 0)
	require.NoError(t, player.Run(&out))

	assert.Equal(t, []byte{0xFF, 0x02, 0x83, 0x00}, out.Bytes())
}

func TestPlayer_SkipFrames(t *testing.T) {
	path := writeCapture(t,
		diagnostics.Record{Millis: 0, Data: []byte{0x01}},
		diagnostics.Record{Millis: 0, Data: []byte{0x02}},
		diagnostics.Record{Millis: 0, Data: []byte{0x03}},
	)

	var out bytes.Buffer
	player := NewPlayer(path, 0, false, 2)
	require.NoError(t, player.Run(&out))

	assert.Equal(t, []byte{0x03}, out.Bytes())
}
