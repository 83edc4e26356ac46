package session

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"sportident/protocol"
)

// newTestReader builds a Reader talking over an in-memory net.Pipe, with
// the given system configuration pre-set (as Connect would have fetched
// it), and returns the station-side connection for the test to drive.
func newTestReader(t *testing.T, sysConf *protocol.SystemConfiguration) (*Reader, net.Conn) {
	t.Helper()
	clientConn, stationConn := net.Pipe()
	t.Cleanup(func() {
		_ = clientConn.Close()
		_ = stationConn.Close()
	})

	reader := &Reader{
		decoder: protocol.NewDecoder(clientConn),
		encoder: protocol.NewEncoder(clientConn),
		sysConf: sysConf,
	}
	return reader, stationConn
}

func readoutModeConfig() *protocol.SystemConfiguration {
	return &protocol.SystemConfiguration{
		Mode:                  protocol.ModeReadout,
		ProtocolConfiguration: protocol.IsExtendedProtocol,
	}
}

func TestPollPunch_RejectsWithoutExtendedProtocol(t *testing.T) {
	reader, _ := newTestReader(t, &protocol.SystemConfiguration{})
	_, err := reader.PollPunch(context.Background())
	assert.ErrorIs(t, err, ErrNotExtendedProtocolMode)
}

func TestPollPunch_RejectsWithoutAutoSend(t *testing.T) {
	reader, _ := newTestReader(t, &protocol.SystemConfiguration{
		ProtocolConfiguration: protocol.IsExtendedProtocol,
	})
	_, err := reader.PollPunch(context.Background())
	assert.ErrorIs(t, err, ErrNotAutoSendMode)
}

func TestAwaitCardInserted_RejectsWrongMode(t *testing.T) {
	reader, _ := newTestReader(t, &protocol.SystemConfiguration{
		Mode:                  protocol.ModeControl,
		ProtocolConfiguration: protocol.IsExtendedProtocol,
	})
	_, err := reader.awaitCardInserted(context.Background())
	assert.ErrorIs(t, err, ErrNotReadoutMode)
}

func TestReaderBlocks_NACKBecomesCardRemoved(t *testing.T) {
	reader, station := newTestReader(t, readoutModeConfig())

	go func() {
		buf := make([]byte, 8)
		_, _ = station.Read(buf) // drain the ReadCardData command
		_, _ = station.Write([]byte{protocol.Nack})
	}()

	blocks := reader.newBlockSource(context.Background())
	_, err := blocks.GetBlock(context.Background(), 0)
	assert.ErrorIs(t, err, ErrCardRemovedWhileReadingData)
}
