package diagnostics

import (
	"bufio"
	"io"
	"log"
	"os"
	"time"

	"sportident/utils"
)

const (
	logDir            = "logs"
	logName           = "SPORTIDENT"
	logExt            = ".bin"
	writeEveryNRecords = 50
)

// FrameLogger wraps an io.Reader and tees every chunk read from it into a
// capture file on disk, timestamped relative to when logging started. The
// wrapped Reader can be handed straight to protocol.NewDecoder in place of
// the raw serial port; nothing downstream needs to know it is being
// recorded.
type FrameLogger struct {
	r       io.Reader
	w       *bufio.Writer
	file    *os.File
	start   time.Time
	records int
}

// NewFrameLogger opens a fresh capture file under dir (defaulting to
// "logs" when dir is empty) and returns a FrameLogger wrapping r.
func NewFrameLogger(r io.Reader, dir string) (*FrameLogger, error) {
	if dir == "" {
		dir = logDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	path := utils.NextAvailableFilename(dir, logName, logExt)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.Printf("sportident: capturing raw frames to %s", path)

	return &FrameLogger{
		r:     r,
		w:     bufio.NewWriterSize(file, 1<<16),
		file:  file,
		start: time.Now(),
	}, nil
}

// Read implements io.Reader, passing through to the wrapped reader while
// recording every chunk it returns.
func (l *FrameLogger) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	if n > 0 {
		millis := uint32(time.Since(l.start).Milliseconds())
		if werr := WriteRecord(l.w, Record{Millis: millis, Data: append([]byte(nil), p[:n]...)}); werr != nil {
			log.Printf("sportident: capture write failed: %v", werr)
		} else {
			l.records++
			if l.records%writeEveryNRecords == 0 {
				_ = l.w.Flush()
			}
		}
	}
	return n, err
}

// Close flushes any buffered records and closes the underlying file.
func (l *FrameLogger) Close() error {
	_ = l.w.Flush()
	return l.file.Close()
}
