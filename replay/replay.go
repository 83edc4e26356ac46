package replay

import (
	"bufio"
	"errors"
	"io"
	"log"
	"os"
	"time"

	"sportident/diagnostics"
)

// Player re-emits a captured raw frame log at a configurable rate, so that
// card-reading logic can run against a recorded session without real
// hardware attached.
type Player struct {
	Path       string
	Speed      float64
	Loop       bool
	SkipFrames int
}

// NewPlayer returns a Player configured from the given capture path and
// playback options.
func NewPlayer(path string, speed float64, loop bool, skipFrames int) *Player {
	return &Player{Path: path, Speed: speed, Loop: loop, SkipFrames: skipFrames}
}

// Run writes the capture's recorded byte chunks to w, pacing them by their
// recorded timestamps unless Speed is 0 (as fast as possible). It loops
// back to the start of the file when Loop is set, and otherwise returns
// once the file is exhausted.
func (p *Player) Run(w io.Writer) error {
	for {
		if err := p.playOnce(w); err != nil {
			return err
		}
		if !p.Loop {
			return nil
		}
	}
}

func (p *Player) playOnce(w io.Writer) error {
	file, err := os.Open(p.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("sportident: couldn't close replay file: %v", err)
		}
	}()

	r := bufio.NewReaderSize(file, 1<<16)

	var (
		first  = true
		prevMS int64
	)

	frameIndex := 0
	for {
		rec, err := diagnostics.ReadRecord(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, diagnostics.ErrBadChecksum) {
				log.Printf("sportident: skipping corrupt capture record")
				continue
			}
			return err
		}

		if frameIndex < p.SkipFrames {
			frameIndex++
			continue
		}

		if first {
			first = false
			prevMS = int64(rec.Millis)
		}

		if p.Speed > 0 {
			delta := time.Duration(int64(rec.Millis)-prevMS) * time.Millisecond
			if delta > 0 {
				time.Sleep(time.Duration(float64(delta) / p.Speed))
			}
			prevMS = int64(rec.Millis)
		}

		if _, err := w.Write(rec.Data); err != nil {
			return err
		}

		frameIndex++
	}
}
