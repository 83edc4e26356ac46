package config

import "flag"

// Mode selects what source cmd/monitor reads card events from.
type Mode string

const (
	Live   Mode = "live"
	Replay Mode = "replay"
)

// Flags are the settings shared by the command-line programs in cmd/.
type Flags struct {
	Mode Mode
	Addr string
}

// SerialFlags configure the serial port a live Reader connects over.
type SerialFlags struct {
	Port string // device path, or "auto" to scan for a SportIdent USB adapter
}

// ReplayFlags configure replay.Player, which re-emits a captured raw frame
// log at a configurable rate instead of talking to real hardware.
type ReplayFlags struct {
	Path       string
	Speed      float64
	Loop       bool
	SkipFrames int
}

// LogFlags configure diagnostics.FrameLogger, which tees every raw frame
// read from a live station to a capture file on disk.
type LogFlags struct {
	Dir string
}

const defaultListenAddr = ":8080"

// GetFlags parses the command line and returns the flag groups relevant to
// the calling program. Programs that don't need a group (e.g. cmd/readcard
// has no use for LogFlags) simply ignore the return value they don't use.
func GetFlags() (*Flags, *SerialFlags, *ReplayFlags, *LogFlags) {
	flags := &Flags{}
	var modeStr string
	flag.StringVar(&modeStr, "mode", "live", "card event source: 'live' or 'replay'")
	flag.StringVar(&flags.Addr, "addr", defaultListenAddr, "http listen address")

	serial := &SerialFlags{}
	flag.StringVar(&serial.Port, "port", "auto", "serial device path or 'auto'")

	replay := &ReplayFlags{}
	flag.StringVar(&replay.Path, "replay", "", "path to a captured raw frame log to replay")
	flag.Float64Var(&replay.Speed, "replay-speed", 1.0, "replay speed multiplier (0 = as fast as possible)")
	flag.BoolVar(&replay.Loop, "replay-loop", false, "loop the replay at EOF")
	flag.IntVar(&replay.SkipFrames, "replay-skip-frames", 0, "skip this many frames from the start of the log")

	logFlags := &LogFlags{}
	flag.StringVar(&logFlags.Dir, "log-dir", "logs", "directory raw frame captures are written to")

	flag.Parse()

	flags.Mode = Mode(modeStr)

	return flags, serial, replay, logFlags
}
