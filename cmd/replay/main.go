package main

import (
	"flag"
	"log"
	"os"

	"sportident/replay"
)

func main() {
	path := flag.String("replay", "", "path to a captured raw frame log to replay")
	speed := flag.Float64("replay-speed", 1.0, "replay speed multiplier (0 = as fast as possible)")
	loop := flag.Bool("replay-loop", false, "loop the replay at EOF")
	skip := flag.Int("replay-skip-frames", 0, "skip this many frames from the start of the log")
	flag.Parse()

	if *path == "" {
		log.Fatal("sportident: -replay is required")
	}

	player := replay.NewPlayer(*path, *speed, *loop, *skip)
	if err := player.Run(os.Stdout); err != nil {
		log.Fatalf("sportident: replay failed: %v", err)
	}
}
