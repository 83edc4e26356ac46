package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"sportident/protocol"
	"sportident/session"
)

func main() {
	port := flag.String("port", "auto", "serial device path or 'auto'")
	withOwner := flag.Bool("owner", false, "also fetch the card's owner data")
	flag.Parse()

	ctx := context.Background()

	reader, err := connect(ctx, *port)
	if err != nil {
		log.Fatalf("couldn't connect to reader: %v", err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			log.Printf("couldn't close reader: %v", err)
		}
	}()

	log.Println("insert a card to read it")

	if *withOwner {
		readout, owner, err := reader.PollCardWithOwnerData(ctx)
		if err != nil {
			log.Fatalf("couldn't read card: %v", err)
		}
		printReadout(readout)
		fmt.Printf("owner: %s %s\n", owner.FirstName, owner.LastName)
		return
	}

	readout, err := reader.PollCard(ctx)
	if err != nil {
		log.Fatalf("couldn't read card: %v", err)
	}
	printReadout(readout)
}

func connect(ctx context.Context, port string) (*session.Reader, error) {
	if port == "auto" {
		return session.AutoConnect(ctx)
	}
	return session.Connect(ctx, port)
}

func printReadout(r *protocol.CardReadout) {
	fmt.Printf("card %d (%s)\n", r.CardNumber, r.CardType)
	if r.Check != nil {
		fmt.Printf("  check:  %s %s\n", r.Check.Time, r.Check.DayOfWeek)
	}
	if r.Start != nil {
		fmt.Printf("  start:  %s\n", formatStartOrFinish(r.Start))
	}
	if r.Finish != nil {
		fmt.Printf("  finish: %s\n", formatStartOrFinish(r.Finish))
	}
	fmt.Printf("  punches: %d\n", len(r.Punches))
	for _, p := range r.Punches {
		fmt.Printf("    code %d at %s (%s, %s week)\n", p.Code, p.Time, p.DayOfWeek, p.WeekCounter)
	}
}

func formatStartOrFinish(p *protocol.StartOrFinishPunch) string {
	if p.SubSecond != nil {
		return fmt.Sprintf("%s (%s, %s week)", p.SubSecond.Time, p.SubSecond.DayOfWeek, p.SubSecond.WeekCounter)
	}
	return fmt.Sprintf("%s (code %d, %s, %s week)", p.Normal.Time, p.Normal.Code, p.Normal.DayOfWeek, p.Normal.WeekCounter)
}
