package main

import (
	"context"
	"log"

	"sportident/session"
)

func main() {
	reader, err := session.AutoConnect(context.Background())
	if err != nil {
		log.Fatalf("couldn't auto-detect a reader: %v", err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			log.Printf("couldn't close reader: %v", err)
		}
	}()

	conf := reader.SystemConfiguration()
	log.Printf("connected: model %s, serial number %d, mode %v", conf.Model, conf.SerialNumber, conf.Mode)
}
