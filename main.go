package main

import (
	"os"

	"github.com/kalendo/kalendo/internal/app"
	log "github.com/sirupsen/logrus"
)

func init() {
	if level, ok := os.LookupEnv("KALENDO_LOG_LEVEL"); ok {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			log.Fatalf("invalid KALENDO_LOG_LEVEL %q: %v", level, err)
		}
		log.SetLevel(parsed)
	}
}

func main() {
	application, err := app.NewApplication()
	if err != nil {
		log.Fatalf("kalendo failed to start: %v", err)
	}
	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}
