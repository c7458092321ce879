package main

import (
	"log"

	"github.com/aTrapDeer/portfolio-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("portfolio backend failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("portfolio backend failed: %v", err)
	}
}
