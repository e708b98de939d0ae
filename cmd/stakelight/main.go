package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/stakelight/stakelight"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg, err := stakelight.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET environment variable is required")
	}
	if cfg.AuthVerifyURL == "" {
		log.Fatal("AUTH_VERIFY_URL environment variable is required")
	}

	app := stakelight.New(cfg, siteViews())
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
