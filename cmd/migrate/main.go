// Command migrate applies the database schema. Connect skips AutoMigrate in
// production, so deployments run this explicitly before rolling the server.
package main

import (
	"flag"
	"log"

	"chirp/internal/config"
	"chirp/internal/database"
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("schema migration complete")
}
