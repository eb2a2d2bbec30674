package main

import (
	"flag"
	"fmt"
	"log"

	"florist-backend/internal/config"
	"florist-backend/internal/database"
)

func main() {
	var (
		seed = flag.Bool("seed", false, "Insert reference data after migration")
		help = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fmt.Println("Usage: migrate [-seed]")
		flag.PrintDefaults()
		return
	}

	cfg := config.Load()
	database.Init(cfg)
	defer database.Close()

	if *seed {
		if err := database.Seed(database.DB); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		log.Println("Reference data seeded.")
	}
	log.Println("Migration completed.")
}
