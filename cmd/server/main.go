package main

import (
	"log"

	"florist-backend/internal/config"
	"florist-backend/internal/database"
	"florist-backend/internal/reports"
	"florist-backend/internal/server"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)
	defer database.Close()

	app := server.New(cfg, reports.NewWorkspace())

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
