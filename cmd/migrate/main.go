package main

import (
	"github.com/SofiaUmrish/sneaker-drop/internal/config" // Custom import path (Config)
	"github.com/SofiaUmrish/sneaker-drop/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Create tables and seed lookup data
}
