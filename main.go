package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/kth-biblioteket/fragematning/internal/backup"
	"github.com/kth-biblioteket/fragematning/internal/config"
	"github.com/kth-biblioteket/fragematning/internal/database"
	"github.com/kth-biblioteket/fragematning/internal/realtime"
	"github.com/kth-biblioteket/fragematning/internal/router"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// ensure basic directories exist
	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	if err := ensureDir(cfg.Backup.Dir); err != nil {
		log.Fatalf("create backup dir: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// scheduled backups
	if cfg.Backup.Schedule != "" {
		if _, err := backup.Schedule(cfg.Backup.Schedule, db, cfg.Backup.Dir); err != nil {
			log.Fatalf("start backup schedule: %v", err)
		}
	}

	// notification hub for open dashboards
	hub := realtime.NewHub()

	// setup router
	r := router.SetupRouter(cfg, db, hub)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
