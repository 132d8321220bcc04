package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/noah-isme/edu-archive-api/internal/app"
	"github.com/noah-isme/edu-archive-api/pkg/cache"
	"github.com/noah-isme/edu-archive-api/pkg/config"
	"github.com/noah-isme/edu-archive-api/pkg/database"
	"github.com/noah-isme/edu-archive-api/pkg/logger"
	"github.com/noah-isme/edu-archive-api/pkg/storage"
)

func main() {
	var (
		username string
		password string
		reset    bool
		timeout  time.Duration
	)

	flag.StringVar(&username, "username", "", "Admin username (defaults to ADMIN_USERNAME)")
	flag.StringVar(&password, "password", "", "Password to set; generated when empty")
	flag.BoolVar(&reset, "reset", false, "Reset the password of an existing admin")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if username == "" {
		username = cfg.Admin.Username
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	rdb, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	store, err := storage.NewLocalStorage(cfg.Uploads.Dir, cfg.Uploads.MaxFileSizeBytes)
	if err != nil {
		log.Fatalf("failed to open upload dir: %v", err)
	}

	auth := app.New(app.Dependencies{Config: cfg, DB: db, Redis: rdb, Store: store, Logger: logr}).Auth

	if reset {
		generated, err := auth.ResetPassword(ctx, username, password)
		if err != nil {
			log.Fatalf("reset failed: %v", err)
		}
		fmt.Printf("password for %q reset\n", username)
		printGenerated(generated)
		return
	}

	generated, created, err := auth.EnsureAdmin(ctx, username, password)
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	if !created {
		fmt.Printf("admin %q already exists; use -reset to change its password\n", username)
		return
	}
	fmt.Printf("admin %q created\n", username)
	printGenerated(generated)
}

func printGenerated(password string) {
	if password == "" {
		return
	}
	fmt.Printf("generated password: %s\n", password)
	fmt.Println("store it now, it will not be shown again")
}
