package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"exoticafarms/internal/config"
	"exoticafarms/internal/database"
	"exoticafarms/internal/repository"
	"exoticafarms/internal/services"
	"exoticafarms/internal/util"
)

// sync_admin makes the stored admin credential match ADMIN_EMAIL and
// ADMIN_PASSWORD without waiting for the next login.
func main() {
	configPath := pflag.StringP("config", "c", "", "optional YAML file overlaid on environment configuration")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	changed, err := run(context.Background(), cfg)
	if err != nil {
		log.Printf("Failed to sync admin: %v", err)
		os.Exit(1)
	}
	if changed {
		fmt.Printf("Admin credential for %s updated from configuration.\n", cfg.Auth.AdminEmail)
		return
	}
	fmt.Printf("Admin credential for %s already matches configuration.\n", cfg.Auth.AdminEmail)
}

// run opens the database, synchronizes the admin and always closes the
// database before returning.
func run(ctx context.Context, cfg *config.Config) (changed bool, err error) {
	db, err := database.Open(&cfg.Database)
	if err != nil {
		return false, fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if cerr := database.Close(db); cerr != nil && err == nil {
			err = fmt.Errorf("close database: %w", cerr)
		}
	}()

	if err := database.Migrate(db); err != nil {
		return false, fmt.Errorf("migrate database: %w", err)
	}
	sessions, err := util.NewSessionManager(cfg.Auth.SecretKey, cfg.Auth.SessionTTL())
	if err != nil {
		return false, fmt.Errorf("init sessions: %w", err)
	}
	auth := services.NewAuthService(repository.NewAdminRepository(db), sessions, cfg.Auth, !cfg.App.Debug)
	return auth.SyncAdmin(ctx)
}
