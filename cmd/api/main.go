package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"exoticafarms/internal/config"
	"exoticafarms/internal/database"
	"exoticafarms/internal/repository"
	"exoticafarms/internal/server"
	"exoticafarms/internal/services"
	"exoticafarms/internal/util"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 15 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 60 * time.Second
)

func main() {
	configPath := pflag.StringP("config", "c", "", "optional YAML file overlaid on environment configuration")
	pflag.Parse()

	log.SetPrefix("[API] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting %s v%s", cfg.App.Name, cfg.App.Version)
	log.Printf("Environment: debug=%v, port=%s, host=%s, strict_transitions=%v",
		cfg.App.Debug, cfg.App.Port, cfg.App.Host, cfg.Workflow.StrictTransitions)

	log.Println("Initializing database connection...")
	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		log.Println("Closing database connections...")
		if err := database.Close(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Initializing services...")
	sessions, err := util.NewSessionManager(cfg.Auth.SecretKey, cfg.Auth.SessionTTL())
	if err != nil {
		log.Fatalf("Failed to initialize sessions: %v", err)
	}
	messenger, err := services.NewMessenger(&cfg.WhatsApp)
	if err != nil {
		log.Fatalf("Failed to initialize WhatsApp: %v", err)
	}
	mailer := services.NewSMTPMailer(&cfg.Email)
	if !mailer.IsEnabled() {
		log.Println("Email delivery disabled; messages will be logged only")
	}
	notifier := services.NewDispatcher(mailer, messenger, cfg.Email.AdminNotifyEmail)

	enquiryRepo := repository.NewEnquiryRepository(db)
	testimonialRepo := repository.NewTestimonialRepository(db)
	testimonialSvc := services.NewTestimonialService(testimonialRepo)

	if cfg.Workflow.SeedTestimonials {
		if _, err := testimonialSvc.SeedDefaults(context.Background()); err != nil {
			log.Printf("Warning: could not seed testimonials: %v", err)
		}
	}

	handler := server.New(cfg, server.Services{
		Health:       services.NewHealthService(db, cfg.App.Name),
		Auth:         services.NewAuthService(repository.NewAdminRepository(db), sessions, cfg.Auth, !cfg.App.Debug),
		Enquiries:    services.NewEnquiryService(enquiryRepo, notifier, cfg.Workflow.StrictTransitions),
		Testimonials: testimonialSvc,
		Dashboard:    services.NewDashboardService(enquiryRepo, testimonialRepo),
	})

	addr := fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorLog:     log.New(os.Stderr, "[HTTP] ", log.LstdFlags),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server error: %w", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatalf("Server failed to start: %v", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v. Starting graceful shutdown...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Error during graceful shutdown: %v", err)
		if errors.Is(err, context.DeadlineExceeded) {
			log.Println("Shutdown timeout exceeded, forcing close...")
			httpServer.Close()
		}
	}

	log.Println("Server shutdown complete")
}
