package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/websitemybusiness/contact-relay/internal/api"
	"github.com/websitemybusiness/contact-relay/internal/auth"
	"github.com/websitemybusiness/contact-relay/internal/config"
	"github.com/websitemybusiness/contact-relay/internal/mailer"
	"github.com/websitemybusiness/contact-relay/internal/ratelimit"
	"github.com/websitemybusiness/contact-relay/internal/repository/postgres"
	"github.com/websitemybusiness/contact-relay/internal/service/contact"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// checkPortAvailable verifies that the target port is not already in use.
// This prevents confusion from stale processes occupying the port.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

func extractHost(dsn string) string {
	at := strings.Index(dsn, "@")
	if at < 0 {
		return "(unknown)"
	}
	rest := dsn[at+1:]
	slash := strings.Index(rest, "/")
	if slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}

func main() {
	log.Println("Contact Relay server starting")

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("DATABASE_URL") != "" {
		log.Println("[config] DATABASE_URL env override active")
	}

	// Pre-flight check: verify the target port is available
	host := cfg.Server.GetHost()
	port := cfg.Server.Port
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}
	log.Printf("Pre-flight check passed: port %d is available", port)

	// Database
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL (or database.url in config) is required")
	}
	dbURL := cfg.Database.URL
	if !strings.Contains(dbURL, "connect_timeout") {
		sep := "?"
		if strings.Contains(dbURL, "?") {
			sep = "&"
		}
		dbURL += sep + "connect_timeout=5"
	}
	log.Printf("DB URL host portion: ...@%s/...", extractHost(dbURL))

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(3)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.Database.Timeout())
	if err := db.PingContext(pingCtx); err != nil {
		pingCancel()
		log.Fatalf("Database ping failed: %v", err)
	}
	pingCancel()
	log.Println("Database connected")

	repo := postgres.NewSubmissionRepo(db)

	// Rate limiting: Redis when configured, otherwise count rows in Postgres.
	var limiter ratelimit.Counter = repo
	if cfg.Redis.Enabled && cfg.Redis.URL != "" {
		redisCounter, err := ratelimit.NewRedisCounterFromURL(cfg.Redis.URL)
		if err != nil {
			log.Printf("Warning: Redis unavailable (%v), falling back to Postgres rate counting", err)
		} else {
			limiter = redisCounter
			log.Printf("Redis rate limiting enabled: %s", cfg.Redis.URL)
		}
	}

	// Email provider: SES when enabled, Resend otherwise.
	var provider mailer.Provider
	if cfg.SES.Enabled {
		sesProvider, err := mailer.NewSESProvider(context.Background(), cfg.SES)
		if err != nil {
			log.Fatalf("Failed to initialize SES provider: %v", err)
		}
		provider = sesProvider
		log.Printf("Email provider: AWS SES (%s)", cfg.SES.Region)
	} else {
		if cfg.Resend.APIKey == "" {
			log.Println("Warning: RESEND_API_KEY not set, email dispatch will fail")
		}
		provider = mailer.NewResendProvider(cfg.Resend)
		log.Println("Email provider: Resend")
	}

	renderer, err := mailer.NewRenderer(cfg.Contact.BusinessName, cfg.Contact.ContactPhone, cfg.Contact.WhatsApp)
	if err != nil {
		log.Fatalf("Failed to compile email templates: %v", err)
	}

	svc := contact.NewService(repo, limiter, provider, renderer, cfg.Contact)

	// Google OAuth for the admin dashboard, if configured
	var authManager *auth.Manager
	if cfg.Auth.Enabled && cfg.Auth.GoogleClientID != "" {
		baseURL := fmt.Sprintf("http://%s:%d", host, port)
		if envURL := os.Getenv("AUTH_BASE_URL"); envURL != "" {
			baseURL = envURL
		}
		authManager = auth.NewManager(&cfg.Auth, baseURL, postgres.NewAdminRoleRepo(db))
		authManager.CleanupExpiredSessions()
		log.Printf("Google OAuth enabled (callback: %s/auth/callback)", baseURL)
	} else {
		log.Println("Authentication disabled; admin API is unprotected")
	}

	handlers := api.NewHandlers(svc, cfg)
	router := api.SetupRoutes(handlers, authManager)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
