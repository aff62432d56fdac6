package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/dpetrov/auth-service/internal/config"
	"github.com/dpetrov/auth-service/internal/handler"
	"github.com/dpetrov/auth-service/internal/hash"
	"github.com/dpetrov/auth-service/internal/repository"
	"github.com/dpetrov/auth-service/internal/service"
	"github.com/dpetrov/auth-service/internal/token"
	"github.com/dpetrov/auth-service/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if cfg.JWTSecretIsDefault() {
		logger.Warn("JWT_SECRET is not set, using the built-in fallback secret; tokens are forgeable, do not run like this in production")
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	if err := repository.RunMigrations(context.Background(), db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	hasher := hash.NewBcryptHasher()
	issuer := token.NewIssuer(cfg.JWTSecret)
	var sender *email.Sender
	if cfg.SMTPHost != "" {
		sender = email.NewSender(cfg, logger)
	}
	svc := service.NewService(repo, hasher, issuer, sender, logger)
	h := handler.NewHandler(svc, logger)

	// Setup router
	r := mux.NewRouter()
	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/register", h.Register).Methods("POST")
	auth.HandleFunc("/login", h.Login).Methods("POST")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
