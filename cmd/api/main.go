package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/phone-verify-api/internal/application/verification"
	"github.com/phone-verify-api/internal/config"
	"github.com/phone-verify-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/phone-verify-api/internal/infrastructure/jwt"
	"github.com/phone-verify-api/internal/infrastructure/memory"
	"github.com/phone-verify-api/internal/infrastructure/sns"
	transporthttp "github.com/phone-verify-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Stores: DynamoDB with native TTL in deployed environments, process-local
	// maps for development runs without an AWS endpoint.
	var pendingStore verification.PendingCodeStore
	var quotaStore verification.QuotaStore
	if cfg.AppEnv == "development" && cfg.AWSEndpointURL == "" {
		log.Println("Using in-memory verification stores (development)")
		pendingStore = memory.NewPendingCodeStore()
		quotaStore = memory.NewQuotaStore()
	} else {
		client := dynamo.NewClient(cfg)
		dynamo.Bootstrap(context.Background(), client, cfg.DynamoTables)
		pendingStore = dynamo.NewPendingCodeRepo(client, cfg.DynamoTables.PendingCodes)
		quotaStore = dynamo.NewQuotaRepo(client, cfg.DynamoTables.SendQuotas)
	}

	// SMS: simulated in development, SNS otherwise (with graceful fallback to
	// the simulator if SNS can't be initialised).
	var smsSender sns.SMSSender
	if cfg.AppEnv == "development" {
		smsSender = sns.NewSimulator()
	} else if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available, falling back to simulator: %v", err)
		smsSender = sns.NewSimulator()
	}

	tokenCodec, err := jwtinfra.NewCodec(cfg)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	deps := &transporthttp.Deps{
		PendingCodes: pendingStore,
		Quotas:       quotaStore,
		SMSSender:    smsSender,
		TokenCodec:   tokenCodec,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
