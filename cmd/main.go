package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"sup-api/api"
	"sup-api/auth"
	"sup-api/moderation"
	"sup-api/observability"
	"sup-api/repositories"
	"sup-api/search"
	"sup-api/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so every defer executes before exit.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Document store (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Full-text index (Bluge)
	index, err := search.Open(config.BlugeFilepath, log)
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = index.Close()
	}()

	// 4. Optional moderation
	var moderator *moderation.Moderator
	if config.CensoredWordsFile != "" {
		censorChar, err := censorRune(config.CensorCharacter)
		if err != nil {
			return err
		}
		moderator, err = moderation.NewModeratorFromFile(config.CensoredWordsFile, censorChar)
		if err != nil {
			return fmt.Errorf("loading censored words failed: %w", err)
		}
		log.Info("Moderation enabled", "wordlist", config.CensoredWordsFile)
	}

	// 5. Repositories, services, token issuer
	userRepository := repositories.NewUserRepository(db)
	messageRepository := repositories.NewMessageRepository(db, log, config.LimitMessages)
	userService := services.NewUserService(userRepository)
	messageService := services.NewMessageService(messageRepository, userRepository, index, moderator, log)

	secret := config.TokenSecret
	if secret == "" {
		// Issued tokens will not survive a restart; Basic auth always works.
		secret = randomSecret()
		log.Warn("TOKEN_SECRET not set, using a random per-process secret")
	}
	issuer := auth.NewTokenIssuer(secret, config.TokenDuration)
	monitor := observability.NewMonitor(log)

	// 6. HTTP server
	router := api.NewRouter(api.Dependencies{
		Log:      log,
		Users:    userService,
		Messages: messageService,
		Issuer:   issuer,
		Monitor:  monitor,
	})
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: router}

	// 7. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	log.Info("Program stopped cleanly")

	return nil
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
