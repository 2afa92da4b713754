/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the finance ledger engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Build ledger service and recurring runner
  4. Start the background scheduler
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port               HTTP server port (default: 8080)
  -db                 SQLite database path (default: ledger.db)
                      Use ":memory:" for in-memory database
  -trigger-interval   How often the scheduler runs the trigger phase
                      (default: 24h; 0 disables the scheduler)
  -reverse-on-delete  Reverse a transaction's balance effect when the
                      row is deleted (default: false)
  -log-level          zerolog level: debug, info, warn, error

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the recurring scheduler and drain in-flight work
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/ledger.db"

  # Run with in-memory database and a fast scheduler
  ./server -db=":memory:" -trigger-interval=1m

SEE ALSO:
  - api/server.go: Router configuration
  - recurring/scheduler.go: Background trigger loop
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finbook/ledger-engine/api"
	"github.com/finbook/ledger-engine/ledger"
	"github.com/finbook/ledger-engine/logger"
	"github.com/finbook/ledger-engine/recurring"
	"github.com/finbook/ledger-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "ledger.db", "SQLite database path")
	triggerInterval := flag.Duration("trigger-interval", 24*time.Hour, "recurring trigger interval (0 disables)")
	reverseOnDelete := flag.Bool("reverse-on-delete", false, "reverse balance effect when deleting a transaction")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	log := logger.New(*logLevel)

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer store.Close()

	// Domain services
	service := ledger.NewService(store)
	service.ReverseOnDelete = *reverseOnDelete

	runner := recurring.NewRunner(store, log, recurring.TriggerBatchLimit)

	var scheduler *recurring.Scheduler
	if *triggerInterval > 0 {
		scheduler = recurring.NewScheduler(runner, log)
		scheduler.TriggerInterval = *triggerInterval
		scheduler.Start()
	}

	// HTTP surface
	handler := api.NewHandler(service, runner, store, log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", *port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	log.Info().Msg("server stopped")
}
