/*
main.go - Leave-request service entry point

STARTUP SEQUENCE:
  1. Load environment configuration (.env honored)
  2. Build the zap logger
  3. Wire the directory, approval, and IP-echo clients
  4. Start the session sweeper and HTTP server
  5. Shut down gracefully on SIGINT/SIGTERM

ENVIRONMENT:
  DIRECTORY_URL        worker-directory lookup endpoint (required)
  APPROVAL_URL         approval submission endpoint (defaults to directory)
  IP_ECHO_URL          what-is-my-IP echo service
  SCHEDULE_VARIANT     "standard" (17:00) or "extended" (17:10)
  APP_HOST, APP_PORT   bind address (default 0.0.0.0:8080)
  SESSION_TTL_MINUTES  idle-session expiry (default 120)
  LOG_LEVEL            zap level (default info)
*/
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Vinoisasian/jingshin-leave-public/api"
	"github.com/Vinoisasian/jingshin-leave-public/approval"
	"github.com/Vinoisasian/jingshin-leave-public/config"
	"github.com/Vinoisasian/jingshin-leave-public/directory"
	"github.com/Vinoisasian/jingshin-leave-public/netinfo"
	"github.com/Vinoisasian/jingshin-leave-public/observability"
	"github.com/Vinoisasian/jingshin-leave-public/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	directoryClient := directory.NewClient(cfg.Endpoints.DirectoryURL)
	approvalClient := approval.NewClient(cfg.Endpoints.ApprovalURL)
	ipClient := netinfo.NewClient(cfg.Endpoints.IPEchoURL)

	sessions := session.NewManager(session.Deps{
		Lookup:   directoryClient.Lookup,
		Approver: approvalClient,
		IPSource: ipClient,
		Schedule: cfg.Schedule(),
		Logger:   logger,
	}, cfg.SessionTTL())

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go sessions.RunSweeper(sweepCtx, 10*time.Minute)

	handler := api.NewHandler(sessions, cfg.Schedule(), logger)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         cfg.App.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.App.Addr()),
			zap.String("schedule", cfg.ScheduleVariant))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
