package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/thereayou/chatbot-api/internal/config"
	"github.com/thereayou/chatbot-api/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

// run возвращает код выхода: os.Exit вызывается только после отложенных Sync и stop
func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := NewServer(ctx, cfg, log)
	if err != nil {
		log.Error("server init failed", zap.Error(err))
		return 1
	}

	if err := srv.Run(ctx); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		return 1
	}
	return 0
}
