package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gokatarajesh/slicetomeetyou/internal/app"
	"github.com/gokatarajesh/slicetomeetyou/internal/config"
	httperrors "github.com/gokatarajesh/slicetomeetyou/pkg/http/errors"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	}

	loadCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	cfg, err := config.Load(loadCtx)
	cancel()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	instance, err := app.New(ctx, cfg, app.StdStreams())
	if err != nil {
		log.Fatalf("failed to build app: %v", err)
	}

	if err := instance.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, httperrors.UserMessage(err))
		stop()
		os.Exit(1)
	}
}
