package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cora-leaf-be/internal/bootstrap"
	"cora-leaf-be/internal/config"
	"cora-leaf-be/internal/server"
	"cora-leaf-be/internal/tracer"
	"cora-leaf-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Tracing
	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled)
	defer shutdownTracer(context.Background())

	// 3. Audit archive database (optional)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		gormDB, err = database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.Debug)
		if err != nil {
			log.Fatalf("Unable to connect to GORM DB: %v", err)
		}
	} else {
		log.Println("DB_CONNECTION_STRING not set, audit archive disabled")
	}

	// 4. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Fatalf("Failed to bootstrap: %v", err)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Start Background Services
	go container.WebSocketHub.Run(ctx)
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Fatalf("Failed to start audit consumer: %v", err)
	}

	// 6. Initialize and run Server
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		_ = srv.Shutdown()
	}()

	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
