package main

import (
	"context"
	"log"

	"civics-tutor-be/internal/bootstrap"
	"civics-tutor-be/internal/config"
	"civics-tutor-be/internal/server"
	"civics-tutor-be/internal/tracer"
	"civics-tutor-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database (postgres backend only)
	var gormDB *gorm.DB
	if cfg.Corpus.Backend == "postgres" {
		var err error
		gormDB, err = database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Logger.Sync()

	// 4. Start Background Services
	go container.Hub.Run()
	if err := container.SessionConsumer.Consume(context.Background()); err != nil {
		log.Panicf("Unable to start session consumer: %v", err)
	}

	// 5. Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
