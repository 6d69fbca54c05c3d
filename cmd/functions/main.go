package main

import (
	"context"
	"log"
	"net/http"

	"ai-interview-coach-be/internal/bootstrap"
	"ai-interview-coach-be/internal/config"
	"ai-interview-coach-be/pkg/database"
)

// Serverless-style entrypoint: the same interview operations exposed as plain
// net/http handlers, one route per function.
func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	go func() {
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	addr := ":" + cfg.App.Port
	log.Printf("Functions listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, container.FunctionHandler))
}
