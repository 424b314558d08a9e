package main

import (
	"log"
	"net/http"

	_ "github.com/lib/pq"

	"github.com/alshamelpay/withdrawal_bot/internal/config"
	"github.com/alshamelpay/withdrawal_bot/internal/db"
	"github.com/alshamelpay/withdrawal_bot/internal/intake"
	"github.com/alshamelpay/withdrawal_bot/internal/logger"
	"github.com/alshamelpay/withdrawal_bot/internal/requests"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v\n", err)
	}

	logger.Init(cfg.LogLevel)

	if cfg.IntakeToken == "" {
		logger.Log.Fatal("INTAKE_TOKEN is required")
	}

	database, err := db.New(cfg)
	if err != nil {
		logger.Log.Fatalf("Error connecting to database: %v", err)
	}
	defer database.Close()

	requestRepo := db.NewWithdrawalRequestRepository(database.Conn)
	adminRepo := db.NewAdminRepository(database.Conn)
	requestService := requests.NewService(requestRepo, adminRepo)

	handler := intake.NewHandler(requestService, cfg.IntakeToken, logger.Log)

	logger.Log.Infof("Intake API listening on %s", cfg.IntakeAddr)

	if err := http.ListenAndServe(cfg.IntakeAddr, handler.Routes()); err != nil {
		logger.Log.Fatalf("Intake server stopped: %v", err)
	}
}
