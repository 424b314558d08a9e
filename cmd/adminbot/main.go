package main

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"

	"github.com/alshamelpay/withdrawal_bot/internal/adminbot"
	"github.com/alshamelpay/withdrawal_bot/internal/auth"
	"github.com/alshamelpay/withdrawal_bot/internal/config"
	"github.com/alshamelpay/withdrawal_bot/internal/db"
	"github.com/alshamelpay/withdrawal_bot/internal/logger"
	"github.com/alshamelpay/withdrawal_bot/internal/requests"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v\n", err)
	}

	logger.Init(cfg.LogLevel)

	if cfg.BotToken == "" {
		logger.Log.Fatal("BOT_TOKEN is required")
	}

	if cfg.MasterAdminID == 0 {
		logger.Log.Fatal("MASTER_ADMIN_ID is required")
	}

	database, err := db.New(cfg)
	if err != nil {
		logger.Log.Fatalf("Error connecting to database: %v", err)
	}
	defer database.Close()

	err = db.RunMigrations(database.Conn, "db_scripts/init.sql")
	if err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	adminRepo := db.NewAdminRepository(database.Conn)

	err = adminRepo.SeedMaster(context.Background(), cfg.MasterAdminID, cfg.MasterAdminUsername)
	if err != nil {
		logger.Log.Fatalf("Error seeding master admin: %v", err)
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Log.Fatalf("Error creating Telegram bot: %v", err)
	}

	requestRepo := db.NewWithdrawalRequestRepository(database.Conn)
	requestService := requests.NewService(requestRepo, adminRepo)
	gate := auth.NewGate(adminRepo)

	botService := adminbot.New(botAPI, requestService, gate)

	logger.Log.Infof("Admin bot started as @%s", botAPI.Self.UserName)

	botService.Start()
}
