package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken            string
	MasterAdminID       int64
	MasterAdminUsername string
	DBUser              string
	DBPassword          string
	DBName              string
	DBHost              string
	DBPort              string
	IntakeAddr          string
	IntakeToken         string
	LogLevel            string
}

func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Printf("config.Load: no .env file found - using env variables")
	}

	cfg := &Config{
		BotToken:            os.Getenv("BOT_TOKEN"),
		MasterAdminUsername: os.Getenv("MASTER_ADMIN_USERNAME"),
		DBUser:              os.Getenv("DB_USER"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBName:              os.Getenv("DB_NAME"),
		DBHost:              os.Getenv("DB_HOST"),
		DBPort:              os.Getenv("DB_PORT"),
		IntakeAddr:          os.Getenv("INTAKE_ADDR"),
		IntakeToken:         os.Getenv("INTAKE_TOKEN"),
		LogLevel:            os.Getenv("LOG_LEVEL"),
	}

	// BOT_TOKEN и MASTER_ADMIN_ID нужны только бот-процессу,
	// их обязательность проверяет cmd/adminbot.
	if masterID := os.Getenv("MASTER_ADMIN_ID"); masterID != "" {
		cfg.MasterAdminID, err = strconv.ParseInt(masterID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("config.Load: MASTER_ADMIN_ID must be an integer: %w", err)
		}
	}

	if cfg.DBUser == "" || cfg.DBPassword == "" || cfg.DBName == "" {
		return nil, fmt.Errorf("config.Load: DB_USER, DB_PASSWORD, DB_NAME are required")
	}

	if cfg.MasterAdminUsername == "" {
		cfg.MasterAdminUsername = "MasterAdmin"
	}

	if cfg.DBHost == "" {
		cfg.DBHost = "localhost"
	}

	if cfg.DBPort == "" {
		cfg.DBPort = "5432"
	}

	if cfg.IntakeAddr == "" {
		cfg.IntakeAddr = ":8081"
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}
