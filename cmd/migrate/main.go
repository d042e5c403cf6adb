package main

import (
	"errors"
	"os"
	"strings"

	"main/internal/infrastructure/models"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	_ = godotenv.Load()

	dsn, err := loadDSN()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logger.Fatalf("connect postgres: %v", err)
	}

	if err := db.AutoMigrate(
		&models.AccountModel{},
		&models.TransactionModel{},
		&models.BalanceSnapshotModel{},
	); err != nil {
		logger.Fatalf("migrate schema: %v", err)
	}

	logger.Info("schema migration finished")
}

func loadDSN() (string, error) {
	dsn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if dsn == "" {
		return "", errors.New("DATABASE_DSN is required")
	}
	return dsn, nil
}
