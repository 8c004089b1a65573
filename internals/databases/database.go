package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"phqa_backend/internals/configs"
	"phqa_backend/internals/helpers/logger"
)

var DB *gorm.DB

func ConnectDB() {
	var (
		db  *gorm.DB
		err error
	)

	switch configs.DBDriver {
	case "sqlite":
		logger.Info("🔌 Koneksi ke SQLite...", "path", configs.SQLitePath)
		db, err = gorm.Open(sqlite.Open(configs.SQLitePath+"?_foreign_keys=on"), &gorm.Config{
			Logger: configs.NewGormLogger(),
		})
	default:
		logger.Info("🔌 Koneksi ke PostgreSQL...")
		// statement_timeout selaras dengan timeout request (5s) di main.go
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=phqa&options=-c statement_timeout=3000",
			configs.GetEnv("DB_USER"),
			configs.GetEnv("DB_PASSWORD"),
			configs.GetEnv("DB_HOST", "localhost"),
			configs.GetEnv("DB_PORT", "5432"),
			configs.GetEnv("DB_NAME"),
			configs.GetEnv("DB_SSLMODE", "require"),
		)
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
		}), &gorm.Config{
			Logger: configs.NewGormLogger(),
		})
	}
	if err != nil {
		logger.Fatal("❌ Gagal konek DB", "driver", configs.DBDriver, "error", err)
	}
	DB = db
	logger.Info("✅ DB connected.", "driver", configs.DBDriver)
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		logger.Warn("pool tune err", "error", err)
		return
	}
	if configs.DBDriver == "sqlite" {
		// sqlite: satu writer
		sqlDB.SetMaxOpenConns(1)
		return
	}
	sqlDB.SetMaxOpenConns(configs.GetInt("DB_MAX_OPEN_CONNS", 20))
	sqlDB.SetMaxIdleConns(configs.GetInt("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond) // beri waktu server naik
		if err := ping(); err != nil {
			logger.Warn("warm-up ping err", "error", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
