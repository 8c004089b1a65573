package configs

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	"phqa_backend/internals/helpers/logger"
)

var (
	AppEnv    string
	JWTSecret string

	DBDriver     string
	SQLitePath   string
	RedisAddr    string
	AnalyticsTTL time.Duration

	StorageDriver        string
	StorageLocalDir      string
	StoragePublicBaseURL string
	GCSBucket            string

	SchoolTimezone string
)

// =======================
// ENV LOADER
// =======================

// InitLogger memuat .env lebih dulu supaya APP_ENV dari file ikut menentukan mode logger.
// ENV sistem tidak ditimpa.
func InitLogger() error {
	loadDotEnv()
	return logger.Init(GetEnv("APP_ENV", "development"))
}

var (
	dotenvOnce sync.Once
	dotenvErr  error
)

func loadDotEnv() error {
	dotenvOnce.Do(func() { dotenvErr = godotenv.Load() })
	return dotenvErr
}

func LoadEnv() {
	if err := loadDotEnv(); err != nil {
		logger.Info("⚠️ .env tidak ditemukan, memakai ENV sistem")
	} else {
		logger.Info("✅ .env berhasil dimuat")
	}

	AppEnv = GetEnv("APP_ENV", "development")
	JWTSecret = GetEnv("JWT_SECRET")

	DBDriver = strings.ToLower(GetEnv("DB_DRIVER", "postgres"))
	SQLitePath = GetEnv("DB_SQLITE_PATH", "phqa.db")
	RedisAddr = GetEnv("REDIS_ADDR")
	AnalyticsTTL = GetDuration("ANALYTICS_CACHE_TTL", 5*time.Minute)

	StorageDriver = strings.ToLower(GetEnv("STORAGE_DRIVER", "local"))
	StorageLocalDir = GetEnv("STORAGE_LOCAL_DIR", "./uploads")
	StoragePublicBaseURL = GetEnv("STORAGE_PUBLIC_BASE_URL", "/uploads")
	GCSBucket = GetEnv("GCS_BUCKET")

	SchoolTimezone = GetEnv("SCHOOL_TIMEZONE", "Asia/Bangkok")

	if JWTSecret == "" {
		logger.Warn("❌ JWT_SECRET belum diset!")
	}
	if RedisAddr == "" {
		logger.Info("REDIS_ADDR kosong, cache analytics memakai memori proses")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return strings.TrimSpace(value)
}

func GetInt(key string, def int) int {
	if v := GetEnv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func GetDuration(key string, def time.Duration) time.Duration {
	if v := GetEnv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

// =======================
// GORM LOGGER CUSTOM (zap)
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if AppEnv == "development" {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		logger.L().SugaredLogger.Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		logger.L().SugaredLogger.Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		logger.L().SugaredLogger.Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && !errors.Is(err, gormLogger.ErrRecordNotFound) && l.LogLevel >= gormLogger.Error:
		logger.Error("[SQL ERROR]", "file", file, "error", err, "elapsed", elapsed, "rows", rows, "sql", sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		logger.Warn("[SLOW SQL]", "file", file, "elapsed", elapsed, "rows", rows, "sql", sql)
	case l.LogLevel >= gormLogger.Info:
		logger.Debug("[QUERY]", "file", file, "elapsed", elapsed, "rows", rows, "sql", sql)
	}
}
