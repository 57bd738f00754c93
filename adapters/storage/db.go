package storage

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/satriahrh/lumi/config"
	"github.com/satriahrh/lumi/utils/log"
)

// Open connects to the configured database and pings it.
func Open(cfg config.StoreConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.URL)
	case "postgres", "":
		dsn, err := postgresDSN(cfg.URL, cfg.Key)
		if err != nil {
			return nil, err
		}
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying database connection: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// one writer; in-memory databases are per connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpen > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpen)
		}
		if cfg.MaxIdle > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdle)
		}
		if cfg.MaxLife > 0 {
			sqlDB.SetConnMaxLifetime(cfg.MaxLife)
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.With(zap.String("driver", cfg.Driver)).Info("database connection established")
	return db, nil
}

// postgresDSN injects the store key as the role password. Both URL and
// key=value DSNs are accepted.
func postgresDSN(raw, key string) (string, error) {
	if key == "" {
		return raw, nil
	}
	if !strings.Contains(raw, "://") {
		if strings.Contains(raw, "password=") {
			return raw, nil
		}
		return strings.TrimSpace(raw + " password=" + key), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	if u.User == nil {
		return "", fmt.Errorf("database url has no user")
	}
	if _, has := u.User.Password(); !has {
		u.User = url.UserPassword(u.User.Username(), key)
	}
	return u.String(), nil
}
