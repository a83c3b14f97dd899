package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Database wraps DB connectivity. TranslateError is enabled so unique
// violations surface as gorm.ErrDuplicatedKey on both engines; the postgres
// adapters additionally match the raw pg error code.
type Database struct {
	DB *gorm.DB
}

// Connect opens the configured engine: "postgres" with a DSN, or "sqlite"
// with a file path (pure-Go driver, no cgo).
func Connect(driver string, postgresDSN string, sqlitePath string) (*Database, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres":
		if strings.TrimSpace(postgresDSN) == "" {
			return nil, errors.New("postgres dsn is required")
		}
		dialector = postgres.Open(postgresDSN)
	case "sqlite", "":
		if strings.TrimSpace(sqlitePath) == "" {
			return nil, errors.New("sqlite path is required")
		}
		dialector = sqlite.Open(sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open gorm %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve sql db handle: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
