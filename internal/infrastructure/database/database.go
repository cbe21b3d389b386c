package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the embedded sqlite database. The DSN is expected to
// carry WAL and busy-timeout pragmas; sqlite still allows only one
// writer, so the connection pool is capped accordingly.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}
