package dbmysql

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"messageapi/internal/config"
	"messageapi/internal/logging"
)

// NewMySQL returns a GORM DB instance connected to MySQL with the messages
// table migrated.
func NewMySQL(cnf *config.Config, log *slog.Logger) (*gorm.DB, error) {
	dsn := cnf.DSN()

	log.Info("Connecting to MySQL",
		"host", cnf.Database.Host,
		"port", cnf.Database.Port,
		"database", cnf.Database.DatabaseName,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logging.NewGormLogger(log),
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql.DB error: %w", err)
	}
	sqlDB.SetMaxOpenConns(cnf.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cnf.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info("Connected to MySQL successfully")
	return db, nil
}

// Migrate creates or updates the messages table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Message{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("sql.DB error: %w", err)
	}
	return sqlDB.Close()
}
