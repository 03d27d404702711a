package db

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"allgroub-ledger/internal/domain/borrower"
	"allgroub-ledger/internal/domain/investor"
	"allgroub-ledger/internal/domain/user"
)

// OpenGorm connects to MySQL and verifies the connection with a ping.
func OpenGorm(dsn string, log *logrus.Logger) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn), log)
}

func OpenGormWithDialector(dial gorm.Dialector, log *logrus.Logger) (*gorm.DB, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	cfg := &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormLevel(log.GetLevel()),
			IgnoreRecordNotFoundError: true,
		}),
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	log.WithField("dialect", dial.Name()).Info("gorm: connected")
	return db, nil
}

// Migrate creates or updates the tables the ledger reads and writes.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&borrower.Borrower{}, &investor.Investor{}, &user.User{})
}

func gormLevel(l logrus.Level) logger.LogLevel {
	switch {
	case l >= logrus.DebugLevel:
		return logger.Info
	case l >= logrus.WarnLevel:
		return logger.Warn
	default:
		return logger.Error
	}
}
