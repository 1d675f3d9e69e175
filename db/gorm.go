package db

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mojtabanasehzadeh/music-distribution-service/config"
	"github.com/mojtabanasehzadeh/music-distribution-service/logger"
)

// GormDB coexists with DB (*sql.DB); the stream repository uses it while
// the other repositories stay on database/sql.
var GormDB *gorm.DB

// ConnectGormDB establishes the GORM connection used by the stream
// repository. Independent of ConnectDB.
func ConnectGormDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	GormDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to open gorm connection: %w", err)
	}

	sqlDB, err := GormDB.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying gorm connection: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info("successfully connected gorm")
	return nil
}

// MigrateGorm creates the streams table managed through GORM.
func MigrateGorm(models ...any) error {
	if GormDB == nil {
		return fmt.Errorf("gorm connection not initialized")
	}
	if err := GormDB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run gorm migration: %w", err)
	}
	return nil
}
