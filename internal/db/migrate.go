package db

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"gift_catalog/internal/model"
)

// Migrate runs database migrations for all models
func Migrate(gdb *gorm.DB, log *logrus.Entry) error {
	log.Info("Starting database migration...")

	models := []interface{}{
		&model.User{},
		&model.Tag{},
		&model.Certificate{},
		&model.CertificateTag{},
		&model.Order{},
		&model.OrderCertificate{},
	}

	if err := gdb.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Infof("Database migration completed (%d tables)", len(models))
	return nil
}
