package schema

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate creates or updates the five UnitHub tables.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	for _, m := range Models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return fmt.Errorf("failed to parse model %T: %w", m, err)
		}
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", stmt.Schema.Table, err)
		}
		logger.Info("Migrated table", zap.String("table", stmt.Schema.Table))
	}
	return nil
}
