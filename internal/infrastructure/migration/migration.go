package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks the strategy for the database driver: versioned goose
// scripts for MySQL, AutoMigrate for SQLite.
func NewManager(driver string) (*Manager, error) {
	switch driver {
	case "mysql":
		return NewManagerWithStrategy(NewGooseStrategy()), nil
	case "sqlite":
		return NewManagerWithStrategy(NewGormAutoMigrateStrategy()), nil
	}
	return nil, fmt.Errorf("no migration strategy for driver %q", driver)
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   logger.WithComponent("migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed",
			"strategy", m.strategy.GetName(),
			"error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

// Rollback reverts the given number of versions. Only goose supports it.
func (m *Manager) Rollback(db *gorm.DB, steps int) error {
	g, ok := m.strategy.(*GooseStrategy)
	if !ok {
		return fmt.Errorf("strategy %s does not support rollback", m.strategy.GetName())
	}
	return g.MigrateDown(db, steps)
}

// Version reports the applied schema version. AutoMigrate has no versions.
func (m *Manager) Version(db *gorm.DB) (int64, error) {
	g, ok := m.strategy.(*GooseStrategy)
	if !ok {
		return 0, fmt.Errorf("strategy %s is not versioned", m.strategy.GetName())
	}
	return g.GetVersion(db)
}

// Status prints the applied versions. Only goose supports it.
func (m *Manager) Status(db *gorm.DB) error {
	g, ok := m.strategy.(*GooseStrategy)
	if !ok {
		return fmt.Errorf("strategy %s is not versioned", m.strategy.GetName())
	}
	return g.Status(db)
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
