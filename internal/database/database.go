// Package database stores the unit catalog in postgres, or in a local SQLite
// file when postgres is unreachable.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skybreak/forcepool/internal/catalog"
	"github.com/skybreak/forcepool/internal/config"
	"github.com/skybreak/forcepool/internal/model"
	"github.com/skybreak/forcepool/internal/model/convert"
)

// ErrNotConnected is returned when the manager has no usable connection.
var ErrNotConnected = errors.New("database not connected")

// Manager handles database connections and catalog storage.
type Manager struct {
	DB      *gorm.DB
	SqlDB   *sql.DB
	IsValid bool
	IsLocal bool
	Logger  *slog.Logger
}

func NewManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{Logger: log}
}

// Connect opens postgres, falling back to the SQLite file at sqlitePath if
// postgres cannot be reached.
func (m *Manager) Connect(cfg config.DBConfig, sqlitePath string) error {
	var err error

	m.DB, err = OpenPostgres(cfg)
	if err == nil {
		m.SqlDB, err = m.DB.DB()
		if err == nil {
			err = m.SqlDB.Ping()
		}
	}
	if err != nil {
		m.Logger.Error("Failed to connect to Postgres DB, trying SQLite", "error", err)
		return m.ConnectSqlite(sqlitePath)
	}

	m.SqlDB.SetMaxOpenConns(10)
	m.IsValid = true
	m.IsLocal = false
	m.Logger.Info("Connected to database", "host", cfg.Host, "database", cfg.Database)
	return nil
}

// ConnectSqlite opens a SQLite database. An empty path opens a private
// in-memory database.
func (m *Manager) ConnectSqlite(path string) error {
	db, err := OpenSqlite(path)
	if err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to get local SQLite DB: %w", err)
	}
	m.DB = db
	m.SqlDB, err = db.DB()
	if err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	m.IsValid = true
	m.IsLocal = true
	m.Logger.Info("Using local SQLite DB", "path", path)
	return nil
}

// OpenPostgres returns a connection to the configured postgres database.
func OpenPostgres(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
	)

	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

// OpenSqlite returns a connection to a SQLite database file. An empty path
// opens an in-memory database.
func OpenSqlite(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// a second pooled connection to :memory: would see an empty database
	if path == "" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA temp_store = MEMORY;",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	return db, nil
}

// Setup migrates the catalog tables and writes the catalog info row.
func (m *Manager) Setup() error {
	if !m.IsValid || m.DB == nil {
		return ErrNotConnected
	}

	m.Logger.Info("Migrating schema")
	if err := m.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	var info model.CatalogInfo
	err := m.DB.Where(model.CatalogInfo{Name: "forcepool"}).
		Attrs(model.CatalogInfo{Description: "unit prices and tasks"}).
		FirstOrCreate(&info).Error
	if err != nil {
		return fmt.Errorf("failed to create catalog_info entry: %w", err)
	}

	m.Logger.Info("Database setup complete")
	return nil
}

// CountUnitTypes returns the number of stored unit types.
func (m *Manager) CountUnitTypes() (int64, error) {
	if !m.IsValid || m.DB == nil {
		return 0, ErrNotConnected
	}
	var n int64
	if err := m.DB.Model(&model.UnitTypeRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count unit types: %w", err)
	}
	return n, nil
}

// SeedCatalog writes every entry of c when the unit table is empty and
// reports whether it did.
func (m *Manager) SeedCatalog(c *catalog.Catalog) (bool, error) {
	n, err := m.CountUnitTypes()
	if err != nil {
		return false, err
	}
	if n > 0 {
		m.Logger.Debug("Catalog already seeded", "unitTypes", n)
		return false, nil
	}

	records := make([]model.UnitTypeRecord, 0, c.Len())
	for _, e := range c.Entries() {
		records = append(records, convert.EntryToRecord(e))
	}

	err = m.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&records).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed catalog: %w", err)
	}

	m.Logger.Info("Seeded catalog", "unitTypes", len(records))
	return true, nil
}

// LoadCatalog reads every stored unit type into a catalog.
func (m *Manager) LoadCatalog() (*catalog.Catalog, error) {
	if !m.IsValid || m.DB == nil {
		return nil, ErrNotConnected
	}

	var records []model.UnitTypeRecord
	if err := m.DB.Order("type").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to read unit types: %w", err)
	}

	c, err := convert.RecordsToCatalog(records)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}

	m.Logger.Debug("Loaded catalog", "unitTypes", c.Len(), "local", m.IsLocal)
	return c, nil
}

// Close releases the connection.
func (m *Manager) Close() error {
	if m.SqlDB == nil {
		return nil
	}
	m.IsValid = false
	return m.SqlDB.Close()
}
