// Package migration tracks and runs schema migrations in batches.
//
// Each migration registers itself from an init() in database/migrations:
//
//	func init() {
//	    migration.Register("20260301000000_create_products_table", &CreateProductsTable{})
//	}
//
// The CLI drives the runner: `cotizador migrate`, `cotizador migrate:rollback`,
// `cotizador migrate:status`.
package migration

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/duolink/cotizador/pkg/logger"
	"gorm.io/gorm"
)

// Migration is implemented by every schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "migrations" }

var registry = map[string]Migration{}

// Register adds a migration under a timestamp-prefixed name, e.g.
// "20260301000000_create_products_table". Names determine run order.
func Register(name string, m Migration) {
	registry[name] = m
}

// Runner executes registered migrations against one database.
type Runner struct {
	db *gorm.DB
}

// New creates a Runner for the given connection.
func New(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

// EnsureTable creates the tracking table when missing.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&migrationRecord{})
}

// Pending returns the names of registered migrations that have not run,
// in run order. Timestamp prefixes sort lexicographically.
func (r *Runner) Pending() ([]string, error) {
	ran, err := r.applied()
	if err != nil {
		return nil, err
	}

	var pending []string
	for name := range registry {
		if _, ok := ran[name]; !ok {
			pending = append(pending, name)
		}
	}
	sort.Strings(pending)
	return pending, nil
}

// Run applies every pending migration as a single batch. Each migration
// and its tracking record commit together, so a failed Up leaves no
// half-recorded state.
func (r *Runner) Run() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	pending, err := r.Pending()
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}
	if len(pending) == 0 {
		fmt.Println("Nothing to migrate.")
		return nil
	}

	batch := r.lastBatch() + 1

	for _, name := range pending {
		fmt.Printf("  Migrating: %s\n", name)

		m := registry[name]
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&migrationRecord{Name: name, Batch: batch}).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s up: %w", name, err)
		}

		fmt.Printf("  Migrated:  %s\n", name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return nil
}

// Rollback reverses the most recent batch, newest migration first.
func (r *Runner) Rollback() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	last := r.lastBatch()
	if last == 0 {
		fmt.Println("Nothing to roll back.")
		return nil
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", last).Order("id desc").Find(&records).Error; err != nil {
		return err
	}

	for _, rec := range records {
		m, ok := registry[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot rollback %s: not registered", rec.Name)
		}

		fmt.Printf("  Rolling back: %s\n", rec.Name)

		rec := rec
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&rec).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}

		fmt.Printf("  Rolled back:  %s\n", rec.Name)
	}

	return nil
}

// Status prints every registered migration with its run state.
func (r *Runner) Status() error {
	if err := r.EnsureTable(); err != nil {
		return err
	}

	ran, err := r.applied()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Println(strings.Repeat("-", 80))
	for _, name := range names {
		if rec, ok := ran[name]; ok {
			fmt.Printf("%-60s  %-8s  %d\n", name, "Ran", rec.Batch)
		} else {
			fmt.Printf("%-60s  %-8s  -\n", name, "Pending")
		}
	}
	return nil
}

func (r *Runner) applied() (map[string]migrationRecord, error) {
	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}
	out := make(map[string]migrationRecord, len(ran))
	for _, rec := range ran {
		out[rec.Name] = rec
	}
	return out, nil
}

func (r *Runner) lastBatch() int {
	var row struct{ Max int }
	r.db.Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0) as max").Scan(&row)
	return row.Max
}
