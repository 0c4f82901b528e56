// Package seeders holds the seed registry and the seed data. Seeders
// register from init() and run in registration order via the CLI:
//
//	cotizador seed
package seeders

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// Seeder populates one slice of reference data. Seeders must be
// idempotent: running `cotizador seed` twice may not duplicate rows.
type Seeder func(db *gorm.DB) error

var (
	mu    sync.Mutex
	names []string
	byKey = map[string]Seeder{}
)

// Register adds a seeder under a unique name. Call from init().
func Register(name string, fn Seeder) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := byKey[name]; !dup {
		names = append(names, name)
	}
	byKey[name] = fn
}

// RunAll executes every registered seeder in registration order,
// stopping at the first error.
func RunAll(db *gorm.DB) error {
	mu.Lock()
	ordered := append([]string(nil), names...)
	mu.Unlock()

	if len(ordered) == 0 {
		fmt.Println("  (no seeders registered)")
		return nil
	}

	for _, name := range ordered {
		fmt.Printf("  Seeding %s ... ", name)
		if err := byKey[name](db); err != nil {
			fmt.Println("FAILED")
			return fmt.Errorf("seeder %q: %w", name, err)
		}
		fmt.Println("done")
	}
	return nil
}
