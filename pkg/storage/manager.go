package storage

import (
	"io"
	"sync"

	"github.com/duolink/cotizador/config"
	"github.com/duolink/cotizador/pkg/logger"
)

var (
	mu     sync.RWMutex
	active Disk
	local  *localDisk
)

// Connect selects the disk named by STORAGE_DEFAULT. An S3 disk that
// fails to boot falls back to local so uploads keep working.
func Connect() {
	mu.Lock()
	defer mu.Unlock()

	local = newLocalDisk()
	active = local

	if config.StorageDefault() == "s3" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("storage: s3 disabled, using local disk", "error", err)
			return
		}
		active = d
	}
}

// SetDisk swaps the active disk, used by tests to plug in a fake.
func SetDisk(d Disk) {
	mu.Lock()
	active = d
	mu.Unlock()
}

// LocalRoot returns the absolute directory of the local disk so the
// server can mount it on /storage.
func LocalRoot() string {
	mu.Lock()
	defer mu.Unlock()
	if local == nil {
		local = newLocalDisk()
	}
	return local.Root()
}

func disk() Disk {
	mu.Lock()
	defer mu.Unlock()
	if active == nil {
		active = newLocalDisk()
	}
	return active
}

// PutStream writes from r to path on the active disk.
func PutStream(path string, r io.Reader) error { return disk().PutStream(path, r) }

// Delete removes path from the active disk.
func Delete(path string) error { return disk().Delete(path) }

// URL returns the public URL for path on the active disk.
func URL(path string) string { return disk().URL(path) }
