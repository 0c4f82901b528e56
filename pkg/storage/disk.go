// Package storage stores product images behind a pluggable disk driver.
//
// Two drivers are available: "local" writes under STORAGE_LOCAL_ROOT and
// is served back by the /storage route; "s3" talks to any S3-compatible
// object store (AWS S3, MinIO, R2, Spaces).
//
// The app only ever writes an image, deletes a replaced one, and hands
// out a public URL, so the Disk interface stays deliberately small.
package storage

import "io"

// Disk is the storage driver interface.
type Disk interface {
	// PutStream writes from r to path, creating parents as needed.
	PutStream(path string, r io.Reader) error

	// Delete removes a file. Removing a missing file is not an error.
	Delete(path string) error

	// URL returns the public URL for path.
	URL(path string) string
}
