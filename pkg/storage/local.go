package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/duolink/cotizador/config"
)

// localDisk writes files under a root directory. The HTTP server mounts
// that directory on /storage so URL() resolves for clients.
type localDisk struct {
	root    string
	baseURL string
}

func newLocalDisk() *localDisk {
	root := config.StorageLocalRoot()
	if !filepath.IsAbs(root) {
		cwd, _ := os.Getwd()
		root = filepath.Join(cwd, root)
	}
	return &localDisk{
		root:    root,
		baseURL: strings.TrimRight(config.StorageURL(), "/"),
	}
}

// Root is the absolute directory the /storage route serves from.
func (d *localDisk) Root() string { return d.root }

func (d *localDisk) PutStream(path string, r io.Reader) error {
	full := filepath.Join(d.root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir for %s: %w", path, err)
	}

	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("storage: create %s: %w", path, err)
	}
	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("storage: write %s: %w", path, err)
	}
	return nil
}

func (d *localDisk) Delete(path string) error {
	err := os.Remove(filepath.Join(d.root, filepath.FromSlash(path)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete %s: %w", path, err)
	}
	return nil
}

func (d *localDisk) URL(path string) string {
	return d.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(path), "/")
}
