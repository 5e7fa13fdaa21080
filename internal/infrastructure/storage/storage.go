package storage

import (
	"fmt"
	"os"

	"github.com/practicas/core/internal/infrastructure/config"
)

// Dir is the data directory that holds one JSON file per collection
type Dir struct {
	path   string
	config config.StorageConfig
}

// Open makes sure the data directory exists
func Open(cfg config.StorageConfig) (*Dir, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", cfg.DataDir, err)
	}

	return &Dir{
		path:   cfg.DataDir,
		config: cfg,
	}, nil
}

// Path returns the data directory
func (d *Dir) Path() string {
	return d.path
}

// File returns the path of the given collection file
func (d *Dir) File(name string) string {
	return d.config.Path(name)
}

// HealthCheck verifies the data directory is writable
func (d *Dir) HealthCheck() error {
	f, err := os.CreateTemp(d.path, ".health-*")
	if err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}
	name := f.Name()
	_ = f.Close()

	if err := os.Remove(name); err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}

	return nil
}

// GetInfo returns the size of every collection file, -1 when not yet written
func (d *Dir) GetInfo() map[string]interface{} {
	info := map[string]interface{}{
		"data_dir": d.path,
	}

	for collection, file := range d.config.Files() {
		size := int64(-1)
		if st, err := os.Stat(d.config.Path(file)); err == nil {
			size = st.Size()
		}
		info[collection] = map[string]interface{}{
			"file":       d.config.Path(file),
			"size_bytes": size,
		}
	}

	return info
}
