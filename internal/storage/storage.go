// Package storage holds product attachments. Two drivers exist: local
// disk for single-node deployments and S3 for shared ones; the active
// driver is chosen from configuration at startup.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/dematic-gent/prodreg/internal/config"
)

// Store persists opaque attachment blobs. Put returns a URL that can
// later be handed back to Delete.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// New builds the configured driver.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "disk", "":
		return NewDisk(cfg.Dir)
	case "s3":
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
