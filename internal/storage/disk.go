package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Disk writes attachments under a base directory and serves them back
// through the /uploads/ route.
type Disk struct {
	dir string
}

func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{dir: dir}, nil
}

func (d *Disk) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	path := filepath.Join(d.dir, filepath.FromSlash(key))
	if !strings.HasPrefix(filepath.Clean(path), filepath.Clean(d.dir)) {
		return "", fmt.Errorf("invalid attachment key %q", key)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create attachment dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create attachment: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write attachment: %w", err)
	}
	return "/uploads/" + key, nil
}

func (d *Disk) Delete(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, "/uploads/") {
		return fmt.Errorf("not a disk attachment url: %q", url)
	}
	key := strings.TrimPrefix(url, "/uploads/")
	path := filepath.Join(d.dir, filepath.FromSlash(key))
	if !strings.HasPrefix(filepath.Clean(path), filepath.Clean(d.dir)) {
		return fmt.Errorf("invalid attachment url %q", url)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove attachment: %w", err)
	}
	return nil
}

// Dir exposes the base directory for the static file route.
func (d *Disk) Dir() string {
	return d.dir
}
