package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskPutAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDisk(dir)
	if err != nil {
		t.Fatalf("NewDisk failed: %v", err)
	}

	url, err := store.Put(context.Background(), "prod-1/1700000000-handleiding.pdf", strings.NewReader("inhoud"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") {
		t.Errorf("expected /uploads/ url, got %q", url)
	}

	path := filepath.Join(dir, "prod-1", "1700000000-handleiding.pdf")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("attachment not written: %v", err)
	}
	if string(data) != "inhoud" {
		t.Errorf("attachment content = %q", data)
	}

	if err := store.Delete(context.Background(), url); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("attachment still on disk after delete")
	}
}

func TestDiskDeleteIsIdempotent(t *testing.T) {
	store, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk failed: %v", err)
	}
	if err := store.Delete(context.Background(), "/uploads/nooit-bestaan.pdf"); err != nil {
		t.Errorf("deleting a missing attachment should not fail: %v", err)
	}
}

func TestDiskRejectsEscapingKeys(t *testing.T) {
	store, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk failed: %v", err)
	}
	if _, err := store.Put(context.Background(), "../../etc/passwd", strings.NewReader("x")); err == nil {
		t.Error("expected path traversal to be rejected")
	}
}

func TestDiskRejectsForeignURL(t *testing.T) {
	store, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk failed: %v", err)
	}
	if err := store.Delete(context.Background(), "https://elders.example/file.pdf"); err == nil {
		t.Error("expected foreign url to be rejected")
	}
}
