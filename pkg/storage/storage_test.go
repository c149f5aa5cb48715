package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalUploader(t *testing.T) {
	dir := t.TempDir()
	up, err := NewLocalUploader(dir, "http://localhost/uploads/")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	url, err := up.Upload(context.Background(), []byte("hello"), "a.png")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "http://localhost/uploads/a.png" {
		t.Fatalf("unexpected url: %s", url)
	}
	data, err := os.ReadFile(filepath.Join(dir, "a.png"))
	if err != nil || string(data) != "hello" {
		t.Fatalf("object not written: %v %q", err, data)
	}
}

func TestLocalUploaderStripsPath(t *testing.T) {
	dir := t.TempDir()
	up, err := NewLocalUploader(dir, "http://localhost/uploads")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	// 路径穿越只保留文件名
	url, err := up.Upload(context.Background(), []byte("x"), "../../etc/evil.png")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "http://localhost/uploads/evil.png" {
		t.Fatalf("unexpected url: %s", url)
	}
	if _, err := os.Stat(filepath.Join(dir, "evil.png")); err != nil {
		t.Fatalf("object must land inside the upload dir: %v", err)
	}
}
