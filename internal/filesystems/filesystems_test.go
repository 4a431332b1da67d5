package filesystems

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryFS_AddFile(t *testing.T) {
	mfs := NewMemoryFS()
	mfs.AddFile("test.env", []byte("hello world"))

	result, err := mfs.ReadFile("test.env")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if string(result) != "hello world" {
		t.Fatalf("expected 'hello world', got '%s'", string(result))
	}
}

func TestMemoryFS_CleansPaths(t *testing.T) {
	mfs := NewMemoryFS()
	mfs.AddFile("./config/app.yaml", []byte("content"))

	if !mfs.Exists("config/app.yaml") {
		t.Fatal("expected config/app.yaml to exist")
	}
	if _, err := mfs.ReadFile("config/../config/app.yaml"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestMemoryFS_ReadFile_NotFound(t *testing.T) {
	mfs := NewMemoryFS()

	_, err := mfs.ReadFile("nonexistent.txt")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
	if !errors.Is(err, ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
	if mfs.Exists("nonexistent.txt") {
		t.Error("expected nonexistent.txt to not exist")
	}
}

func TestLocalFS_Root(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("A=1"), 0o600); err != nil {
		t.Fatal(err)
	}

	lfs := NewLocalFS(dir)
	content, err := lfs.ReadFile(".env")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(content) != "A=1" {
		t.Errorf("expected 'A=1', got '%s'", string(content))
	}

	if !lfs.Exists(".env") {
		t.Error("expected .env to exist")
	}
	if lfs.Exists(".") {
		t.Error("directories are not files")
	}

	// Absolute paths ignore the root
	if !NewLocalFS("/nonexistent").Exists(filepath.Join(dir, ".env")) {
		t.Error("expected absolute path to resolve")
	}
}

func TestNewFileSystem(t *testing.T) {
	if _, err := NewFileSystem("."); err != nil {
		t.Fatalf("expected no error for plain path, got %v", err)
	}
	if _, err := NewFileSystem("file:///tmp"); err != nil {
		t.Fatalf("expected no error for file URI, got %v", err)
	}
	if _, err := NewFileSystem("github://owner/repo"); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}
