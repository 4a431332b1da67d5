package filesystems

import (
	"os"
	"path/filepath"
)

// LocalFS implements FileSystem on the local disk. Relative names resolve
// against root when it is set.
type LocalFS struct {
	root string
}

// NewLocalFS creates a new LocalFS instance
func NewLocalFS(root string) *LocalFS {
	return &LocalFS{root: root}
}

func (lfs *LocalFS) path(name string) string {
	if lfs.root == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(lfs.root, name)
}

func (lfs *LocalFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(lfs.path(name))
}

func (lfs *LocalFS) Exists(name string) bool {
	info, err := os.Stat(lfs.path(name))
	return err == nil && !info.IsDir()
}
