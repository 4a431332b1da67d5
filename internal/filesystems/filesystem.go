package filesystems

import "io/fs"

// FileSystem abstracts read access to configuration files
type FileSystem interface {
	// ReadFile reads the named file and returns its contents
	ReadFile(name string) ([]byte, error)

	// Exists reports whether the named file exists
	Exists(name string) bool
}

// ErrNotExist is returned for missing files
var ErrNotExist = fs.ErrNotExist
