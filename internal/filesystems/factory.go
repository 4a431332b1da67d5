package filesystems

import (
	"fmt"
	"net/url"
	"strings"
)

// NewFileSystem creates a filesystem implementation based on the given URI
// Supports:
// - /path/to/local/dir
// - file:///path/to/local/dir
func NewFileSystem(uri string) (FileSystem, error) {
	// Handle local paths without scheme
	if !strings.Contains(uri, "://") {
		return NewLocalFS(uri), nil
	}

	parsedURL, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid URI %s: %w", uri, err)
	}

	switch parsedURL.Scheme {
	case "file":
		return NewLocalFS(parsedURL.Path), nil

	default:
		return nil, fmt.Errorf("unsupported scheme: %s", parsedURL.Scheme)
	}
}
