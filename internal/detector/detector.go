package detector

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultPrefix marks a configuration value as encrypted.
const DefaultPrefix = "ENC@"

// Detector recognizes encrypted configuration values and extracts the
// ciphertext token they wrap.
type Detector interface {
	// IsEncrypted reports whether value carries the encryption marker
	IsEncrypted(value string) bool

	// Unwrap strips the marker and returns the token to decrypt
	Unwrap(value string) (string, error)
}

// ErrInvalidMarker is matched by every InvalidMarkerError.
var ErrInvalidMarker = errors.New("value does not carry the encryption marker")

// InvalidMarkerError is returned by Unwrap for values IsEncrypted rejects.
type InvalidMarkerError struct {
	Prefix string
	Suffix string
	Length int
}

func (e *InvalidMarkerError) Error() string {
	if e.Suffix != "" {
		return fmt.Sprintf("value of length %d is not wrapped in %q...%q", e.Length, e.Prefix, e.Suffix)
	}
	return fmt.Sprintf("value of length %d does not start with %q", e.Length, e.Prefix)
}

func (e *InvalidMarkerError) Is(target error) bool {
	return target == ErrInvalidMarker
}

// PrefixDetector treats values beginning with a literal prefix as encrypted.
type PrefixDetector struct {
	prefix string
}

// NewPrefixDetector creates a detector for the given marker prefix
func NewPrefixDetector(prefix string) *PrefixDetector {
	return &PrefixDetector{prefix: prefix}
}

// Default returns the detector for the ENC@ marker.
func Default() *PrefixDetector {
	return NewPrefixDetector(DefaultPrefix)
}

func (d *PrefixDetector) Prefix() string {
	return d.prefix
}

func (d *PrefixDetector) IsEncrypted(value string) bool {
	return strings.HasPrefix(value, d.prefix)
}

func (d *PrefixDetector) Unwrap(value string) (string, error) {
	token, ok := strings.CutPrefix(value, d.prefix)
	if !ok {
		// Never echo the value itself, it may be a plaintext secret
		return "", &InvalidMarkerError{Prefix: d.prefix, Length: len(value)}
	}
	return token, nil
}

// Wrap returns token marked as encrypted.
func (d *PrefixDetector) Wrap(token string) string {
	return d.prefix + token
}

// WrapDetector treats values enclosed in a prefix and suffix, such as
// ENC(...), as encrypted.
type WrapDetector struct {
	prefix string
	suffix string
}

// NewWrapDetector creates a detector for values enclosed in prefix and suffix
func NewWrapDetector(prefix, suffix string) *WrapDetector {
	return &WrapDetector{prefix: prefix, suffix: suffix}
}

func (d *WrapDetector) IsEncrypted(value string) bool {
	return len(value) >= len(d.prefix)+len(d.suffix) &&
		strings.HasPrefix(value, d.prefix) &&
		strings.HasSuffix(value, d.suffix)
}

func (d *WrapDetector) Unwrap(value string) (string, error) {
	if !d.IsEncrypted(value) {
		return "", &InvalidMarkerError{Prefix: d.prefix, Suffix: d.suffix, Length: len(value)}
	}
	return value[len(d.prefix) : len(value)-len(d.suffix)], nil
}

func (d *WrapDetector) Wrap(token string) string {
	return d.prefix + token + d.suffix
}

// Wrapper is implemented by detectors that can mark a token as encrypted.
type Wrapper interface {
	Wrap(token string) string
}

// New builds a detector from a marker prefix and optional suffix.
func New(prefix, suffix string) (Detector, error) {
	if prefix == "" {
		return nil, errors.New("encryption marker prefix must not be empty")
	}
	if suffix == "" {
		return NewPrefixDetector(prefix), nil
	}
	return NewWrapDetector(prefix, suffix), nil
}

// IsEncryptedLookup applies d to an optional value. Absent values are
// never encrypted.
func IsEncryptedLookup(d Detector, value string, found bool) bool {
	if !found {
		return false
	}
	return d.IsEncrypted(value)
}
