package environment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/railwayapp/sealenv/internal/detector"
	"github.com/railwayapp/sealenv/internal/encryptor"
	"github.com/railwayapp/sealenv/internal/environment/types"
	"github.com/railwayapp/sealenv/internal/sources"
	"golang.org/x/sync/singleflight"
)

// ErrNoDecrypter is returned when an encrypted value is found but the
// environment has no way to decrypt it
var ErrNoDecrypter = errors.New("encrypted value found but no decrypter is configured")

// DecryptError reports a value that could not be unwrapped or decrypted
type DecryptError struct {
	Key    string
	Source string
	Err    error
}

func (e *DecryptError) Error() string {
	return fmt.Sprintf("failed to decrypt %s from %s: %v", e.Key, e.Source, e.Err)
}

func (e *DecryptError) Unwrap() error {
	return e.Err
}

// Environment resolves configuration keys across ordered sources, replacing
// encrypted values with their plaintext. It is safe for concurrent use.
type Environment struct {
	sources    []sources.Source
	detector   detector.Detector
	decrypter  encryptor.Decrypter
	classifier func(key, value string) bool
	logger     *slog.Logger

	cacheEnabled bool
	cache        sync.Map // raw value -> plaintext
	group        singleflight.Group
}

type Option func(*Environment)

// WithSources appends sources, highest precedence first
func WithSources(srcs ...sources.Source) Option {
	return func(e *Environment) {
		e.sources = append(e.sources, srcs...)
	}
}

func WithDetector(d detector.Detector) Option {
	return func(e *Environment) {
		e.detector = d
	}
}

func WithDecrypter(d encryptor.Decrypter) Option {
	return func(e *Environment) {
		e.decrypter = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Environment) {
		e.logger = logger
	}
}

// WithCache toggles memoisation of decrypted values, on by default
func WithCache(enabled bool) Option {
	return func(e *Environment) {
		e.cacheEnabled = enabled
	}
}

// WithClassifier replaces the sensitivity classifier
func WithClassifier(classify func(key, value string) bool) Option {
	return func(e *Environment) {
		e.classifier = classify
	}
}

func New(opts ...Option) *Environment {
	e := &Environment{
		detector:     detector.Default(),
		classifier:   types.ClassifySensitive,
		logger:       slog.Default(),
		cacheEnabled: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sources returns the configured sources in precedence order
func (e *Environment) Sources() []sources.Source {
	return append([]sources.Source(nil), e.sources...)
}

// Get returns the effective value of key. found is false when no source
// defines it.
func (e *Environment) Get(ctx context.Context, key string) (string, bool, error) {
	prop, found, err := e.Property(ctx, key)
	if err != nil || !found {
		return "", found, err
	}
	return prop.Value, true, nil
}

// Property resolves key with provenance
func (e *Environment) Property(ctx context.Context, key string) (types.Property, bool, error) {
	for _, src := range e.sources {
		if err := ctx.Err(); err != nil {
			return types.Property{}, false, err
		}

		raw, found, err := src.Lookup(key)
		if err != nil {
			return types.Property{}, false, fmt.Errorf("lookup %s in %s: %w", key, src.Name(), err)
		}
		if !found {
			continue
		}

		e.logger.Debug("resolved property", "key", key, "source", src.Name())
		return e.resolve(key, raw, src.Name())
	}

	return types.Property{}, false, nil
}

func (e *Environment) resolve(key, raw, source string) (types.Property, bool, error) {
	prop := types.Property{
		Key:    key,
		Value:  raw,
		Raw:    raw,
		Source: source,
	}

	if !detector.IsEncryptedLookup(e.detector, raw, true) {
		prop.Sensitive = e.classifier(key, raw)
		return prop, true, nil
	}

	plaintext, err := e.decrypt(raw)
	if err != nil {
		return types.Property{}, true, &DecryptError{Key: key, Source: source, Err: err}
	}

	e.logger.Debug("decrypted property", "key", key, "source", source)
	prop.Value = plaintext
	prop.Encrypted = true
	prop.Sensitive = true
	return prop, true, nil
}

func (e *Environment) decrypt(raw string) (string, error) {
	if e.decrypter == nil {
		return "", ErrNoDecrypter
	}

	if !e.cacheEnabled {
		return e.unwrapAndDecrypt(raw)
	}

	if cached, ok := e.cache.Load(raw); ok {
		return cached.(string), nil
	}

	result, err, _ := e.group.Do(raw, func() (interface{}, error) {
		if cached, ok := e.cache.Load(raw); ok {
			return cached, nil
		}
		plaintext, err := e.unwrapAndDecrypt(raw)
		if err != nil {
			return nil, err
		}
		e.cache.Store(raw, plaintext)
		return plaintext, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (e *Environment) unwrapAndDecrypt(raw string) (string, error) {
	token, err := e.detector.Unwrap(raw)
	if err != nil {
		return "", err
	}
	return e.decrypter.Decrypt(token)
}

// Keys lists every key defined by any source, sorted and deduplicated
func (e *Environment) Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, src := range e.sources {
		for _, k := range src.Keys() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// Resolve returns every known property. Keys that fail to decrypt are
// left out and their errors joined.
func (e *Environment) Resolve(ctx context.Context) ([]types.Property, error) {
	var props []types.Property
	var errs []error

	for _, key := range e.Keys() {
		prop, found, err := e.Property(ctx, key)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			errs = append(errs, err)
			continue
		}
		if found {
			props = append(props, prop)
		}
	}

	return props, errors.Join(errs...)
}

// ClearCache drops memoised plaintexts
func (e *Environment) ClearCache() {
	e.cache.Range(func(k, _ any) bool {
		e.cache.Delete(k)
		return true
	})
}
