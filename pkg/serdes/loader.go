package serdes

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrClassNotFound is returned by a Loader when no implementation is
	// registered under the requested class name.
	ErrClassNotFound = errors.New("class not found in loader")

	// ErrEmptyArchive is returned when the downloaded archive has no content.
	ErrEmptyArchive = errors.New("serde archive is empty")

	// ErrArchiveMismatch is returned when a factory was pinned to an archive
	// fingerprint and the downloaded archive does not match it.
	ErrArchiveMismatch = errors.New("serde archive does not match registered fingerprint")
)

// Loader turns a downloaded archive and a class name into a constructed
// instance. It is the registry's class-loading capability: how the archive is
// interpreted is the loader's business, the registry only hands it bytes.
type Loader interface {
	Load(archive []byte, className string) (interface{}, error)
}

// Factory constructs one instance of a serde implementation.
type Factory func() interface{}

type factoryEntry struct {
	factory     Factory
	fingerprint string
}

// FactoryLoader is the built-in Loader. Implementations register a Factory
// under their class name, optionally pinned to the SHA-256 of the archive
// they were built from. Load validates the archive and constructs a fresh
// instance per call; nothing is cached.
type FactoryLoader struct {
	mu        sync.RWMutex
	factories map[string]factoryEntry
}

// NewFactoryLoader returns an empty loader.
func NewFactoryLoader() *FactoryLoader {
	return &FactoryLoader{
		factories: make(map[string]factoryEntry),
	}
}

// Register binds a factory to a class name, replacing any previous binding.
func (l *FactoryLoader) Register(className string, factory Factory) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.factories[className] = factoryEntry{factory: factory}
}

// RegisterPinned binds a factory to a class name and pins it to an archive
// fingerprint (SHA-256 hex). Load will reject archives with other content.
func (l *FactoryLoader) RegisterPinned(className, fingerprint string, factory Factory) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.factories[className] = factoryEntry{factory: factory, fingerprint: fingerprint}
}

// Load constructs a new instance of the named class.
func (l *FactoryLoader) Load(archive []byte, className string) (interface{}, error) {
	if len(archive) == 0 {
		return nil, ErrEmptyArchive
	}

	l.mu.RLock()
	entry, ok := l.factories[className]
	l.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrClassNotFound, className)
	}

	if entry.fingerprint != "" {
		sum := sha256.Sum256(archive)
		if hex.EncodeToString(sum[:]) != entry.fingerprint {
			return nil, fmt.Errorf("%w: class %q", ErrArchiveMismatch, className)
		}
	}

	return entry.factory(), nil
}
