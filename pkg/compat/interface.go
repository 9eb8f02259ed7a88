package compat

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownType is returned by Providers.Resolve when no provider has been
// registered for the requested schema type.
var ErrUnknownType = errors.New("no compatibility provider registered for schema type")

// Direction identifies which way a compatibility question is asked.
type Direction string

const (
	// DirectionBackward asks whether a reader using the new schema can read
	// data written with the old schema.
	DirectionBackward Direction = "BACKWARD"

	// DirectionForward asks whether a reader using the old schema can read
	// data written with the new schema.
	DirectionForward Direction = "FORWARD"
)

// Provider is the schema-type-specific compatibility plugin. The registry core
// never inspects schema text itself; it delegates well-formedness checks and
// structural comparison to the provider selected by the metadata's schema type.
type Provider interface {
	// Type returns the schema type this provider handles, e.g. "record".
	Type() string

	// Validate checks basic well-formedness of the schema text.
	Validate(schemaText string) error

	// IsCompatible reports whether newText is compatible with oldText in the
	// given direction. Both texts are assumed to have passed Validate.
	IsCompatible(oldText, newText string, direction Direction) (bool, error)
}

// Providers is a thread-safe registry of compatibility providers keyed by
// schema type.
type Providers struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewProviders returns a provider registry populated with the given providers.
func NewProviders(providers ...Provider) *Providers {
	p := &Providers{
		providers: make(map[string]Provider),
	}
	for _, provider := range providers {
		p.Register(provider)
	}
	return p
}

// Register adds or replaces the provider for its schema type.
func (p *Providers) Register(provider Provider) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.providers[provider.Type()] = provider
}

// Resolve returns the provider for the given schema type.
func (p *Providers) Resolve(schemaType string) (Provider, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	provider, ok := p.providers[schemaType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, schemaType)
	}
	return provider, nil
}
