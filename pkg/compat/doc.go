// Package compat defines the schema-type compatibility plugin contract used
// by the registry core, plus a built-in provider for JSON record schemas.
//
// The registry never interprets schema text itself. When a new version is
// registered it resolves the Provider for the metadata's schema type and asks
// it two questions: is this text well-formed (Validate), and can it evolve
// from an existing version in a given Direction (IsCompatible).
//
// Registering a custom provider:
//
//	providers := compat.NewProviders(compat.NewRecordProvider())
//	providers.Register(myAvroProvider)
//
//	provider, err := providers.Resolve("avro")
package compat
