// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config.yaml. It provides type-safe
// access to the settings needed by the HTTP server, the database, the identity
// provider, the Gemini clients and the illustration bucket.
package config
