// Package config loads the bookshelf configuration and opens the configured storage backend.
//
// Values are layered: built-in defaults, then an optional YAML file, then BOOKSHELF_* environment variables.
package config
