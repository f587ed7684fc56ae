// Package logging backs the dependency-free logger interfaces of recordstore with zap.
package logging
