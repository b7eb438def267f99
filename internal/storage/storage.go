// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider (MinIO, AWS S3).
package storage

import "context"

// Storage durably stores local files under caller-namespaced keys.
type Storage interface {
	// Store uploads the file at localPath under a key derived from namespace
	// and name, and returns a stable location string for the stored object.
	// The namespace segments the key space so two callers never collide on
	// the same key even with identical filenames. Store either succeeds
	// whole or fails; it never leaves a partial object behind.
	Store(ctx context.Context, localPath, namespace, name string) (string, error)
}
