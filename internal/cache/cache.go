package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for embedding-vector caching
type Cache interface {
	Get(key string) ([]float32, bool)
	Set(key string, vector []float32, ttl time.Duration) error
	Delete(key string) error
	Clear() error
	Len() int
}

// Key generates a cache key from a text. The full SHA-256 digest is kept so
// distinct texts never share a key.
func Key(text string) string {
	hash := sha256.Sum256([]byte(text))
	return "verdikt:v1:" + hex.EncodeToString(hash[:])
}
