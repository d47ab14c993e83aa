package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// DocumentKey generates a cache key for a source document's contents
func DocumentKey(path string) string {
	hash := sha256.Sum256([]byte(path))
	return "specsynth:doc:v1:" + hex.EncodeToString(hash[:])
}
