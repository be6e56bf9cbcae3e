package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// SearchKey generates a cache key for a search request. The key covers
// everything that changes the Qwant response shape.
func SearchKey(query, searchType, locale string, safesearch int) string {
	return hashKey(fmt.Sprintf("search:%s:%s:%s:%d", query, searchType, locale, safesearch))
}

// ContentKey generates a cache key for fetched page content
func ContentKey(url string, videoSearch bool) string {
	return hashKey(fmt.Sprintf("content:%s:%t", url, videoSearch))
}

func hashKey(raw string) string {
	hash := sha256.Sum256([]byte(raw))
	return "hayhai:v1:" + hex.EncodeToString(hash[:])
}
