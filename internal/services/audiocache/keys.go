package audiocache

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// SourceHash returns a fixed-width digest of the source URL so cache keys
// stay collision-free without embedding arbitrary-length URLs
func SourceHash(sourceURL string) string {
	sum := sha1.Sum([]byte(sourceURL))
	return hex.EncodeToString(sum[:])
}

// Key builds the memory-tier cache key for one unit of dubbed audio
func Key(sourceURL, language string, unitIndex int) string {
	return fmt.Sprintf("dub:%s:%s:%d", SourceHash(sourceURL), language, unitIndex)
}
