package scan

import (
	"crypto/sha256"
	"fmt"
)

// Checksum is the hex sha256 of a document body, used as its ETag
func Checksum(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}
