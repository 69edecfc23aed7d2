package common

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// NewArticleID derives a deterministic article identifier from the source
// name and the article's URL and title. Re-crawling the same article always
// yields the same ID, which is what makes storage-level deduplication work.
// Format: <source>_<16 hex chars>
func NewArticleID(source, url, title string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%s_%s", source, url, title)))
	return source + "_" + hex.EncodeToString(sum[:])[:16]
}

// NewAttemptID generates a unique collection-attempt ID with the "att_" prefix
func NewAttemptID() string {
	return "att_" + uuid.New().String()
}
