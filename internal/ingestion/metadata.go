package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Metadata keys set on acquired sources.
const (
	MetaHash        = "hash"
	MetaAcquiredAt  = "acquired_at"
	MetaFilename    = "filename"
	MetaFinalURL    = "final_url"
	MetaStatusCode  = "status_code"
	MetaContentType = "content_type"
	MetaRenderer    = "renderer"
	MetaFallback    = "fallback_reason"
)

func newMetadata(content string, now time.Time) map[string]string {
	return map[string]string{
		MetaHash:       computeHash(content),
		MetaAcquiredAt: now.UTC().Format(time.RFC3339),
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
