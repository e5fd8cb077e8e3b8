// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest scores raw candidate documents and writes them to the store,
// deduplicating across collection passes by content identity.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/pdiddy/report-engine/pkg/types"
)

// hashLen is the number of hex characters kept from the digest. 16 bytes of
// SHA-256 is far beyond collision risk at this corpus size.
const hashLen = 32

// ContentHash returns the stable identity for a (title, url) pair. Identical
// pairs always hash identically; the value doubles as the storage idempotency
// key and the batch existence-check key.
func ContentHash(title, url string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(title) + "\n" + strings.TrimSpace(url)))
	return hex.EncodeToString(sum[:])[:hashLen]
}

// HashRaw computes the content hash for a raw document. Feed items without a
// stable URL fall back to the GUID, then to the publish date.
func HashRaw(raw types.RawDocument) string {
	key := raw.URL
	if key == "" {
		key = raw.GUID
	}
	if key == "" && raw.PublishedAt != nil {
		key = raw.PublishedAt.UTC().Format(time.RFC3339)
	}
	return ContentHash(raw.Title, key)
}

// TopicHash returns the deterministic hash of a lowercased topic string, used
// for report reuse lookups.
func TopicHash(topic string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(topic))))
	return hex.EncodeToString(sum[:])[:hashLen]
}
