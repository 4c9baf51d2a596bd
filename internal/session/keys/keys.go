// Package keys builds storage keys for camera sessions and device locations.
package keys

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

const (
	prefix        = "camstop:v1"
	maxReadableID = 64
)

// Camera returns the session key for a camera id. The readable part is
// sanitized and truncated; the hash suffix keeps distinct ids distinct.
func Camera(id string) string {
	return build("camera", id)
}

// Device returns the last-known-location key for a device id.
func Device(id string) string {
	return build("device", id)
}

func build(kind, id string) string {
	id = strings.TrimSpace(id)
	safe := sanitize(id)
	if len(safe) > maxReadableID {
		safe = safe[:maxReadableID]
	}
	return fmt.Sprintf("%s:%s:%s:h=%016x", prefix, kind, safe, xxhash.Sum64String(id))
}

// Shard maps id onto one of n buckets. n must be a power of two.
func Shard(id string, n int) int {
	return int(xxhash.Sum64String(id) & uint64(n-1))
}

func sanitize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		out := rune(0)
		switch {
		case unicode.IsSpace(r):
			out = '_'
		case isAlphaNum(r) || r == '_' || r == '-' || r == '.':
			out = r
		default:
			// ':' is reserved as the key separator
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
