package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// hashLen is the number of hex characters of the content hash appended to
// every key.
const hashLen = 16

// Keyer builds deterministic cache keys from operation parameters.
//
// Contract:
// - Determinism: same operation, version and parameters must produce the
//   same key on every call and every process.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key builds a cache key for one operation invocation.
	Key(opKind, version string, params ...any) string
}

// DefaultKeyer builds keys with a diagnosable prefix and a SHA-256 content
// hash suffix. Format:
//
//	<opKind>:<version>:<p1>|<p2>|...#<hash>
//
// The prefix is truncated when the joined form would exceed MaxKeyLength;
// the hash always covers the full untruncated form, so truncation never
// causes collisions.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key builds a deterministic cache key.
func (k *DefaultKeyer) Key(opKind, version string, params ...any) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = normalizeParam(p)
	}

	full := opKind + ":" + version + ":" + strings.Join(parts, "|")

	sum := sha256.Sum256([]byte(full))
	hash := hex.EncodeToString(sum[:])[:hashLen]

	prefix := full
	if max := MaxKeyLength - hashLen - 1; len(prefix) > max {
		prefix = prefix[:max]
	}
	return prefix + "#" + hash
}

// normalizeParam renders one parameter in locale-invariant form.
// Absent (nil) parameters normalize to the empty string so that an omitted
// parameter and an empty one key identically.
func normalizeParam(p any) string {
	switch v := p.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
