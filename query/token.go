package query

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
)

// saltLen is the number of hex characters of the query hash embedded in a
// continuation token.
const saltLen = 16

// Sentinel errors for token decoding.
var (
	// ErrInvalidToken indicates a token that does not decode to the
	// expected offset:salt shape.
	ErrInvalidToken = errors.New("query: continuation token is invalid")

	// ErrTokenMismatch indicates a well-formed token minted for a different
	// query. The offset is never applied in that case; silently starting at
	// zero would return wrong data.
	ErrTokenMismatch = errors.New("query: continuation token does not match this query")
)

// Salt derives the token salt for a query from its cache key. The cache key
// covers every filter, sort and type parameter plus the contract version, so
// the salt binds a token to the exact query that minted it.
func Salt(cacheKey string) string {
	sum := sha256.Sum256([]byte(cacheKey))
	return hex.EncodeToString(sum[:])[:saltLen]
}

// EncodeToken serializes an offset and salt into an opaque token.
func EncodeToken(offset int, salt string) string {
	raw := strconv.Itoa(offset) + ":" + salt
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeToken reverses EncodeToken. Any malformed shape (bad encoding,
// wrong field count, non-numeric or negative offset) returns
// ErrInvalidToken.
func DecodeToken(token string) (offset int, salt string, err error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, "", ErrInvalidToken
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 2 {
		return 0, "", ErrInvalidToken
	}

	offset, err = strconv.Atoi(parts[0])
	if err != nil || offset < 0 {
		return 0, "", ErrInvalidToken
	}
	return offset, parts[1], nil
}
