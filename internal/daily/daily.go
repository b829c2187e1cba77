// internal/daily/daily.go
//
// Daily challenge: one shared puzzle per UTC date.
//
// The date key is hashed with a server-side salt (HMAC-SHA256) into a 64-bit
// seed. That seed picks the category and then drives puzzle assembly, so
// every player gets the same grid for the day while the schedule cannot be
// guessed without the salt.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the deterministic puzzle seed for a date.
// Never zero, since zero means "random" to the puzzle builder.
func Seed(date time.Time, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	if n := binary.BigEndian.Uint64(sum[:8]); n != 0 {
		return n
	}
	return 1
}

// Index maps a seed onto [0, n). Returns 0 when n <= 0.
func Index(seed uint64, n int) int {
	if n <= 0 {
		return 0
	}
	return int(seed % uint64(n))
}
