package utils

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
	"unicode/utf8"
)

// RandomHex returns 2n hex characters read from crypto/rand. If the system
// source fails the current time is mixed in so ids stay unique per process.
func RandomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		var ts [8]byte
		binary.BigEndian.PutUint64(ts[:], uint64(time.Now().UnixNano()))
		for i := range b {
			b[i] ^= ts[i%len(ts)]
		}
	}
	return hex.EncodeToString(b)
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}
