// Package seed derives deterministic RNG seeds from string keys, so the same
// game, turn and ship always roll the same dice regardless of host or run.
package seed

import (
	"crypto/md5"
	"encoding/hex"
	"math/rand"
	"strconv"
)

// FromKey hashes the key and folds the first 8 hex digits into an int64.
func FromKey(key string) int64 {
	sum := md5.Sum([]byte(key))
	hexed := hex.EncodeToString(sum[:])
	v, _ := strconv.ParseInt(hexed[:8], 16, 64)
	return v
}

// Rand returns a rand.Rand seeded from the key.
func Rand(key string) *rand.Rand {
	return rand.New(rand.NewSource(FromKey(key)))
}
