package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Shuffle performs a cryptographically secure Fisher-Yates shuffle of the
// slice. Every permutation is equally likely.
func Shuffle[T any](slice []T) error {
	n := len(slice)
	for i := n - 1; i > 0; i-- {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("failed to generate random number: %w", err)
		}
		j := int(jBig.Int64())
		slice[i], slice[j] = slice[j], slice[i]
	}
	return nil
}

// Draw returns count distinct elements drawn uniformly without replacement.
// The input slice is shuffled in place; count is clamped to len(slice).
func Draw[T any](slice []T, count int) ([]T, error) {
	if count > len(slice) {
		count = len(slice)
	}
	if count <= 0 {
		return nil, nil
	}
	if err := Shuffle(slice); err != nil {
		return nil, err
	}
	return slice[:count], nil
}
