package bingo

import (
	"errors"
	"math/rand"
)

var ErrPoolTooSmall = errors.New("item pool is smaller than the board")

// AssignBoard draws a fresh board for one player: a uniform random
// permutation of the pool indices, truncated to gridSize² entries. Every
// call is independent, which is why players end up with different boards
// over the same call list.
func AssignBoard(poolSize, gridSize int) ([]int, error) {
	cells := gridSize * gridSize
	if poolSize < cells {
		return nil, ErrPoolTooSmall
	}

	perm := rand.Perm(poolSize) //nolint:gosec // gameplay shuffle, not security material

	return perm[:cells], nil
}
