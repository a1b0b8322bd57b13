package bingo

import "github.com/rocketscienceinc/bingo-backend/internal/entity"

// Lines returns the 2N+2 canonical winning index sets for an N×N board:
// N rows, N columns and the two main diagonals, in local indices.
func Lines(gridSize int) [][]int {
	lines := make([][]int, 0, 2*gridSize+2)

	for row := 0; row < gridSize; row++ {
		line := make([]int, gridSize)
		for col := 0; col < gridSize; col++ {
			line[col] = row*gridSize + col
		}
		lines = append(lines, line)
	}

	for col := 0; col < gridSize; col++ {
		line := make([]int, gridSize)
		for row := 0; row < gridSize; row++ {
			line[row] = row*gridSize + col
		}
		lines = append(lines, line)
	}

	diagMain := make([]int, gridSize)
	diagAnti := make([]int, gridSize)
	for i := 0; i < gridSize; i++ {
		diagMain[i] = i * (gridSize + 1)
		diagAnti[i] = (i + 1) * (gridSize - 1)
	}

	return append(lines, diagMain, diagAnti)
}

// HitSet maps the shared called set onto one player's board: local index ℓ
// is hit iff boardMapping[ℓ] has been called.
func HitSet(boardMapping []int, called map[int]struct{}) map[int]struct{} {
	hits := make(map[int]struct{})
	for local, master := range boardMapping {
		if _, ok := called[master]; ok {
			hits[local] = struct{}{}
		}
	}

	return hits
}

// IsWinner reports whether a single player's board satisfies the win
// condition of the given mode.
func IsWinner(mode string, gridSize int, boardMapping []int, called map[int]struct{}) bool {
	hits := HitSet(boardMapping, called)

	if mode == entity.ModeBlackout {
		return len(hits) == gridSize*gridSize
	}

	return hasCompleteLine(gridSize, hits)
}

// FindWinner evaluates players in roster order and returns the first one
// whose board wins, or nil. Calls are processed strictly sequentially by
// the coordinator, so list order is the only tie-break that can apply.
func FindWinner(mode string, gridSize int, players []*entity.Player, called map[int]struct{}) *entity.Player {
	for _, player := range players {
		if !player.HasBoard() {
			continue
		}

		if IsWinner(mode, gridSize, player.BoardMapping, called) {
			return player
		}
	}

	return nil
}

func hasCompleteLine(gridSize int, hits map[int]struct{}) bool {
	for _, line := range Lines(gridSize) {
		if lineComplete(line, hits) {
			return true
		}
	}
	return false
}

func lineComplete(line []int, hits map[int]struct{}) bool {
	for _, local := range line {
		if _, ok := hits[local]; !ok {
			return false
		}
	}
	return true
}
