package bingo

const (
	pointsPerSquare = 1
	pointsPerLine   = 3
	fullHouseBonus  = 9
)

// Tally is the point breakdown for one player's board.
type Tally struct {
	Score          int
	SquaresHit     int
	LinesCompleted int
}

// Evaluate computes a player's tally from their board mapping and the
// shared called set. Completed lines count full rows and columns only;
// diagonals trigger a win but earn no line bonus.
func Evaluate(gridSize int, boardMapping []int, called map[int]struct{}) Tally {
	hits := HitSet(boardMapping, called)

	lines := 0
	for _, line := range Lines(gridSize)[:2*gridSize] {
		if lineComplete(line, hits) {
			lines++
		}
	}

	score := len(hits)*pointsPerSquare + lines*pointsPerLine
	if len(hits) == gridSize*gridSize {
		score += fullHouseBonus
	}

	return Tally{
		Score:          score,
		SquaresHit:     len(hits),
		LinesCompleted: lines,
	}
}
