package entity

import "time"

// Standing is one leaderboard row of a finished game.
type Standing struct {
	PlayerID       string `json:"playerId"`
	Name           string `json:"name"`
	Score          int    `json:"score"`
	SquaresHit     int    `json:"squaresHit"`
	LinesCompleted int    `json:"linesCompleted"`
	IsWinner       bool   `json:"isWinner"`
}

// GameResult is the archived outcome of a finished room.
type GameResult struct {
	Code        string     `json:"code"`
	RoomName    string     `json:"roomName"`
	WinnerID    string     `json:"winnerId"`
	WinnerName  string     `json:"winnerName"`
	Reason      string     `json:"reason"`
	FinishedAt  time.Time  `json:"finishedAt"`
	Leaderboard []Standing `json:"leaderboard"`
}
