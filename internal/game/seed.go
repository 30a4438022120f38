package game

import (
	_ "embed"
	"time"
)

const (
	SnakeID = "default-snake"
	TileID  = "default-2048"
)

var (
	//go:embed seeds/snake.html
	snakeDocument string

	//go:embed seeds/2048.html
	tileDocument string
)

// Seeds returns the two built-in games, newest first, stamped relative to now.
func Seeds(now time.Time) []Game {
	ms := now.UnixMilli()
	return []Game{
		{
			ID:        SnakeID,
			Prompt:    "A simple retro snake game with a score counter, dark theme, and neon green accents.",
			Code:      NewDocument(snakeDocument),
			CreatedAt: ms,
		},
		{
			ID:        TileID,
			Prompt:    "A classic 2048 puzzle game with a retro theme.",
			Code:      NewDocument(tileDocument),
			CreatedAt: ms - 1000,
		},
	}
}
