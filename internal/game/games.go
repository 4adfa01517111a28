package game

const (
	TicTacToe = "tic-tac-toe"
	Gomoku    = "gomoku"

	ticTacToeSide = 3
	gomokuSide    = 9
)

// NewTicTacToe is the 3x3 three-in-a-row game.
func NewTicTacToe(onEnd EndHook) (*Definition, error) {
	return newDefinition(TicTacToe, ticTacToeSide, onEnd)
}

// NewGomoku is the 9x9 five-in-a-row game.
func NewGomoku(onEnd EndHook) (*Definition, error) {
	return newDefinition(Gomoku, gomokuSide, onEnd)
}
