package wincheck

import "github.com/rocketscienceinc/gridgames-backend/internal/entity"

var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// ThreeInRow is the 3x3 tic-tac-toe detector.
type ThreeInRow struct{}

func (ThreeInRow) Evaluate(board entity.Board, player entity.Mark) bool {
	if player == entity.EmptyCell || len(board) != TicTacToeCells || board.IsEmpty() {
		return false
	}

	for _, combo := range WinCombos {
		if board[combo[0]] == player && board[combo[1]] == player && board[combo[2]] == player {
			return true
		}
	}

	return false
}

func (ThreeInRow) IsDraw(board entity.Board) bool {
	return isDraw(board)
}
