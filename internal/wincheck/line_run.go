package wincheck

import "github.com/rocketscienceinc/gridgames-backend/internal/entity"

// directions cover horizontal, vertical and both diagonals; the opposite
// direction is walked by negating the step.
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// LineRun detects need-in-a-row on a square board of the given width.
type LineRun struct {
	width int
	need  int
}

func NewLineRun(width, need int) LineRun {
	return LineRun{width: width, need: need}
}

func (that LineRun) Evaluate(board entity.Board, player entity.Mark) bool {
	if player == entity.EmptyCell || len(board) != that.width*that.width || board.IsEmpty() {
		return false
	}

	for idx, cell := range board {
		if cell != player {
			continue
		}

		row, col := idx/that.width, idx%that.width
		for _, dir := range directions {
			count := 1
			count += that.countDirection(board, row, col, dir[0], dir[1], player)
			count += that.countDirection(board, row, col, -dir[0], -dir[1], player)

			if count >= that.need {
				return true
			}
		}
	}

	return false
}

func (that LineRun) IsDraw(board entity.Board) bool {
	return isDraw(board)
}

// countDirection walks at most need-1 steps from (row, col), stopping at the edge or the first foreign cell.
func (that LineRun) countDirection(board entity.Board, row, col, dRow, dCol int, player entity.Mark) int {
	count := 0

	r, c := row+dRow, col+dCol
	for step := 1; step < that.need; step++ {
		if r < 0 || r >= that.width || c < 0 || c >= that.width {
			break
		}

		if board[r*that.width+c] != player {
			break
		}

		count++
		r += dRow
		c += dCol
	}

	return count
}
