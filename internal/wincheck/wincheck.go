// Package wincheck decides victory and draw for a board position.
//
// Detectors are pure: they never mutate the board and give the same verdict
// for the same board no matter how often or in which order they are asked.
package wincheck

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

const (
	TicTacToeCells = 9
	GomokuCells    = 81

	gomokuWidth    = 9
	gomokuWinCount = 5
)

var ErrUnsupportedBoard = errors.New("unsupported board size")

type Detector interface {
	// Evaluate reports whether player has a winning line on board.
	Evaluate(board entity.Board, player entity.Mark) bool
	// IsDraw reports whether no empty cell is left.
	IsDraw(board entity.Board) bool
}

// ForBoard picks the detector matching the number of cells on the board.
func ForBoard(cells int) (Detector, error) {
	switch cells {
	case TicTacToeCells:
		return ThreeInRow{}, nil
	case GomokuCells:
		return NewLineRun(gomokuWidth, gomokuWinCount), nil
	default:
		return nil, fmt.Errorf("%w: %d cells", ErrUnsupportedBoard, cells)
	}
}

func isDraw(board entity.Board) bool {
	if board.IsEmpty() {
		return false
	}

	return board.IsFull()
}
