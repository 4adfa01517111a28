package aimove

import (
	"fmt"
	"sort"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

// center first, then corners, then edges
var ticTacToeOrder = []int{4, 0, 2, 6, 8, 1, 3, 5, 7}

// FallbackOrder lists every cell of a board with the given number of cells in preference order.
// Larger boards rank cells by ring distance from the center, ties broken by index.
func FallbackOrder(cells int) []int {
	if cells == ticTacToeCells {
		return append([]int(nil), ticTacToeOrder...)
	}

	side := boardSide(cells)
	if side == 0 {
		order := make([]int, cells)
		for idx := range order {
			order[idx] = idx
		}
		return order
	}

	center := side / 2
	order := make([]int, cells)
	for idx := range order {
		order[idx] = idx
	}

	ring := func(idx int) int {
		return max(abs(idx/side-center), abs(idx%side-center))
	}

	sort.SliceStable(order, func(i, j int) bool {
		return ring(order[i]) < ring(order[j])
	})

	return order
}

// Fallback picks the first empty cell in FallbackOrder.
func Fallback(board entity.Board) (int, error) {
	for _, idx := range FallbackOrder(len(board)) {
		if board[idx] == entity.EmptyCell {
			return idx, nil
		}
	}

	return NoMove, fmt.Errorf("%w: board is full", apperror.ErrNoMoveAvailable)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
