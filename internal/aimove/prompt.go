package aimove

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

const (
	ownSymbol      = "X"
	opponentSymbol = "O"
	emptySymbol    = "."
)

var positionNames = [9]string{
	"top-left", "top", "top-right",
	"left", "center", "right",
	"bottom-left", "bottom", "bottom-right",
}

// BuildPrompt renders board from the point of view of the seat and asks for one cell index.
func BuildPrompt(board entity.Board, seatIndex int) string {
	side := boardSide(len(board))
	own := entity.MarkForSeat(seatIndex)

	var sb strings.Builder

	fmt.Fprintf(&sb, "You are playing %s as %s. Your opponent plays %s.\n\n", gameTitle(len(board)), ownSymbol, opponentSymbol)

	sb.WriteString("Current board:\n")
	writeGrid(&sb, board, side, own)

	sb.WriteString("\nCell indices:\n")
	if len(board) == ticTacToeCells {
		writeIndexGrid(&sb, side)
		for idx, name := range positionNames {
			fmt.Fprintf(&sb, "%d = %s (row %d, column %d)\n", idx, name, idx/side, idx%side)
		}
	} else {
		fmt.Fprintf(&sb, "Rows and columns are numbered 0 to %d from the top-left corner; index = row * %d + column.\n", side-1, side)
	}

	sb.WriteString("\nStrategy checklist:\n")
	sb.WriteString("1. If you can win with this move, take it.\n")
	sb.WriteString("2. If your opponent can win on their next move, block it.\n")
	sb.WriteString("3. Otherwise prefer the center.\n")
	sb.WriteString("4. Then prefer a corner.\n")
	sb.WriteString("5. Then take an edge.\n")

	fmt.Fprintf(&sb, "\nEmpty cells: %s\n", joinInts(emptyCells(board)))

	if len(board) <= 10 {
		fmt.Fprintf(&sb, "\nRespond with a single digit (0-%d) for the cell you choose and nothing else.", len(board)-1)
	} else {
		fmt.Fprintf(&sb, "\nRespond with a single number (0-%d) for the cell you choose and nothing else.", len(board)-1)
	}

	return sb.String()
}

func writeGrid(sb *strings.Builder, board entity.Board, side int, own entity.Mark) {
	for row := 0; row < side; row++ {
		cells := make([]string, side)
		for col := 0; col < side; col++ {
			switch board[row*side+col] {
			case entity.EmptyCell:
				cells[col] = emptySymbol
			case own:
				cells[col] = ownSymbol
			default:
				cells[col] = opponentSymbol
			}
		}

		sb.WriteString(" " + strings.Join(cells, " | ") + "\n")
		if side == 3 && row < side-1 {
			sb.WriteString("---+---+---\n")
		}
	}
}

func writeIndexGrid(sb *strings.Builder, side int) {
	for row := 0; row < side; row++ {
		cells := make([]string, side)
		for col := 0; col < side; col++ {
			cells[col] = fmt.Sprint(row*side + col)
		}

		sb.WriteString(" " + strings.Join(cells, " | ") + "\n")
	}
}

func gameTitle(cells int) string {
	if cells == ticTacToeCells {
		return "tic-tac-toe on a 3x3 board"
	}
	side := boardSide(cells)
	return fmt.Sprintf("five in a row on a %dx%d board", side, side)
}

func emptyCells(board entity.Board) []int {
	cells := make([]int, 0, len(board))
	for idx, cell := range board {
		if cell == entity.EmptyCell {
			cells = append(cells, idx)
		}
	}

	return cells
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return "none"
	}

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}

	return strings.Join(parts, ", ")
}

// boardSide returns the side of a square board, or 0 when cells is not a square.
func boardSide(cells int) int {
	for side := 1; side*side <= cells; side++ {
		if side*side == cells {
			return side
		}
	}

	return 0
}
