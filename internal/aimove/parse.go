package aimove

import (
	"regexp"
	"strconv"
	"strings"
)

// NoMove is returned when nothing usable could be read or no cell is left.
const NoMove = -1

const ticTacToeCells = 9

type positionName struct {
	name string
	cell int
}

// positionTable is scanned in order, so compound names must come before their parts.
var positionTable = []positionName{
	{"center", 4},
	{"centre", 4},
	{"middle", 4},
	{"中", 4},
	{"top-left", 0},
	{"左上", 0},
	{"top-right", 2},
	{"右上", 2},
	{"bottom-left", 6},
	{"左下", 6},
	{"bottom-right", 8},
	{"右下", 8},
	{"top", 1},
	{"上", 1},
	{"bottom", 7},
	{"下", 7},
	{"left", 3},
	{"左", 3},
	{"right", 5},
	{"右", 5},
}

var (
	numberRe     = regexp.MustCompile(`\b\d+\b`)
	coordinateRe = regexp.MustCompile(`[(\[]\s*(\d+)\s*,\s*(\d+)\s*[)\]]`)
)

type parseStrategy func(text string, cells int) int

// strategies run in priority order; the first one that yields a cell wins.
var strategies = []parseStrategy{
	parseWhole,
	parseStandaloneNumber,
	parsePositionName,
	parseCoordinates,
}

// ParseMove reads a cell index out of a free-text provider response.
func ParseMove(text string, cells int) int {
	for _, strategy := range strategies {
		if cell := strategy(text, cells); cell != NoMove {
			return cell
		}
	}

	return NoMove
}

func parseWhole(text string, cells int) int {
	cell, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || !inRange(cell, cells) {
		return NoMove
	}

	return cell
}

// parseStandaloneNumber takes the first free-standing number in range.
// Numbers inside a "(row, col)" pair that parseCoordinates accepts are left to it.
func parseStandaloneNumber(text string, cells int) int {
	text = coordinateRe.ReplaceAllStringFunc(text, func(pair string) string {
		if parseCoordinates(pair, cells) == NoMove {
			return pair
		}
		return " "
	})

	for _, match := range numberRe.FindAllString(text, -1) {
		cell, err := strconv.Atoi(match)
		if err == nil && inRange(cell, cells) {
			return cell
		}
	}

	return NoMove
}

func parsePositionName(text string, cells int) int {
	if cells != ticTacToeCells {
		return NoMove
	}

	lower := strings.ToLower(text)
	for _, pos := range positionTable {
		if strings.Contains(lower, pos.name) {
			return pos.cell
		}
	}

	return NoMove
}

func parseCoordinates(text string, cells int) int {
	if cells != ticTacToeCells {
		return NoMove
	}

	match := coordinateRe.FindStringSubmatch(text)
	if match == nil {
		return NoMove
	}

	row, rowErr := strconv.Atoi(match[1])
	col, colErr := strconv.Atoi(match[2])
	if rowErr != nil || colErr != nil || row < 0 || row > 2 || col < 0 || col > 2 {
		return NoMove
	}

	return row*3 + col
}

func inRange(cell, cells int) bool {
	return cell >= 0 && cell < cells
}
