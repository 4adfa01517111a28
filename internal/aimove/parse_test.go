package aimove

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMove(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		cells int
		want  int
	}{
		{name: "Bare digit", text: "4", cells: 9, want: 4},
		{name: "Bare digit with whitespace", text: " 7\n", cells: 9, want: 7},
		{name: "Number inside a sentence", text: "I pick 6.", cells: 9, want: 6},
		{name: "Out of range numbers are skipped", text: "10 is off the board, so 3", cells: 9, want: 3},
		{name: "Position name", text: "I choose the top-right corner", cells: 9, want: 2},
		{name: "British spelling", text: "Centre please", cells: 9, want: 4},
		{name: "Compound name before its parts", text: "bottom-right", cells: 9, want: 8},
		{name: "Single direction", text: "go right", cells: 9, want: 5},
		{name: "Chinese corner", text: "我选左上", cells: 9, want: 0},
		{name: "Chinese edge", text: "上", cells: 9, want: 1},
		{name: "Coordinate pair", text: "(1, 2)", cells: 9, want: 5},
		{name: "Bracketed coordinate pair", text: "[0,0]", cells: 9, want: 0},
		{name: "Off-board pair reads as a number", text: "(3, 4)", cells: 9, want: 3},
		{name: "Numbers win over names", text: "5 is better than the center", cells: 9, want: 5},
		{name: "Names win over coordinates", text: "top-left (2, 2)", cells: 9, want: 0},
		{name: "Nothing usable", text: "I don't know", cells: 9, want: NoMove},
		{name: "Digit off the small board", text: "9", cells: 9, want: NoMove},
		{name: "Large board number", text: "42", cells: 81, want: 42},
		{name: "Large board number in a sentence", text: "Play 80 now", cells: 81, want: 80},
		{name: "Names do not apply to large boards", text: "center", cells: 81, want: NoMove},
		{name: "Large board pairs read as plain numbers", text: "(1, 2)", cells: 81, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMove(tt.text, tt.cells))
		})
	}
}
