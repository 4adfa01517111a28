package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	PlayerZero Mark = "0"
	PlayerOne  Mark = "1"

	EmptyCell Mark = ""
)

const (
	OutcomeUnset  OutcomeKind = ""
	OutcomeWinner OutcomeKind = "winner"
	OutcomeDraw   OutcomeKind = "draw"
)

var (
	ErrGameoverAlreadySet = errors.New("gameover is already set")
	ErrOutcomeNotTerminal = errors.New("outcome is not terminal")
)

// Mark is the symbol a player leaves on the board.
type Mark string

// Board is a fixed-length, row-major sequence of cells.
type Board []Mark

type OutcomeKind string

// Outcome is the terminal verdict of a match. The zero value means the match is still running.
type Outcome struct {
	Kind   OutcomeKind `json:"kind,omitempty"`
	Winner Mark        `json:"winner,omitempty"`
}

type GameState struct {
	Board    Board   `json:"board"`
	LastMove *int    `json:"last_move"`
	AuxError *string `json:"aux_error,omitempty"`
}

type MatchContext struct {
	CurrentPlayer Mark    `json:"current_player"`
	TurnCount     int     `json:"turn_count"`
	Gameover      Outcome `json:"gameover"`
}

// AIPlayerConfig describes an AI-controlled seat.
type AIPlayerConfig struct {
	SeatIndex     int            `json:"seat_index"`
	Endpoint      string         `json:"endpoint"`
	ConfigSchema  map[string]any `json:"config_schema,omitempty"`
	RuntimeConfig map[string]any `json:"runtime_config,omitempty"`
}

type Match struct {
	ID        string           `json:"id"`
	Game      string           `json:"game"`
	State     GameState        `json:"state"`
	Ctx       MatchContext     `json:"ctx"`
	Seats     []AIPlayerConfig `json:"seats,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func NewBoard(cells int) Board {
	return make(Board, cells)
}

func (that Board) IsEmpty() bool {
	for _, cell := range that {
		if cell != EmptyCell {
			return false
		}
	}

	return true
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that Board) Occupied() int {
	count := 0
	for _, cell := range that {
		if cell != EmptyCell {
			count++
		}
	}

	return count
}

func (that Board) Clone() Board {
	cp := make(Board, len(that))
	copy(cp, that)

	return cp
}

// MarshalJSON writes an empty cell as null.
func (that Mark) MarshalJSON() ([]byte, error) {
	if that == EmptyCell {
		return []byte("null"), nil
	}

	return json.Marshal(string(that))
}

func (that *Mark) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*that = EmptyCell
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal mark: %w", err)
	}

	*that = Mark(raw)

	return nil
}

func (that Mark) Opponent() Mark {
	if that == PlayerZero {
		return PlayerOne
	}
	return PlayerZero
}

// MarkForSeat maps a seat index to the mark that seat plays.
func MarkForSeat(seat int) Mark {
	if seat == 1 {
		return PlayerOne
	}
	return PlayerZero
}

func WinnerOutcome(player Mark) Outcome {
	return Outcome{Kind: OutcomeWinner, Winner: player}
}

func DrawOutcome() Outcome {
	return Outcome{Kind: OutcomeDraw}
}

func (that Outcome) IsTerminal() bool {
	return that.Kind != OutcomeUnset
}

// Summary renders the outcome for humans.
func (that Outcome) Summary() string {
	switch that.Kind {
	case OutcomeWinner:
		return fmt.Sprintf("Player %s won", that.Winner)
	case OutcomeDraw:
		return "Draw"
	default:
		return "In progress"
	}
}

// Finish records the terminal outcome. It can succeed only once per match.
func (that *MatchContext) Finish(outcome Outcome) error {
	if that.Gameover.IsTerminal() {
		return ErrGameoverAlreadySet
	}

	if !outcome.IsTerminal() {
		return ErrOutcomeNotTerminal
	}

	that.Gameover = outcome

	return nil
}

func (that *MatchContext) IsFinished() bool {
	return that.Gameover.IsTerminal()
}

func (that *Match) Status() string {
	if that.Ctx.IsFinished() {
		return StatusFinished
	}
	return StatusOngoing
}

// SeatFor returns the AI configuration of the seat playing mark, if that seat is AI-controlled.
func (that *Match) SeatFor(mark Mark) (AIPlayerConfig, bool) {
	for _, seat := range that.Seats {
		if MarkForSeat(seat.SeatIndex) == mark {
			return seat, true
		}
	}

	return AIPlayerConfig{}, false
}
