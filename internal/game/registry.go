package game

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
)

var ErrDuplicateGame = errors.New("game is already registered")

// Registry holds the game definitions known to one server.
type Registry struct {
	games map[string]*Definition
}

func NewRegistry(defs ...*Definition) (*Registry, error) {
	registry := &Registry{
		games: make(map[string]*Definition, len(defs)),
	}

	for _, def := range defs {
		if _, ok := registry.games[def.Name()]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateGame, def.Name())
		}

		registry.games[def.Name()] = def
	}

	return registry, nil
}

// NewDefaultRegistry registers tic-tac-toe and gomoku, both ending through onEnd.
func NewDefaultRegistry(onEnd EndHook) (*Registry, error) {
	ticTacToe, err := NewTicTacToe(onEnd)
	if err != nil {
		return nil, err
	}

	gomoku, err := NewGomoku(onEnd)
	if err != nil {
		return nil, err
	}

	return NewRegistry(ticTacToe, gomoku)
}

func (that *Registry) Get(name string) (*Definition, error) {
	def, ok := that.games[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, name)
	}

	return def, nil
}

func (that *Registry) Names() []string {
	names := make([]string, 0, len(that.games))
	for name := range that.games {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
