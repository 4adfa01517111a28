package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/gridgames-backend/internal/aimove"
	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
	"github.com/rocketscienceinc/gridgames-backend/internal/game"
)

type matchRepo interface {
	CreateOrUpdate(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameCatalog interface {
	Get(name string) (*game.Definition, error)
	Names() []string
}

type moveDispatcher interface {
	Dispatch(match *entity.Match, moveName string, args []any, playerID entity.Mark) error
}

type aiPlayer interface {
	ChooseMove(ctx context.Context, board entity.Board, seat entity.AIPlayerConfig) aimove.Decision
}

type matchLock struct {
	mu   sync.Mutex
	refs int
}

// MatchManager hosts matches: it loads them, feeds moves to the dispatcher and stores the result.
// Moves of one match are serialized, different matches run in parallel.
type MatchManager struct {
	logger     *slog.Logger
	matchRepo  matchRepo
	games      gameCatalog
	dispatcher moveDispatcher
	ai         aiPlayer

	mu    sync.Mutex
	locks map[string]*matchLock
}

func NewMatchManager(logger *slog.Logger, matchRepo matchRepo, games gameCatalog, dispatcher moveDispatcher, ai aiPlayer) *MatchManager {
	return &MatchManager{
		logger:     logger.With("component", "match_manager"),
		matchRepo:  matchRepo,
		games:      games,
		dispatcher: dispatcher,
		ai:         ai,
		locks:      make(map[string]*matchLock),
	}
}

func (that *MatchManager) Games() []string {
	return that.games.Names()
}

// CreateMatch starts a match of gameName. Seats lists the AI-controlled seats; the rest are human.
// When seat 0 is an AI its first move is played right away.
func (that *MatchManager) CreateMatch(ctx context.Context, gameName string, seats []entity.AIPlayerConfig) (*entity.Match, error) {
	log := that.logger.With("method", "CreateMatch", "game", gameName)

	def, err := that.games.Get(gameName)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	if err = validateSeats(seats, def.MaxPlayers()); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	match := &entity.Match{
		ID:        uuid.NewString(),
		Game:      def.Name(),
		State:     def.Setup(),
		Ctx:       entity.MatchContext{CurrentPlayer: entity.PlayerZero},
		Seats:     seats,
		CreatedAt: now,
		UpdatedAt: now,
	}

	unlock := that.lock(match.ID)
	defer unlock()

	if err = that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	log.Info("match created", "matchID", match.ID, "aiSeats", len(seats))

	if err = that.continueWithAI(ctx, match); err != nil {
		return nil, err
	}

	return match, nil
}

func (that *MatchManager) GetMatch(ctx context.Context, id string) (*entity.Match, error) {
	match, err := that.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, nil
}

func (that *MatchManager) DeleteMatch(ctx context.Context, id string) error {
	unlock := that.lock(id)
	defer unlock()

	if _, err := that.matchRepo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("failed to get match: %w", err)
	}

	if err := that.matchRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	return nil
}

// MakeMove applies a move sent by a human seat. If the next seat is an AI, its answer is played too.
func (that *MatchManager) MakeMove(ctx context.Context, id, moveName string, args []any, playerID entity.Mark) (*entity.Match, error) {
	unlock := that.lock(id)
	defer unlock()

	match, err := that.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	if moveName == game.MoveReportAIError {
		return nil, fmt.Errorf("%w: %w: %s is reserved for AI seats", apperror.ErrInvalidMove, apperror.ErrUnknownMove, moveName)
	}

	if _, isAI := match.SeatFor(playerID); isAI {
		return nil, fmt.Errorf("%w: %w: seat %s is AI-controlled", apperror.ErrInvalidMove, apperror.ErrNotYourTurn, playerID)
	}

	if err = that.dispatcher.Dispatch(match, moveName, args, playerID); err != nil {
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	if err = that.save(ctx, match); err != nil {
		return nil, err
	}

	if err = that.continueWithAI(ctx, match); err != nil {
		return nil, err
	}

	return match, nil
}

// PlayAITurn plays one move for the AI seat whose turn it is.
func (that *MatchManager) PlayAITurn(ctx context.Context, id string) (*entity.Match, error) {
	unlock := that.lock(id)
	defer unlock()

	match, err := that.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	if match.Ctx.IsFinished() {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrGameFinished)
	}

	seat, ok := match.SeatFor(match.Ctx.CurrentPlayer)
	if !ok {
		return nil, fmt.Errorf("%w: player %s", apperror.ErrNotAISeat, match.Ctx.CurrentPlayer)
	}

	if err = that.playAI(ctx, match, seat); err != nil {
		return nil, err
	}

	if err = that.save(ctx, match); err != nil {
		return nil, err
	}

	return match, nil
}

// continueWithAI plays a single AI move when the seat to move is AI-controlled.
// Two AI seats never run a whole match inside one call; PlayAITurn drives them.
func (that *MatchManager) continueWithAI(ctx context.Context, match *entity.Match) error {
	if match.Ctx.IsFinished() {
		return nil
	}

	seat, ok := match.SeatFor(match.Ctx.CurrentPlayer)
	if !ok {
		return nil
	}

	if err := that.playAI(ctx, match, seat); err != nil {
		return err
	}

	return that.save(ctx, match)
}

func (that *MatchManager) playAI(ctx context.Context, match *entity.Match, seat entity.AIPlayerConfig) error {
	log := that.logger.With("method", "playAI", "matchID", match.ID, "seat", seat.SeatIndex)
	player := match.Ctx.CurrentPlayer

	decision := that.ai.ChooseMove(ctx, match.State.Board, seat)

	if decision.Reason != nil {
		if err := that.dispatcher.Dispatch(match, game.MoveReportAIError, []any{decision.Reason.Error()}, player); err != nil {
			log.Error("failed to record ai error", "error", err)
		}
	}

	if decision.Source == aimove.SourceNone {
		log.Warn("ai has no move to play")
		return nil
	}

	if err := that.dispatcher.Dispatch(match, game.MoveMake, []any{decision.Position}, player); err != nil {
		return fmt.Errorf("failed to play ai move: %w", err)
	}

	log.Info("ai move played", "position", decision.Position, "source", decision.Source)

	return nil
}

// save stores the match and, once a finished match is stored, reports its end.
// Every caller starts from an ongoing match, so a finished match is saved only once.
func (that *MatchManager) save(ctx context.Context, match *entity.Match) error {
	match.UpdatedAt = time.Now().UTC()

	if err := that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}

	if match.Ctx.IsFinished() {
		that.reportEnd(match)
	}

	return nil
}

func (that *MatchManager) reportEnd(match *entity.Match) {
	def, err := that.games.Get(match.Game)
	if err != nil {
		that.logger.Error("failed to report match end", "method", "reportEnd", "matchID", match.ID, "error", err)
		return
	}

	def.ReportEnd(match.ID, match.Ctx.Gameover)
}

// lock serializes work on one match id and returns the matching unlock.
func (that *MatchManager) lock(id string) func() {
	that.mu.Lock()
	entry, ok := that.locks[id]
	if !ok {
		entry = &matchLock{}
		that.locks[id] = entry
	}
	entry.refs++
	that.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		that.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(that.locks, id)
		}
		that.mu.Unlock()
	}
}

func validateSeats(seats []entity.AIPlayerConfig, players int) error {
	seen := make(map[int]bool, len(seats))

	for _, seat := range seats {
		if seat.SeatIndex < 0 || seat.SeatIndex >= players {
			return fmt.Errorf("%w: seat %d out of range", apperror.ErrInvalidSeats, seat.SeatIndex)
		}

		if seen[seat.SeatIndex] {
			return fmt.Errorf("%w: seat %d configured twice", apperror.ErrInvalidSeats, seat.SeatIndex)
		}
		seen[seat.SeatIndex] = true

		if seat.Endpoint == "" {
			return fmt.Errorf("%w: seat %d has no endpoint", apperror.ErrInvalidSeats, seat.SeatIndex)
		}
	}

	return nil
}
