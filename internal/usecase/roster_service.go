package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/puppy-bowl/internal/domain/player"
	"github.com/riskibarqy/puppy-bowl/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// RemovalOutcome classifies the answer of a remove-from-roster call.
type RemovalOutcome string

const (
	RemovalRemoved     RemovalOutcome = "removed"
	RemovalAlreadyGone RemovalOutcome = "already_gone"
	RemovalFailed      RemovalOutcome = "failed"
)

// RemovalResult is the explicit result of RosterService.RemovePlayer. Err is set only
// when Outcome is RemovalFailed.
type RemovalResult struct {
	PlayerID int64
	Outcome  RemovalOutcome
	Err      error
}

// Succeeded reports whether the player is no longer on the roster.
func (r RemovalResult) Succeeded() bool {
	return r.Outcome == RemovalRemoved || r.Outcome == RemovalAlreadyGone
}

type NewPlayerInput struct {
	Name     string
	Breed    string
	ImageURL string
}

// RosterService is the boundary between the roster API client and the views. Reads never
// fail past this point: a failed list is an empty list, a failed lookup is "no player".
type RosterService struct {
	roster player.Roster
	logger *logging.Logger
}

func NewRosterService(roster player.Roster, logger *logging.Logger) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterService{
		roster: roster,
		logger: logger,
	}
}

// FetchAllPlayers returns the roster in API order, or nil after logging when the fetch fails.
func (s *RosterService) FetchAllPlayers(ctx context.Context) []player.Player {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.FetchAllPlayers")
	defer span.End()

	players, err := s.roster.ListPlayers(ctx)
	if err != nil {
		markSpanError(span, err)
		s.logger.ErrorContext(ctx, "Uh oh, trouble fetching players!", "error", err)
		return nil
	}

	span.SetAttributes(attribute.Int("roster.players", len(players)))
	return players
}

// FetchSinglePlayer returns the player and true, or false after logging when the fetch fails.
// Not found and unreachable are deliberately indistinguishable to callers.
func (s *RosterService) FetchSinglePlayer(ctx context.Context, playerID int64) (player.Player, bool) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.FetchSinglePlayer", attribute.Int64("player.id", playerID))
	defer span.End()

	item, err := s.roster.GetPlayer(ctx, playerID)
	if err != nil {
		markSpanError(span, err)
		s.logger.ErrorContext(ctx, fmt.Sprintf("Oh no, trouble fetching player #%d!", playerID),
			"player_id", playerID,
			"error", err,
		)
		return player.Player{}, false
	}

	return item, true
}

func (s *RosterService) RemovePlayer(ctx context.Context, playerID int64) RemovalResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RemovePlayer", attribute.Int64("player.id", playerID))
	defer span.End()

	err := s.roster.RemovePlayer(ctx, playerID)
	switch {
	case err == nil:
		s.logger.InfoContext(ctx, "player removed from roster", "player_id", playerID)
		return RemovalResult{PlayerID: playerID, Outcome: RemovalRemoved}
	case errors.Is(err, ErrNotFound):
		s.logger.WarnContext(ctx, "player already absent from roster", "player_id", playerID)
		return RemovalResult{PlayerID: playerID, Outcome: RemovalAlreadyGone}
	default:
		markSpanError(span, err)
		s.logger.ErrorContext(ctx, fmt.Sprintf("Whoops, trouble removing player #%d from the roster!", playerID),
			"player_id", playerID,
			"error", err,
		)
		return RemovalResult{PlayerID: playerID, Outcome: RemovalFailed, Err: err}
	}
}

func (s *RosterService) CreatePlayer(ctx context.Context, input NewPlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.CreatePlayer")
	defer span.End()

	draft := player.Draft{
		Name:     strings.TrimSpace(input.Name),
		Breed:    strings.TrimSpace(input.Breed),
		ImageURL: strings.TrimSpace(input.ImageURL),
	}
	if draft.Name == "" {
		return player.Player{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}
	if draft.Breed == "" {
		return player.Player{}, fmt.Errorf("%w: player breed is required", ErrInvalidInput)
	}

	created, err := s.roster.CreatePlayer(ctx, draft)
	if err != nil {
		markSpanError(span, err)
		s.logger.ErrorContext(ctx, "trouble adding player to the roster", "name", draft.Name, "error", err)
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}

	s.logger.InfoContext(ctx, "player added to roster", "player_id", created.ID, "name", created.Name)
	return created, nil
}
