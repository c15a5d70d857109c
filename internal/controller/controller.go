package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/puppy-bowl/internal/domain/player"
	"github.com/riskibarqy/puppy-bowl/internal/metrics"
	"github.com/riskibarqy/puppy-bowl/internal/platform/logging"
	"github.com/riskibarqy/puppy-bowl/internal/usecase"
	"github.com/riskibarqy/puppy-bowl/internal/view"
)

// ErrRemovalFailed is returned by Dispatch when a removal did not go through. Nothing is
// rendered in that case.
var ErrRemovalFailed = errors.New("player removal failed")

type State string

const (
	StateList   State = "list"
	StateDetail State = "detail"
)

type ActionKind string

const (
	ActionInit       ActionKind = "init"
	ActionSeeDetails ActionKind = "see_details"
	ActionBack       ActionKind = "back"
	ActionOpenPlayer ActionKind = "open_player"
	ActionRemove     ActionKind = "remove"
	ActionCreate     ActionKind = "create"
)

// Action is a user interaction. Player is set for ActionSeeDetails, PlayerID for
// ActionOpenPlayer and ActionRemove, NewPlayer for ActionCreate. InputErr carries a
// form validation failure found before dispatch; the create call is skipped when set.
type Action struct {
	Kind      ActionKind
	Player    player.Player
	PlayerID  int64
	NewPlayer usecase.NewPlayerInput
	InputErr  error
}

// View is the state the surface was left in. Player is set only in StateDetail.
type View struct {
	State  State
	Player player.Player
}

type Roster interface {
	FetchAllPlayers(ctx context.Context) []player.Player
	FetchSinglePlayer(ctx context.Context, playerID int64) (player.Player, bool)
	RemovePlayer(ctx context.Context, playerID int64) usecase.RemovalResult
	CreatePlayer(ctx context.Context, input usecase.NewPlayerInput) (player.Player, error)
}

type Renderer interface {
	RenderAllPlayers(surface view.Surface, players []player.Player) error
	RenderAllPlayersWithForm(surface view.Surface, players []player.Player, form view.NewPlayerForm) error
	RenderSinglePlayer(surface view.Surface, item player.Player) error
}

// Controller maps actions to fetches and renders. It keeps no state between calls.
type Controller struct {
	roster   Roster
	renderer Renderer
	logger   *logging.Logger
	metrics  *metrics.Recorder
}

func New(roster Roster, renderer Renderer, logger *logging.Logger, recorder *metrics.Recorder) *Controller {
	if logger == nil {
		logger = logging.Default()
	}

	return &Controller{
		roster:   roster,
		renderer: renderer,
		logger:   logger.Named("controller"),
		metrics:  recorder,
	}
}

func (c *Controller) Dispatch(ctx context.Context, surface view.Surface, action Action) (View, error) {
	ctx, span := startSpan(ctx, "controller.Controller.Dispatch", string(action.Kind))
	defer span.End()

	c.logger.DebugContext(ctx, "dispatch action", "action", action.Kind)

	switch action.Kind {
	case ActionInit, ActionBack:
		return c.showRoster(ctx, surface)
	case ActionSeeDetails:
		return c.showPlayer(surface, action.Player)
	case ActionOpenPlayer:
		item, ok := c.roster.FetchSinglePlayer(ctx, action.PlayerID)
		if !ok {
			return c.showRoster(ctx, surface)
		}
		return c.showPlayer(surface, item)
	case ActionRemove:
		result := c.roster.RemovePlayer(ctx, action.PlayerID)
		if !result.Succeeded() {
			return View{}, fmt.Errorf("%w: player=%d: %v", ErrRemovalFailed, action.PlayerID, result.Err)
		}
		return c.showRoster(ctx, surface)
	case ActionCreate:
		return c.createPlayer(ctx, surface, action.NewPlayer, action.InputErr)
	default:
		return View{}, fmt.Errorf("unknown action %q", action.Kind)
	}
}

func (c *Controller) showRoster(ctx context.Context, surface view.Surface) (View, error) {
	players := c.roster.FetchAllPlayers(ctx)
	if err := c.renderer.RenderAllPlayers(surface, players); err != nil {
		return View{}, err
	}

	c.metrics.RecordRender(string(StateList))
	return View{State: StateList}, nil
}

func (c *Controller) showPlayer(surface view.Surface, item player.Player) (View, error) {
	if err := c.renderer.RenderSinglePlayer(surface, item); err != nil {
		return View{}, err
	}

	c.metrics.RecordRender(string(StateDetail))
	return View{State: StateDetail, Player: item}, nil
}

func (c *Controller) createPlayer(ctx context.Context, surface view.Surface, input usecase.NewPlayerInput, inputErr error) (View, error) {
	err := inputErr
	if err == nil {
		_, err = c.roster.CreatePlayer(ctx, input)
	}

	form := view.NewPlayerForm{}
	if err != nil {
		form = view.NewPlayerForm{
			Name:     input.Name,
			Breed:    input.Breed,
			ImageURL: input.ImageURL,
			Error:    createErrorMessage(err),
		}
	}

	players := c.roster.FetchAllPlayers(ctx)
	if err := c.renderer.RenderAllPlayersWithForm(surface, players, form); err != nil {
		return View{}, err
	}

	c.metrics.RecordRender(string(StateList))
	return View{State: StateList}, nil
}

func createErrorMessage(err error) string {
	if errors.Is(err, usecase.ErrInvalidInput) {
		return "Please check the new player's name, breed and image URL."
	}
	return "Trouble adding that player, please try again."
}
