package web

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/puppy-bowl/internal/controller"
	"github.com/riskibarqy/puppy-bowl/internal/platform/logging"
	"github.com/riskibarqy/puppy-bowl/internal/usecase"
	"github.com/riskibarqy/puppy-bowl/internal/view"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, surface view.Surface, action controller.Action) (controller.View, error)
}

type PageRenderer interface {
	RenderPage(w io.Writer, main template.HTML) error
}

type Handler struct {
	dispatcher Dispatcher
	pages      PageRenderer
	logger     *logging.Logger
	validator  *validator.Validate
}

func NewHandler(dispatcher Dispatcher, pages PageRenderer, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		dispatcher: dispatcher,
		pages:      pages,
		logger:     logger,
		validator:  validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "web.Handler.Healthz")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// Home renders the initial roster.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "web.Handler.Home")
	defer span.End()

	h.render(ctx, w, controller.Action{Kind: controller.ActionInit})
}

// Roster is the target of "Back to all players".
func (h *Handler) Roster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "web.Handler.Roster")
	defer span.End()

	h.render(ctx, w, controller.Action{Kind: controller.ActionBack})
}

func (h *Handler) SeeDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "web.Handler.SeeDetails")
	defer span.End()

	if err := parseForm(w, r); err != nil {
		writeError(ctx, w, err)
		return
	}
	req := seeDetailsRequest{Player: strings.TrimSpace(r.PostFormValue("player"))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := view.DecodePlayerToken(req.Player)
	if err != nil {
		h.logger.WarnContext(ctx, "rejected player token", "error", err)
		writeError(ctx, w, errors.Join(usecase.ErrInvalidInput, err))
		return
	}

	h.render(ctx, w, controller.Action{Kind: controller.ActionSeeDetails, Player: item})
}

func (h *Handler) OpenPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "web.Handler.OpenPlayer")
	defer span.End()

	req, err := parsePlayerID(r)
	if err == nil {
		err = h.validateRequest(ctx, req)
	}
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	h.render(ctx, w, controller.Action{Kind: controller.ActionOpenPlayer, PlayerID: req.PlayerID})
}

// RemovePlayer answers with the re-rendered roster on success. On failure it answers 204
// so the browser keeps the page it already shows.
func (h *Handler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "web.Handler.RemovePlayer")
	defer span.End()

	req, err := parsePlayerID(r)
	if err == nil {
		err = h.validateRequest(ctx, req)
	}
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	surface := view.NewMainContainer()
	_, err = h.dispatcher.Dispatch(ctx, surface, controller.Action{Kind: controller.ActionRemove, PlayerID: req.PlayerID})
	switch {
	case errors.Is(err, controller.ErrRemovalFailed):
		w.WriteHeader(http.StatusNoContent)
	case err != nil:
		h.logger.ErrorContext(ctx, "dispatch remove failed", "player_id", req.PlayerID, "error", err)
		writeInternalError(ctx, w)
	default:
		h.writePage(ctx, w, surface.Content())
	}
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "web.Handler.CreatePlayer")
	defer span.End()

	if err := parseForm(w, r); err != nil {
		writeError(ctx, w, err)
		return
	}
	req := createPlayerRequest{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Breed:    strings.TrimSpace(r.PostFormValue("breed")),
		ImageURL: strings.TrimSpace(r.PostFormValue("imageUrl")),
	}

	h.render(ctx, w, controller.Action{
		Kind: controller.ActionCreate,
		NewPlayer: usecase.NewPlayerInput{
			Name:     req.Name,
			Breed:    req.Breed,
			ImageURL: req.ImageURL,
		},
		InputErr: h.validateRequest(ctx, req),
	})
}

func (h *Handler) render(ctx context.Context, w http.ResponseWriter, action controller.Action) {
	surface := view.NewMainContainer()
	if _, err := h.dispatcher.Dispatch(ctx, surface, action); err != nil {
		h.logger.ErrorContext(ctx, "dispatch failed", "action", action.Kind, "error", err)
		writeInternalError(ctx, w)
		return
	}

	h.writePage(ctx, w, surface.Content())
}
