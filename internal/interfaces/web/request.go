package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/puppy-bowl/internal/usecase"
)

const maxFormBytes = 64 << 10

type seeDetailsRequest struct {
	Player string `validate:"required,base64rawurl"`
}

type playerPathRequest struct {
	PlayerID int64 `validate:"gt=0"`
}

type createPlayerRequest struct {
	Name     string `validate:"required,max=100"`
	Breed    string `validate:"required,max=100"`
	ImageURL string `validate:"omitempty,max=2048,http_url"`
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "web.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: parse form: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func parsePlayerID(r *http.Request) (playerPathRequest, error) {
	raw := strings.TrimSpace(r.PathValue("playerID"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return playerPathRequest{}, fmt.Errorf("%w: invalid player id %q", usecase.ErrInvalidInput, raw)
	}
	return playerPathRequest{PlayerID: id}, nil
}
