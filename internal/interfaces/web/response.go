package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/puppy-bowl/internal/usecase"
)

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "web.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func (h *Handler) writePage(ctx context.Context, w http.ResponseWriter, main template.HTML) {
	_, span := startSpan(ctx, "web.Handler.writePage")
	defer span.End()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.pages.RenderPage(w, main); err != nil {
		h.logger.ErrorContext(ctx, "render page failed", "error", err)
		writeInternalError(ctx, w)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	_, span := startSpan(ctx, "web.writeError")
	defer span.End()

	status := mapErrorStatus(err)
	http.Error(w, http.StatusText(status), status)
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	_, span := startSpan(ctx, "web.writeInternalError")
	defer span.End()

	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func mapErrorStatus(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
