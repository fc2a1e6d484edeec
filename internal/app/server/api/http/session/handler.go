package session

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"lemonpunch/internal/domain/session"
)

type Handler struct {
	session    session.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(session session.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		session:    session,
		log:        log.With("component", "session_handler"),
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.bootstrapOp(), h.bootstrap)
}

func (h *Handler) bootstrap(ctx context.Context, input *bootstrapInput) (*bootstrapOutput, error) {
	tok, err := h.session.Bootstrap(ctx, input.Body.DeviceID, input.Body.DeviceSecret)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidInput):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		case errors.Is(err, session.ErrInvalidCredentials):
			return nil, huma.Error401Unauthorized("Invalid credentials")
		default:
			h.log.Error("bootstrap failed", "device_id", input.Body.DeviceID, "error", err)
			return nil, huma.Error500InternalServerError("create session failed")
		}
	}

	return &bootstrapOutput{
		Body: BootstrapResponse{
			Token:     tok.Token,
			SessionID: tok.SessionID.String(),
			ExpiresAt: tok.ExpiresAt,
			Resumed:   tok.Resumed,
			Status:    "Ok",
		},
	}, nil
}
