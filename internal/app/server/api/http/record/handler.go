package record

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"lemonpunch/internal/app/server/api/http/middleware/auth"
	"lemonpunch/internal/domain/record"
)

type Handler struct {
	service    record.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service record.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log.With("component", "record_handler"),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.findOp(), h.find)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	owner, ok := auth.GetSessionID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	records, err := h.service.List(ctx, owner)
	if err != nil {
		return nil, h.mapError(err)
	}

	return &listOutput{
		Body: recordListResponse{Records: records, Total: len(records)},
	}, nil
}

func (h *Handler) find(ctx context.Context, input *findInput) (*output, error) {
	owner, ok := auth.GetSessionID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	rec, err := h.service.Find(ctx, owner, input.ID)
	if err != nil {
		return nil, h.mapError(err)
	}

	return &output{
		Body: recordResponse{ID: rec.ID, Status: "Ok", Record: rec},
	}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*output, error) {
	owner, ok := auth.GetSessionID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	rec, err := h.service.Create(ctx, owner, input.Body.toInput())
	if err != nil {
		return nil, h.mapError(err)
	}

	return &output{
		Body: recordResponse{ID: rec.ID, Status: "Ok", Record: rec},
	}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*output, error) {
	owner, ok := auth.GetSessionID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	rec, err := h.service.Update(ctx, owner, input.ID, input.Body.toInput())
	if err != nil {
		return nil, h.mapError(err)
	}

	return &output{
		Body: recordResponse{ID: rec.ID, Status: "Ok", Record: rec},
	}, nil
}

func (h *Handler) delete(ctx context.Context, input *findInput) (*deleteOutput, error) {
	owner, ok := auth.GetSessionID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, owner, input.ID); err != nil {
		return nil, h.mapError(err)
	}

	return &deleteOutput{
		Body: recordDeleteResponse{ID: input.ID, Status: "Ok"},
	}, nil
}

func (h *Handler) mapError(err error) error {
	switch {
	case errors.Is(err, record.ErrNotFound):
		return huma.Error404NotFound("record not found")
	case errors.Is(err, record.ErrForeignSample):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, record.ErrInvalidData), errors.Is(err, record.ErrDuplicateEntry):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		h.log.Error("record operation failed", "error", err)
		return huma.Error500InternalServerError("internal error")
	}
}
