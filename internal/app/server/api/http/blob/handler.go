package blob

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"lemonpunch/internal/app/server/api/http/middleware/auth"
	"lemonpunch/internal/domain/blob"
)

type Handler struct {
	service    blob.Servicer
	maxBody    int64
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service blob.Servicer, maxBody int64, log *slog.Logger, mws huma.Middlewares) *Handler {
	if maxBody <= 0 {
		maxBody = blob.DefaultMaxSize
	}
	return &Handler{
		service:    service,
		maxBody:    maxBody,
		log:        log.With("component", "blob_handler"),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.uploadOp(), h.upload)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) upload(ctx context.Context, input *uploadInput) (*uploadOutput, error) {
	owner, ok := auth.GetSessionID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	url, err := h.service.Upload(ctx, owner, input.Path, bytes.NewReader(input.RawBody))
	if err != nil {
		return nil, h.mapError(err)
	}

	h.log.Debug("blob uploaded", "path", input.Path, "content_type", input.ContentType, "size", len(input.RawBody))
	return &uploadOutput{
		Body: blobUploadResponse{URL: url, Path: input.Path, Size: len(input.RawBody), Status: "Ok"},
	}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*deleteOutput, error) {
	owner, ok := auth.GetSessionID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, owner, input.Path); err != nil {
		return nil, h.mapError(err)
	}
	return &deleteOutput{
		Body: blobDeleteResponse{Path: input.Path, Status: "Ok"},
	}, nil
}

func (h *Handler) mapError(err error) error {
	switch {
	case errors.Is(err, blob.ErrForbiddenPath):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, blob.ErrInvalidPath):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, blob.ErrNotFound):
		return huma.Error404NotFound("blob not found")
	case errors.Is(err, blob.ErrTooLarge):
		return huma.NewError(http.StatusRequestEntityTooLarge, err.Error())
	default:
		h.log.Error("blob operation failed", "error", err)
		return huma.Error500InternalServerError("internal error")
	}
}
