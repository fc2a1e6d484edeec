package session

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) bootstrapOp() huma.Operation {
	return huma.Operation{
		OperationID: "sessions-bootstrap",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions",
		Summary:     "Анонимная сессия устройства",
		Description: "Регистрирует устройство при первом обращении и выдает bearer-токен. Повторный вызов с теми же учетными данными возвращает ту же сессию.",
		Tags:        []string{"sessions"},
		Middlewares: h.middleware,
	}
}
