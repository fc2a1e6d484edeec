package record

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "records-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/records",
		Summary:     "Список записей сессии",
		Description: "Полный набор записей владельца; клиенты перечитывают его после каждого события об изменении.",
		Tags:        []string{"records"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID:   "records-create",
		Method:        http.MethodPost,
		Path:          "/api/v1/records",
		Summary:       "Создать запись",
		Tags:          []string{"records"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "records-find",
		Method:      http.MethodGet,
		Path:        "/api/v1/records/{id}",
		Summary:     "Получить запись",
		Tags:        []string{"records"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "records-update",
		Method:      http.MethodPut,
		Path:        "/api/v1/records/{id}",
		Summary:     "Обновить запись",
		Description: "Заменяет поля и список образцов записи. Владелец не меняется.",
		Tags:        []string{"records"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "records-delete",
		Method:      http.MethodDelete,
		Path:        "/api/v1/records/{id}",
		Summary:     "Удалить запись",
		Description: "Удаляет документ. Блобы образцов клиент удаляет отдельно.",
		Tags:        []string{"records"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
