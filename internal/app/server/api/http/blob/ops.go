package blob

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) uploadOp() huma.Operation {
	return huma.Operation{
		OperationID:  "blobs-upload",
		Method:       http.MethodPut,
		Path:         "/api/v1/blobs",
		Summary:      "Загрузить файл образца",
		Description:  "Тело запроса - содержимое файла. Возвращает публичный URL.",
		Tags:         []string{"blobs"},
		Security:     []map[string][]string{{"bearer": {}}},
		MaxBodyBytes: h.maxBody,
		Middlewares:  h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "blobs-delete",
		Method:      http.MethodDelete,
		Path:        "/api/v1/blobs",
		Summary:     "Удалить файл образца",
		Tags:        []string{"blobs"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
