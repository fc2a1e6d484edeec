package blob

type uploadInput struct {
	Path        string `query:"path" required:"true" example:"3c1d2b9e-6f0a-4d7e-8d1b-2f9a0c6e4b11/7d1c1f0e/01HX3Q-photo.jpg" doc:"Путь блоба, начинается с <session_id>/"`
	ContentType string `header:"Content-Type"`
	RawBody     []byte
}

type deleteInput struct {
	Path string `query:"path" required:"true" doc:"Путь блоба, начинается с <session_id>/"`
}

type uploadOutput struct {
	Body blobUploadResponse
}

type blobUploadResponse struct {
	URL    string `json:"url"`
	Path   string `json:"path"`
	Size   int    `json:"size"`
	Status string `json:"status"`
}

type deleteOutput struct {
	Body blobDeleteResponse
}

type blobDeleteResponse struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}
