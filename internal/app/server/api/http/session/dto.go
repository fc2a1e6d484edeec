package session

import "time"

type bootstrapInput struct {
	Body bootstrapRequest
}

type bootstrapRequest struct {
	DeviceID     string `json:"device_id" minLength:"8" maxLength:"64" example:"dev-7f3a9c21" doc:"Идентификатор устройства, генерируется клиентом"`
	DeviceSecret string `json:"device_secret" minLength:"32" maxLength:"72" doc:"Секрет устройства, хранится только у клиента"`
}

type bootstrapOutput struct {
	Body BootstrapResponse
}

type BootstrapResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id" doc:"Владелец записей и блобов этого устройства"`
	ExpiresAt time.Time `json:"expires_at"`
	Resumed   bool      `json:"resumed" doc:"true, если устройство уже было зарегистрировано"`
	Status    string    `json:"status"`
}
