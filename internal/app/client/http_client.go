package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	gosync "sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"

	"lemonpunch/internal/app/client/config"
	"lemonpunch/internal/app/client/crypto"
	"lemonpunch/internal/domain/record"
)

// ErrUnauthorized - сервер отверг токен сессии
var ErrUnauthorized = errors.New("unauthorized")

// StatusError - ответ сервера с кодом >= 400
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

type httpClient struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	userAgent string

	mu    gosync.RWMutex
	token string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	client := &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &httpClient{
		client:    client,
		log:       log.With("component", "http_client"),
		baseURL:   cfg.BaseURL(),
		userAgent: "LemonPunch-Client/1.0",
	}
}

// SetToken устанавливает токен сессии
func (h *httpClient) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = token
}

func (h *httpClient) getToken() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) error {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}
	return h.parseResponse(resp, nil)
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return h.send(req)
}

func (h *httpClient) send(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", h.userAgent)
	if token := h.getToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	h.log.Debug("Отправка запроса", "method", req.Method, "url", req.URL.String())

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	h.log.Debug("Получен ответ", "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode >= 400 {
		// huma отдает application/problem+json, auth мидлварь - {"error": ...}
		var errResp struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(body, &errResp)
		detail := errResp.Detail
		if detail == "" {
			detail = errResp.Error
		}
		return &StatusError{Status: resp.StatusCode, Detail: detail}
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}
	return nil
}

// DeviceSession устанавливает анонимную сессию по учетным данным устройства
// и переиспользует ее до истечения токена.
type DeviceSession struct {
	http   *httpClient
	device *crypto.Device
	log    *slog.Logger
	now    func() time.Time

	mu        gosync.Mutex
	sessionID record.SessionID
	expiresAt time.Time
	resumed   bool
}

func NewDeviceSession(h *httpClient, device *crypto.Device, log *slog.Logger) *DeviceSession {
	return &DeviceSession{
		http:   h,
		device: device,
		log:    log.With("component", "device_session"),
		now:    time.Now,
	}
}

type bootstrapResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Resumed   bool      `json:"resumed"`
}

// SessionReady реализует SessionProvider
func (s *DeviceSession) SessionReady(ctx context.Context) (record.SessionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessionID != "" && s.now().Before(s.expiresAt) {
		return s.sessionID, nil
	}

	resp, err := s.http.doRequest(ctx, http.MethodPost, "/api/v1/sessions", map[string]string{
		"device_id":     s.device.ID,
		"device_secret": s.device.Secret,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuth, err)
	}

	var out bootstrapResponse
	if err := s.http.parseResponse(resp, &out); err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuth, err)
	}
	if out.Token == "" || out.SessionID == "" {
		return "", fmt.Errorf("%w: empty session in response", ErrAuth)
	}

	s.http.SetToken(out.Token)
	s.sessionID = record.SessionID(out.SessionID)
	s.expiresAt = out.ExpiresAt
	s.resumed = out.Resumed
	s.log.Info("session ready", "session_id", out.SessionID, "resumed", out.Resumed)

	return s.sessionID, nil
}

// Resumed сообщает, было ли устройство известно серверу до последней установки сессии
func (s *DeviceSession) Resumed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resumed
}

// RemoteStore - Store поверх HTTP API сервера
type RemoteStore struct {
	http   *httpClient
	dialer *websocket.Dialer
	log    *slog.Logger
}

func NewRemoteStore(h *httpClient, log *slog.Logger) *RemoteStore {
	return &RemoteStore{
		http: h,
		dialer: &websocket.Dialer{
			HandshakeTimeout: h.client.Timeout,
		},
		log: log.With("component", "remote_store"),
	}
}

func (s *RemoteStore) ReadAll(ctx context.Context, _ record.SessionID) ([]record.Record, error) {
	resp, err := s.http.doRequest(ctx, http.MethodGet, "/api/v1/records", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: list records: %w", ErrStore, err)
	}

	var out struct {
		Records []record.Record `json:"records"`
	}
	if err := s.http.parseResponse(resp, &out); err != nil {
		return nil, fmt.Errorf("%w: list records: %w", ErrStore, err)
	}
	return out.Records, nil
}

// Get читает одну запись с сервера
func (s *RemoteStore) Get(ctx context.Context, id string) (*record.Record, error) {
	resp, err := s.http.doRequest(ctx, http.MethodGet, "/api/v1/records/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: get record: %w", ErrStore, err)
	}

	var out struct {
		Record *record.Record `json:"record"`
	}
	if err := s.http.parseResponse(resp, &out); err != nil {
		return nil, fmt.Errorf("%w: get record: %w", ErrStore, err)
	}
	if out.Record == nil {
		return nil, fmt.Errorf("%w: get record: %w", ErrStore, ErrNotFound)
	}
	return out.Record, nil
}

func (s *RemoteStore) Insert(ctx context.Context, in record.Input) (string, error) {
	resp, err := s.http.doRequest(ctx, http.MethodPost, "/api/v1/records", recordBody(in))
	if err != nil {
		return "", fmt.Errorf("%w: insert record: %w", ErrStore, err)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := s.http.parseResponse(resp, &out); err != nil {
		return "", fmt.Errorf("%w: insert record: %w", ErrStore, err)
	}
	return out.ID, nil
}

func (s *RemoteStore) Update(ctx context.Context, id string, in record.Input) error {
	resp, err := s.http.doRequest(ctx, http.MethodPut, "/api/v1/records/"+url.PathEscape(id), recordBody(in))
	if err != nil {
		return fmt.Errorf("%w: update record: %w", ErrStore, err)
	}
	if err := s.http.parseResponse(resp, nil); err != nil {
		return fmt.Errorf("%w: update record: %w", ErrStore, err)
	}
	return nil
}

func (s *RemoteStore) Delete(ctx context.Context, id string) error {
	resp, err := s.http.doRequest(ctx, http.MethodDelete, "/api/v1/records/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("%w: delete record: %w", ErrStore, err)
	}
	if err := s.http.parseResponse(resp, nil); err != nil {
		return fmt.Errorf("%w: delete record: %w", ErrStore, err)
	}
	return nil
}

// Subscribe открывает websocket поток изменений. Канал закрывается при
// обрыве соединения или отмене ctx; переподключения нет.
func (s *RemoteStore) Subscribe(ctx context.Context, _ record.SessionID) (<-chan ChangeEvent, error) {
	u, err := url.Parse(s.http.baseURL + "/api/v1/changes")
	if err != nil {
		return nil, fmt.Errorf("%w: subscribe: %w", ErrStore, err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.http.getToken())
	header.Set("User-Agent", s.http.userAgent)

	ws, resp, err := s.dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("%w: %w", &StatusError{Status: resp.StatusCode}, err)
		}
		return nil, fmt.Errorf("%w: subscribe: %w", ErrStore, err)
	}

	events := make(chan ChangeEvent, 16)
	stop := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
			_ = ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			ws.Close()
		case <-stop:
		}
	}()

	go func() {
		defer close(events)
		defer close(stop)
		defer ws.Close()

		for {
			var ev ChangeEvent
			if err := ws.ReadJSON(&ev); err != nil {
				if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					s.log.Warn("change stream closed", "error", err)
				}
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

func recordBody(in record.Input) map[string]any {
	samples := in.Samples
	if samples == nil {
		samples = []record.Sample{}
	}
	return map[string]any{
		"name":            in.Name,
		"id_no":           in.IDNo,
		"phone_no":        in.PhoneNo,
		"outlet_name":     in.OutletName,
		"outlet_location": in.OutletLocation,
		"samples":         samples,
	}
}

// RemoteBlobs - BlobStore поверх /api/v1/blobs
type RemoteBlobs struct {
	http *httpClient
}

func NewRemoteBlobs(h *httpClient) *RemoteBlobs {
	return &RemoteBlobs{http: h}
}

func (b *RemoteBlobs) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, b.endpoint(path), bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: upload %s: %w", ErrBlob, path, err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := b.http.send(req)
	if err != nil {
		return "", fmt.Errorf("%w: upload %s: %w", ErrBlob, path, err)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := b.http.parseResponse(resp, &out); err != nil {
		return "", fmt.Errorf("%w: upload %s: %w", ErrBlob, path, err)
	}
	return out.URL, nil
}

func (b *RemoteBlobs) Delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, b.endpoint(path), nil)
	if err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrBlob, path, err)
	}

	resp, err := b.http.send(req)
	if err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrBlob, path, err)
	}
	if err := b.http.parseResponse(resp, nil); err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrBlob, path, err)
	}
	return nil
}

func (b *RemoteBlobs) endpoint(path string) string {
	return b.http.baseURL + "/api/v1/blobs?path=" + url.QueryEscape(strings.TrimPrefix(path, "/"))
}
