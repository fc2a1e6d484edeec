package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"lemonpunch/internal/domain/record"
)

// TokenValidator - часть session.Servicer, нужная мидлвари
type TokenValidator interface {
	Validate(ctx context.Context, token string) (record.SessionID, error)
}

type Auth struct {
	session TokenValidator
	log     *slog.Logger
}

func New(session TokenValidator, log *slog.Logger) *Auth {
	return &Auth{
		session: session,
		log:     log.With("component", "auth_middleware"),
	}
}

type contextKey string

const SessionIDKey contextKey = "sessionID"

// Middleware возвращает middleware для Huma с сигнатурой func(ctx Context, next func(Context))
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		token, ok := bearer(ctx.Header("Authorization"))
		if !ok {
			a.log.Debug("missing bearer token", "path", ctx.URL().Path)
			ctx.SetHeader("Content-Type", "application/json")
			ctx.SetStatus(http.StatusUnauthorized)
			a.writeUnauthorized(ctx.BodyWriter())
			return
		}

		// Валидируем токен
		sid, err := a.session.Validate(ctx.Context(), token)
		if err != nil {
			a.log.Warn("session validation failed", "error", err)
			ctx.SetHeader("Content-Type", "application/json")
			ctx.SetStatus(http.StatusUnauthorized)
			a.writeUnauthorized(ctx.BodyWriter())
			return
		}

		newCtx := WithSessionID(ctx.Context(), sid)
		next(huma.WithContext(ctx, newCtx))
	}
}

// HTTP - тот же middleware для обычных http.Handler (websocket).
// Токен берется из заголовка Authorization или параметра token.
func (a *Auth) HTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearer(r.Header.Get("Authorization"))
		if !ok {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			a.writeUnauthorized(w)
			return
		}

		sid, err := a.session.Validate(r.Context(), token)
		if err != nil {
			a.log.Warn("session validation failed", "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			a.writeUnauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sid)))
	})
}

func (a *Auth) writeUnauthorized(w interface{ Write([]byte) (int, error) }) {
	err := json.NewEncoder(w).Encode(map[string]string{
		"error": "Unauthorized",
	})
	if err != nil {
		a.log.Error("json encode", "error", err)
	}
}

func bearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

func WithSessionID(ctx context.Context, sid record.SessionID) context.Context {
	return context.WithValue(ctx, SessionIDKey, sid)
}

func GetSessionID(ctx context.Context) (record.SessionID, bool) {
	sid, ok := ctx.Value(SessionIDKey).(record.SessionID)
	return sid, ok && sid != ""
}
