package client

import "context"

type ctxKey struct{}

// WithApp кладет клиента в контекст команды
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, ctxKey{}, app)
}

// FromContext достает клиента из контекста; nil, если его там нет
func FromContext(ctx context.Context) *App {
	app, _ := ctx.Value(ctxKey{}).(*App)
	return app
}
