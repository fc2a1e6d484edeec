package health

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHandler_healthCheck(t *testing.T) {
	tests := []struct {
		name           string
		db             Pinger
		expectedStatus int
	}{
		{
			name:           "health check returns OK",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "storage reachable",
			db:             pingFunc(func(context.Context) error { return nil }),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "storage down",
			db:             pingFunc(func(context.Context) error { return errors.New("connection refused") }),
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, api := humatest.New(t)
			NewHandler(tt.db, slog.Default(), huma.Middlewares{}).SetupRoutes(api)

			resp := api.Get("/api/v1/health")
			assert.Equal(t, tt.expectedStatus, resp.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Contains(t, resp.Body.String(), `"status":"OK"`)
			}
		})
	}
}

func TestNewHandler(t *testing.T) {
	handler := NewHandler(nil, slog.Default(), huma.Middlewares{})

	assert.NotNil(t, handler)
	assert.NotNil(t, handler.log)
	assert.NotNil(t, handler.middleware)
}
