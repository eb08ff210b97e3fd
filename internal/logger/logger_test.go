package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	restore := Replace(log)
	defer restore()

	for _, env := range []string{"production", "development", "test"} {
		t.Run(env, func(t *testing.T) {
			Init(env)
			assert.NotNil(t, log)
		})
	}
}

func TestL_LazyInit(t *testing.T) {
	restore := Replace(nil)
	defer restore()

	t.Setenv("APP_ENV", "test")
	assert.NotNil(t, L())
	assert.NotNil(t, log)
}

func TestL_ConcurrentFirstUse(t *testing.T) {
	restore := Replace(nil)
	defer restore()
	t.Setenv("APP_ENV", "test")

	const callers = 16
	got := make([]*zap.Logger, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = L()
		}(i)
	}
	wg.Wait()

	for _, l := range got {
		assert.Same(t, got[0], l)
	}
}

func TestFromCtx(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	restore := Replace(zap.New(core))
	defer restore()

	t.Run("Request and user ids", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "req-1")
		ctx = WithUserID(ctx, "user-1")

		FromCtx(ctx).Info("tagged")

		logs := observed.TakeAll()
		assert.Len(t, logs, 1)
		fields := logs[0].ContextMap()
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "user-1", fields["user_id"])
	})

	t.Run("Bare context", func(t *testing.T) {
		FromCtx(context.Background()).Info("plain")

		logs := observed.TakeAll()
		assert.Len(t, logs, 1)
		_, hasReq := logs[0].ContextMap()["request_id"]
		_, hasUser := logs[0].ContextMap()["user_id"]
		assert.False(t, hasReq)
		assert.False(t, hasUser)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen, seenChi string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
		seenChi = middleware.GetReqID(r.Context())
	}))

	t.Run("Generates ID when missing", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
		assert.Equal(t, rr.Header().Get("X-Request-ID"), seen)
		assert.Equal(t, seen, seenChi)
	})

	t.Run("Preserves existing ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))
		assert.Equal(t, "abc-123", seen)
	})
}
