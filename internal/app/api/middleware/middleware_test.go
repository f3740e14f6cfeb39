package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fatflowers/paygate/pkg/logctx"
)

func sign(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestCallbackAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/payments/:id/pix/callback", CallbackAuthMiddleware("s3cret", zap.NewNop().Sugar()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	call := func(auth string) int {
		req := httptest.NewRequest(http.MethodPost, "/payments/p-1/pix/callback", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	exp := time.Now().Add(time.Minute).Unix()

	assert.Equal(t, http.StatusNoContent, call("Bearer "+sign(t, "s3cret", &CallbackClaims{StandardClaims: jwt.StandardClaims{ExpiresAt: exp}})))
	assert.Equal(t, http.StatusNoContent, call("Bearer "+sign(t, "s3cret", &CallbackClaims{PaymentID: "p-1"})))
	assert.Equal(t, http.StatusUnauthorized, call(""))
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+sign(t, "other", &CallbackClaims{})))
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+sign(t, "s3cret", &CallbackClaims{PaymentID: "p-2"})))
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+sign(t, "s3cret", &CallbackClaims{StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Minute).Unix()}})))
}

func TestCallbackAuthMiddleware_DisabledWithoutSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/cb", CallbackAuthMiddleware("", zap.NewNop().Sugar()), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cb", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTraceAndRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceMiddleware())
	var gotTrace, gotPayment any
	r.GET("/payments/:id", RequestLoggerMiddleware(zap.NewNop().Sugar()), AccessLogMiddleware(), func(c *gin.Context) {
		gotTrace = c.Request.Context().Value(logctx.TraceIDKey)
		gotPayment = c.Request.Context().Value(logctx.PaymentIDKey)
		_, ok := c.Get(logctx.LoggerKey)
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/payments/p-9", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "trace-123", gotTrace)
	assert.Equal(t, "p-9", gotPayment)
	assert.Equal(t, "trace-123", w.Header().Get(RequestIDHeader))
}

func TestAccessLogMiddleware_LevelByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(TraceMiddleware(), RequestLoggerMiddleware(zap.New(core).Sugar()), AccessLogMiddleware())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.FilterMessage("http_access").All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "/boom", entries[2].ContextMap()["route"])
	assert.NotEmpty(t, entries[2].ContextMap()["trace_id"])
}
