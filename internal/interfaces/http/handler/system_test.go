package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestSystemHandler_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		r := gin.New()
		r.GET("/health", NewSystemHandler(stubPinger{}, "quark-system", "1.0.0").Health)
		w, _ := doJSON(t, r, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"ok"`)
	})

	t.Run("database down", func(t *testing.T) {
		r := gin.New()
		r.GET("/health", NewSystemHandler(stubPinger{err: errors.New("refused")}, "quark-system", "1.0.0").Health)
		w, _ := doJSON(t, r, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"unhealthy"`)
	})
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	r := gin.New()
	r.GET("/system/info", NewSystemHandler(stubPinger{}, "quark-system", "1.2.3").GetSystemInfo)
	w, resp := doJSON(t, r, http.MethodGet, "/system/info", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, resp)
	assert.Equal(t, "quark-system", data["name"])
	assert.Equal(t, "1.2.3", data["version"])
	assert.NotEmpty(t, data["go_version"])
}
