package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	router := gin.New()
	router.Use(BodyLimit(64))
	router.POST("/test", func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too large")
			return
		}
		c.String(http.StatusOK, "%d", len(data))
	})

	t.Run("passes small bodies", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/test", strings.NewReader("small payload"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "13", w.Body.String())
	})

	t.Run("rejects oversized content length up front", func(t *testing.T) {
		body := bytes.Repeat([]byte("x"), 128)
		req := httptest.NewRequest("POST", "/test", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
	})

	t.Run("caps bodies with unknown content length", func(t *testing.T) {
		body := bytes.Repeat([]byte("x"), 128)
		req := httptest.NewRequest("POST", "/test", io.NopCloser(bytes.NewReader(body)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("zero limit falls back to the default", func(t *testing.T) {
		fallback := gin.New()
		fallback.Use(BodyLimit(0))
		fallback.POST("/test", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		req := httptest.NewRequest("POST", "/test", strings.NewReader("fine"))
		w := httptest.NewRecorder()
		fallback.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
