package response

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/kart-io/medisearch/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(h gin.HandlerFunc, header map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.GET("/x", h)
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestOK(t *testing.T) {
	w := serve(func(c *gin.Context) { OK(c, gin.H{"status": "ok"}) }, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestFailWithErrno(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Fail(c, errors.ErrMissingParam.WithMessage("Query parameter 'q' is required"))
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Query parameter 'q' is required"}`, w.Body.String())
}

func TestFailWithPlainError(t *testing.T) {
	w := serve(func(c *gin.Context) { Fail(c, stderrors.New("boom")) }, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestFailLocalized(t *testing.T) {
	w := serve(func(c *gin.Context) { Fail(c, errors.ErrNotFound) }, map[string]string{"Accept-Language": "zh-CN"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"资源不存在"}`, w.Body.String())
}
