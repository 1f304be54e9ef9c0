package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gemstore_server/internal/dto/respond"
	"gemstore_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandleSuccessEnvelope(t *testing.T) {
	c, w := newTestContext()
	HandleSuccess(c, respond.UnreadCountRespond{Count: 3})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, errorx.CodeSuccess, body["code"])
	assert.Equal(t, "success", body["msg"])
	assert.Equal(t, map[string]any{"count": float64(3)}, body["data"])
}

func TestHandleCreatedEnvelope(t *testing.T) {
	c, w := newTestContext()
	HandleCreated(c, respond.MarkReadRespond{OrderID: 7, Count: 2})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, errorx.CodeSuccess, body["code"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 7, data["orderId"])
}

func TestHandleErrorMapsStatus(t *testing.T) {
	c, w := newTestContext()
	HandleError(c, errorx.ErrForbidden)

	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, errorx.CodeForbidden, body["code"])
	assert.Contains(t, body, "data")
	assert.Nil(t, body["data"])
}

func TestHandleErrorHidesInternalErrors(t *testing.T) {
	c, w := newTestContext()
	HandleError(c, errors.New("dial tcp 10.0.0.1:3306: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, errorx.CodeServerBusy, body["code"])
	assert.NotContains(t, body["msg"], "10.0.0.1")
}

func TestHandleParamErrorWithoutValidator(t *testing.T) {
	c, w := newTestContext()
	HandleParamError(c, errors.New("invalid character '}'"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, errorx.CodeInvalidParam, body["code"])
	assert.Equal(t, errorx.ErrInvalidParam.Msg, body["msg"])
}
