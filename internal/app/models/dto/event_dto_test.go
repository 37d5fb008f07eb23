package dto

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindContext(t *testing.T, req *http.Request) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = req
	return ctx
}

func eventForm(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	require.NoError(t, writer.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/events", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestCreateEventRequestBindsZeroCoordinates(t *testing.T) {
	ctx := bindContext(t, eventForm(t, map[string]string{
		"title":     "Equator crossing party",
		"startAt":   "2026-11-01",
		"endAt":     "2026-11-01",
		"latitude":  "0",
		"longitude": "103.8198",
	}))

	var req CreateEventRequest
	require.NoError(t, ctx.ShouldBind(&req))
	require.NotNil(t, req.Latitude)
	require.NotNil(t, req.Longitude)
	assert.Equal(t, 0.0, *req.Latitude)
	assert.Equal(t, 103.8198, *req.Longitude)
}

func TestCreateEventRequestRejectsMissingCoordinates(t *testing.T) {
	ctx := bindContext(t, eventForm(t, map[string]string{
		"title":   "No pin",
		"startAt": "2026-11-01",
		"endAt":   "2026-11-01",
	}))

	var req CreateEventRequest
	assert.Error(t, ctx.ShouldBind(&req))
}

func TestParticipateRequestRequiresCoordinates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/events/1/participate",
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	var empty ParticipateRequest
	assert.Error(t, bindContext(t, req).ShouldBindJSON(&empty))

	req = httptest.NewRequest(http.MethodPost, "/api/events/1/participate",
		strings.NewReader(`{"lat": 0, "lng": 0}`))
	req.Header.Set("Content-Type", "application/json")

	var claimed ParticipateRequest
	require.NoError(t, bindContext(t, req).ShouldBindJSON(&claimed))
	require.NotNil(t, claimed.Lat)
	require.NotNil(t, claimed.Lng)
	assert.Equal(t, 0.0, *claimed.Lat)
	assert.Equal(t, 0.0, *claimed.Lng)
}
