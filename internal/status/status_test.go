package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBot struct {
	served int64
	uptime time.Duration
}

func (s stubBot) CommandsServed() int64 { return s.served }
func (s stubBot) Uptime() time.Duration { return s.uptime }

type stubCaches struct {
	uuids, profiles int
}

func (s stubCaches) CacheStats() (int, int) { return s.uuids, s.profiles }

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := NewServer("", stubBot{uptime: 90 * time.Second}, stubCaches{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1m30s", body["uptime"])
}

func TestStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := NewServer("", stubBot{served: 42, uptime: 5 * time.Second}, stubCaches{uuids: 3, profiles: 2})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	srv.router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		CommandsServed int64 `json:"commands_served"`
		UptimeSeconds  int64 `json:"uptime_seconds"`
		CachedUUIDs    int   `json:"cached_uuids"`
		CachedProfiles int   `json:"cached_profiles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(42), body.CommandsServed)
	assert.Equal(t, int64(5), body.UptimeSeconds)
	assert.Equal(t, 3, body.CachedUUIDs)
	assert.Equal(t, 2, body.CachedProfiles)
}

func TestUnknownRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := NewServer("", stubBot{}, stubCaches{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	srv.router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
