package app

import (
	"deep_card_backend/internal/config"
	"deep_card_backend/internal/model"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>deep card</html>"), 0o644))

	return &config.Config{
		Server: config.ServerConfig{Port: "0", Mode: gin.TestMode},
		AI: config.AIConfig{
			Model:                config.DefaultModel,
			Timeout:              time.Second,
			MaxRequestsPerMinute: 60,
		},
		Game: config.GameConfig{
			SessionTTL:      time.Hour,
			JanitorInterval: time.Minute,
			StaticDir:       dir,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func startSession(t *testing.T, router http.Handler, relationship string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/start", `{"relationship":"`+relationship+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

type questionResp struct {
	Level    string `json:"level"`
	Question string `json:"question"`
}

func askQuestion(t *testing.T, router http.Handler, payload map[string]interface{}) questionResp {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodPost, "/api/question", string(body))
	require.Equal(t, http.StatusOK, w.Code)

	var resp questionResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRouter_StartAndQuestionFlow(t *testing.T) {
	app := New(newTestConfig(t), t.TempDir())
	defer app.cancel()

	sid := startSession(t, app.Router, "情侶")

	bank := model.DefaultQuestionBank()[model.LevelB]
	var history []string
	for i := 0; i < len(bank); i++ {
		resp := askQuestion(t, app.Router, map[string]interface{}{
			"session_id": sid,
			"level":      "B",
			"action":     "done",
			"history":    history,
		})
		assert.Equal(t, "B", resp.Level)
		assert.Contains(t, bank, resp.Question)
		assert.NotContains(t, history, resp.Question)
		history = append(history, resp.Question)
	}

	assert.ElementsMatch(t, bank, history)
}

func TestRouter_QuestionAlwaysAnswers(t *testing.T) {
	app := New(newTestConfig(t), t.TempDir())
	defer app.cancel()

	tests := []struct {
		name string
		body string
	}{
		{"unknown session", `{"session_id":"missing","level":"C","history":[]}`},
		{"empty body", ``},
		{"malformed json", `{"session_id":`},
		{"unknown level", `{"level":"Z"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, app.Router, http.MethodPost, "/api/question", tt.body)
			require.Equal(t, http.StatusOK, w.Code)

			var resp questionResp
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Question)
			assert.True(t, model.Level(resp.Level).Valid())
		})
	}
}

func TestRouter_StartBody(t *testing.T) {
	app := New(newTestConfig(t), t.TempDir())
	defer app.cancel()

	w := doJSON(t, app.Router, http.MethodPost, "/api/start", ``)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, app.Router, http.MethodPost, "/api/start", `{"relationship":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, 1, app.services.game.SessionCount())
}

func TestRouter_Health(t *testing.T) {
	app := New(newTestConfig(t), t.TempDir())
	defer app.cancel()

	startSession(t, app.Router, "同事")

	w := doJSON(t, app.Router, http.MethodGet, "/api/health", ``)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Status     string            `json:"status"`
			Sessions   int               `json:"sessions"`
			Components map[string]string `json:"components"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "ok", resp.Data.Status)
	assert.Equal(t, 1, resp.Data.Sessions)
	assert.Equal(t, "disabled", resp.Data.Components["ai"])
}

func TestRouter_StaticAndMetrics(t *testing.T) {
	app := New(newTestConfig(t), t.TempDir())
	defer app.cancel()

	w := doJSON(t, app.Router, http.MethodGet, "/", ``)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "deep card")

	w = doJSON(t, app.Router, http.MethodGet, "/metrics", ``)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	app := New(newTestConfig(t), t.TempDir())
	defer app.cancel()

	req := httptest.NewRequest(http.MethodOptions, "/api/question", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestApp_ApplyConfigUpdatesServices(t *testing.T) {
	cfg := newTestConfig(t)
	app := New(cfg, t.TempDir())
	defer app.cancel()

	sid := startSession(t, app.Router, "家人")
	resp := askQuestion(t, app.Router, map[string]interface{}{"session_id": sid, "level": "A"})
	assert.False(t, strings.HasPrefix(resp.Question, "（家人）"))

	next := *cfg
	next.Game.DecorateFallback = true
	app.applyConfig(&next)
	assert.Same(t, &next, app.Config)

	resp = askQuestion(t, app.Router, map[string]interface{}{"session_id": sid, "level": "A"})
	assert.True(t, strings.HasPrefix(resp.Question, "（家人）"), resp.Question)
	assert.False(t, app.services.ai.Enabled())
}

func TestRouter_NotFoundAndPanicUseEnvelope(t *testing.T) {
	app := New(newTestConfig(t), t.TempDir())
	defer app.cancel()

	app.Router.GET("/api/boom", func(c *gin.Context) { panic("boom") })

	var resp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}

	w := doJSON(t, app.Router, http.MethodGet, "/api/nope", ``)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusNotFound, resp.Code)

	w = doJSON(t, app.Router, http.MethodGet, "/api/boom", ``)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
