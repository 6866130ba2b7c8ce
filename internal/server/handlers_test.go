package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/search"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	var logs bytes.Buffer
	return NewRouter(cfg, log.New(&logs))
}

func do(t *testing.T, router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleHealth(t *testing.T) {
	w := do(t, setupTestRouter(t, nil), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandleGraph(t *testing.T) {
	w := do(t, setupTestRouter(t, nil), http.MethodPost, "/v1/graph", `{"b":1,"a":[true]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var resp struct {
		Nodes []struct {
			ID   string `json:"id"`
			Path string `json:"path"`
			Kind string `json:"kind"`
		} `json:"nodes"`
		Edges []struct {
			ID string `json:"id"`
		} `json:"edges"`
		Index map[string]string `json:"index"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Nodes, 4)
	assert.Equal(t, "$.b", resp.Nodes[1].Path)
	assert.Equal(t, "$.a", resp.Nodes[2].Path)
	assert.Equal(t, "array", resp.Nodes[2].Kind)
	assert.Len(t, resp.Edges, 3)
	assert.Equal(t, "n_4", resp.Index["$.a[0]"])
}

func TestHandleGraph_UsesConfiguredLayout(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Layout.LevelXGap = 10

	w := do(t, setupTestRouter(t, cfg), http.MethodPost, "/v1/graph", `{"a":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"x": 10`)
}

func TestHandleGraph_InvalidJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"malformed", `{"a":`},
		{"multiple values", `{} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, setupTestRouter(t, nil), http.MethodPost, "/v1/graph", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "INVALID_JSON", decodeError(t, w).Code)
		})
	}
}

func TestHandleGraph_BodyTooLarge(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Server.MaxBodyBytes = 16

	w := do(t, setupTestRouter(t, cfg), http.MethodPost, "/v1/graph", `{"key":"a value longer than sixteen bytes"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "BODY_TOO_LARGE", decodeError(t, w).Code)
}

func TestHandleSearch(t *testing.T) {
	router := setupTestRouter(t, nil)
	doc := `{"user":{"name":"Alice","tags":["a","b"]}}`

	tests := []struct {
		name       string
		body       string
		wantStatus search.Status
		wantMsg    string
		wantNode   string
	}{
		{"found", `{"document":` + doc + `,"path":"$.user.tags[1]"}`, search.StatusFound, "Match found", "n_6"},
		{"not found", `{"document":` + doc + `,"path":"$.user.age"}`, search.StatusNotFound, "No match found", ""},
		{"invalid path", `{"document":` + doc + `,"path":"$.user."}`, search.StatusInvalidPath, "Invalid path", ""},
		{"no document", `{"path":"$"}`, search.StatusNoData, "No data to search", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/v1/search", tt.body)
			require.Equal(t, http.StatusOK, w.Code)

			var resp struct {
				Status  search.Status   `json:"status"`
				Message string          `json:"message"`
				NodeID  string          `json:"nodeId"`
				Value   json.RawMessage `json:"value"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantMsg, resp.Message)
			assert.Equal(t, tt.wantNode, resp.NodeID)
			if tt.wantStatus == search.StatusFound {
				assert.JSONEq(t, `"b"`, string(resp.Value))
			}
		})
	}
}

func TestHandleSearch_BadRequest(t *testing.T) {
	router := setupTestRouter(t, nil)

	w := do(t, router, http.MethodPost, "/v1/search", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, w).Code)

	w = do(t, router, http.MethodPost, "/v1/search", `{"document":"x","path":7}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRender(t *testing.T) {
	router := setupTestRouter(t, nil)
	doc := `{"a":{"b":1}}`

	w := do(t, router, http.MethodPost, "/v1/render?format=dot&highlight=$.a.b", doc)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/vnd.graphviz; charset=utf-8", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "digraph G {"))
	assert.Contains(t, w.Body.String(), "penwidth=3")

	w = do(t, router, http.MethodPost, "/v1/render", doc)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, json.Valid(w.Body.Bytes()))

	w = do(t, router, http.MethodPost, "/v1/render?format=svg", doc)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<svg")
}

func TestHandleRender_Errors(t *testing.T) {
	router := setupTestRouter(t, nil)

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"unknown format", "/v1/render?format=png", `{}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"invalid json", "/v1/render?format=dot", `[1,`, http.StatusBadRequest, "INVALID_JSON"},
		{"invalid highlight", "/v1/render?format=dot&highlight=a", `{}`, http.StatusBadRequest, "INVALID_HIGHLIGHT"},
		{"missing highlight", "/v1/render?format=dot&highlight=$.x", `{}`, http.StatusBadRequest, "INVALID_HIGHLIGHT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	w := do(t, setupTestRouter(t, nil), http.MethodGet, "/v1/graph", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
