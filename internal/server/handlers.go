// Package server exposes graph building, search and rendering over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/graph"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/parser"
	"github.com/mcncl/jsontree/internal/render"
	"github.com/mcncl/jsontree/internal/search"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// SearchRequest is the body of POST /v1/search.
type SearchRequest struct {
	Document json.RawMessage `json:"document"`
	Path     string          `json:"path"`
}

// Handlers contains the HTTP handlers.
type Handlers struct {
	config   *config.Config
	renderer *render.Renderer
	logger   *log.Logger
}

// NewHandlers creates handlers for the given configuration.
func NewHandlers(cfg *config.Config, logger *log.Logger) *Handlers {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Handlers{config: cfg, renderer: render.NewRenderer(cfg), logger: logger}
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleGraph handles POST /v1/graph.
//
// The body is a JSON document; the response is its positioned graph.
func (h *Handlers) HandleGraph(c *gin.Context) {
	doc, ok := h.readDocument(c)
	if !ok {
		return
	}

	g := graph.BuildWithOptions(doc, h.config.LayoutOptions())
	h.logger.Debug("Built graph", "nodes", len(g.Nodes), "edges", len(g.Edges))

	var buf bytes.Buffer
	if err := render.WriteJSON(&buf, g); err != nil {
		h.fail(c, http.StatusInternalServerError, "RENDER_FAILED", err)
		return
	}
	c.Data(http.StatusOK, render.ContentType(config.FormatJSON), buf.Bytes())
}

// HandleSearch handles POST /v1/search.
//
// A search that finds nothing is still a 200; the outcome is in the status
// field of the result.
func (h *Handlers) HandleSearch(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}

	var req SearchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.fail(c, http.StatusBadRequest, "INVALID_REQUEST", errors.NewInputError("invalid request body", err))
		return
	}

	var doc models.JSONValue
	if len(req.Document) > 0 {
		v, err := parser.Parse(bytes.NewReader(req.Document))
		if err != nil {
			h.fail(c, http.StatusBadRequest, "INVALID_JSON", err)
			return
		}
		doc = v
	}

	var g *graph.Graph
	if doc != nil {
		g = graph.BuildWithOptions(doc, h.config.LayoutOptions())
	}
	result := search.Run(doc, g, req.Path)
	h.logger.Debug("Search", "path", req.Path, "status", result.Status)

	c.JSON(http.StatusOK, result)
}

// HandleRender handles POST /v1/render?format=json|dot|svg&highlight=<path>.
func (h *Handlers) HandleRender(c *gin.Context) {
	format := strings.ToLower(c.Query("format"))
	if format != "" && !config.IsFormat(format) {
		h.fail(c, http.StatusBadRequest, "INVALID_FORMAT", errors.NewRenderError("unsupported format "+format, nil))
		return
	}
	if format == "" {
		format = h.config.Render.Format
	}

	doc, ok := h.readDocument(c)
	if !ok {
		return
	}

	g := graph.BuildWithOptions(doc, h.config.LayoutOptions())
	out, err := h.renderer.Render(c.Request.Context(), g, format, c.Query("highlight"))
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) && appErr.Type == errors.ErrorTypePath {
			h.fail(c, http.StatusBadRequest, "INVALID_HIGHLIGHT", err)
			return
		}
		h.fail(c, http.StatusInternalServerError, "RENDER_FAILED", err)
		return
	}
	c.Data(http.StatusOK, render.ContentType(format), out)
}

// readBody reads the request body up to the configured limit. On failure it
// writes the error response and returns false.
func (h *Handlers) readBody(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.config.Server.MaxBodyBytes)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			h.fail(c, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", errors.NewInputError("request body too large", err))
			return nil, false
		}
		h.fail(c, http.StatusBadRequest, "INVALID_REQUEST", errors.NewInputError("failed to read request body", err))
		return nil, false
	}
	return body, true
}

func (h *Handlers) readDocument(c *gin.Context) (models.JSONValue, bool) {
	body, ok := h.readBody(c)
	if !ok {
		return nil, false
	}
	doc, err := parser.Parse(bytes.NewReader(body))
	if err != nil {
		h.fail(c, http.StatusBadRequest, "INVALID_JSON", err)
		return nil, false
	}
	return doc, true
}

func (h *Handlers) fail(c *gin.Context, status int, code string, err error) {
	h.logger.Warn("Request failed", "path", c.Request.URL.Path, "code", code, "err", err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: errors.UserFriendlyError(err), Code: code})
}
