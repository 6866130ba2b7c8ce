package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/graph"
	"github.com/mcncl/jsontree/internal/jsonpath"
	"github.com/mcncl/jsontree/internal/logging"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/parser"
	"github.com/mcncl/jsontree/internal/render"
	"github.com/mcncl/jsontree/internal/search"
	"github.com/mcncl/jsontree/internal/server"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	URL         string `help:"URL to fetch JSON from (http or https)." short:"u"`
	Output      string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Config      string `help:"Path to config file. Defaults to the nearest .jsontree.yml." short:"c" type:"path"`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`

	Graph   GraphCmd   `cmd:"" help:"Build the positioned graph of a JSON document and print it as JSON."`
	Query   QueryCmd   `cmd:"" help:"Print the value at a path expression."`
	Search  SearchCmd  `cmd:"" help:"Look up a path expression and report whether it matches a node."`
	Render  RenderCmd  `cmd:"" help:"Render the graph as JSON, Graphviz DOT or SVG."`
	Serve   ServeCmd   `cmd:"" help:"Serve the HTTP API."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *log.Logger
	Stdout io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

const fetchTimeout = 30 * time.Second

// GraphCmd prints the graph of the input document
type GraphCmd struct{}

// Run builds the graph and writes it as JSON
func (c *GraphCmd) Run(ctx *Context) error {
	doc, err := parseInput()
	if err != nil {
		return err
	}

	g := buildGraph(ctx, doc)

	var buf strings.Builder
	if err := render.WriteJSON(&buf, g); err != nil {
		return errors.NewOutputError("failed to encode graph", err)
	}
	return writeOutput(ctx, []byte(buf.String()))
}

// QueryCmd prints the value addressed by a path
type QueryCmd struct {
	Path string `arg:"" help:"Path expression, e.g. $.users[0].name"`
}

// Run evaluates the path against the input document
func (c *QueryCmd) Run(ctx *Context) error {
	p, err := jsonpath.Parse(c.Path)
	if err != nil {
		return errors.NewPathError(fmt.Sprintf("invalid path expression %q: %v", c.Path, err), err)
	}

	doc, err := parseInput()
	if err != nil {
		return err
	}

	v, found := jsonpath.Evaluate(doc, p)
	if !found {
		ctx.Logger.Debug("No value", "path", c.Path)
		return fmt.Errorf("%s: %w", c.Path, errors.ErrNoMatch)
	}
	return writeJSON(ctx, v)
}

// SearchCmd reports the outcome of a search
type SearchCmd struct {
	Path string `arg:"" help:"Path expression to look up, e.g. $.users[0]"`
}

// Run searches the graph of the input document
func (c *SearchCmd) Run(ctx *Context) error {
	doc, err := parseInput()
	if err != nil {
		return err
	}

	result := search.Run(doc, buildGraph(ctx, doc), c.Path)
	ctx.Logger.Debug(result.Message, "path", c.Path, "node", result.NodeID)
	return writeJSON(ctx, result)
}

// RenderCmd renders the graph in a chosen format
type RenderCmd struct {
	Format    string `help:"Output format: json, dot or svg. Defaults to render.format from the config." short:"f"`
	Highlight string `help:"Path of a node to outline." short:"H"`
}

// Run renders the graph of the input document
func (c *RenderCmd) Run(ctx *Context) error {
	doc, err := parseInput()
	if err != nil {
		return err
	}

	g := buildGraph(ctx, doc)
	out, err := render.NewRenderer(ctx.Config).Render(context.Background(), g, c.Format, c.Highlight)
	if err != nil {
		return err
	}
	return writeOutput(ctx, out)
}

// ServeCmd runs the HTTP API
type ServeCmd struct {
	Addr string `help:"Address to listen on. Defaults to server.addr from the config (:8080)." short:"a"`
}

// Run serves until interrupted
func (c *ServeCmd) Run(ctx *Context) error {
	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return server.Run(logging.WithLogger(sigCtx, ctx.Logger), ctx.Config)
}

// VersionCmd prints the version
type VersionCmd struct{}

// Run prints the version
func (c *VersionCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintf(ctx.Stdout, "jsontree version %s\n", Version)
	return err
}

func main() {
	// Parse CLI arguments with Kong
	parser := kong.Must(&CLI,
		kong.Name("jsontree"),
		kong.Description("Explore JSON documents as positioned tree graphs"),
		kong.UsageOnError(),
	)

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	ctx, err := newContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	if err := kctx.Run(ctx); err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
}

// newContext loads the configuration and logger for a command.
// Flags take precedence over the config file.
func newContext() (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, CLI.Render.Format, CLI.Serve.Addr, CLI.Debug)
	if err != nil {
		return nil, errors.NewConfigError(err.Error(), err)
	}

	logger := logging.New(os.Stderr, logging.Level(cfg.Dev.Debug))
	if configPath != "" {
		logger.Debug("Loaded config", "path", configPath)
	}

	return &Context{
		Debug:  cfg.Dev.Debug,
		Config: cfg,
		Logger: logger,
		Stdout: os.Stdout,
	}, nil
}

func buildGraph(ctx *Context, doc models.JSONValue) *graph.Graph {
	progress := logging.NewProgress(ctx.Logger)
	g := graph.BuildWithOptions(doc, ctx.Config.LayoutOptions())
	if ctx.Debug {
		progress.Done("Built graph", "nodes", len(g.Nodes), "edges", len(g.Edges))
	}
	return g
}

// parseInput reads JSON from file, URL or stdin
func parseInput() (models.JSONValue, error) {
	if CLI.Input != "" && CLI.URL != "" {
		return nil, errors.NewInputError("cannot specify both --input and --url", nil)
	}

	if CLI.Input != "" {
		// Parse from file
		return parser.ParseFile(CLI.Input)
	}

	if CLI.URL != "" {
		return fetchURL(CLI.URL)
	}

	// Check if stdin has data
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return nil, errors.NewInputError("failed to access stdin", err)
	}

	// Interactive mode or piped input
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			return readInteractiveInput()
		}
		// No data provided on stdin and not in interactive mode
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// fetchURL downloads and parses a JSON document
func fetchURL(rawURL string) (models.JSONValue, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("invalid URL '%s'", rawURL), err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, errors.NewInputError(fmt.Sprintf("invalid URL scheme '%s': only http and https are supported", u.Scheme), nil)
	}

	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Get(rawURL)
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("failed to fetch '%s'", rawURL), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewInputError(fmt.Sprintf("failed to fetch '%s': HTTP %d", rawURL, resp.StatusCode), nil)
	}

	return parser.Parse(bufio.NewReader(resp.Body))
}

// writeJSON writes v as indented JSON
func writeJSON(ctx *Context, v any) error {
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.NewOutputError("failed to encode result", err)
	}
	return writeOutput(ctx, []byte(buf.String()))
}

// writeOutput writes data to file or stdout
func writeOutput(ctx *Context, data []byte) error {
	if CLI.Output != "" {
		// Write to file
		err := os.WriteFile(CLI.Output, data, 0o644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		ctx.Logger.Info("Wrote output", "path", CLI.Output, "bytes", len(data))
		return nil
	}

	// Write to stdout
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	if _, err := ctx.Stdout.Write(data); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (models.JSONValue, error) {
	fmt.Fprintln(os.Stderr, "jsontree Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	// Read all input until EOF (Ctrl+D)
	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return nil, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonData)
}
