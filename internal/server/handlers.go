package server

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/slidescene/internal/dom"
	"github.com/mj1618/slidescene/internal/output"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
	Version   string
}

// Server exposes extraction as MCP tools.
type Server struct {
	runner  *Runner
	extract ExtractFunc
	cache   *ResultCache
	// runMu serializes extractions; a browser session per call is heavy.
	runMu sync.Mutex
	mcp   *mcpserver.MCPServer
	log   *slog.Logger
}

// New creates and configures an MCP server around runner.
func New(runner *Runner, cfg Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		runner:  runner,
		extract: runner.Run,
		cache:   NewResultCache(cfg.CacheTTL),
		log:     log,
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	s.mcp = mcpserver.NewMCPServer("slidescene", version)
	s.registerTools()
	return s
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(cfg Config) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("extract_presentation",
			mcp.WithDescription("Extract every slide of a rendered presentation into positioned, styled elements in paint order. Vector graphics, canvases and tables are captured to PNG files."),
			mcp.WithString("id", mcp.Description("Presentation id, filled into the configured page URL")),
			mcp.WithString("url", mcp.Description("Page URL to load instead of the id template")),
			mcp.WithString("html", mcp.Description("Local HTML file (static backend unless backend is set)")),
			mcp.WithString("backend", mcp.Description("DOM backend: chrome or static")),
			mcp.WithString("format", mcp.Description("Response format: yaml (default) or json")),
			mcp.WithBoolean("flat", mcp.Description("Return a flat element list instead of full attributes")),
			mcp.WithString("tags", mcp.Description("Comma-separated tags to keep (implies flat)")),
			mcp.WithString("text", mcp.Description("Keep elements whose text contains this (implies flat)")),
			mcp.WithBoolean("pending", mcp.Description("Keep elements whose capture failed (implies flat)")),
			mcp.WithBoolean("fresh", mcp.Description("Bypass the result cache")),
		),
		s.handleExtract,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_backends",
			mcp.WithDescription("List the DOM backends available for extraction"),
		),
		s.handleBackends,
	)

	s.mcp.AddTool(
		mcp.NewTool("invalidate_cache",
			mcp.WithDescription("Drop cached extraction results"),
		),
		s.handleInvalidate,
	)
}

func (s *Server) handleExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	req, err := s.runner.Request(
		stringParam(params, "id", ""),
		stringParam(params, "url", ""),
		stringParam(params, "html", ""),
		stringParam(params, "backend", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := output.ParseFormat(stringParam(params, "format", string(output.FormatYAML)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if boolParam(params, "fresh", false) {
		s.cache.Invalidate(req)
	}

	s.runMu.Lock()
	p, hit, err := s.cache.Extract(ctx, req, s.extract)
	s.runMu.Unlock()
	if err != nil {
		s.log.Warn("server: extraction failed", "source", req.Source.String(), "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.log.Info("server: extracted", "source", req.Source.String(), "slides", len(p.Slides), "cached", hit)

	view := output.View{
		Flat:    boolParam(params, "flat", false),
		Tags:    listParam(params, "tags"),
		Text:    stringParam(params, "text", ""),
		Pending: boolParam(params, "pending", false),
	}
	result := output.Shape(req.Source.String(), time.Now().Unix(), p, view)

	var buf bytes.Buffer
	switch format {
	case output.FormatJSON:
		err = output.WriteJSON(&buf, result)
	case output.FormatTree:
		err = output.WriteTree(&buf, result)
	default:
		err = output.WriteYAML(&buf, result)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) handleBackends(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(strings.Join(dom.Backends(), "\n")), nil
}

func (s *Server) handleInvalidate(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := s.cache.Len()
	s.cache.InvalidateAll()
	return mcp.NewToolResultText(fmt.Sprintf("dropped %d cached results", n)), nil
}
