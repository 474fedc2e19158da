package server

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/slidescene/internal/config"
	"github.com/mj1618/slidescene/internal/model"
)

func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.OutputDir = filepath.Join(t.TempDir(), "screenshots")
	return cfg
}

func newTestServer(t *testing.T, fn ExtractFunc) *Server {
	t.Helper()
	runner, err := NewRunner(testConfig(t), nil)
	require.NoError(t, err)
	s := New(runner, Config{CacheTTL: time.Minute}, nil)
	s.extract = fn
	return s
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = "extract_presentation"
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok, "expected text content")
	return tc.Text
}

func deckPresentation() *model.Presentation {
	return &model.Presentation{Slides: []model.SlideResult{{
		BackgroundColor: "ffffff",
		Elements: []model.ElementAttributes{
			{TagName: "p", Position: &model.Position{Width: 100, Height: 20}, InnerText: "Quarterly results"},
			{TagName: "svg", Position: &model.Position{Width: 16, Height: 16}, ShouldScreenshot: true},
		},
	}}}
}

func TestRunnerRequest(t *testing.T) {
	runner, err := NewRunner(testConfig(t), nil)
	require.NoError(t, err)

	req, err := runner.Request("42", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/pdf-maker?id=42", req.Source.URL)
	assert.Equal(t, "chrome", req.Backend)

	req, err = runner.Request("42", "", "deck.html", "")
	require.NoError(t, err)
	assert.Equal(t, "deck.html", req.Source.HTMLPath)
	assert.Equal(t, "static", req.Backend, "html files default to the static backend")

	req, err = runner.Request("", "http://x/deck", "", "static")
	require.NoError(t, err)
	assert.Equal(t, "http://x/deck", req.Source.URL)
	assert.Equal(t, "static", req.Backend)

	_, err = runner.Request("", "", "", "")
	assert.Error(t, err)
}

func TestNewRunner_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputDir = ""
	_, err := NewRunner(cfg, nil)
	assert.Error(t, err)
}

func TestHandleExtract_YAMLAndCache(t *testing.T) {
	calls := 0
	s := newTestServer(t, func(ctx context.Context, req Request) (*model.Presentation, error) {
		calls++
		return deckPresentation(), nil
	})

	res, err := s.handleExtract(context.Background(), call(map[string]any{"id": "7"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "source: http://localhost:3000/pdf-maker?id=7")
	assert.Contains(t, text, "tagName: p")

	_, err = s.handleExtract(context.Background(), call(map[string]any{"id": "7"}))
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second call is served from cache")

	_, err = s.handleExtract(context.Background(), call(map[string]any{"id": "7", "fresh": true}))
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "fresh bypasses the cache")
}

func TestHandleExtract_FlatJSON(t *testing.T) {
	s := newTestServer(t, func(context.Context, Request) (*model.Presentation, error) {
		return deckPresentation(), nil
	})
	res, err := s.handleExtract(context.Background(), call(map[string]any{
		"url":    "http://deck/1",
		"format": "json",
		"tags":   "svg",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var out struct {
		Source   string              `json:"source"`
		Elements []model.FlatElement `json:"elements"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, "http://deck/1", out.Source)
	require.Len(t, out.Elements, 1)
	assert.Equal(t, "svg", out.Elements[0].Tag)
	assert.True(t, out.Elements[0].Pending)
}

func TestHandleExtract_Errors(t *testing.T) {
	s := newTestServer(t, func(context.Context, Request) (*model.Presentation, error) {
		return nil, os.ErrDeadlineExceeded
	})

	res, err := s.handleExtract(context.Background(), call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError, "missing source is a tool error")

	res, err = s.handleExtract(context.Background(), call(map[string]any{"id": "1", "format": "xml"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleExtract(context.Background(), call(map[string]any{"id": "1"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, 0, s.cache.Len())
}

func TestHandleBackends(t *testing.T) {
	s := newTestServer(t, nil)
	res, err := s.handleBackends(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	backends := strings.Split(resultText(t, res), "\n")
	assert.Contains(t, backends, "chrome")
	assert.Contains(t, backends, "static")
}

func TestHandleInvalidate(t *testing.T) {
	s := newTestServer(t, func(context.Context, Request) (*model.Presentation, error) {
		return deckPresentation(), nil
	})
	_, err := s.handleExtract(context.Background(), call(map[string]any{"id": "1"}))
	require.NoError(t, err)
	require.Equal(t, 1, s.cache.Len())

	res, err := s.handleInvalidate(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.Equal(t, "dropped 1 cached results", resultText(t, res))
	assert.Equal(t, 0, s.cache.Len())
}

const staticDeck = `<html><body>
<div id="presentation-slides-wrapper" data-rect="0,0,1280,720" style="background-color: #fafafa">
  <div>
    <div data-rect="0,0,1280,720">
      <p data-rect="100,80,400,50" style="color: #333; font-size: 24px">Hello</p>
      <div data-speaker-note="Say hello"></div>
    </div>
  </div>
</div>
</body></html>`

func TestRunner_StaticDeck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.html")
	require.NoError(t, os.WriteFile(path, []byte(staticDeck), 0644))

	runner, err := NewRunner(testConfig(t), nil)
	require.NoError(t, err)
	req, err := runner.Request("", "", path, "")
	require.NoError(t, err)

	p, err := runner.Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, p.Slides, 1)
	assert.Equal(t, "Say hello", p.Slides[0].SpeakerNote)

	var texts []string
	for _, el := range p.Slides[0].Elements {
		if el.HasText() {
			texts = append(texts, el.InnerText)
		}
	}
	assert.Equal(t, []string{"Hello"}, texts)
	assert.Empty(t, p.CaptureFailures)
}

func TestRunner_StaticDeckTextAroundComment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.html")
	deck := `<html><body>
<div id="presentation-slides-wrapper" data-rect="0,0,1280,720">
  <div>
    <div data-rect="0,0,1280,720"><div data-rect="10,10,300,40" style="color: red">Hello <!-- -->world</div></div>
  </div>
</div>
</body></html>`
	require.NoError(t, os.WriteFile(path, []byte(deck), 0644))

	runner, err := NewRunner(testConfig(t), nil)
	require.NoError(t, err)
	req, err := runner.Request("", "", path, "")
	require.NoError(t, err)

	p, err := runner.Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, p.Slides, 1)
	require.Len(t, p.Slides[0].Elements, 1)
	el := p.Slides[0].Elements[0]
	assert.Equal(t, "div", el.TagName)
	assert.Equal(t, "Hello world", el.InnerText)
	require.NotNil(t, el.Font)
	assert.Equal(t, "ff0000", el.Font.Color)
}
