package raster

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func symbols(defs map[string]string) Lookup {
	return func(ctx context.Context, id string) (string, error) {
		if m, ok := defs[id]; ok {
			return m, nil
		}
		return "", errors.New("no element #" + id)
	}
}

func TestPrepareSVG_InlinesUse(t *testing.T) {
	lookup := symbols(map[string]string{
		"icon-star": `<symbol id="icon-star" viewBox="0 0 24 24"><path d="M0 0L10 10"></path></symbol>`,
	})
	out, err := PrepareSVG(context.Background(), nil,
		`<svg width="24" height="24"><use href="#icon-star" x="2" fill="red"></use></svg>`,
		lookup, "", 24, 24)
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "<use")
	assert.Contains(t, s, `<path d="M0 0L10 10">`)
	assert.Contains(t, s, `transform="translate(2 0)"`)
	assert.Contains(t, s, `fill="red"`)
	assert.Contains(t, s, `xmlns="http://www.w3.org/2000/svg"`)
	assert.Contains(t, s, `viewBox="0 0 24 24"`)
}

func TestPrepareSVG_InlinesEveryXlinkUse(t *testing.T) {
	lookup := symbols(map[string]string{
		"a": `<symbol id="a"><circle r="4"></circle></symbol>`,
		"b": `<symbol id="b"><rect width="3" height="3"></rect></symbol>`,
	})
	out, err := PrepareSVG(context.Background(), nil,
		`<svg xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 8 8"><use xlink:href="#a"/><use xlink:href="#b"/></svg>`,
		lookup, "", 8, 8)
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "<use")
	assert.Contains(t, s, "<circle")
	assert.Contains(t, s, "<rect")
	assert.Equal(t, 1, strings.Count(s, "viewBox="), "existing viewBox is kept")
}

func TestPrepareSVG_UnresolvedUseKept(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	out, err := PrepareSVG(context.Background(), log,
		`<svg viewBox="0 0 8 8"><use href="#missing"></use></svg>`,
		symbols(nil), "", 8, 8)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<use")
	assert.Contains(t, logs.String(), "raster: unresolved <use>")
	assert.Contains(t, logs.String(), "href=#missing")
}

func TestPrepareSVG_PinsCurrentColor(t *testing.T) {
	out, err := PrepareSVG(context.Background(), nil,
		`<svg><path fill="currentColor" stroke="CurrentColor" style="color: currentcolor"></path></svg>`,
		nil, "ff0000", 16, 16)
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, strings.ToLower(s), "currentcolor")
	assert.Contains(t, s, `fill="#ff0000"`)
	assert.Contains(t, s, `stroke="#ff0000"`)
	assert.Contains(t, s, `viewBox="0 0 16 16"`, "element size is the fallback viewBox")
}

func TestPrepareSVG_NoRoot(t *testing.T) {
	_, err := PrepareSVG(context.Background(), nil, `<div>not svg</div>`, nil, "", 1, 1)
	assert.Error(t, err)
}

func TestSVGRasterizer(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10" width="10" height="10">` +
		`<rect x="0" y="0" width="10" height="10" fill="#ff0000"/></svg>`)
	out, err := SVGRasterizer{}.Rasterize(context.Background(), svg, 10, 10)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
	r, g, b, a := img.At(5, 5).RGBA()
	assert.Greater(t, r, uint32(0xc000))
	assert.Less(t, g, uint32(0x4000))
	assert.Less(t, b, uint32(0x4000))
	assert.Greater(t, a, uint32(0xc000))

	scaled, err := SVGRasterizer{Scale: 2}.Rasterize(context.Background(), svg, 10, 10)
	require.NoError(t, err)
	img2, err := png.Decode(bytes.NewReader(scaled))
	require.NoError(t, err)
	assert.Equal(t, 20, img2.Bounds().Dx())

	_, err = SVGRasterizer{}.Rasterize(context.Background(), svg, 0, 10)
	assert.Error(t, err)
}
