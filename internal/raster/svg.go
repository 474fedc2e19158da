package raster

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// Lookup returns the serialized markup of the element with the given id.
type Lookup func(ctx context.Context, id string) (string, error)

var (
	useSelector   = cascadia.MustCompile("use")
	currentColor  = regexp.MustCompile(`(?i)currentcolor`)
	leadingNumber = regexp.MustCompile(`^\s*([0-9]*\.?[0-9]+)`)
)

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key && (a.Namespace == "" || a.Namespace == "xlink") {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// parseSVG parses standalone SVG markup and returns its <svg> element.
func parseSVG(markup string) (*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode && n.Data == "svg" {
			return n, nil
		}
	}
	return nil, fmt.Errorf("parse svg: no <svg> root in %d nodes", len(nodes))
}

// parseSVGChild parses markup of an element that lives inside an <svg>.
func parseSVGChild(markup string) (*html.Node, error) {
	svg := &html.Node{Type: html.ElementNode, Data: "svg", DataAtom: atom.Svg, Namespace: "svg"}
	nodes, err := html.ParseFragment(strings.NewReader(markup), svg)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			return n, nil
		}
	}
	return nil, fmt.Errorf("no element in %q", markup)
}

// inlineUses replaces every <use href="#id"> below svg with a <g> holding
// a copy of the referenced element's children. x/y become a translate.
// Targets that cannot be resolved leave their <use> in place.
func inlineUses(ctx context.Context, log *slog.Logger, svg *html.Node, lookup Lookup) int {
	inlined := 0
	for _, use := range useSelector.MatchAll(svg) {
		href, _ := getAttr(use, "href")
		if !strings.HasPrefix(href, "#") || use.Parent == nil {
			continue
		}
		id := href[1:]
		markup, err := lookup(ctx, id)
		if err != nil {
			log.Warn("raster: unresolved <use>", "href", href, "err", err)
			continue
		}
		target, err := parseSVGChild(markup)
		if err != nil {
			log.Warn("raster: bad <use> target", "href", href, "err", err)
			continue
		}

		g := &html.Node{Type: html.ElementNode, Data: "g", Namespace: "svg"}
		for _, a := range use.Attr {
			switch a.Key {
			case "fill", "stroke", "stroke-width", "class", "style", "opacity", "transform", "color":
				g.Attr = append(g.Attr, html.Attribute{Key: a.Key, Val: a.Val})
			}
		}
		x, _ := getAttr(use, "x")
		y, _ := getAttr(use, "y")
		if x != "" || y != "" {
			if x == "" {
				x = "0"
			}
			if y == "" {
				y = "0"
			}
			translate := fmt.Sprintf("translate(%s %s)", x, y)
			if t, ok := getAttr(g, "transform"); ok {
				translate += " " + t
			}
			setAttr(g, "transform", translate)
		}
		for c := target.FirstChild; c != nil; {
			next := c.NextSibling
			target.RemoveChild(c)
			g.AppendChild(c)
			c = next
		}
		use.Parent.InsertBefore(g, use)
		use.Parent.RemoveChild(use)
		inlined++
	}
	return inlined
}

// pinCurrentColor replaces currentColor in every attribute below n.
func pinCurrentColor(n *html.Node, hex string) {
	if n.Type == html.ElementNode {
		for i, a := range n.Attr {
			if currentColor.MatchString(a.Val) {
				n.Attr[i].Val = currentColor.ReplaceAllString(a.Val, "#"+hex)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		pinCurrentColor(c, hex)
	}
}

// ensureViewport adds the xmlns declaration and, when missing, a viewBox
// and explicit size so the markup renders standalone at width x height.
func ensureViewport(svg *html.Node, width, height float64) {
	if _, ok := getAttr(svg, "xmlns"); !ok {
		setAttr(svg, "xmlns", svgNamespace)
	}
	if _, ok := getAttr(svg, "viewBox"); ok {
		return
	}
	if _, ok := getAttr(svg, "viewbox"); ok {
		return
	}
	w, h := width, height
	if v, ok := getAttr(svg, "width"); ok {
		if m := leadingNumber.FindStringSubmatch(v); m != nil {
			w, _ = strconv.ParseFloat(m[1], 64)
		}
	}
	if v, ok := getAttr(svg, "height"); ok {
		if m := leadingNumber.FindStringSubmatch(v); m != nil {
			h, _ = strconv.ParseFloat(m[1], 64)
		}
	}
	if w <= 0 || h <= 0 {
		return
	}
	setAttr(svg, "viewBox", fmt.Sprintf("0 0 %s %s", trimFloat(w), trimFloat(h)))
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PrepareSVG makes serialized SVG markup self-contained: <use> references
// are inlined from lookup, currentColor is pinned to color (6-digit hex,
// empty to skip), and the root gets an xmlns and a viewBox. A nil log
// uses slog.Default.
func PrepareSVG(ctx context.Context, log *slog.Logger, markup string, lookup Lookup, color string, width, height float64) ([]byte, error) {
	if log == nil {
		log = slog.Default()
	}
	svg, err := parseSVG(markup)
	if err != nil {
		return nil, err
	}
	if lookup != nil {
		if n := inlineUses(ctx, log, svg, lookup); n > 0 {
			log.Debug("raster: inlined <use> references", "count", n)
		}
	}
	if color != "" {
		pinCurrentColor(svg, color)
	}
	ensureViewport(svg, width, height)

	var buf bytes.Buffer
	if err := html.Render(&buf, svg); err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	return buf.Bytes(), nil
}
