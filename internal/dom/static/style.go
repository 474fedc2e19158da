package static

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"

	"github.com/mj1618/slidescene/internal/dom"
)

// defaultStyle is what a browser reports for an unstyled element.
var defaultStyle = map[string]string{
	"background-color": "rgba(0, 0, 0, 0)",
	"background-image": "none",
	"border-width":     "0px",
	"border-radius":    "0px",
	"box-shadow":       "none",
	"color":            "rgb(0, 0, 0)",
	"filter":           "none",
	"font-family":      "Times New Roman",
	"font-size":        "16px",
	"font-style":       "normal",
	"font-weight":      "400",
	"line-height":      "normal",
	"margin-top":       "0px",
	"margin-bottom":    "0px",
	"margin-left":      "0px",
	"margin-right":     "0px",
	"object-fit":       "fill",
	"opacity":          "1",
	"padding-top":      "0px",
	"padding-bottom":   "0px",
	"padding-left":     "0px",
	"padding-right":    "0px",
	"text-align":       "start",
	"white-space":      "normal",
	"z-index":          "auto",
}

// inherited lists the properties that flow from parent to child.
var inherited = []string{
	"color",
	"font-family",
	"font-size",
	"font-style",
	"font-weight",
	"line-height",
	"text-align",
	"white-space",
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// inlineStyle parses the style attribute of n into longhand properties.
// Malformed declarations are dropped.
func inlineStyle(n *html.Node) map[string]string {
	raw, ok := attr(n, "style")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	decls, err := parser.ParseDeclarations(raw)
	if err != nil {
		slog.Debug("static: bad inline style", "style", raw, "err", err)
		return nil
	}
	out := make(map[string]string, len(decls))
	for _, d := range decls {
		prop := strings.ToLower(strings.TrimSpace(d.Property))
		val := strings.TrimSpace(d.Value)
		switch prop {
		case "margin", "padding":
			expandBox(out, prop, val)
		case "background":
			if strings.Contains(val, "url(") {
				out["background-image"] = val
			} else {
				out["background-color"] = val
			}
		case "border":
			expandBorder(out, val)
		default:
			out[prop] = val
		}
	}
	return out
}

// expandBox spreads a 1-4 value margin/padding shorthand over its sides.
func expandBox(out map[string]string, prop, val string) {
	v := strings.Fields(val)
	var top, right, bottom, left string
	switch len(v) {
	case 1:
		top, right, bottom, left = v[0], v[0], v[0], v[0]
	case 2:
		top, right, bottom, left = v[0], v[1], v[0], v[1]
	case 3:
		top, right, bottom, left = v[0], v[1], v[2], v[1]
	case 4:
		top, right, bottom, left = v[0], v[1], v[2], v[3]
	default:
		return
	}
	out[prop+"-top"] = top
	out[prop+"-right"] = right
	out[prop+"-bottom"] = bottom
	out[prop+"-left"] = left
}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true, "solid": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

// expandBorder splits "2px solid red" into width and color.
func expandBorder(out map[string]string, val string) {
	for _, f := range strings.Fields(val) {
		switch {
		case borderStyles[strings.ToLower(f)]:
			if strings.EqualFold(f, "none") || strings.EqualFold(f, "hidden") {
				out["border-width"] = "0px"
			}
		case f != "" && (f[0] >= '0' && f[0] <= '9' || f[0] == '.'):
			out["border-width"] = f
		default:
			out["border-color"] = f
		}
	}
}

// computedStyle resolves the style of n: defaults, then inherited
// properties from the inline styles of its ancestors, then its own inline
// style.
func computedStyle(n *html.Node) map[string]string {
	style := make(map[string]string, len(defaultStyle)+4)
	for k, v := range defaultStyle {
		style[k] = v
	}

	var chain []*html.Node
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			chain = append(chain, p)
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		decls := inlineStyle(chain[i])
		for _, prop := range inherited {
			if v, ok := decls[prop]; ok {
				style[prop] = v
			}
		}
	}
	for k, v := range inlineStyle(n) {
		style[k] = v
	}
	if _, ok := style["border-color"]; !ok {
		style["border-color"] = style["color"]
	}
	return style
}

// px parses an inline pixel length.
func px(v string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
	return f, err == nil
}

// rect resolves the layout box of n. A data-rect="left,top,width,height"
// attribute is absolute; otherwise inline left/top offset the parent's
// box and inline width/height size it. Hidden elements have no box.
func rect(n *html.Node) dom.Rect {
	if n == nil || n.Type != html.ElementNode {
		return dom.Rect{}
	}
	if raw, ok := attr(n, "data-rect"); ok {
		parts := strings.Split(raw, ",")
		if len(parts) == 4 {
			var v [4]float64
			valid := true
			for i, p := range parts {
				f, ok := px(p)
				if !ok {
					valid = false
					break
				}
				v[i] = f
			}
			if valid {
				return dom.Rect{Left: v[0], Top: v[1], Width: v[2], Height: v[3]}
			}
		}
	}

	decls := inlineStyle(n)
	if decls["display"] == "none" {
		return dom.Rect{}
	}
	var r dom.Rect
	if n.Parent != nil && n.Parent.Type == html.ElementNode {
		parent := rect(n.Parent)
		r.Left, r.Top = parent.Left, parent.Top
	}
	if v, ok := px(decls["left"]); ok {
		r.Left += v
	}
	if v, ok := px(decls["top"]); ok {
		r.Top += v
	}
	if v, ok := px(decls["width"]); ok {
		r.Width = v
	}
	if v, ok := px(decls["height"]); ok {
		r.Height = v
	}
	return r
}
