package model

import "strings"

// Position is an element's bounding rectangle in CSS pixels.
type Position struct {
	Left   float64 `yaml:"left"   json:"left"`
	Top    float64 `yaml:"top"    json:"top"`
	Width  float64 `yaml:"width"  json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Font is the decoded text style of an element.
type Font struct {
	Name   string   `yaml:"name,omitempty"   json:"name,omitempty"`
	Size   *float64 `yaml:"size,omitempty"   json:"size,omitempty"`
	Weight *int     `yaml:"weight,omitempty" json:"weight,omitempty"`
	Color  string   `yaml:"color,omitempty"  json:"color,omitempty"` // 6-digit hex, no '#'
	Italic bool     `yaml:"italic,omitempty" json:"italic,omitempty"`
}

// Background is a solid fill color.
type Background struct {
	Color   string   `yaml:"color,omitempty"   json:"color,omitempty"`
	Opacity *float64 `yaml:"opacity,omitempty" json:"opacity,omitempty"`
}

// Border is a uniform element border.
type Border struct {
	Color   string   `yaml:"color,omitempty"   json:"color,omitempty"`
	Width   *float64 `yaml:"width,omitempty"   json:"width,omitempty"`
	Opacity *float64 `yaml:"opacity,omitempty" json:"opacity,omitempty"`
}

// Shadow is the single box-shadow layer kept for an element.
type Shadow struct {
	Offset  [2]float64 `yaml:"offset"            json:"offset"`
	Color   string     `yaml:"color,omitempty"   json:"color,omitempty"`
	Opacity *float64   `yaml:"opacity,omitempty" json:"opacity,omitempty"`
	Radius  float64    `yaml:"radius"            json:"radius"` // blur radius
	Spread  float64    `yaml:"spread"            json:"spread"`
	Inset   bool       `yaml:"inset,omitempty"   json:"inset,omitempty"`
	Angle   float64    `yaml:"angle"             json:"angle"` // degrees
}

// Spacing holds per-side margin or padding values.
type Spacing struct {
	Top    float64 `yaml:"top"    json:"top"`
	Bottom float64 `yaml:"bottom" json:"bottom"`
	Left   float64 `yaml:"left"   json:"left"`
	Right  float64 `yaml:"right"  json:"right"`
}

// Filters is the sparse set of CSS filter functions present on an element.
type Filters struct {
	Invert     *float64 `yaml:"invert,omitempty"     json:"invert,omitempty"`
	Brightness *float64 `yaml:"brightness,omitempty" json:"brightness,omitempty"`
	Contrast   *float64 `yaml:"contrast,omitempty"   json:"contrast,omitempty"`
	Saturate   *float64 `yaml:"saturate,omitempty"   json:"saturate,omitempty"`
	HueRotate  *float64 `yaml:"hueRotate,omitempty"  json:"hueRotate,omitempty"`
	Blur       *float64 `yaml:"blur,omitempty"       json:"blur,omitempty"`
	Grayscale  *float64 `yaml:"grayscale,omitempty"  json:"grayscale,omitempty"`
	Sepia      *float64 `yaml:"sepia,omitempty"      json:"sepia,omitempty"`
	Opacity    *float64 `yaml:"opacity,omitempty"    json:"opacity,omitempty"`
}

// Empty reports whether no filter function is set.
func (f Filters) Empty() bool {
	return f.Invert == nil && f.Brightness == nil && f.Contrast == nil &&
		f.Saturate == nil && f.HueRotate == nil && f.Blur == nil &&
		f.Grayscale == nil && f.Sepia == nil && f.Opacity == nil
}

// Shape kinds for image elements.
const (
	ShapeCircle    = "circle"
	ShapeRectangle = "rectangle"
)

// ElementAttributes is the decoded, style-resolved description of one
// rendered element. Optional fragments are nil rather than empty.
type ElementAttributes struct {
	TagName          string      `yaml:"tagName"                    json:"tagName"`
	ID               string      `yaml:"id,omitempty"               json:"id,omitempty"`
	ClassName        string      `yaml:"className,omitempty"        json:"className,omitempty"`
	Position         *Position   `yaml:"position,omitempty"         json:"position,omitempty"`
	Font             *Font       `yaml:"font,omitempty"             json:"font,omitempty"`
	Background       *Background `yaml:"background,omitempty"       json:"background,omitempty"`
	Border           *Border     `yaml:"border,omitempty"           json:"border,omitempty"`
	Shadow           *Shadow     `yaml:"shadow,omitempty"           json:"shadow,omitempty"`
	Margin           *Spacing    `yaml:"margin,omitempty"           json:"margin,omitempty"`
	Padding          *Spacing    `yaml:"padding,omitempty"          json:"padding,omitempty"`
	BorderRadius     []float64   `yaml:"borderRadius,omitempty"     json:"borderRadius,omitempty"` // [tl, tr, br, bl]
	ZIndex           int         `yaml:"zIndex"                     json:"zIndex"`
	Opacity          *float64    `yaml:"opacity,omitempty"          json:"opacity,omitempty"`
	InnerText        string      `yaml:"innerText,omitempty"        json:"innerText,omitempty"`
	LineHeight       *float64    `yaml:"lineHeight,omitempty"       json:"lineHeight,omitempty"`
	TextAlign        string      `yaml:"textAlign,omitempty"        json:"textAlign,omitempty"`
	TextWrap         bool        `yaml:"textWrap"                   json:"textWrap"`
	ImageSrc         string      `yaml:"imageSrc,omitempty"         json:"imageSrc,omitempty"`
	ObjectFit        string      `yaml:"objectFit,omitempty"        json:"objectFit,omitempty"`
	Shape            string      `yaml:"shape,omitempty"            json:"shape,omitempty"`
	Filters          *Filters    `yaml:"filters,omitempty"          json:"filters,omitempty"`
	ShouldScreenshot bool        `yaml:"should_screenshot"          json:"should_screenshot"`

	// CaptureKey indexes the live element handle held by the extractor
	// while a capture is pending. Zero means no handle.
	CaptureKey int `yaml:"-" json:"-"`
}

// HasText reports whether the element carries non-blank text.
func (a *ElementAttributes) HasText() bool {
	return strings.TrimSpace(a.InnerText) != ""
}

// BackgroundColor returns the background hex color or "".
func (a *ElementAttributes) BackgroundColor() string {
	if a.Background == nil {
		return ""
	}
	return a.Background.Color
}

// SlideResult is the extracted scene of one slide in paint order.
type SlideResult struct {
	Elements        []ElementAttributes `yaml:"elements"                  json:"elements"`
	BackgroundColor string              `yaml:"backgroundColor,omitempty" json:"backgroundColor,omitempty"`
	SpeakerNote     string              `yaml:"speakerNote,omitempty"     json:"speakerNote,omitempty"`
}

// CaptureFailure records one element whose rasterization failed.
type CaptureFailure struct {
	Slide   int    `yaml:"slide"   json:"slide"`
	Index   int    `yaml:"index"   json:"index"`
	Tag     string `yaml:"tag"     json:"tag"`
	Kind    string `yaml:"kind"    json:"kind"`
	Message string `yaml:"message" json:"message"`
}

// Presentation is the full extraction result handed to an encoder.
type Presentation struct {
	Slides          []SlideResult    `yaml:"slides"                    json:"slides"`
	CaptureFailures []CaptureFailure `yaml:"captureFailures,omitempty" json:"captureFailures,omitempty"`
}
