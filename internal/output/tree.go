package output

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/mj1618/slidescene/internal/model"
)

const treeTextLimit = 40

// WriteTree renders an extraction result as an indented tree, one branch
// per slide and one node per element in paint order. Values that are not
// extraction results are written as YAML.
func WriteTree(w io.Writer, v interface{}) error {
	var tree treeprint.Tree
	switch r := v.(type) {
	case ExtractResult:
		tree = presentationTree(r.Source, r.Presentation)
	case *ExtractResult:
		tree = presentationTree(r.Source, r.Presentation)
	case model.Presentation:
		tree = presentationTree("", r)
	case *model.Presentation:
		tree = presentationTree("", *r)
	case ExtractFlatResult:
		tree = flatTree(r)
	default:
		return WriteYAML(w, v)
	}
	_, err := io.WriteString(w, tree.String())
	return err
}

func presentationTree(source string, p model.Presentation) treeprint.Tree {
	root := fmt.Sprintf("%d slides", len(p.Slides))
	if source != "" {
		root = source + " (" + root + ")"
	}
	tree := treeprint.NewWithRoot(root)
	for i, s := range p.Slides {
		label := fmt.Sprintf("slide %d", i)
		if s.BackgroundColor != "" {
			label += " bg=#" + s.BackgroundColor
		}
		if s.SpeakerNote != "" {
			label += " note=" + quote(s.SpeakerNote)
		}
		branch := tree.AddBranch(label)
		for j := range s.Elements {
			branch.AddMetaNode(j, elementLabel(&s.Elements[j]))
		}
	}
	if len(p.CaptureFailures) > 0 {
		failures := tree.AddBranch(fmt.Sprintf("%d capture failures", len(p.CaptureFailures)))
		for _, f := range p.CaptureFailures {
			failures.AddNode(fmt.Sprintf("slide %d #%d <%s> %s: %s", f.Slide, f.Index, f.Tag, f.Kind, f.Message))
		}
	}
	return tree
}

func flatTree(r ExtractFlatResult) treeprint.Tree {
	tree := treeprint.NewWithRoot(fmt.Sprintf("%d elements", len(r.Elements)))
	for _, el := range r.Elements {
		label := fmt.Sprintf("%s %v", el.Tag, el.Bounds)
		if el.Text != "" {
			label += " " + quote(el.Text)
		}
		if el.Pending {
			label += " pending"
		}
		tree.AddMetaNode(fmt.Sprintf("%d.%d", el.Slide, el.Index), label)
	}
	return tree
}

func elementLabel(el *model.ElementAttributes) string {
	var b strings.Builder
	b.WriteString(el.TagName)
	if p := el.Position; p != nil {
		fmt.Fprintf(&b, " (%g,%g %gx%g)", round1(p.Left), round1(p.Top), round1(p.Width), round1(p.Height))
	}
	if el.ZIndex != 0 {
		fmt.Fprintf(&b, " z=%d", el.ZIndex)
	}
	if c := el.BackgroundColor(); c != "" {
		b.WriteString(" fill=#" + c)
	}
	if el.HasText() {
		b.WriteString(" " + quote(el.InnerText))
	}
	if el.ImageSrc != "" {
		b.WriteString(" img=" + el.ImageSrc)
	}
	if el.ShouldScreenshot {
		b.WriteString(" pending")
	}
	return b.String()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func quote(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > treeTextLimit {
		s = string(r[:treeTextLimit]) + "…"
	}
	return fmt.Sprintf("%q", s)
}
