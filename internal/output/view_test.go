package output

import (
	"testing"

	"github.com/mj1618/slidescene/internal/model"
)

func TestShape_Full(t *testing.T) {
	r := sampleResult()
	got := Shape("src", 7, &r.Presentation, View{})
	full, ok := got.(ExtractResult)
	if !ok {
		t.Fatalf("got %T, want ExtractResult", got)
	}
	if full.Source != "src" || full.TS != 7 || len(full.Slides) != 1 {
		t.Errorf("got %+v", full)
	}
}

func TestShape_Flat(t *testing.T) {
	r := sampleResult()
	tests := []struct {
		name string
		view View
		want []string
	}{
		{"flat", View{Flat: true}, []string{"p", "table"}},
		{"tag", View{Tags: []string{"TABLE"}}, []string{"table"}},
		{"text", View{Text: "hello"}, []string{"p"}},
		{"pending", View{Pending: true}, []string{"table"}},
		{"bbox", View{BBox: &[4]int{0, 0, 50, 50}}, []string{"p"}},
		{"none", View{Text: "absent"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Shape("", 0, &r.Presentation, tt.view).(ExtractFlatResult)
			if !ok {
				t.Fatal("expected flat result")
			}
			if got.Elements == nil {
				t.Fatal("elements should never be nil")
			}
			if len(got.Elements) != len(tt.want) {
				t.Fatalf("got %d elements, want %d", len(got.Elements), len(tt.want))
			}
			for i, tag := range tt.want {
				if got.Elements[i].Tag != tag {
					t.Errorf("element %d: got %q, want %q", i, got.Elements[i].Tag, tag)
				}
			}
		})
	}
}

func TestView_Filtered(t *testing.T) {
	if (View{Flat: true}).Filtered() {
		t.Error("flat alone is not a filter")
	}
	if !(View{Tags: []string{"svg"}}).Filtered() {
		t.Error("tags are a filter")
	}
	var empty model.Presentation
	if _, ok := Shape("", 0, &empty, View{Pending: true}).(ExtractFlatResult); !ok {
		t.Error("pending implies flat")
	}
}
