package figlayout

import (
	"testing"

	"github.com/panelize/panelize/pkg/errors"
	"github.com/panelize/panelize/pkg/layout"
)

func TestLabelText(t *testing.T) {
	tests := []struct {
		scheme string
		index  int
		want   string
	}{
		{"(a)", 0, "(a)"},
		{"(a)", 1, "(b)"},
		{"(a)", 25, "(z)"},
		{"(a)", 26, "(aa)"},
		{"(A)", 0, "(A)"},
		{"(A)", 2, "(C)"},
		{"a", 0, "a"},
		{"a", 3, "d"},
		{"A", 1, "B"},
	}
	for _, tt := range tests {
		got, err := LabelText(tt.scheme, tt.index)
		if err != nil {
			t.Fatalf("LabelText(%q, %d) error: %v", tt.scheme, tt.index, err)
		}
		if got != tt.want {
			t.Errorf("LabelText(%q, %d) = %q, want %q", tt.scheme, tt.index, got, tt.want)
		}
	}
}

func TestLabelTextErrors(t *testing.T) {
	if _, err := LabelText("(1)", 0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad scheme: code = %v, want INVALID_INPUT", errors.GetCode(err))
	}
	if _, err := LabelText("(a)", -1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative index: code = %v, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestAutoLabelReadingOrder(t *testing.T) {
	d := New("fig")
	d.Label.Scheme = "(a)"
	d.Label.Color = "#000000"

	first := d.Tree.RootID()
	second, _ := d.Tree.Split(first, layout.Horizontal, 0.5)
	third, _ := d.Tree.Split(second, layout.Vertical, 0.5)

	if err := d.AutoLabel(); err != nil {
		t.Fatalf("AutoLabel error: %v", err)
	}

	want := map[string]string{first: "(a)", second: "(b)", third: "(c)"}
	for id, label := range want {
		n, _ := d.Tree.Node(id)
		if n.Label != label {
			t.Errorf("cell %s label = %q, want %q", id, n.Label, label)
		}
		if n.LabelColor != "#000000" {
			t.Errorf("cell %s label color = %q", id, n.LabelColor)
		}
	}

	if err := d.ClearLabels(); err != nil {
		t.Fatalf("ClearLabels error: %v", err)
	}
	n, _ := d.Tree.Node(first)
	if n.Label != "" {
		t.Errorf("label not cleared: %q", n.Label)
	}
}
