package layout

import (
	"testing"

	"github.com/panelize/panelize/pkg/errors"
)

func TestAutofitHorizontal(t *testing.T) {
	// Horizontal group: weights become the aspect ratios, the composite
	// aspect is their sum.
	tr := New()
	first := tr.RootID()
	second, _ := tr.Split(first, Horizontal, 0.5)

	composite, err := tr.Autofit(map[string]float64{first: 2, second: 1})
	if err != nil {
		t.Fatalf("Autofit error: %v", err)
	}
	if !approx(composite, 3) {
		t.Errorf("composite = %g, want 3", composite)
	}

	a, _ := tr.Node(first)
	b, _ := tr.Node(second)
	if !approx(a.Weight, 2) || !approx(b.Weight, 1) {
		t.Errorf("weights = %g, %g, want 2, 1", a.Weight, b.Weight)
	}
}

func TestAutofitVertical(t *testing.T) {
	// Vertical group: weights are reciprocal aspects, the composite is
	// 1 / sum(1/a_i).
	tr := New()
	first := tr.RootID()
	second, _ := tr.Split(first, Vertical, 0.5)

	composite, err := tr.Autofit(map[string]float64{first: 2, second: 1})
	if err != nil {
		t.Fatalf("Autofit error: %v", err)
	}
	if !approx(composite, 1.0/1.5) {
		t.Errorf("composite = %g, want %g", composite, 1.0/1.5)
	}

	a, _ := tr.Node(first)
	b, _ := tr.Node(second)
	if !approx(a.Weight, 0.5) || !approx(b.Weight, 1) {
		t.Errorf("weights = %g, %g, want 0.5, 1", a.Weight, b.Weight)
	}
}

func TestAutofitNested(t *testing.T) {
	// A vertical stack inside a horizontal row contributes its composite
	// aspect to the row.
	tr := New()
	left := tr.RootID()
	right, _ := tr.Split(left, Horizontal, 0.5)
	bottom, _ := tr.Split(right, Vertical, 0.5)

	// Left is 1:1, the stack holds two 2:1 panels. Stack composite is
	// 1/(1/2 + 1/2) = 1, so the row splits 1:1 and the total is 2.
	composite, err := tr.Autofit(map[string]float64{left: 1, right: 2, bottom: 2})
	if err != nil {
		t.Fatalf("Autofit error: %v", err)
	}
	if !approx(composite, 2) {
		t.Errorf("composite = %g, want 2", composite)
	}

	l, _ := tr.Node(left)
	if !approx(l.Weight, 1) {
		t.Errorf("left weight = %g, want 1", l.Weight)
	}
	root, _ := tr.Node(tr.RootID())
	stack, _ := tr.Node(root.Children[1])
	if !approx(stack.Weight, 1) {
		t.Errorf("stack weight = %g, want its composite aspect 1", stack.Weight)
	}
}

func TestAutofitUnknownAspectsKeepNeutralWeight(t *testing.T) {
	tr := New()
	first := tr.RootID()
	second, _ := tr.Split(first, Horizontal, 0.25)

	composite, err := tr.Autofit(map[string]float64{first: 1.5})
	if err != nil {
		t.Fatalf("Autofit error: %v", err)
	}
	if !approx(composite, 1.5) {
		t.Errorf("composite = %g, want 1.5 (only the known aspect)", composite)
	}

	b, _ := tr.Node(second)
	if !approx(b.Weight, 1) {
		t.Errorf("empty cell weight = %g, want neutral 1", b.Weight)
	}
}

func TestAutofitRejectsNonPositiveAspect(t *testing.T) {
	tr := New()
	if _, err := tr.Autofit(map[string]float64{tr.RootID(): -2}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %v, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestOptimalHeight(t *testing.T) {
	tr := New()
	first := tr.RootID()
	second, _ := tr.Split(first, Horizontal, 0.5)
	aspects := map[string]float64{first: 2, second: 2}

	// Composite aspect 4, so 180mm of content width wants 45mm of height.
	if got := tr.OptimalHeight(180, aspects); !approx(got, 45) {
		t.Errorf("OptimalHeight = %g, want 45", got)
	}

	// No known content yields 0.
	if got := tr.OptimalHeight(180, nil); got != 0 {
		t.Errorf("OptimalHeight with no aspects = %g, want 0", got)
	}
	if got := tr.OptimalHeight(0, aspects); got != 0 {
		t.Errorf("OptimalHeight with zero width = %g, want 0", got)
	}
}

func TestOptimalHeightIncludesVerticalGaps(t *testing.T) {
	// Two square panels stacked with a 2mm gap: each wants 100mm of height
	// at 100mm width, plus the gap between them.
	tr := New()
	first := tr.RootID()
	second, _ := tr.Split(first, Vertical, 0.5)
	tr.SetGap(2)

	got := tr.OptimalHeight(100, map[string]float64{first: 1, second: 1})
	if !approx(got, 202) {
		t.Errorf("OptimalHeight = %g, want 202", got)
	}
}

func TestOptimalHeightDiscountsHorizontalGaps(t *testing.T) {
	// A 2mm gap inside a row consumes width, so the row is shorter than
	// the gapless composite would suggest: (102-2)/4 = 25.
	tr := New()
	first := tr.RootID()
	second, _ := tr.Split(first, Horizontal, 0.5)
	tr.SetGap(2)

	got := tr.OptimalHeight(102, map[string]float64{first: 2, second: 2})
	if !approx(got, 25) {
		t.Errorf("OptimalHeight = %g, want 25", got)
	}
}

func TestOptimalHeightIncludesLabelBand(t *testing.T) {
	tr := New()
	first := tr.RootID()
	second, _ := tr.Split(first, Horizontal, 0.5)
	tr.SetLabelBand(5)
	if err := tr.SetGroupLabel(tr.RootID(), "Experiment 1"); err != nil {
		t.Fatal(err)
	}

	// Composite 4 wants 45mm at 180mm width; the band adds its 5mm on top.
	got := tr.OptimalHeight(180, map[string]float64{first: 2, second: 2})
	if !approx(got, 50) {
		t.Errorf("OptimalHeight = %g, want 50", got)
	}
}

func TestOptimalHeightDoesNotMutateWeights(t *testing.T) {
	tr := New()
	first := tr.RootID()
	second, _ := tr.Split(first, Horizontal, 0.3)

	tr.OptimalHeight(100, map[string]float64{first: 2, second: 1})

	a, _ := tr.Node(first)
	b, _ := tr.Node(second)
	if !approx(a.Weight, 0.3) || !approx(b.Weight, 0.7) {
		t.Errorf("weights changed to %g, %g", a.Weight, b.Weight)
	}
}
