package distance

import "testing"

func TestL1Distance(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 0, 3}
	got := Resolve[float64](L1)(3, a, b)
	want := 3.0 + 2.0 + 0.0
	if got != want {
		t.Fatalf("L1(a,b) = %v, want %v", got, want)
	}
}

func TestL2SquaredDistance(t *testing.T) {
	a := []float32{0, 0}
	b := []float32{3, 4}
	got := Resolve[float32](L2Squared)(2, a, b)
	if got != 25 {
		t.Fatalf("L2Squared(a,b) = %v, want 25", got)
	}
}

func TestDistanceZeroIffEqual(t *testing.T) {
	a := []float64{1.5, -2.25, 7}
	fn := Resolve[float64](L2Squared)
	if fn(3, a, a) != 0 {
		t.Fatalf("distance to self must be zero")
	}
	b := []float64{1.5, -2.25, 7.1}
	if fn(3, a, b) <= 0 {
		t.Fatalf("distance between distinct points must be positive")
	}
}

func TestAxisFuncMatchesFullDistanceOnSingleAxis(t *testing.T) {
	for _, k := range []Kind{L1, L2Squared} {
		full := Resolve[float64](k)
		axis := ResolveAxis[float64](k)
		a := []float64{2}
		b := []float64{5}
		if full(1, a, b) != axis(3) {
			t.Fatalf("%v: axis contribution diverges from full distance on a single dimension", k)
		}
	}
}

func TestResolveUnsupportedKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unsupported distance kind")
		}
	}()
	Resolve[float64](Kind(99))
}
