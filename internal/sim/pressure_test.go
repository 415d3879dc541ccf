package sim

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestPressureRampIsMonotonicAndBounded(t *testing.T) {
	p := NewPressure(0.5)
	p.PressStart()
	prev := 0.0
	for i := 0; i < 500; i++ {
		p.Tick(1.0 / 60)
		if p.Value() < prev {
			t.Fatalf("tick %d: value decreased from %v to %v", i, prev, p.Value())
		}
		if p.Value() > 1 {
			t.Fatalf("tick %d: value %v exceeds 1", i, p.Value())
		}
		prev = p.Value()
	}
	if p.Value() != 1 {
		t.Errorf("value after ~8s held: got %v, want 1", p.Value())
	}
}

func TestPressureReachesMaxAfterTwoSeconds(t *testing.T) {
	p := NewPressure(0.5)
	p.PressStart()
	for i := 0; i < 19; i++ {
		p.Tick(0.1)
	}
	if p.Value() >= 1 {
		t.Errorf("value after 1.9s: got %v, want < 1", p.Value())
	}
	p.Tick(0.1)
	if math.Abs(p.Value()-1) > eps {
		t.Errorf("value after 2.0s: got %v, want 1", p.Value())
	}
	p.Tick(0.5)
	if p.Value() != 1 {
		t.Errorf("value after 2.5s: got %v, want 1", p.Value())
	}
}

func TestPressureInstantReset(t *testing.T) {
	p := NewPressure(0.5)
	p.PressStart()
	p.Tick(1)
	final, ok := p.PressEnd()
	if !ok {
		t.Fatal("PressEnd() ok = false while pressed")
	}
	if math.Abs(final-0.5) > eps {
		t.Errorf("final: got %v, want 0.5", final)
	}
	p.Tick(0.001)
	if p.Value() != 0 {
		t.Errorf("value one tick after release: got %v, want 0", p.Value())
	}
}

func TestPressureReleaseIsIdempotent(t *testing.T) {
	p := NewPressure(0.5)
	p.PressStart()
	p.Tick(0.6)
	first, ok := p.PressEnd()
	if !ok {
		t.Fatal("first PressEnd() ok = false")
	}
	if _, ok := p.PressEnd(); ok {
		t.Error("second PressEnd() ok = true, want no-op")
	}
	if p.Pressed() {
		t.Error("still pressed after release")
	}
	if math.Abs(first-0.3) > eps {
		t.Errorf("first capture: got %v, want 0.3", first)
	}
}

func TestPressureReleaseWithoutPress(t *testing.T) {
	p := NewPressure(0.5)
	if _, ok := p.PressEnd(); ok {
		t.Error("PressEnd() without PressStart should be a no-op")
	}
}

func TestPressureStartIsIdempotent(t *testing.T) {
	p := NewPressure(0.5)
	p.PressStart()
	p.Tick(1)
	p.PressStart()
	if math.Abs(p.Value()-0.5) > eps {
		t.Errorf("repeated PressStart changed value: got %v", p.Value())
	}
	p.Tick(1)
	if math.Abs(p.Value()-1) > eps {
		t.Errorf("value: got %v, want 1", p.Value())
	}
}

func TestPressureIdleStaysZero(t *testing.T) {
	p := NewPressure(0.5)
	for i := 0; i < 10; i++ {
		p.Tick(0.1)
	}
	if p.Value() != 0 {
		t.Errorf("idle value: got %v, want 0", p.Value())
	}
}
