package sim

// Pressure integrates how long the button has been held into a value in
// [0, 1]. Releasing drops the value to zero on the next tick.
type Pressure struct {
	rate    float64
	pressed bool
	value   float64
}

func NewPressure(rate float64) *Pressure {
	return &Pressure{rate: rate}
}

func (p *Pressure) PressStart() {
	p.pressed = true
}

// PressEnd returns the pressure reached while held. ok is false when the
// button was not pressed, in which case nothing changes.
func (p *Pressure) PressEnd() (final float64, ok bool) {
	if !p.pressed {
		return 0, false
	}
	p.pressed = false
	return p.value, true
}

// Tick assumes dt >= 0; Clock takes care of that.
func (p *Pressure) Tick(dt float64) {
	if !p.pressed {
		p.value = 0
		return
	}
	p.value += dt * p.rate
	if p.value > 1 {
		p.value = 1
	}
}

func (p *Pressure) Value() float64 { return p.value }
func (p *Pressure) Pressed() bool  { return p.pressed }
