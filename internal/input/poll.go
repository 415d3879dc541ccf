package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Pointer returns whether the mouse or any finger is down, and where.
// Touches win over the mouse cursor.
func Pointer(touches []ebiten.TouchID) (down bool, x, y float64, _ []ebiten.TouchID) {
	touches = ebiten.AppendTouchIDs(touches[:0])
	if len(touches) > 0 {
		tx, ty := ebiten.TouchPosition(touches[0])
		return true, float64(tx), float64(ty), touches
	}
	mx, my := ebiten.CursorPosition()
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), float64(mx), float64(my), touches
}

// JustTapped reports a fresh click or touch and its position.
func JustTapped(touches []ebiten.TouchID) (ok bool, x, y float64, _ []ebiten.TouchID) {
	touches = inpututil.AppendJustPressedTouchIDs(touches[:0])
	if len(touches) > 0 {
		tx, ty := ebiten.TouchPosition(touches[0])
		return true, float64(tx), float64(ty), touches
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		return true, float64(mx), float64(my), touches
	}
	return false, 0, 0, touches
}

var selectKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4}

// Keyboard posts the discrete key commands for this frame.
func Keyboard(emit func(Event)) {
	for i, k := range selectKeys {
		if inpututil.IsKeyJustPressed(k) {
			emit(Event{Kind: SelectSound, Index: i})
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			emit(Event{Kind: PrevSound})
		} else {
			emit(Event{Kind: NextSound})
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		emit(Event{Kind: ToggleMute})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		emit(Event{Kind: LoadSound})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		emit(Event{Kind: Quit})
	}
}

// SpaceHeld is the keyboard twin of the pointer: space acts as the button.
func SpaceHeld() bool {
	return ebiten.IsKeyPressed(ebiten.KeySpace)
}
