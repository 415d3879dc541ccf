package game

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/gasmaster/internal/config"
	"github.com/iburimskiy/gasmaster/internal/input"
	"github.com/iburimskiy/gasmaster/internal/sim"
	"github.com/iburimskiy/gasmaster/internal/sound"
)

var (
	bgYellow    = color.RGBA{R: 234, G: 179, B: 8, A: 255}
	loaderBg    = color.RGBA{R: 250, G: 204, B: 21, A: 255}
	black       = color.RGBA{A: 255}
	white       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	buttonRed   = color.RGBA{R: 239, G: 68, B: 68, A: 255}
	buttonHot   = color.RGBA{R: 255, A: 255}
	gridColor   = color.NRGBA{A: 26}
	gaugeColor  = color.NRGBA{A: 128}
	shadowShift = float32(8)
)

// debug font cell size
const glyphW, glyphH = 6, 16

const (
	tileW    = 280
	tileH    = 100
	tileGap  = 20
	tilesTop = 580
)

// view caches the images the renderer reuses between frames.
type view struct {
	scene  *ebiten.Image
	labels map[string]*ebiten.Image
	rng    *rand.Rand
	frames int
}

func newView() *view {
	return &view{
		labels: make(map[string]*ebiten.Image),
		rng:    rand.New(rand.NewSource(1)),
	}
}

// label returns s rendered once with the debug font.
func (v *view) label(s string) *ebiten.Image {
	if img, ok := v.labels[s]; ok {
		return img
	}
	img := ebiten.NewImage(len(s)*glyphW+2, glyphH)
	ebitenutil.DebugPrintAt(img, s, 1, 0)
	v.labels[s] = img
	return img
}

// text draws s centred on (cx, cy), scaled and rotated by deg.
func (v *view) text(dst *ebiten.Image, s string, cx, cy, scale, deg float64, clr color.Color) {
	img := v.label(s)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Rotate(deg * math.Pi / 180)
	op.GeoM.Translate(cx, cy)
	op.ColorScale.ScaleWithColor(clr)
	dst.DrawImage(img, op)
}

// tileRect is the selector tile for profile i, in scene coordinates.
func tileRect(i int) input.Rect {
	left := float64(config.WindowWidth-2*tileW-tileGap) / 2
	col, row := i%2, i/2
	return input.Rect{
		X: left + float64(col*(tileW+tileGap)),
		Y: float64(tilesTop + row*(tileH+tileGap)),
		W: tileW,
		H: tileH,
	}
}

// tileAt returns the tile under a scene point, or -1.
func tileAt(x, y float64) int {
	for i := range sound.Profiles {
		if tileRect(i).Contains(x, y) {
			return i
		}
	}
	return -1
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.view.frames++
	if g.loading {
		g.drawLoader(screen)
		return
	}

	if g.view.scene == nil {
		g.view.scene = ebiten.NewImage(config.WindowWidth, config.WindowHeight)
	}
	scene := g.view.scene
	scene.Fill(bgYellow)
	g.drawGrid(scene)
	g.drawHeader(scene)
	g.drawGauge(scene)
	g.drawButton(scene)
	g.drawSelector(scene)
	g.view.text(scene, "PRESION MAXIMA GARANTIZADA", config.WindowWidth/2, config.WindowHeight-40, 2, 0, color.NRGBA{A: 153})

	ox, oy := zoomOrigin()
	z := g.zoom()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-ox, -oy)
	op.GeoM.Scale(z, z)
	op.GeoM.Translate(ox, oy)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(scene, op)

	g.drawSmoke(screen, g.frame.Particles)

	if level := g.engine.Level(); level > 0.01 {
		vector.DrawFilledRect(screen, 0, 0, config.WindowWidth, config.WindowHeight, withAlpha(white, level*0.35), false)
	}

	g.drawStatus(screen)
}

func (g *Game) drawGrid(dst *ebiten.Image) {
	for x := 0; x <= config.WindowWidth; x += config.GridSpacing {
		vector.StrokeLine(dst, float32(x), 0, float32(x), config.WindowHeight, 2, gridColor, false)
	}
	for y := 0; y <= config.WindowHeight; y += config.GridSpacing {
		vector.StrokeLine(dst, 0, float32(y), config.WindowWidth, float32(y), 2, gridColor, false)
	}
}

// brutalBox is a bordered box with a hard offset shadow.
func brutalBox(dst *ebiten.Image, x, y, w, h float32, fill color.Color) {
	vector.DrawFilledRect(dst, x+shadowShift, y+shadowShift, w, h, black, false)
	vector.DrawFilledRect(dst, x, y, w, h, fill, false)
	vector.StrokeRect(dst, x, y, w, h, 4, black, false)
}

func (g *Game) drawHeader(dst *ebiten.Image) {
	cx := float32(config.WindowWidth / 2)
	brutalBox(dst, cx-170, 36, 340, 96, white)
	g.view.text(dst, "GASMASTER", float64(cx), 84, 6, -2, black)

	vector.DrawFilledRect(dst, cx-60, 142, 120, 30, black, false)
	g.view.text(dst, "VER. 3.0", float64(cx), 157, 2, 1, white)
}

func (g *Game) drawGauge(dst *ebiten.Image) {
	p := g.frame.Pressure
	cx, cy := g.core.Origin()
	r := (config.ButtonRadius + 18) * (1 + p*config.GaugeScale)
	offset := p*360 + g.spin

	const segments = 36
	for i := 0; i < segments; i += 2 {
		a0 := (offset + float64(i)*360/segments) * math.Pi / 180
		a1 := (offset + float64(i+1)*360/segments) * math.Pi / 180
		vector.StrokeLine(dst,
			float32(cx+math.Cos(a0)*r), float32(cy+math.Sin(a0)*r),
			float32(cx+math.Cos(a1)*r), float32(cy+math.Sin(a1)*r),
			4, gaugeColor, true)
	}
}

func (g *Game) drawButton(dst *ebiten.Image) {
	p := g.frame.Pressure
	cx, cy := g.core.Origin()
	if p > 0 {
		cx += (g.view.rng.Float64() - 0.5) * p * config.JitterPixels
		cy += (g.view.rng.Float64() - 0.5) * p * config.JitterPixels
	}
	r := float32(config.ButtonRadius * (1 - p*config.ButtonShrink))

	fill := buttonRed
	if p > config.HotPressure {
		fill = buttonHot
	}
	shadow := shadowShift
	if g.frame.Pressed {
		shadow = 2
	}
	vector.DrawFilledCircle(dst, float32(cx)+shadow, float32(cy)+shadow, r, black, true)
	vector.DrawFilledCircle(dst, float32(cx), float32(cy), r, fill, true)
	vector.StrokeCircle(dst, float32(cx), float32(cy), r, 5, black, true)

	g.view.text(dst, "PUSH", cx, cy-14, 7, 0, white)
	bar := fmt.Sprintf("%d%% BAR", int(math.Round(p*100)))
	vector.DrawFilledRect(dst, float32(cx)-54, float32(cy)+34, 108, 28, black, false)
	g.view.text(dst, bar, cx, cy+48, 2, 2, white)
}

func (g *Game) drawSelector(dst *ebiten.Image) {
	top := tileRect(0)
	width := float32(2*tileW + tileGap)
	vector.DrawFilledRect(dst, float32(top.X), tilesTop-64, width, 40, black, false)
	vector.StrokeRect(dst, float32(top.X), tilesTop-64, width, 40, 3, white, false)
	g.view.text(dst, "SELECTOR DE MUNICION", config.WindowWidth/2, tilesTop-44, 2, 0, white)

	active := g.selector.Index()
	for i, p := range sound.Profiles {
		r := tileRect(i)
		x, y := float32(r.X), float32(r.Y)
		fill := p.Color
		if i == active {
			fill = white
			x += 2
			y += 2
		}
		brutalBox(dst, x, y, float32(r.W), float32(r.H), fill)
		g.view.text(dst, p.Label, float64(x)+r.W/2, float64(y)+r.H/2-10, 4, -2, black)
		g.view.text(dst, fmt.Sprintf("%d  %s", i+1, p.Description), float64(x)+r.W/2, float64(y)+r.H-18, 1, 0, black)
		if i == active {
			vector.DrawFilledCircle(dst, x+float32(r.W)-12, y+12, 6, black, true)
		}
	}
}

// drawSmoke renders particles; life doubles as opacity and scale.
func (g *Game) drawSmoke(dst *ebiten.Image, particles []sim.Particle) {
	for _, p := range particles {
		life := clamp01(p.Life)
		r := p.Size / 2 * life
		if r < 0.5 {
			continue
		}
		vector.DrawFilledCircle(dst, float32(p.X), float32(p.Y), float32(r), withAlpha(white, life*0.9), true)
		vector.StrokeCircle(dst, float32(p.X), float32(p.Y), float32(r), 3, withAlpha(black, life*0.9), true)

		dx, dy := rotate(-r/4, -r/4, p.Rotation)
		vector.DrawFilledCircle(dst, float32(p.X+dx), float32(p.Y+dy), float32(r/4), withAlpha(black, life*0.2), true)
	}
}

func (g *Game) drawStatus(dst *ebiten.Image) {
	stats := g.store.Stats
	status := fmt.Sprintf("%s | releases %d | max %d%% | 1-4/Tab sound, M mute, O load, Esc quit",
		g.selector.Active().ID, stats.Releases, int(math.Round(stats.MaxPressure*100)))
	if !g.store.Persistent() {
		status += " | stats not saved"
	}
	if g.engine.Muted() {
		status = "MUTED | " + status
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(dst, status, 8, 4)
}

func (g *Game) drawLoader(dst *ebiten.Image) {
	dst.Fill(loaderBg)
	cx := float64(config.WindowWidth / 2)
	cy := float64(config.WindowHeight / 2)

	if !g.loader.Ready() {
		g.view.text(dst, "CARGANDO", cx, cy-160, 7, 0, black)
		g.view.text(dst, "GASES...", cx, cy-90, 7, 0, black)

		const barW, barH = 480, 48
		x, y := float32(cx-barW/2), float32(cy-barH/2)
		vector.DrawFilledRect(dst, x, y, barW, barH, white, false)
		vector.DrawFilledRect(dst, x, y, barW*float32(g.loader.Progress())/100, barH, black, false)
		vector.StrokeRect(dst, x, y, barW, barH, 4, black, false)
		g.view.text(dst, fmt.Sprintf("%d%%", g.loader.Progress()), cx, cy+64, 3, 0, black)
		return
	}

	pulse := 0.75 + 0.25*math.Sin(float64(g.view.frames)/8)
	const btnW, btnH = 420, 130
	x, y := float32(cx-btnW/2), float32(cy-btnH/2)
	brutalBox(dst, x, y, btnW, btnH, withAlpha(black, pulse))
	vector.StrokeRect(dst, x, y, btnW, btnH, 4, white, false)
	g.view.text(dst, "INICIAR", cx, cy, 8, 0, white)
	g.view.text(dst, fmt.Sprintf("%d/%d sonidos", g.lib.Loaded(), len(sound.Profiles)), cx, cy+110, 2, 0, black)
}
