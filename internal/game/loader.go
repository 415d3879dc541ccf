package game

import (
	"time"

	"github.com/iburimskiy/gasmaster/internal/config"
)

// loader is the splash screen: a progress bar while the samples decode
// in the background, then a START button.
type loader struct {
	elapsed time.Duration
	// samples reports the decoded fraction in [0, 1]; nil counts as done.
	samples func() float64
}

func (l *loader) Update(dt time.Duration) {
	l.elapsed += dt
}

// Progress is the displayed percentage. The bar fills at a fixed pace but
// never gets ahead of the decoder, unless decoding outlasts LoaderTimeout.
func (l *loader) Progress() int {
	p := min(int(l.elapsed/config.LoaderInterval)*config.LoaderStep, 100)
	if l.samples != nil && l.elapsed < config.LoaderTimeout {
		p = min(p, int(clamp01(l.samples())*100))
	}
	return p
}

func (l *loader) Ready() bool {
	return l.Progress() >= 100
}
