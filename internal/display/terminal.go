package display

import (
	"image"
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// upperHalf carries the upper pixel in its foreground and the lower one in the background.
const upperHalf = '▀'

// TerminalSink draws frames into a terminal, two pixel rows per character cell.
type TerminalSink struct {
	mu         sync.Mutex
	screen     tcell.Screen
	frame      *image.RGBA
	brightness int
}

// NewTerminalSink takes ownership of screen; a nil screen opens the controlling terminal.
func NewTerminalSink(screen tcell.Screen, opts MatrixOptions) (*TerminalSink, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		screen = s
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	screen.Clear()
	return &TerminalSink{
		screen:     screen,
		frame:      image.NewRGBA(image.Rect(0, 0, opts.Width(), opts.Height())),
		brightness: opts.ClampedBrightness(),
	}, nil
}

func (t *TerminalSink) Size() (int, int) {
	return t.frame.Bounds().Dx(), t.frame.Bounds().Dy()
}

func (t *TerminalSink) SetImage(img image.Image, x, y int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	compose(t.frame, img, x, y)
	t.paint()
	return nil
}

func (t *TerminalSink) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	compose(t.frame, nil, 0, 0)
	t.screen.Clear()
	t.screen.Show()
	return nil
}

func (t *TerminalSink) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
	return nil
}

// WatchQuit polls terminal events until the screen is finalised and calls
// onQuit once for Ctrl-C, Esc or q. Raw mode swallows SIGINT, so this is the
// only way out when running in a terminal.
func (t *TerminalSink) WatchQuit(onQuit func()) {
	var once sync.Once
	go func() {
		for {
			ev := t.screen.PollEvent()
			switch ev := ev.(type) {
			case nil:
				return
			case *tcell.EventResize:
				t.screen.Sync()
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
					once.Do(onQuit)
				}
			}
		}
	}()
}

func (t *TerminalSink) paint() {
	b := t.frame.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := scaleBrightness(t.frame.RGBAAt(x, y), t.brightness)
			bottom := color.RGBA{A: 0xFF}
			if y+1 < b.Max.Y {
				bottom = scaleBrightness(t.frame.RGBAAt(x, y+1), t.brightness)
			}
			style := tcell.StyleDefault.Foreground(toTcell(top)).Background(toTcell(bottom))
			t.screen.SetContent(x, y/2, upperHalf, nil, style)
		}
	}
	t.screen.Show()
}

func toTcell(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
