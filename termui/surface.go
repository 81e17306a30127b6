package termui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"vbox-quiz/quiz"
)

const (
	margin        = 1
	historyMinH   = 5
	inputH        = 3
	inputTitle    = "Answer or 'hint'"
	defaultHeader = "Quiz"
)

var (
	styleDefault   = tcell.StyleDefault
	stylePrompt    = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	styleCorrect   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleIncorrect = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleInfo      = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleInput     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// View is everything the surface needs to draw one frame.
type View struct {
	Title  string
	Lines  []quiz.Line
	Input  string
	Scroll int
}

// Renderer draws frames. Surface is the terminal implementation.
type Renderer interface {
	Draw(v View)
	Sync()
}

// Surface renders the quiz on a full-screen tcell screen: a history pane on
// top and a three row input pane below it.
type Surface struct {
	screen tcell.Screen
}

func NewSurface(screen tcell.Screen) *Surface {
	return &Surface{screen: screen}
}

// Open puts the terminal in raw mode on the alternate screen.
func (s *Surface) Open() error {
	if err := s.screen.Init(); err != nil {
		return errors.Wrap(err, "initialize screen")
	}
	s.screen.SetStyle(styleDefault)
	s.screen.Clear()
	return nil
}

// Close restores the terminal. It must follow a successful Open.
func (s *Surface) Close() {
	s.screen.Fini()
}

func (s *Surface) Sync() {
	s.screen.Sync()
}

// Events starts forwarding terminal events to the returned channel until quit
// is closed or the screen is finalized.
func (s *Surface) Events(quit <-chan struct{}) <-chan tcell.Event {
	ch := make(chan tcell.Event)
	go s.screen.ChannelEvents(ch, quit)
	return ch
}

func (s *Surface) Draw(v View) {
	s.screen.Clear()
	width, height := s.screen.Size()
	area := inset(rect{0, 0, width, height}, margin)
	if area.empty() {
		s.screen.HideCursor()
		s.screen.Show()
		return
	}
	top, bottom := splitRows(area, historyMinH, inputH)
	s.drawHistory(top, v)
	s.drawInput(bottom, v.Input)
	s.screen.Show()
}

func (s *Surface) drawHistory(r rect, v View) {
	title := v.Title
	if title == "" {
		title = defaultHeader
	}
	drawBox(s.screen, r, title, styleDefault)
	inner := inset(r, 1)
	if inner.empty() {
		return
	}
	// Offset 0 keeps the newest line on the last row once the transcript
	// outgrows the pane; larger offsets move past it into blank rows.
	start := len(v.Lines) - inner.h
	if start < 0 {
		start = 0
	}
	start += v.Scroll
	for row := 0; row < inner.h; row++ {
		idx := start + row
		if idx < 0 || idx >= len(v.Lines) {
			continue
		}
		line := v.Lines[idx]
		drawText(s.screen, inner.x, inner.y+row, inner.w, line.Text, lineStyle(line.Kind))
	}
}

func (s *Surface) drawInput(r rect, input string) {
	drawBox(s.screen, r, inputTitle, styleInput)
	inner := inset(r, 1)
	if inner.empty() {
		s.screen.HideCursor()
		return
	}
	// one cell stays free for the cursor
	visible := tail(input, inner.w-1)
	used := drawText(s.screen, inner.x, inner.y, inner.w, visible, styleInput)
	s.screen.ShowCursor(inner.x+used, inner.y)
}

func lineStyle(kind quiz.LineKind) tcell.Style {
	switch kind {
	case quiz.LinePrompt:
		return stylePrompt
	case quiz.LineCorrect:
		return styleCorrect
	case quiz.LineIncorrect:
		return styleIncorrect
	case quiz.LineInfo:
		return styleInfo
	}
	return styleDefault
}
