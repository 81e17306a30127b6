package termui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// rect is a cell rectangle on screen.
type rect struct{ x, y, w, h int }

func (r rect) empty() bool {
	return r.w <= 0 || r.h <= 0
}

// inset shrinks r by d cells on each side.
func inset(r rect, d int) rect {
	return rect{r.x + d, r.y + d, r.w - 2*d, r.h - 2*d}
}

// splitRows cuts r into a top region and a bottom region of fixed height.
// The top region keeps at least minTop rows when the screen allows it; the
// bottom region gets what is left.
func splitRows(r rect, minTop, bottom int) (top, bot rect) {
	topH := r.h - bottom
	if topH < minTop {
		topH = minTop
	}
	if topH > r.h {
		topH = r.h
	}
	if topH < 0 {
		topH = 0
	}
	top = rect{r.x, r.y, r.w, topH}
	bot = rect{r.x, r.y + topH, r.w, r.h - topH}
	return top, bot
}

// drawText writes s on row y starting at x, clipped to width cells.
// It returns the number of cells used.
func drawText(screen tcell.Screen, x, y, width int, s string, style tcell.Style) int {
	used := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if used+w > width {
			break
		}
		screen.SetContent(x+used, y, r, nil, style)
		used += w
	}
	return used
}

// tail returns the longest suffix of s that fits in width cells.
func tail(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	used := 0
	i := len(runes)
	for i > 0 {
		w := runewidth.RuneWidth(runes[i-1])
		if used+w > width {
			break
		}
		used += w
		i--
	}
	return string(runes[i:])
}

// drawBox draws a single-line border around r with title on the top edge.
func drawBox(screen tcell.Screen, r rect, title string, style tcell.Style) {
	if r.w < 2 || r.h < 2 {
		return
	}
	right, bottom := r.x+r.w-1, r.y+r.h-1
	for x := r.x + 1; x < right; x++ {
		screen.SetContent(x, r.y, tcell.RuneHLine, nil, style)
		screen.SetContent(x, bottom, tcell.RuneHLine, nil, style)
	}
	for y := r.y + 1; y < bottom; y++ {
		screen.SetContent(r.x, y, tcell.RuneVLine, nil, style)
		screen.SetContent(right, y, tcell.RuneVLine, nil, style)
	}
	screen.SetContent(r.x, r.y, tcell.RuneULCorner, nil, style)
	screen.SetContent(right, r.y, tcell.RuneURCorner, nil, style)
	screen.SetContent(r.x, bottom, tcell.RuneLLCorner, nil, style)
	screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, style)
	drawText(screen, r.x+1, r.y, r.w-2, title, style)
}
