package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/layoutswitch/internal/editor"
)

var (
	styleText      = tcell.StyleDefault
	styleSelection = tcell.StyleDefault.Reverse(true)
	styleStatus    = tcell.StyleDefault.Reverse(true)
	styleTilde     = tcell.StyleDefault.Foreground(tcell.ColorBlue)
)

// modeStyles colors the mode indicator in the status line.
var modeStyles = map[editor.Mode]tcell.Style{
	editor.ModeNormal: tcell.StyleDefault.Bold(true).Background(tcell.ColorBlue).Foreground(tcell.ColorWhite),
	editor.ModeInsert: tcell.StyleDefault.Bold(true).Background(tcell.ColorGreen).Foreground(tcell.ColorBlack),
	editor.ModeVisual: tcell.StyleDefault.Bold(true).Background(tcell.ColorPurple).Foreground(tcell.ColorWhite),
}

// draw renders the buffer and the status line.
func (u *UI) draw() {
	s := u.screen
	s.Clear()
	w, h := s.Size()
	if w <= 0 || h <= 1 {
		s.Show()
		return
	}
	textRows := h - 1

	cur := u.ed.CursorMark()
	if cur.Row < u.top {
		u.top = cur.Row
	}
	if cur.Row >= u.top+textRows {
		u.top = cur.Row - textRows + 1
	}

	lo, hi, selecting := u.ed.Selection()
	lines := u.ed.Lines()
	cursorX := 0
	for y := 0; y < textRows; y++ {
		row := u.top + y
		if row >= len(lines) {
			s.SetContent(0, y, '~', nil, styleTilde)
			continue
		}
		selected := func(col int) bool {
			return selecting && afterOrAt(row, col, lo) && afterOrAt(hi.Row, hi.Col, editor.Mark{Row: row, Col: col})
		}
		drawLine(s, y, w, lines[row], selected)
		if row == cur.Row {
			cursorX = displayColumn(lines[row], cur.Col)
		}
	}

	u.drawStatus(h-1, w)
	s.ShowCursor(min(cursorX, w-1), cur.Row-u.top)
	s.Show()
}

// afterOrAt reports whether (row, col) is at or after m.
func afterOrAt(row, col int, m editor.Mark) bool {
	return row > m.Row || (row == m.Row && col >= m.Col)
}

// drawLine draws text on screen row y one grapheme cluster at a time.
func drawLine(s tcell.Screen, y, width int, text string, selected func(col int) bool) {
	x, col := 0, 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() && x < width {
		runes := gr.Runes()
		style := styleText
		if selected(col) {
			style = styleSelection
		}
		cw := gr.Width()
		if runes[0] == '\t' {
			runes, cw = []rune{' '}, 1
		}
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += max(cw, 1)
		col += len(runes)
	}
	if selected(col) && x < width {
		// An empty line or the end-of-line position inside a selection.
		s.SetContent(x, y, ' ', nil, styleSelection)
	}
}

// displayColumn returns the screen column of character index col.
func displayColumn(text string, col int) int {
	x, n := 0, 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() && n < col {
		runes := gr.Runes()
		x += max(gr.Width(), 1)
		n += len(runes)
	}
	return x
}

func (u *UI) drawStatus(y, width int) {
	s := u.screen
	for x := 0; x < width; x++ {
		s.SetContent(x, y, ' ', nil, styleStatus)
	}

	mode := u.ed.Mode()
	label := " " + mode.String() + " "
	x := drawString(s, 0, y, width, label, modeStyles[mode])

	cur := u.ed.CursorMark()
	right := fmt.Sprintf(" %s  %d:%d ", strings.ToUpper(u.ed.Layout().String()), cur.Row+1, cur.Col+1)
	rightX := width - uniseg.StringWidth(right)

	msg := " " + u.status
	if u.title != "" && u.status == "" {
		msg = " " + u.title
	}
	drawString(s, x, y, rightX, msg, styleStatus)
	if rightX > x {
		drawString(s, rightX, y, width, right, styleStatus)
	}
}

// drawString draws text from column x up to limit and returns the next
// column.
func drawString(s tcell.Screen, x, y, limit int, text string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		w := max(gr.Width(), 1)
		if x+w > limit {
			break
		}
		runes := gr.Runes()
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
	return x
}
