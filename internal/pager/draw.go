package pager

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/sweeney/headroom-pager/internal/headroom"
	"github.com/sweeney/headroom-pager/internal/logic"
)

var (
	textStyle   = tcell.StyleDefault
	barStyle    = tcell.StyleDefault.Reverse(true)
	pinnedStyle = tcell.StyleDefault.Reverse(true).Bold(true)
	offStyle    = tcell.StyleDefault.Reverse(true).Dim(true)
)

// draw renders the document and the bar for the current view.
//
// The bar occupies one document row: the first in header mode, the last in
// footer mode. While fixed it is painted over the viewport edge instead of
// scrolling with the text, and while hidden it is not painted at all.
func (p *Pager) draw() {
	p.screen.Clear()
	w, h := p.screen.Size()
	view := p.ctl.View()
	footer := p.ctl.Config().Footer
	hidden := view.Offset != 0

	for r := 0; r < h; r++ {
		row := p.offset + r
		if footer {
			if row < len(p.lines) {
				drawText(p.screen, 0, r, w, p.lines[row], textStyle)
			}
			continue
		}
		if row == 0 {
			if !view.Fixed && !hidden {
				p.drawBar(0, w, view)
			}
			continue
		}
		if row-1 < len(p.lines) {
			drawText(p.screen, 0, r, w, p.lines[row-1], textStyle)
		}
	}

	if !hidden && h > 0 {
		switch {
		case footer:
			p.drawBar(h-1, w, view)
		case view.Fixed:
			p.drawBar(0, w, view)
		}
	}

	p.screen.Show()
}

func (p *Pager) drawBar(y, w int, view headroom.View) {
	style := barStyle
	switch {
	case p.ctl.Disabled():
		style = offStyle
	case view.State == logic.StatePinned:
		style = pinnedStyle
	}

	for x := 0; x < w; x++ {
		p.screen.SetContent(x, y, ' ', nil, style)
	}

	left := " " + p.title
	if p.ctl.Disabled() {
		left += " [off]"
	}
	drawText(p.screen, 0, y, w, left, style)

	right := fmt.Sprintf("%s  %d/%d ", view.ClassName, p.offset, p.maxOffset())
	if x := w - len(right); x > len(left) {
		drawText(p.screen, x, y, w-x, right, style)
	}
}

// drawText writes s from column x, clipped to width cells.
func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	col := 0
	for _, r := range text {
		if col >= width {
			return
		}
		s.SetContent(x+col, y, r, nil, style)
		col++
	}
}
