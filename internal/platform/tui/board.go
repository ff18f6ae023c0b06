package tui

import (
	"strconv"

	"github.com/vovakirdan/numtap/internal/config"
	"github.com/vovakirdan/numtap/internal/core"
	"github.com/vovakirdan/numtap/internal/game"
)

// Board layout rows.
const (
	titleRow      = 0
	statusRow     = 2
	timerRow      = 3
	gridTop       = 5
	buttonGap     = 1 // Columns between buttons
	controlHeight = 3
	controlMinW   = 11
)

// button is one number button on the board.
type button struct {
	label  int
	rect   core.Rect
	hidden bool
}

// Board is the terminal rendition of the game's display surface.
// It implements game.Display and maps screen positions back to events.
type Board struct {
	grid    config.GridConfig
	width   int
	height  int
	buttons []button

	status  string
	control string
	timer   string
	cue     string

	controlRect core.Rect
	tooSmall    bool
}

// NewBoard creates an empty board. Buttons appear on the first RenderGrid.
func NewBoard(grid config.GridConfig, width, height int) *Board {
	b := &Board{
		grid:   grid,
		width:  width,
		height: height,
	}
	b.layout()
	return b
}

// RenderGrid replaces the buttons with one per label, in order.
func (b *Board) RenderGrid(labels []int) {
	b.buttons = make([]button, len(labels))
	for i, v := range labels {
		b.buttons[i] = button{label: v}
	}
	b.layout()
}

// HideElement hides the button with the given label. Hidden buttons no
// longer receive clicks.
func (b *Board) HideElement(label int) {
	for i := range b.buttons {
		if b.buttons[i].label == label {
			b.buttons[i].hidden = true
		}
	}
}

// SetStatusText replaces the status line.
func (b *Board) SetStatusText(text string) {
	b.status = text
}

// SetControlLabel replaces the start control label.
func (b *Board) SetControlLabel(text string) {
	b.control = text
	b.layout()
}

// SetTimer sets the running timer line.
func (b *Board) SetTimer(text string) {
	b.timer = text
}

// SetCue sets the name of the note shown under the control.
func (b *Board) SetCue(name string) {
	b.cue = name
}

// Resize adapts the layout to a new terminal size.
func (b *Board) Resize(width, height int) {
	b.width = width
	b.height = height
	b.layout()
}

// Status returns the current status line.
func (b *Board) Status() string { return b.status }

// ControlLabel returns the current start control label.
func (b *Board) ControlLabel() string { return b.control }

// Visible returns the labels of buttons still shown, in grid order.
func (b *Board) Visible() []int {
	var labels []int
	for _, btn := range b.buttons {
		if !btn.hidden {
			labels = append(labels, btn.label)
		}
	}
	return labels
}

// ButtonRect returns the screen rectangle of the button with the given label.
func (b *Board) ButtonRect(label int) (core.Rect, bool) {
	for _, btn := range b.buttons {
		if btn.label == label {
			return btn.rect, true
		}
	}
	return core.Rect{}, false
}

// ControlRect returns the screen rectangle of the start control.
func (b *Board) ControlRect() core.Rect {
	return b.controlRect
}

// TooSmall reports whether the terminal cannot fit the board.
func (b *Board) TooSmall() bool {
	return b.tooSmall
}

// layout computes button and control positions. Space for every slot is
// reserved up front so the control does not move when the grid appears.
func (b *Board) layout() {
	cols := core.Clamp(b.grid.Columns, 1, game.Count)
	rows := (game.Count + cols - 1) / cols
	bw, bh := b.grid.ButtonWidth, b.grid.ButtonHeight

	gridW := cols*bw + (cols-1)*buttonGap
	left := (b.width - gridW) / 2

	for i := range b.buttons {
		r, c := i/cols, i%cols
		b.buttons[i].rect = core.NewRect(left+c*(bw+buttonGap), gridTop+r*bh, bw, bh)
	}

	controlW := max(len([]rune(b.control))+4, controlMinW)
	controlY := gridTop + rows*bh + 1
	b.controlRect = core.NewRect((b.width-controlW)/2, controlY, controlW, controlHeight)

	needW := max(gridW, controlW)
	needH := b.controlRect.Bottom() + 1 // Cue line
	b.tooSmall = needW > b.width || needH > b.height
}

// HitTest maps a click at (x, y) to the event it triggers.
func (b *Board) HitTest(x, y int) (game.Event, bool) {
	if b.tooSmall {
		return game.Event{}, false
	}
	if b.controlRect.Contains(x, y) {
		return game.Start(), true
	}
	for _, btn := range b.buttons {
		if !btn.hidden && btn.rect.Contains(x, y) {
			return game.Tap(btn.label), true
		}
	}
	return game.Event{}, false
}

// Render draws the board into dst.
func (b *Board) Render(dst *core.Screen) {
	dst.Clear()

	if b.tooSmall {
		b.renderTooSmall(dst)
		return
	}

	dst.DrawTextCentered(titleRow, "N U M T A P", core.ColorControl)
	dst.DrawTextCentered(statusRow, b.status, core.ColorStatus)
	dst.DrawTextCentered(timerRow, b.timer, core.ColorDone)

	for _, btn := range b.buttons {
		if btn.hidden {
			dst.DrawDottedBox(btn.rect, core.ColorHidden)
			continue
		}
		dst.DrawBox(btn.rect, core.ColorButton)
		dst.DrawTextIn(btn.rect, strconv.Itoa(btn.label), core.ColorLabel)
	}

	dst.DrawBox(b.controlRect, core.ColorControl)
	dst.DrawTextIn(b.controlRect, b.control, core.ColorControl)

	if b.cue != "" {
		dst.DrawTextCentered(b.controlRect.Bottom(), "♪ "+b.cue, core.ColorCue)
	}
}

// renderTooSmall shows a "window too small" message. Keys still work.
func (b *Board) renderTooSmall(dst *core.Screen) {
	y := b.height / 2
	dst.DrawTextCentered(y-1, "Window too small", core.ColorStatus)
	dst.DrawTextCentered(y, "Please resize terminal", core.ColorStatus)
	dst.DrawTextCentered(y+1, b.status, core.ColorDone)
}

var _ game.Display = (*Board)(nil)
