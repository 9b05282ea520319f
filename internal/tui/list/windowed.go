package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/evlens/evlens/internal/engine"
)

// WindowedModel renders a large collection by materializing only the rows
// inside the computed window. It owns the list's viewport state: the scroll
// offset (in cells over the virtual height) and the viewport geometry. The
// window itself is derived on every View and never stored.
//
// WindowedModel implements engine.ScrollTarget so the navigation recorder
// can capture and restore its position.
type WindowedModel[T any] struct {
	items     []T
	renderRow RenderFunc[T]

	vp    engine.Viewport
	width int

	// scrollOffset is the top of the viewport in virtual cells. Mutated only
	// by user scroll input and SetScrollOffset (navigation restoration).
	scrollOffset int

	selected int
	focused  bool
}

// NewWindowedModel creates a windowed list over the full item set.
func NewWindowedModel[T any](items []T, vp engine.Viewport, width int, renderRow RenderFunc[T]) *WindowedModel[T] {
	if vp.Overscan == 0 {
		vp.Overscan = engine.DefaultOverscan
	}
	return &WindowedModel[T]{
		items:     items,
		renderRow: renderRow,
		vp:        vp,
		width:     width,
	}
}

// Init returns no initial command; the parent model owns data loading.
func (m *WindowedModel[T]) Init() tea.Cmd {
	return nil
}

// Update handles key, mouse wheel, and resize messages.
func (m *WindowedModel[T]) Update(msg tea.Msg) (*WindowedModel[T], tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}
	return m, nil
}

//nolint:exhaustive // Navigation handles a fixed subset of key types.
func (m *WindowedModel[T]) handleKey(msg tea.KeyMsg) {
	if len(m.items) == 0 {
		return
	}

	switch msg.Type {
	case tea.KeyUp:
		m.moveSelection(-1)
	case tea.KeyDown:
		m.moveSelection(1)
	case tea.KeyPgUp:
		m.scrollBy(-m.vp.Height)
	case tea.KeyPgDown:
		m.scrollBy(m.vp.Height)
	case tea.KeyHome:
		m.selected = 0
		m.scrollOffset = 0
	case tea.KeyEnd:
		m.selected = len(m.items) - 1
		m.scrollOffset = engine.MaxScrollOffset(len(m.items), m.vp)
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return
		}
		switch msg.Runes[0] {
		case 'j':
			m.moveSelection(1)
		case 'k':
			m.moveSelection(-1)
		case 'g':
			m.selected = 0
			m.scrollOffset = 0
		case 'G':
			m.selected = len(m.items) - 1
			m.scrollOffset = engine.MaxScrollOffset(len(m.items), m.vp)
		}
	}
}

//nolint:exhaustive // Only wheel buttons matter here.
func (m *WindowedModel[T]) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollBy(-m.vp.RowHeight)
	case tea.MouseButtonWheelDown:
		m.scrollBy(m.vp.RowHeight)
	}
}

// moveSelection shifts the selected row and scrolls just enough to keep it
// fully visible.
func (m *WindowedModel[T]) moveSelection(delta int) {
	m.selected += delta
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected > len(m.items)-1 {
		m.selected = len(m.items) - 1
	}
	m.ensureSelectedVisible()
}

// ensureSelectedVisible adjusts the scroll offset so the selected row lies
// entirely inside the viewport.
func (m *WindowedModel[T]) ensureSelectedVisible() {
	top := m.selected * m.vp.RowHeight
	bottom := top + m.vp.RowHeight

	if top < m.scrollOffset {
		m.scrollOffset = top
	} else if bottom > m.scrollOffset+m.vp.Height {
		m.scrollOffset = bottom - m.vp.Height
	}
}

// scrollBy moves the viewport by delta cells, clamped to the content.
func (m *WindowedModel[T]) scrollBy(delta int) {
	m.SetScrollOffset(m.scrollOffset + delta)
}

// ScrollOffset implements engine.ScrollTarget.
func (m *WindowedModel[T]) ScrollOffset() int {
	return m.scrollOffset
}

// SetScrollOffset implements engine.ScrollTarget, clamping to the valid
// scroll range.
func (m *WindowedModel[T]) SetScrollOffset(offset int) {
	maxOffset := engine.MaxScrollOffset(len(m.items), m.vp)
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	m.scrollOffset = offset
}

// SetSize updates the viewport geometry.
func (m *WindowedModel[T]) SetSize(width, height int) {
	m.width = width
	m.vp.Height = height
	// A shorter viewport can leave the offset past the new maximum.
	m.SetScrollOffset(m.scrollOffset)
}

// SetItems replaces the item set after a refetch. The scroll offset is
// deliberately preserved: removing a row must not move the user, so only
// the window geometry changes. The offset and selection are clamped when
// they fall past the new end.
func (m *WindowedModel[T]) SetItems(items []T) {
	m.items = items
	m.SetScrollOffset(m.scrollOffset)
	if m.selected > len(items)-1 {
		m.selected = len(items) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// Items returns the full item set.
func (m *WindowedModel[T]) Items() []T {
	return m.items
}

// ItemCount returns the collection size.
func (m *WindowedModel[T]) ItemCount() int {
	return len(m.items)
}

// Selected returns the selected index, -1 when empty.
func (m *WindowedModel[T]) Selected() int {
	if len(m.items) == 0 {
		return -1
	}
	return m.selected
}

// SelectedItem returns the selected item, nil when empty.
func (m *WindowedModel[T]) SelectedItem() *T {
	if len(m.items) == 0 {
		return nil
	}
	return &m.items[m.selected]
}

// Focus marks the list focused.
func (m *WindowedModel[T]) Focus() { m.focused = true }

// Blur removes focus.
func (m *WindowedModel[T]) Blur() { m.focused = false }

// Window returns the materialization window for the current scroll offset.
func (m *WindowedModel[T]) Window() engine.Window {
	return engine.ComputeWindow(len(m.items), m.scrollOffset, m.vp)
}

// RangeLabel returns the "X–Y of N" indicator for the current position. It
// is recomputed from the live offset on every call; rendering it touches
// only the footer, never the rows.
func (m *WindowedModel[T]) RangeLabel() string {
	first, last := engine.VisibleRange(len(m.items), m.scrollOffset, m.vp)
	return engine.RangeLabel(first, last, len(m.items))
}

// View renders the visible slice of the materialized window, padded to the
// viewport height.
func (m *WindowedModel[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}

	w := m.Window()

	// Materialize only the windowed rows.
	lines := make([]string, 0, w.Len()*m.vp.RowHeight)
	for i := w.Start; i <= w.End; i++ {
		rendered := m.renderRow(m.items[i], i == m.selected && m.focused, m.width)
		lines = append(lines, normalizeRow(rendered, m.vp.RowHeight, m.width)...)
	}

	// The viewport starts scrollOffset-TopOffset cells into the block.
	skip := m.scrollOffset - w.TopOffset
	if skip < 0 {
		skip = 0
	}
	if skip > len(lines) {
		skip = len(lines)
	}
	visible := lines[skip:]
	if len(visible) > m.vp.Height {
		visible = visible[:m.vp.Height]
	}

	out := make([]string, m.vp.Height)
	copy(out, visible)
	return strings.Join(out, "\n")
}
