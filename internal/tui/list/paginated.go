package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/evlens/evlens/internal/pagination"
)

// PageRequestMsg asks the parent to fetch the given 0-based page. The parent
// fetches offset = page × pageSize and calls SetPage with the result.
type PageRequestMsg struct {
	ListID string
	Page   int
}

// PaginatedModel renders small collections one page at a time. There is no
// windowing math: the page size is bounded, so full materialization of the
// current page is cheap.
//
// It implements engine.ScrollTarget over the selected row index, so the
// navigation recorder restores the cursor the same way it restores a
// windowed list's scroll offset.
type PaginatedModel[T any] struct {
	listID    string
	pageItems []T
	renderRow RenderFunc[T]

	page     int // 0-based
	pageSize int
	total    int

	rowHeight int
	height    int
	width     int

	selected int
	focused  bool
}

// NewPaginatedModel creates a paginated list. Items for page 0 are supplied
// by the first SetPage call.
func NewPaginatedModel[T any](listID string, pageSize, total, rowHeight, width, height int, renderRow RenderFunc[T]) *PaginatedModel[T] {
	return &PaginatedModel[T]{
		listID:    listID,
		renderRow: renderRow,
		pageSize:  pageSize,
		total:     total,
		rowHeight: rowHeight,
		width:     width,
		height:    height,
	}
}

// Init returns no initial command; the parent model owns data loading.
func (m *PaginatedModel[T]) Init() tea.Cmd {
	return nil
}

// TotalPages returns the number of pages for the current total.
func (m *PaginatedModel[T]) TotalPages() int {
	if m.total == 0 || m.pageSize == 0 {
		return 0
	}
	pages := m.total / m.pageSize
	if m.total%m.pageSize > 0 {
		pages++
	}
	return pages
}

// Page returns the current 0-based page.
func (m *PaginatedModel[T]) Page() int {
	return m.page
}

// HasPrev reports whether a previous page exists.
func (m *PaginatedModel[T]) HasPrev() bool {
	return m.page > 0
}

// HasNext reports whether a further page exists.
func (m *PaginatedModel[T]) HasNext() bool {
	return m.page < m.TotalPages()-1
}

// Update handles navigation within the page and prev/next page requests.
func (m *PaginatedModel[T]) Update(msg tea.Msg) (*PaginatedModel[T], tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if sizeMsg, isSize := msg.(tea.WindowSizeMsg); isSize {
			m.width = sizeMsg.Width
			m.height = sizeMsg.Height
		}
		return m, nil
	}

	switch keyMsg.Type { //nolint:exhaustive // Navigation handles a fixed subset of key types.
	case tea.KeyUp:
		if m.selected > 0 {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < len(m.pageItems)-1 {
			m.selected++
		}
	case tea.KeyLeft:
		return m, m.requestPage(m.page - 1)
	case tea.KeyRight:
		return m, m.requestPage(m.page + 1)
	case tea.KeyRunes:
		if len(keyMsg.Runes) == 0 {
			return m, nil
		}
		switch keyMsg.Runes[0] {
		case 'j':
			if m.selected < len(m.pageItems)-1 {
				m.selected++
			}
		case 'k':
			if m.selected > 0 {
				m.selected--
			}
		case 'p':
			return m, m.requestPage(m.page - 1)
		case 'n':
			return m, m.requestPage(m.page + 1)
		}
	}
	return m, nil
}

// requestPage emits a PageRequestMsg when the target page exists; prev at
// the first page and next at the last are disabled.
func (m *PaginatedModel[T]) requestPage(page int) tea.Cmd {
	if page < 0 || page > m.TotalPages()-1 || page == m.page {
		return nil
	}
	listID := m.listID
	return func() tea.Msg {
		return PageRequestMsg{ListID: listID, Page: page}
	}
}

// SetPage installs fetched items for a page. The cursor resets to the top
// of the page; total is refreshed from the authoritative fetch response.
func (m *PaginatedModel[T]) SetPage(items []T, page, total int) {
	m.pageItems = items
	m.page = page
	m.total = total
	m.selected = 0
}

// ReplacePage swaps the current page's items after a removal refetch,
// keeping the cursor where it was (clamped to the shrunken page). It
// reports whether the caller must fetch the current page's rows again:
// removing the only item of the last page installs an empty slice and walks
// the page index back, but the rows of that earlier page are not loaded yet.
func (m *PaginatedModel[T]) ReplacePage(items []T, total int) bool {
	m.pageItems = items
	m.total = total
	if m.selected > len(items)-1 {
		m.selected = len(items) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	// The page index can fall past the end when the last item of the last
	// page was removed.
	if last := m.TotalPages() - 1; last >= 0 && m.page > last {
		m.page = last
	}
	return len(items) == 0 && total > 0
}

// ScrollOffset implements engine.ScrollTarget over the cursor position.
func (m *PaginatedModel[T]) ScrollOffset() int {
	return m.selected
}

// SetScrollOffset implements engine.ScrollTarget.
func (m *PaginatedModel[T]) SetScrollOffset(offset int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(m.pageItems)-1 {
		offset = len(m.pageItems) - 1
	}
	if offset < 0 {
		offset = 0
	}
	m.selected = offset
}

// Selected returns the selected index within the page, -1 when empty.
func (m *PaginatedModel[T]) Selected() int {
	if len(m.pageItems) == 0 {
		return -1
	}
	return m.selected
}

// SelectedItem returns the selected item, nil when the page is empty.
func (m *PaginatedModel[T]) SelectedItem() *T {
	if len(m.pageItems) == 0 {
		return nil
	}
	return &m.pageItems[m.selected]
}

// ItemCount returns the authoritative collection total, not the page length.
func (m *PaginatedModel[T]) ItemCount() int {
	return m.total
}

// Focus marks the list focused.
func (m *PaginatedModel[T]) Focus() { m.focused = true }

// Blur removes focus.
func (m *PaginatedModel[T]) Blur() { m.focused = false }

// Meta returns pagination metadata for the footer.
func (m *PaginatedModel[T]) Meta() pagination.Meta {
	return pagination.NewMeta(pagination.Params{Page: m.page + 1, PageSize: m.pageSize}, m.total)
}

// View renders the current page.
func (m *PaginatedModel[T]) View() string {
	var lines []string
	for i, item := range m.pageItems {
		rendered := m.renderRow(item, i == m.selected && m.focused, m.width)
		lines = append(lines, normalizeRow(rendered, m.rowHeight, m.width)...)
	}
	return strings.Join(lines, "\n")
}
