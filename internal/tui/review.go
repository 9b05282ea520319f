package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/evlens/evlens/internal/api"
	"github.com/evlens/evlens/internal/config"
	"github.com/evlens/evlens/internal/engine"
	"github.com/evlens/evlens/internal/logging"
	listview "github.com/evlens/evlens/internal/tui/list"
)

// Fetcher is the backend surface the dashboard needs. *api.Client satisfies
// it; tests substitute fakes.
type Fetcher interface {
	FetchPage(ctx context.Context, entityID string, offset, limit int, filters api.Filters) (*api.Page, error)
	FetchAll(ctx context.Context, entityID string, pageSize int, filters api.Filters) ([]api.Event, error)
	FetchEvent(ctx context.Context, entityID, eventID string) (*api.Event, error)
	Unlink(ctx context.Context, entityID, eventID string) error
}

// ViewState is the dashboard's top-level state.
type ViewState int

const (
	// StateLoading covers the initial fetch and the windowed full load.
	StateLoading ViewState = iota
	// StateBrowsing is the normal list interaction state.
	StateBrowsing
	// StateConfirm awaits confirmation of a row removal.
	StateConfirm
	// StateError is a failed load with a retry affordance.
	StateError
)

// Heights reserved around the list body.
const (
	headerHeight = 2
	footerHeight = 2
)

// statusClearDelay is how long transient notifications stay visible.
const statusClearDelay = 4 * time.Second

// Messages produced by asynchronous work. Every fetch carries the sequencer
// generation it was issued under; stale generations are discarded on
// arrival, never applied.
type (
	pageLoadedMsg struct {
		generation uint64
		page       int
		replace    bool
		result     *api.Page
		err        error
	}

	allLoadedMsg struct {
		generation uint64
		events     []api.Event
		err        error
	}

	unlinkDoneMsg struct {
		eventID string
		err     error
	}

	statusClearMsg struct{}
)

// ReviewModel is the interactive dashboard over one entity's linked events.
// It owns the adaptive list (mode fixed at open), the nested child views,
// and the navigation recorder that keeps scroll positions intact across
// open/close chains.
type ReviewModel struct {
	ctx      context.Context
	fetcher  Fetcher
	entityID string
	filters  api.Filters
	listCfg  config.ListConfig
	listID   string

	// mode is selected once, from the first fetch's total, and then frozen
	// for the session.
	mode       engine.RenderMode
	modeChosen bool

	windowed  *listview.WindowedModel[api.Event]
	paginated *listview.PaginatedModel[api.Event]

	recorder *engine.Recorder
	seq      engine.Sequencer

	// children is the stack of open nested views, innermost last.
	children []*DetailModel

	// allEvents is the unfiltered item set backing windowed mode.
	allEvents []api.Event

	filterInput textinput.Model
	filtering   bool
	query       string

	confirmTarget *api.Event

	state   ViewState
	loadErr error
	status  string
	spin    spinner.Model

	width  int
	height int
}

// NewReviewModel creates the dashboard for one entity.
func NewReviewModel(ctx context.Context, fetcher Fetcher, entityID string, filters api.Filters, listCfg config.ListConfig) *ReviewModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Placeholder = "filter events"
	ti.Prompt = "/ "

	return &ReviewModel{
		ctx:         ctx,
		fetcher:     fetcher,
		entityID:    entityID,
		filters:     filters,
		listCfg:     listCfg,
		listID:      "events:" + entityID,
		recorder:    engine.NewRecorder(logging.ComponentLogger(config.Logger, "navstack")),
		filterInput: ti,
		spin:        sp,
		state:       StateLoading,
		width:       80,
		height:      24,
	}
}

// Init starts the spinner and the initial page fetch that decides the
// render mode.
func (m *ReviewModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.fetchPage(0, false))
}

// fetchPage fetches one page under a fresh generation.
func (m *ReviewModel) fetchPage(page int, replace bool) tea.Cmd {
	generation := m.seq.Next()
	ctx, fetcher, entityID, filters := m.ctx, m.fetcher, m.entityID, m.filters
	offset := page * m.listCfg.PageSize
	limit := m.listCfg.PageSize

	return func() tea.Msg {
		result, err := fetcher.FetchPage(ctx, entityID, offset, limit, filters)
		return pageLoadedMsg{generation: generation, page: page, replace: replace, result: result, err: err}
	}
}

// fetchAll fetches the complete collection for windowed mode under a fresh
// generation.
func (m *ReviewModel) fetchAll() tea.Cmd {
	generation := m.seq.Next()
	ctx, fetcher, entityID, filters := m.ctx, m.fetcher, m.entityID, m.filters
	pageSize := m.listCfg.PageSize

	return func() tea.Msg {
		events, err := fetcher.FetchAll(ctx, entityID, pageSize, filters)
		return allLoadedMsg{generation: generation, events: events, err: err}
	}
}

// viewport returns the engine viewport for the current window size.
func (m *ReviewModel) viewport() engine.Viewport {
	height := m.height - headerHeight - footerHeight
	if height < 1 {
		height = 1
	}
	return engine.Viewport{
		RowHeight: m.listCfg.EstimatedRowHeight,
		Height:    height,
		Overscan:  m.listCfg.Overscan,
	}
}

// Update implements tea.Model.
//
//nolint:gocognit // Top-level message dispatch is inherently branchy.
func (m *ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case pageLoadedMsg:
		return m.handlePageLoaded(msg)
	case allLoadedMsg:
		return m.handleAllLoaded(msg)
	case listview.PageRequestMsg:
		return m, m.fetchPage(msg.Page, false)
	case unlinkDoneMsg:
		return m.handleUnlinkDone(msg)
	case statusClearMsg:
		m.status = ""
		return m, nil
	case detailLoadedMsg:
		return m.routeToChild(msg)
	case spinner.TickMsg:
		return m.handleSpinner(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.state == StateBrowsing && len(m.children) == 0 && m.windowed != nil {
			m.windowed, _ = m.windowed.Update(msg)
		}
		return m, nil
	}
	return m, nil
}

func (m *ReviewModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	vp := m.viewport()
	if m.windowed != nil {
		m.windowed.SetSize(msg.Width, vp.Height)
	}
	if m.paginated != nil {
		m.paginated, _ = m.paginated.Update(tea.WindowSizeMsg{Width: msg.Width, Height: vp.Height})
	}
	return m, nil
}

func (m *ReviewModel) handleSpinner(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	if top := m.topChild(); top != nil {
		var cmd tea.Cmd
		m.children[len(m.children)-1], cmd = top.Update(msg)
		return m, cmd
	}
	if m.state == StateLoading {
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handlePageLoaded applies a page fetch unless it went stale.
func (m *ReviewModel) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.seq.IsCurrent(msg.generation) {
		logging.FromContext(m.ctx).Debug().Uint64("generation", msg.generation).Msg("discarding stale page response")
		return m, nil
	}

	if msg.err != nil {
		m.state = StateError
		m.loadErr = msg.err
		return m, nil
	}

	if !m.modeChosen {
		return m.chooseMode(msg.result)
	}

	if m.paginated != nil {
		if msg.replace {
			if m.paginated.ReplacePage(msg.result.Events, msg.result.Total) {
				// The removal emptied the last page; load the rows of the
				// page the model walked back to.
				return m, m.fetchPage(m.paginated.Page(), false)
			}
		} else {
			m.paginated.SetPage(msg.result.Events, msg.page, msg.result.Total)
		}
	}
	m.state = StateBrowsing
	return m, nil
}

// chooseMode runs mode selection exactly once, from the first response's
// authoritative total.
func (m *ReviewModel) chooseMode(first *api.Page) (tea.Model, tea.Cmd) {
	m.mode = engine.SelectMode(first.Total, m.listCfg.VirtualizationThreshold)
	m.modeChosen = true

	logging.FromContext(m.ctx).Info().
		Str("entity", m.entityID).
		Int("total", first.Total).
		Stringer("mode", m.mode).
		Msg("list opened")

	if m.mode == engine.ModeWindowed {
		// Windowed mode renders over the full collection; keep loading
		// until the remaining pages arrive.
		return m, m.fetchAll()
	}

	vp := m.viewport()
	m.paginated = listview.NewPaginatedModel(
		m.listID, m.listCfg.PageSize, first.Total,
		m.listCfg.EstimatedRowHeight, m.width, vp.Height,
		renderEventRow,
	)
	m.paginated.SetPage(first.Events, 0, first.Total)
	m.paginated.Focus()
	m.recorder.Register(m.listID, m.paginated)
	m.state = StateBrowsing
	return m, nil
}

// handleAllLoaded installs the full collection for windowed mode.
func (m *ReviewModel) handleAllLoaded(msg allLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.seq.IsCurrent(msg.generation) {
		logging.FromContext(m.ctx).Debug().Uint64("generation", msg.generation).Msg("discarding stale full load")
		return m, nil
	}

	if msg.err != nil {
		if m.windowed == nil {
			m.state = StateError
			m.loadErr = msg.err
			return m, nil
		}
		// A refetch after removal failed; keep the list as it was.
		return m.notify(fmt.Sprintf("refresh failed: %v", msg.err))
	}

	m.allEvents = msg.events

	if m.windowed == nil {
		m.windowed = listview.NewWindowedModel(msg.events, m.viewport(), m.width, renderEventRow)
		m.windowed.Focus()
		m.recorder.Register(m.listID, m.windowed)
	} else {
		// Refetch path: the scroll offset is preserved by SetItems, and a
		// live filter is re-applied over the fresh collection.
		m.windowed.SetItems(m.visibleEvents())
	}

	m.state = StateBrowsing
	return m, nil
}

// visibleEvents applies the fuzzy filter to the full collection.
func (m *ReviewModel) visibleEvents() []api.Event {
	if m.query == "" {
		return m.allEvents
	}

	sources := make([]string, len(m.allEvents))
	for i, ev := range m.allEvents {
		sources[i] = ev.Snippet + " " + ev.Camera + " " + ev.Label
	}

	matches := fuzzy.Find(m.query, sources)
	filtered := make([]api.Event, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, m.allEvents[match.Index])
	}
	return filtered
}

func (m *ReviewModel) handleUnlinkDone(msg unlinkDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// No optimistic removal: the list is untouched on failure.
		return m.notify(fmt.Sprintf("remove failed: %v", msg.err))
	}

	// Refetch so the authoritative total and ordering come from the server.
	// The scroll offset is preserved through SetItems/ReplacePage.
	if m.mode == engine.ModeWindowed {
		return m, m.fetchAll()
	}
	return m, m.fetchPage(m.paginated.Page(), true)
}

// notify shows a transient status line.
func (m *ReviewModel) notify(text string) (tea.Model, tea.Cmd) {
	m.status = text
	return m, tea.Tick(statusClearDelay, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

// topChild returns the innermost open child view.
func (m *ReviewModel) topChild() *DetailModel {
	if len(m.children) == 0 {
		return nil
	}
	return m.children[len(m.children)-1]
}

// routeToChild forwards a message to the innermost child.
func (m *ReviewModel) routeToChild(msg tea.Msg) (tea.Model, tea.Cmd) {
	top := m.topChild()
	if top == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.children[len(m.children)-1], cmd = top.Update(msg)
	return m, cmd
}

//nolint:gocognit // Key routing across states is inherently branchy.
func (m *ReviewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.filtering {
		return m.handleFilterKey(msg)
	}

	if len(m.children) > 0 {
		return m.handleChildKey(msg)
	}

	switch m.state {
	case StateConfirm:
		return m.handleConfirmKey(msg)
	case StateError:
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && msg.Runes[0] == 'r' {
			m.state = StateLoading
			m.loadErr = nil
			return m, tea.Batch(m.spin.Tick, m.retryLoad())
		}
		if isQuitKey(msg) {
			return m, tea.Quit
		}
		return m, nil
	case StateLoading:
		if isQuitKey(msg) {
			return m, tea.Quit
		}
		return m, nil
	case StateBrowsing:
		return m.handleBrowseKey(msg)
	}
	return m, nil
}

// retryLoad re-issues whichever fetch failed.
func (m *ReviewModel) retryLoad() tea.Cmd {
	switch {
	case !m.modeChosen:
		return m.fetchPage(0, false)
	case m.mode == engine.ModeWindowed:
		return m.fetchAll()
	default:
		return m.fetchPage(m.paginated.Page(), false)
	}
}

func isQuitKey(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && msg.Runes[0] == 'q'
}

func (m *ReviewModel) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type { //nolint:exhaustive // Remaining keys edit the input.
	case tea.KeyEnter:
		m.filtering = false
		m.query = m.filterInput.Value()
		m.windowed.SetItems(m.visibleEvents())
		return m, nil
	case tea.KeyEsc:
		m.filtering = false
		m.filterInput.SetValue("")
		m.query = ""
		m.windowed.SetItems(m.visibleEvents())
		return m, nil
	default:
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		return m, cmd
	}
}

func (m *ReviewModel) handleChildKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	top := m.topChild()

	if msg.Type == tea.KeyEsc {
		return m.closeChild()
	}

	if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && msg.Runes[0] == 'o' && top.CanOpenOccurrence() {
		// The occurrence view's parent is a detail, not a list, so no
		// navigation frame is pushed for it.
		child, cmd := NewDetailModel(m.ctx, m.fetcher, m.entityID, top.eventID, kindOccurrence, m.width, m.height)
		m.children = append(m.children, child)
		return m, cmd
	}

	return m.routeToChild(msg)
}

// closeChild pops the innermost view. Closing the outermost child returns
// to the list, and only then is the list's scroll position restored.
func (m *ReviewModel) closeChild() (tea.Model, tea.Cmd) {
	m.children = m.children[:len(m.children)-1]
	if len(m.children) == 0 {
		m.recorder.CloseChild(m.listID)
	}
	return m, nil
}

func (m *ReviewModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) == 0 {
		if msg.Type == tea.KeyEsc {
			m.confirmTarget = nil
			m.state = StateBrowsing
		}
		return m, nil
	}

	switch msg.Runes[0] {
	case 'y', 'Y':
		target := m.confirmTarget
		m.confirmTarget = nil
		m.state = StateBrowsing
		return m, m.unlink(target.ID)
	case 'n', 'N':
		m.confirmTarget = nil
		m.state = StateBrowsing
	}
	return m, nil
}

// unlink issues the removal mutation.
func (m *ReviewModel) unlink(eventID string) tea.Cmd {
	ctx, fetcher, entityID := m.ctx, m.fetcher, m.entityID
	return func() tea.Msg {
		return unlinkDoneMsg{eventID: eventID, err: fetcher.Unlink(ctx, entityID, eventID)}
	}
}

func (m *ReviewModel) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if isQuitKey(msg) {
		return m, tea.Quit
	}

	if msg.Type == tea.KeyEnter {
		return m.openDetail()
	}

	if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 {
		switch msg.Runes[0] {
		case 'x':
			if target := m.selectedEvent(); target != nil {
				m.confirmTarget = target
				m.state = StateConfirm
			}
			return m, nil
		case '/':
			if m.mode == engine.ModeWindowed {
				m.filtering = true
				m.filterInput.SetValue(m.query)
				return m, m.filterInput.Focus()
			}
			return m, nil
		}
	}

	// Everything else is list navigation.
	var cmd tea.Cmd
	if m.windowed != nil {
		m.windowed, cmd = m.windowed.Update(msg)
	} else if m.paginated != nil {
		m.paginated, cmd = m.paginated.Update(msg)
	}
	return m, cmd
}

// openDetail captures the list position and opens the event detail. The
// frame is pushed before the child exists, so the captured offset can never
// be affected by the child.
func (m *ReviewModel) openDetail() (tea.Model, tea.Cmd) {
	target := m.selectedEvent()
	if target == nil {
		return m, nil
	}

	m.recorder.OpenChild(m.listID)
	child, cmd := NewDetailModel(m.ctx, m.fetcher, m.entityID, target.ID, kindDetail, m.width, m.height)
	m.children = append(m.children, child)
	return m, cmd
}

// selectedEvent returns the highlighted event, nil when the list is empty.
func (m *ReviewModel) selectedEvent() *api.Event {
	if m.windowed != nil {
		return m.windowed.SelectedItem()
	}
	if m.paginated != nil {
		return m.paginated.SelectedItem()
	}
	return nil
}

// Mode returns the render mode chosen at open.
func (m *ReviewModel) Mode() engine.RenderMode {
	return m.mode
}

// View implements tea.Model.
func (m *ReviewModel) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	switch {
	case m.topChild() != nil:
		b.WriteString(m.topChild().View())
	case m.state == StateLoading:
		b.WriteString(m.spin.View())
		b.WriteString(" loading events…")
	case m.state == StateError:
		b.WriteString(errorStyle.Render("failed to load events"))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(m.loadErr.Error()))
		b.WriteString("\n\n")
		b.WriteString(footerStyle.Render("r retry · q quit"))
	case m.state == StateConfirm:
		b.WriteString(m.confirmView())
	default:
		b.WriteString(m.listView())
		b.WriteString("\n")
		b.WriteString(m.footerView())
	}

	return b.String()
}

func (m *ReviewModel) headerView() string {
	title := fmt.Sprintf(" evlens · %s ", m.entityID)
	if m.modeChosen {
		title = fmt.Sprintf(" evlens · %s · %s ", m.entityID, m.mode)
	}
	return headerStyle.Render(title)
}

func (m *ReviewModel) confirmView() string {
	return fmt.Sprintf("Remove %s from this entity's events?\n\n%s",
		m.confirmTarget.ID,
		footerStyle.Render("y confirm · n cancel"))
}

func (m *ReviewModel) listView() string {
	if m.windowed != nil {
		if m.windowed.ItemCount() == 0 {
			return m.emptyView()
		}
		return m.windowed.View()
	}
	if m.paginated != nil {
		if m.paginated.ItemCount() == 0 {
			return m.emptyView()
		}
		return m.paginated.View()
	}
	return ""
}

// emptyView is the explicit zero-item rendering; an empty collection is a
// valid state, not an error.
func (m *ReviewModel) emptyView() string {
	if m.query != "" {
		return dimStyle.Render("no events match the filter")
	}
	return dimStyle.Render("no linked events")
}

func (m *ReviewModel) footerView() string {
	var left string
	switch {
	case m.filtering:
		left = m.filterInput.View()
	case m.windowed != nil:
		left = m.windowed.RangeLabel()
		if m.query != "" {
			left += dimStyle.Render(fmt.Sprintf("  (filter: %s)", m.query))
		}
	case m.paginated != nil:
		meta := m.paginated.Meta()
		if meta.TotalItems == 0 {
			left = "0 events"
		} else {
			left = fmt.Sprintf("page %d/%d · %d events", meta.CurrentPage, meta.TotalPages, meta.TotalItems)
		}
	}

	help := "enter detail · x remove · q quit"
	if m.mode == engine.ModeWindowed {
		help = "enter detail · x remove · / filter · q quit"
	}
	if m.paginated != nil {
		help = "←/→ page · " + help
	}

	line := footerStyle.Render(left + "   " + help)
	if m.status != "" {
		line += "\n" + noticeStyle.Render(m.status)
	}
	return line
}
