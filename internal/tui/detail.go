package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/evlens/evlens/internal/api"
)

// detailKind distinguishes the two nesting levels a row can open: the event
// detail itself, and the occurrence view opened from inside a detail.
type detailKind int

const (
	kindDetail detailKind = iota
	kindOccurrence
)

// detailLoadedMsg delivers the lazily fetched event payload.
type detailLoadedMsg struct {
	eventID string
	event   *api.Event
	err     error
}

// DetailModel is a nested child view over one event. The full payload is
// fetched lazily when the view opens so list navigation never waits on
// secondary data; a fetch failure renders inline with a retry key instead
// of closing the view.
type DetailModel struct {
	ctx      context.Context
	fetcher  Fetcher
	entityID string
	eventID  string
	kind     detailKind

	event   *api.Event
	loading bool
	err     error

	spin   spinner.Model
	width  int
	height int
}

// NewDetailModel creates a detail view for the given event. The returned
// command starts the lazy fetch.
func NewDetailModel(ctx context.Context, fetcher Fetcher, entityID, eventID string, kind detailKind, width, height int) (*DetailModel, tea.Cmd) {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &DetailModel{
		ctx:      ctx,
		fetcher:  fetcher,
		entityID: entityID,
		eventID:  eventID,
		kind:     kind,
		loading:  true,
		spin:     sp,
		width:    width,
		height:   height,
	}
	return m, tea.Batch(m.spin.Tick, m.load())
}

// load issues the lazy payload fetch.
func (m *DetailModel) load() tea.Cmd {
	ctx, fetcher, entityID, eventID := m.ctx, m.fetcher, m.entityID, m.eventID
	return func() tea.Msg {
		ev, err := fetcher.FetchEvent(ctx, entityID, eventID)
		return detailLoadedMsg{eventID: eventID, event: ev, err: err}
	}
}

// Update handles the fetch result, retry, and spinner ticks.
func (m *DetailModel) Update(msg tea.Msg) (*DetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		if msg.eventID != m.eventID {
			return m, nil
		}
		m.loading = false
		m.event = msg.event
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && msg.Runes[0] == 'r' && m.err != nil {
			m.loading = true
			m.err = nil
			return m, tea.Batch(m.spin.Tick, m.load())
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// CanOpenOccurrence reports whether this view can open a nested child.
// Only the event detail level has one; the occurrence view is the leaf.
func (m *DetailModel) CanOpenOccurrence() bool {
	return m.kind == kindDetail && m.event != nil
}

// View renders the detail card.
func (m *DetailModel) View() string {
	var b strings.Builder

	title := "Event detail"
	if m.kind == kindOccurrence {
		title = "Occurrence"
	}
	b.WriteString(detailTitleStyle.Render(title))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spin.View())
		b.WriteString(" loading event…")

	case m.err != nil:
		b.WriteString(errorStyle.Render("failed to load event"))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(m.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(footerStyle.Render("r retry · esc back"))

	case m.event != nil:
		m.renderEvent(&b)
	}

	return b.String()
}

func (m *DetailModel) renderEvent(b *strings.Builder) {
	ev := m.event

	field := func(label, value string) {
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	field("id", ev.ID)
	field("time", ev.Timestamp.Local().String())
	field("camera", ev.Camera)
	field("label", ev.Label)
	field("score", fmt.Sprintf("%.1f%%", ev.Score*100))
	field("snippet", ev.Snippet)
	if ev.ThumbnailRef != nil {
		field("thumbnail", *ev.ThumbnailRef)
	}

	b.WriteString("\n")
	if m.kind == kindDetail {
		b.WriteString(footerStyle.Render("o occurrence · esc back"))
	} else {
		b.WriteString(footerStyle.Render("esc back"))
	}
}
