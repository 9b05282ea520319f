package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evlens/evlens/internal/api"
	"github.com/evlens/evlens/internal/config"
	"github.com/evlens/evlens/internal/engine"
)

// fakeFetcher serves a fixed event collection from memory.
type fakeFetcher struct {
	mu       sync.Mutex
	events   []api.Event
	unlinked []string
	failAll  bool
	failPage bool
}

func (f *fakeFetcher) FetchPage(_ context.Context, _ string, offset, limit int, _ api.Filters) (*api.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPage {
		return nil, errors.New("backend unavailable")
	}
	total := len(f.events)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := make([]api.Event, end-offset)
	copy(page, f.events[offset:end])
	return &api.Page{Events: page, Total: total, HasMore: end < total}, nil
}

func (f *fakeFetcher) FetchAll(_ context.Context, _ string, _ int, _ api.Filters) ([]api.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errors.New("backend unavailable")
	}
	all := make([]api.Event, len(f.events))
	copy(all, f.events)
	return all, nil
}

func (f *fakeFetcher) FetchEvent(_ context.Context, _ string, eventID string) (*api.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.events {
		if f.events[i].ID == eventID {
			ev := f.events[i]
			return &ev, nil
		}
	}
	return nil, api.ErrNotFound
}

func (f *fakeFetcher) Unlink(_ context.Context, _ string, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.events {
		if f.events[i].ID == eventID {
			f.events = append(f.events[:i], f.events[i+1:]...)
			f.unlinked = append(f.unlinked, eventID)
			return nil
		}
	}
	return api.ErrNotFound
}

func fakeEvents(n int) []api.Event {
	events := make([]api.Event, n)
	for i := range events {
		events[i] = api.Event{
			ID:      fmt.Sprintf("evt-%03d", i+1),
			Camera:  "porch",
			Label:   "person",
			Snippet: fmt.Sprintf("motion event %d", i+1),
		}
	}
	return events
}

func testListConfig() config.ListConfig {
	return config.ListConfig{
		PageSize:                20,
		VirtualizationThreshold: 50,
		Overscan:                5,
		EstimatedRowHeight:      3,
	}
}

// newReviewModel builds a model and drives the fetch chain until browsing.
func newReviewModel(t *testing.T, fetcher *fakeFetcher) *ReviewModel {
	t.Helper()
	m := NewReviewModel(context.Background(), fetcher, "ent-1", nil, testListConfig())
	m.width, m.height = 100, 30

	msg := m.fetchPage(0, false)()
	model, cmd := m.Update(msg)
	m = model.(*ReviewModel)
	if cmd != nil && m.state == StateLoading {
		// Windowed mode issues the full load after mode selection.
		model, _ = m.Update(cmd())
		m = model.(*ReviewModel)
	}
	return m
}

func TestReviewModel_SmallCollectionPaginates(t *testing.T) {
	fetcher := &fakeFetcher{events: fakeEvents(30)}
	m := newReviewModel(t, fetcher)

	assert.Equal(t, engine.ModePaginated, m.Mode())
	assert.Equal(t, StateBrowsing, m.state)
	require.NotNil(t, m.paginated)
	assert.Nil(t, m.windowed)
	assert.Equal(t, 20, m.paginated.ItemCount())
}

func TestReviewModel_ThresholdBoundaryPaginates(t *testing.T) {
	fetcher := &fakeFetcher{events: fakeEvents(50)}
	m := newReviewModel(t, fetcher)

	assert.Equal(t, engine.ModePaginated, m.Mode())
}

func TestReviewModel_LargeCollectionWindows(t *testing.T) {
	fetcher := &fakeFetcher{events: fakeEvents(120)}
	m := newReviewModel(t, fetcher)

	assert.Equal(t, engine.ModeWindowed, m.Mode())
	assert.Equal(t, StateBrowsing, m.state)
	require.NotNil(t, m.windowed)
	assert.Equal(t, 120, m.windowed.ItemCount())
}

func TestReviewModel_EmptyCollection(t *testing.T) {
	fetcher := &fakeFetcher{events: nil}
	m := newReviewModel(t, fetcher)

	assert.Equal(t, engine.ModePaginated, m.Mode())
	assert.Contains(t, m.View(), "no linked events")
}

func TestReviewModel_StaleResponseDiscarded(t *testing.T) {
	fetcher := &fakeFetcher{events: fakeEvents(30)}
	m := newReviewModel(t, fetcher)

	stale := m.fetchPage(0, false)
	current := m.fetchPage(1, false)

	// The later request resolves first; the earlier one must be dropped.
	model, _ := m.Update(current())
	m = model.(*ReviewModel)
	assert.Equal(t, 1, m.paginated.Page())

	model, _ = m.Update(stale())
	m = model.(*ReviewModel)
	assert.Equal(t, 1, m.paginated.Page(), "stale response must never overwrite current state")
}

func TestReviewModel_LoadErrorThenRetry(t *testing.T) {
	fetcher := &fakeFetcher{events: fakeEvents(30), failPage: true}
	m := NewReviewModel(context.Background(), fetcher, "ent-1", nil, testListConfig())

	model, _ := m.Update(m.fetchPage(0, false)())
	m = model.(*ReviewModel)
	assert.Equal(t, StateError, m.state)
	assert.Contains(t, m.View(), "failed to load")

	fetcher.mu.Lock()
	fetcher.failPage = false
	fetcher.mu.Unlock()

	model, _ = m.Update(runeMsg('r'))
	m = model.(*ReviewModel)
	assert.Equal(t, StateLoading, m.state)

	model, _ = m.Update(m.fetchPage(0, false)())
	m = model.(*ReviewModel)
	assert.Equal(t, StateBrowsing, m.state)
}

func TestReviewModel_OpenDetailPushesFrame(t *testing.T) {
	fetcher := &fakeFetcher{events: fakeEvents(120)}
	m := newReviewModel(t, fetcher)

	model, _ := m.Update(keyMsg(tea.KeyEnter))
	m = model.(*ReviewModel)

	assert.Len(t, m.children, 1)
	assert.Equal(t, 1, m.recorder.Depth())
}

func TestReviewModel_ScrollRestoredOnClose(t *testing.T) {
	fetcher := &fakeFetcher{events: fakeEvents(120)}
	m := newReviewModel(t, fetcher)

	m.windowed.SetScrollOffset(90)
	model, _ := m.Update(keyMsg(tea.KeyEnter))
	m = model.(*ReviewModel)

	// Whatever happens while the child is open must not leak into the
	// restored position.
	m.windowed.SetScrollOffset(0)

	model, _ = m.Update(keyMsg(tea.KeyEsc))
	m = model.(*ReviewModel)

	assert.Empty(t, m.children)
	assert.Equal(t, 90, m.windowed.ScrollOffset())
	assert.Equal(t, 0, m.recorder.Depth())
}

func TestReviewModel_NestedOccurrenceRestoresPerLevel(t *testing.T) {
	fetcher := &fakeFetcher{events: fakeEvents(120)}
	m := newReviewModel(t, fetcher)

	m.windowed.SetScrollOffset(60)
	model, _ := m.Update(keyMsg(tea.KeyEnter))
	m = model.(*ReviewModel)

	// Load the detail so the occurrence view can open from it.
	detail := m.topChild()
	model, _ = m.Update(detail.load()())
	m = model.(*ReviewModel)
	require.True(t, m.topChild().CanOpenOccurrence())

	model, _ = m.Update(runeMsg('o'))
	m = model.(*ReviewModel)
	assert.Len(t, m.children, 2)
	// The occurrence was opened from a detail view, not a list: still one
	// recorded frame.
	assert.Equal(t, 1, m.recorder.Depth())

	// First Esc returns to the detail, second to the list.
	model, _ = m.Update(keyMsg(tea.KeyEsc))
	m = model.(*ReviewModel)
	assert.Len(t, m.children, 1)
	assert.Equal(t, 1, m.recorder.Depth())

	model, _ = m.Update(keyMsg(tea.KeyEsc))
	m = model.(*ReviewModel)
	assert.Empty(t, m.children)
	assert.Equal(t, 60, m.windowed.ScrollOffset())
}

func TestReviewModel_RemoveRequiresConfirmation(t *testing.T) {
	fetcher := &fakeFetcher{events: fakeEvents(30)}
	m := newReviewModel(t, fetcher)

	model, _ := m.Update(runeMsg('x'))
	m = model.(*ReviewModel)
	assert.Equal(t, StateConfirm, m.state)
	assert.Contains(t, m.View(), "evt-001")

	model, _ = m.Update(runeMsg('n'))
	m = model.(*ReviewModel)
	assert.Equal(t, StateBrowsing, m.state)
	assert.Empty(t, fetcher.unlinked)
}

func TestReviewModel_RemoveThenRefetchPreservesPosition(t *testing.T) {
	fetcher := &fakeFetcher{events: fakeEvents(30)}
	m := newReviewModel(t, fetcher)

	// Land on page 2 (items 21..30) and remove its first row.
	model, _ := m.Update(m.fetchPage(1, false)())
	m = model.(*ReviewModel)
	require.Equal(t, 1, m.paginated.Page())

	model, _ = m.Update(runeMsg('x'))
	m = model.(*ReviewModel)
	model, cmd := m.Update(runeMsg('y'))
	m = model.(*ReviewModel)
	require.NotNil(t, cmd)

	done := cmd().(unlinkDoneMsg)
	require.NoError(t, done.err)
	assert.Equal(t, []string{"evt-021"}, fetcher.unlinked)

	model, cmd = m.Update(done)
	m = model.(*ReviewModel)
	require.NotNil(t, cmd)
	model, _ = m.Update(cmd())
	m = model.(*ReviewModel)

	// Still page 2, with the server's fresh total.
	assert.Equal(t, 1, m.paginated.Page())
	assert.Equal(t, 29, m.paginated.Meta().TotalItems)
	assert.Equal(t, "evt-022", m.paginated.SelectedItem().ID)
}

func TestReviewModel_RemoveOnlyItemOfLastPage(t *testing.T) {
	fetcher := &fakeFetcher{events: fakeEvents(21)}
	m := newReviewModel(t, fetcher)

	// Page 2 holds a single event.
	model, _ := m.Update(m.fetchPage(1, false)())
	m = model.(*ReviewModel)
	require.Equal(t, 1, m.paginated.Page())
	require.Equal(t, "evt-021", m.paginated.SelectedItem().ID)

	model, _ = m.Update(runeMsg('x'))
	m = model.(*ReviewModel)
	model, cmd := m.Update(runeMsg('y'))
	m = model.(*ReviewModel)
	require.NotNil(t, cmd)

	// Unlink, refetch of the emptied page, then the follow-up fetch of the
	// page the model walked back to.
	model, cmd = m.Update(cmd())
	m = model.(*ReviewModel)
	require.NotNil(t, cmd)
	model, cmd = m.Update(cmd())
	m = model.(*ReviewModel)
	require.NotNil(t, cmd, "an emptied last page must trigger a fetch of the previous page")
	model, _ = m.Update(cmd())
	m = model.(*ReviewModel)

	// The user lands on a populated page, not a blank list.
	assert.Equal(t, 0, m.paginated.Page())
	assert.Equal(t, 20, m.paginated.ItemCount())
	require.NotNil(t, m.paginated.SelectedItem())
	assert.Equal(t, "evt-001", m.paginated.SelectedItem().ID)
	assert.False(t, m.paginated.HasNext())
	assert.False(t, m.paginated.HasPrev())
}

func TestReviewModel_WindowedRemoveKeepsOffset(t *testing.T) {
	fetcher := &fakeFetcher{events: fakeEvents(120)}
	m := newReviewModel(t, fetcher)

	m.windowed.SetScrollOffset(45)

	model, _ := m.Update(runeMsg('x'))
	m = model.(*ReviewModel)
	model, cmd := m.Update(runeMsg('y'))
	m = model.(*ReviewModel)
	require.NotNil(t, cmd)

	model, cmd = m.Update(cmd())
	m = model.(*ReviewModel)
	require.NotNil(t, cmd)
	model, _ = m.Update(cmd())
	m = model.(*ReviewModel)

	assert.Equal(t, 119, m.windowed.ItemCount())
	assert.Equal(t, 45, m.windowed.ScrollOffset())
}

func TestReviewModel_UnlinkFailureLeavesListIntact(t *testing.T) {
	fetcher := &fakeFetcher{events: fakeEvents(30)}
	m := newReviewModel(t, fetcher)

	model, _ := m.Update(unlinkDoneMsg{eventID: "evt-001", err: errors.New("conflict")})
	m = model.(*ReviewModel)

	assert.Equal(t, 20, m.paginated.ItemCount())
	assert.Contains(t, m.View(), "remove failed")
}

func TestReviewModel_FilterNarrowsWindowedList(t *testing.T) {
	events := fakeEvents(120)
	events[7].Snippet = "package left at door"
	fetcher := &fakeFetcher{events: events}
	m := newReviewModel(t, fetcher)

	model, _ := m.Update(runeMsg('/'))
	m = model.(*ReviewModel)
	require.True(t, m.filtering)

	m.filterInput.SetValue("package left")
	model, _ = m.Update(keyMsg(tea.KeyEnter))
	m = model.(*ReviewModel)

	assert.Equal(t, 1, m.windowed.ItemCount())
	assert.Equal(t, "evt-008", m.windowed.SelectedItem().ID)

	model, _ = m.Update(runeMsg('/'))
	m = model.(*ReviewModel)
	model, _ = m.Update(keyMsg(tea.KeyEsc))
	m = model.(*ReviewModel)
	assert.Equal(t, 120, m.windowed.ItemCount())
}

func TestReviewModel_RangeLabelInFooter(t *testing.T) {
	fetcher := &fakeFetcher{events: fakeEvents(120)}
	m := newReviewModel(t, fetcher)

	assert.Contains(t, m.View(), "of 120")
}

func keyMsg(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }
func runeMsg(r rune) tea.KeyMsg       { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }
