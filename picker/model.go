package picker

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jonwraymond/appdiscovery/discovery"
)

// debounceInterval is the delay after the last keystroke before triggering a search.
const debounceInterval = 80 * time.Millisecond

// SearchFunc answers a keyword with ranked results.
type SearchFunc func(ctx context.Context, keyword string) (discovery.Results, error)

// pickerState represents the current state of the picker's state machine.
type pickerState int

const (
	stateIdle      pickerState = iota // Empty query, nothing to show
	stateLoading                      // Search in progress
	stateLoaded                       // Results loaded (len > 0)
	stateEmpty                        // Search succeeded with 0 results
	stateError                        // Search failed
	stateCancelled                    // User cancelled (Esc / Ctrl+C)
)

// searchDoneMsg is sent when an async search completes.
type searchDoneMsg struct {
	requestID uint64
	results   discovery.Results
	err       error
}

// debounceMsg fires after the debounce timer expires.
type debounceMsg struct {
	id uint64 // Must match current debounceID to be accepted
}

// Model is the Bubble Tea model for the launcher picker.
type Model struct {
	state     pickerState
	input     textinput.Model
	results   discovery.Results
	selection int // Index into results; -1 when empty
	err       error

	// expanded shows the selected plugin result's output below the list.
	expanded bool

	requestID  uint64 // Monotonic counter for stale detection
	debounceID uint64
	search     SearchFunc

	cancelSearch context.CancelFunc

	width  int
	height int

	// result holds the chosen entry after the user confirms with Enter.
	result *discovery.Result
}

// NewModel creates a picker that queries search as the user types.
func NewModel(search SearchFunc) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Search apps"
	ti.CharLimit = 256
	ti.Focus()

	return Model{
		state:     stateIdle,
		input:     ti,
		selection: -1,
		search:    search,
	}
}

// Result returns the confirmed result, or false if the picker was cancelled.
func (m Model) Result() (discovery.Result, bool) {
	if m.result == nil {
		return discovery.Result{}, false
	}
	return *m.result, true
}

// Query returns the current input text.
func (m Model) Query() string {
	return m.input.Value()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 0)
		return m, nil

	case searchDoneMsg:
		return m.handleSearchDone(msg), nil

	case debounceMsg:
		if msg.id != m.debounceID {
			return m, nil // Stale debounce timer; ignore.
		}
		return m, m.startSearch()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.state = stateCancelled
		m.result = nil
		m.cancelInflight()
		return m, tea.Quit

	case tea.KeyEnter:
		return m.confirm()

	case tea.KeyUp, tea.KeyCtrlP:
		if m.selection > 0 {
			m.selection--
			m.expanded = false
		}
		return m, nil

	case tea.KeyDown, tea.KeyCtrlN:
		if m.selection < len(m.results)-1 {
			m.selection++
			m.expanded = false
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	m.expanded = false
	return m, tea.Batch(cmd, m.startDebounce())
}

// confirm handles Enter. App results end the picker; the first Enter on a
// plugin result reveals its output and the second one confirms it.
func (m Model) confirm() (tea.Model, tea.Cmd) {
	if m.selection < 0 || m.selection >= len(m.results) {
		return m, nil
	}
	selected := m.results[m.selection]
	if selected.Kind == discovery.KindPlugin && !m.expanded {
		m.expanded = true
		return m, nil
	}
	m.result = &selected
	m.cancelInflight()
	return m, tea.Quit
}

// handleSearchDone applies the result of an async search.
func (m Model) handleSearchDone(msg searchDoneMsg) Model {
	// Discard stale responses.
	if msg.requestID != m.requestID {
		return m
	}
	m.cancelSearch = nil

	if msg.err != nil {
		m.state = stateError
		m.err = msg.err
		m.results = nil
		m.selection = -1
		return m
	}

	m.err = nil
	m.results = msg.results
	m.expanded = false
	if len(m.results) == 0 {
		m.state = stateEmpty
		m.selection = -1
		return m
	}
	m.state = stateLoaded
	m.clampSelection()
	return m
}

// startDebounce bumps the debounce counter and returns a tick for it.
func (m *Model) startDebounce() tea.Cmd {
	m.debounceID++
	id := m.debounceID
	return tea.Tick(debounceInterval, func(time.Time) tea.Msg {
		return debounceMsg{id: id}
	})
}

// startSearch cancels any in-flight search and runs a new one for the
// current query. An empty query clears the list without searching.
func (m *Model) startSearch() tea.Cmd {
	m.cancelInflight()
	m.requestID++

	keyword := m.input.Value()
	if keyword == "" {
		m.state = stateIdle
		m.results = nil
		m.selection = -1
		m.err = nil
		return nil
	}

	m.state = stateLoading
	reqID := m.requestID
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelSearch = cancel

	search := m.search
	return func() tea.Msg {
		defer cancel()
		results, err := search(ctx, keyword)
		return searchDoneMsg{requestID: reqID, results: results, err: err}
	}
}

// cancelInflight cancels any in-progress search context.
func (m *Model) cancelInflight() {
	if m.cancelSearch != nil {
		m.cancelSearch()
		m.cancelSearch = nil
	}
}

// clampSelection keeps the selection index within bounds.
func (m *Model) clampSelection() {
	if len(m.results) == 0 {
		m.selection = -1
		return
	}
	if m.selection < 0 {
		m.selection = 0
	}
	if m.selection >= len(m.results) {
		m.selection = len(m.results) - 1
	}
}

// listHeight returns the number of visible rows below the query line.
func (m Model) listHeight() int {
	// query line + status line
	const chrome = 2
	h := m.height - chrome
	if h < 1 {
		h = 10 // Sensible default before first WindowSizeMsg
	}
	return h
}
