// Package clocktui is the interactive session screen: assigned tasks with
// start controls, and paged entries grouped by day with a stop control.
package clocktui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amonks/timeclock/entry"
	internalstrings "github.com/amonks/timeclock/internal/strings"
	"github.com/amonks/timeclock/internal/ui"
	"github.com/amonks/timeclock/presenter"
	"github.com/amonks/timeclock/tracker"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type tabKind int

const (
	tabTasks tabKind = iota
	tabEntries
)

type statusLevel int

const (
	statusNone statusLevel = iota
	statusInfo
	statusError
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalComment
)

// Options configures the screen.
type Options struct {
	Location *time.Location
	PageSize int
	Now      func() time.Time
}

type model struct {
	ctx         context.Context
	tracker     *tracker.Tracker
	capture     *tracker.CommentCapture
	events      <-chan tracker.Event
	opts        Options
	width       int
	height      int
	activeTab   tabKind
	taskCursor  int
	page        int
	snap        tracker.Snapshot
	inFlight    bool
	modal       modalKind
	comment     textarea.Model
	status      string
	statusLevel statusLevel
}

// Run shows the screen until the user quits.
func Run(ctx context.Context, t *tracker.Tracker, opts Options) error {
	if t == nil {
		return fmt.Errorf("tracker is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	events, unsubscribe := t.Subscribe()
	defer unsubscribe()

	program := tea.NewProgram(newModel(ctx, t, events, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func newModel(ctx context.Context, t *tracker.Tracker, events <-chan tracker.Event, opts Options) model {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.PageSize < 1 {
		opts.PageSize = presenter.DefaultPageSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	comment := textarea.New()
	comment.Placeholder = "What did you work on?"
	comment.ShowLineNumbers = false
	comment.SetWidth(50)
	comment.SetHeight(4)

	m := model{
		ctx:       ctx,
		tracker:   t,
		events:    events,
		opts:      opts,
		activeTab: tabTasks,
		page:      1,
		comment:   comment,
	}
	if t != nil {
		m.capture = tracker.NewCommentCapture(t)
		m.snap = t.Snapshot()
	}
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.waitForEventCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.comment.SetWidth(min(60, max(msg.Width-10, 10)))
		return m, nil
	case refreshedMsg:
		return m.handleRefreshed(msg), nil
	case trackerEventMsg:
		return m.handleEvent(msg), m.waitForEventCmd()
	case startedMsg:
		return m.handleStarted(msg), nil
	case commentSubmittedMsg:
		return m.handleCommentSubmitted(msg), nil
	}

	if m.modal != modalNone {
		return m.updateModal(msg)
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(key)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.modal = modalHelp
		return m, nil
	case "tab", "shift+tab", "backtab":
		if m.activeTab == tabTasks {
			m.activeTab = tabEntries
		} else {
			m.activeTab = tabTasks
		}
		return m, nil
	case "1":
		m.activeTab = tabTasks
		return m, nil
	case "2":
		m.activeTab = tabEntries
		return m, nil
	case "up", "k":
		m.taskCursor = max(m.taskCursor-1, 0)
		return m, nil
	case "down", "j":
		m.taskCursor = min(m.taskCursor+1, max(len(m.snap.Tasks)-1, 0))
		return m, nil
	case "n", "right":
		if m.activeTab == tabEntries {
			m.page = m.view().Page.Number + 1
			m.page = m.view().Page.Number
		}
		return m, nil
	case "p", "left":
		if m.activeTab == tabEntries {
			m.page = max(m.view().Page.Number-1, 1)
		}
		return m, nil
	case "r":
		m.setStatus("Refreshing", statusInfo)
		return m, m.refreshCmd()
	case "s", "enter":
		if m.activeTab == tabTasks {
			return m.startSelected()
		}
		return m, nil
	case "x":
		return m.openComment()
	}
	return m, nil
}

func (m model) startSelected() (tea.Model, tea.Cmd) {
	view := m.view()
	if m.taskCursor >= len(view.Cards) {
		m.setStatus("No task selected", statusError)
		return m, nil
	}
	card := view.Cards[m.taskCursor]
	if card.Action != presenter.ActionStart {
		m.setStatus(fmt.Sprintf("Cannot start %s while it is %s", card.Task.TaskName, card.Action), statusError)
		return m, nil
	}
	m.inFlight = true
	m.setStatus(fmt.Sprintf("Starting %s", card.Task.TaskName), statusInfo)
	return m, m.startCmd(card.Task.Ref())
}

func (m model) openComment() (tea.Model, tea.Cmd) {
	if m.inFlight || m.snap.Pending {
		m.setStatus("A request is already in progress", statusError)
		return m, nil
	}
	if !m.snap.State.Running() {
		m.setStatus("Nothing is running", statusError)
		return m, nil
	}
	if err := m.capture.Open(m.snap.State.EntryID); err != nil {
		m.setStatus(err.Error(), statusError)
		return m, nil
	}
	m.modal = modalComment
	m.comment.Reset()
	return m, m.comment.Focus()
}

func (m model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)
	if m.modal == modalHelp {
		if !isKey {
			return m, nil
		}
		switch key.String() {
		case "?", "esc":
			m.modal = modalNone
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		return m, nil
	}

	if isKey {
		switch key.String() {
		case "esc":
			m.capture.Cancel()
			m.comment.Blur()
			m.modal = modalNone
			m.setStatus("Stop cancelled", statusInfo)
			return m, nil
		case "enter":
			if m.inFlight {
				return m, nil
			}
			m.capture.SetText(m.comment.Value())
			m.inFlight = true
			return m, m.submitCommentCmd()
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.comment, cmd = m.comment.Update(msg)
	return m, cmd
}

func (m model) handleRefreshed(msg refreshedMsg) model {
	m.snap = m.tracker.Snapshot()
	var inconsistent *tracker.InconsistencyError
	switch {
	case errors.As(msg.err, &inconsistent):
		m.setStatus(inconsistent.Error(), statusError)
	case msg.err != nil:
		m.setStatus(fmt.Sprintf("Refresh failed: %v", msg.err), statusError)
	case m.statusLevel != statusError:
		m.setStatus("", statusNone)
	}
	return m
}

func (m model) handleEvent(msg trackerEventMsg) model {
	m.snap = m.tracker.Snapshot()
	if msg.event.Kind == tracker.EventInconsistent && msg.event.Err != nil {
		m.setStatus(msg.event.Err.Error(), statusError)
	}
	return m
}

func (m model) handleStarted(msg startedMsg) model {
	m.inFlight = false
	m.snap = m.tracker.Snapshot()
	if msg.err != nil {
		m.setStatus(fmt.Sprintf("Start failed: %v", msg.err), statusError)
		return m
	}
	m.setStatus(fmt.Sprintf("Started %s", msg.state.Task().Label()), statusInfo)
	return m
}

func (m model) handleCommentSubmitted(msg commentSubmittedMsg) model {
	m.inFlight = false
	m.snap = m.tracker.Snapshot()
	if msg.err != nil {
		if tracker.IsValidation(msg.err) {
			m.setStatus(msg.err.Error(), statusError)
		} else {
			m.setStatus(fmt.Sprintf("Stop failed: %v", msg.err), statusError)
		}
		return m
	}
	m.comment.Blur()
	m.comment.Reset()
	m.modal = modalNone
	m.setStatus("Stopped", statusInfo)
	return m
}

func (m model) view() presenter.View {
	snap := m.snap
	snap.Pending = snap.Pending || m.inFlight
	return presenter.Build(snap, presenter.Options{
		Page:     m.page,
		PageSize: m.opts.PageSize,
		Location: m.opts.Location,
		Now:      m.opts.Now(),
	})
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	view := m.view()

	body := m.renderTasks(view)
	if m.activeTab == tabEntries {
		body = m.renderEntries(view)
	}
	contentHeight := max(m.height-5, 1)
	pane := paneStyle.Width(max(m.width-2, 0)).Height(contentHeight).Render(body)

	lines := []string{
		m.renderTabs(),
		helpBarStyle.Render(m.helpSummary()),
		m.renderSession(view),
		pane,
		m.renderStatusLine(),
	}
	screen := strings.Join(lines, "\n")
	if m.modal != modalNone {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.modalView())
	}
	return screen
}

func (m model) renderTabs() string {
	labels := []string{"[1] Tasks", "[2] Entries"}
	parts := make([]string, 0, len(labels))
	for i, label := range labels {
		style := tabInactiveStyle
		if tabKind(i) == m.activeTab {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(label))
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	hint := valueMuted.Render("Press ? for help")
	spacer := strings.Repeat(" ", max(m.width-lipgloss.Width(content)-lipgloss.Width(hint), 1))
	return tabBarStyle.Width(m.width).Render(content + spacer + hint)
}

func (m model) renderSession(view presenter.View) string {
	if view.Pending {
		return valueMuted.Render("Waiting for the server...")
	}
	state := view.State
	if !state.Running() {
		return "Idle"
	}
	elapsed := ui.FormatElapsed(state.Elapsed(m.opts.Now()))
	return runningStyle.Render(fmt.Sprintf("Running %s (entry %s) for %s", state.Task().Label(), state.EntryID, elapsed))
}

func (m model) renderTasks(view presenter.View) string {
	if len(view.Cards) == 0 {
		return valueMuted.Render("No assigned tasks")
	}
	lines := make([]string, 0, len(view.Cards)+1)
	lines = append(lines, labelStyle.Render("Assigned tasks"))
	for i, card := range view.Cards {
		cursor := "  "
		if i == m.taskCursor {
			cursor = selectedStyle.Render("> ")
		}
		label := card.Task.TaskName
		if card.Task.ProjectName != "" {
			label = fmt.Sprintf("%s / %s", card.Task.ProjectName, card.Task.TaskName)
		}
		lines = append(lines, fmt.Sprintf("%s%s  [%s]", cursor, label, actionLabel(card.Action)))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderEntries(view presenter.View) string {
	if view.Page.Total == 0 {
		return valueMuted.Render("No entries")
	}
	now := m.opts.Now()
	lines := []string{}
	for _, group := range view.Groups {
		heading := fmt.Sprintf("%s  %.2fh", ui.FormatDay(group.Date), group.Hours(now))
		lines = append(lines, labelStyle.Render(heading))
		for _, row := range view.Rows {
			if row.Day != group.Day {
				continue
			}
			lines = append(lines, m.renderRow(row))
		}
	}
	lines = append(lines, "", valueMuted.Render(fmt.Sprintf("Page %d/%d (%d entries)", view.Page.Number, view.Page.Pages, view.Page.Total)))
	return strings.Join(lines, "\n")
}

func (m model) renderRow(row presenter.Row) string {
	start := row.Entry.StartTime.In(m.opts.Location).Format("15:04")
	end := "..."
	if row.Entry.EndTime != nil {
		end = row.Entry.EndTime.In(m.opts.Location).Format("15:04")
	}
	comment := internalstrings.FirstLine(row.Entry.Comment)
	line := fmt.Sprintf("  %-6s %-20s %s-%-5s %7s  [%s]", row.Entry.ID, row.Entry.Label(), start, end, ui.FormatElapsed(row.Elapsed), actionLabel(row.Action))
	if comment != "" {
		line += "  " + valueMuted.Render(comment)
	}
	return line
}

func actionLabel(action presenter.Action) string {
	if action == presenter.ActionRunning || action == presenter.ActionStop {
		return runningStyle.Render(string(action))
	}
	if !action.Enabled() {
		return valueMuted.Render(string(action))
	}
	return string(action)
}

func (m model) renderStatusLine() string {
	if internalstrings.IsBlank(m.status) {
		return ""
	}
	style := valueMuted
	if m.statusLevel == statusError {
		style = statusErrorStyle
	} else if m.statusLevel == statusInfo {
		style = statusSuccessStyle
	}
	return style.Render(m.status)
}

func (m model) helpSummary() string {
	if m.activeTab == tabTasks {
		return "Keys: up/down move | s start | x stop | r refresh | tab entries | ? help | q quit"
	}
	return "Keys: n/p page | x stop | r refresh | tab tasks | ? help | q quit"
}

func (m *model) setStatus(text string, level statusLevel) {
	m.status = text
	m.statusLevel = level
}

func (m model) modalView() string {
	if m.modal == modalHelp {
		return modalStyle.Render(helpContent())
	}
	title := fmt.Sprintf("Stop entry %s", m.capture.EntryID())
	if label := m.snap.State.Task().Label(); label != "" {
		title += " (" + label + ")"
	}
	parts := []string{labelStyle.Render(title), "", m.comment.View(), ""}
	if m.inFlight {
		parts = append(parts, valueMuted.Render("Stopping..."))
	} else if err := m.capture.Err(); err != nil {
		parts = append(parts, statusErrorStyle.Render(err.Error()))
	}
	parts = append(parts, valueMuted.Render("enter submit | esc cancel"))
	return modalStyle.Render(strings.Join(parts, "\n"))
}

func helpContent() string {
	sections := []string{
		labelStyle.Render("Global"),
		"q or ctrl+c: quit",
		"1 / 2 / tab: switch tabs",
		"r: refresh from the server",
		"x: stop the running entry",
		"?: toggle help",
		"",
		labelStyle.Render("Tasks"),
		"up/down or j/k: move selection",
		"s or enter: start the selected task",
		"",
		labelStyle.Render("Entries"),
		"n / p: next or previous page",
		"",
		labelStyle.Render("Stop"),
		"enter: submit comment",
		"esc: cancel",
	}
	return strings.Join(sections, "\n")
}

func (m model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.tracker.Refresh(m.ctx)
		return refreshedMsg{err: err}
	}
}

func (m model) startCmd(ref entry.TaskRef) tea.Cmd {
	return func() tea.Msg {
		state, err := m.tracker.StartTask(m.ctx, ref)
		return startedMsg{state: state, err: err}
	}
}

func (m model) submitCommentCmd() tea.Cmd {
	return func() tea.Msg {
		state, err := m.capture.Submit(m.ctx)
		return commentSubmittedMsg{state: state, err: err}
	}
}

func (m model) waitForEventCmd() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return trackerEventMsg{event: event}
	}
}

type refreshedMsg struct {
	err error
}

type trackerEventMsg struct {
	event tracker.Event
}

type startedMsg struct {
	state tracker.State
	err   error
}

type commentSubmittedMsg struct {
	state tracker.State
	err   error
}
