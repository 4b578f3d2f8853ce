package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/queued/internal/models"
	"github.com/desertthunder/queued/internal/services"
	"github.com/desertthunder/queued/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	QueueListView ViewState = iota
	ConfirmClearView
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	client    *services.QueueClient
	width     int
	height    int
	queueList list.Model
	queue     *models.QueueView
	listReady bool
	status    string
	err       error
	help      help.Model
	keys      keyMap
}

// queueItem wraps [models.QueueViewItem] to implement list.Item.
type queueItem struct {
	item    models.QueueViewItem
	current bool
}

func (i queueItem) FilterValue() string {
	if i.item.Track == nil {
		return i.item.TrackID
	}
	return i.item.Track.Title
}

func (i queueItem) Title() string {
	title := i.item.TrackID
	if i.item.Track != nil {
		title = i.item.Track.Title
	}
	if i.current {
		return "▶ " + title
	}
	return title
}

func (i queueItem) Description() string {
	if i.item.Track == nil {
		return "unavailable"
	}
	desc := i.item.Track.ArtistName
	if i.item.Track.AlbumName != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.item.Track.AlbumName)
	}
	return fmt.Sprintf("%s [%s]", desc, shared.FormatDuration(i.item.Track.Duration))
}

type queueFetchedMsg struct {
	queue *models.QueueView
	err   error
}

type actionDoneMsg struct {
	status string
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, client *services.QueueClient) *Model {
	return &Model{
		ctx:    ctx,
		view:   QueueListView,
		client: client,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by fetching the queue from the server.
func (m *Model) Init() tea.Cmd {
	return m.fetchQueue()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.queueList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case QueueListView:
			return m.handleQueueListKeys(msg)
		case ConfirmClearView:
			return m.handleConfirmClearKeys(msg)
		}

	case queueFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.queue = msg.queue
		m.rebuildList()
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = msg.status
		return m, m.fetchQueue()
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress R to retry, q to quit", m.err))
	}

	switch m.view {
	case QueueListView:
		return m.renderQueueList()
	case ConfirmClearView:
		return m.renderConfirmClear()
	default:
		return ""
	}
}

func (m *Model) handleQueueListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "R":
		return m, m.fetchQueue()
	case "n":
		return m, m.transport(func() error {
			_, err := m.client.Next(m.ctx)
			return err
		}, "advanced")
	case "p":
		return m, m.transport(func() error {
			_, err := m.client.Previous(m.ctx)
			return err
		}, "stepped back")
	case "s":
		enabled := m.queue == nil || !m.queue.ShuffleEnabled
		return m, m.transport(func() error {
			return m.client.SetShuffle(m.ctx, enabled)
		}, fmt.Sprintf("shuffle %s", onOff(enabled)))
	case "r":
		mode := m.nextRepeatMode()
		return m, m.transport(func() error {
			return m.client.SetRepeat(m.ctx, mode)
		}, fmt.Sprintf("repeat %s", mode))
	case "x":
		if item, ok := m.selectedItem(); ok {
			return m, m.transport(func() error {
				return m.client.RemoveEntry(m.ctx, item.item.ID)
			}, "removed")
		}
	case "C":
		if m.queue != nil && m.queue.TotalTracks > 0 {
			m.view = ConfirmClearView
		}
		return m, nil
	case "enter":
		if _, ok := m.selectedItem(); ok {
			index := m.queueList.Index()
			return m, m.transport(func() error {
				_, err := m.client.PlayIndex(m.ctx, index)
				return err
			}, "playing")
		}
	}

	var cmd tea.Cmd
	m.queueList, cmd = m.queueList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmClearKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = QueueListView
		return m, nil
	case "y":
		m.view = QueueListView
		return m, m.transport(func() error {
			return m.client.ClearQueue(m.ctx)
		}, "queue cleared")
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.listReady {
		return m, nil
	}
	var cmd tea.Cmd
	m.queueList, cmd = m.queueList.Update(msg)
	return m, cmd
}

func (m *Model) fetchQueue() tea.Cmd {
	return func() tea.Msg {
		queue, err := m.client.GetQueue(m.ctx)
		return queueFetchedMsg{queue: queue, err: err}
	}
}

// transport runs a server mutation off the render loop and refetches on success.
func (m *Model) transport(action func() error, status string) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{status: status, err: action()}
	}
}

// rebuildList rebuilds the bubbles list from the fetched queue, preserving the cursor.
func (m *Model) rebuildList() {
	if m.queue == nil {
		return
	}

	items := make([]list.Item, len(m.queue.Items))
	for i, entry := range m.queue.Items {
		items[i] = queueItem{item: entry, current: i == m.queue.CurrentIndex && m.queue.TotalTracks > 0}
	}

	cursor := 0
	if m.listReady {
		cursor = m.queueList.Index()
	}

	m.queueList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.queueList.Title = m.listTitle()
	m.queueList.SetSize(m.width-4, m.height-8)
	if cursor < len(items) {
		m.queueList.Select(cursor)
	}
	m.listReady = true
}

func (m *Model) listTitle() string {
	return fmt.Sprintf("Play Queue • %d tracks (%s) • shuffle %s • repeat %s",
		m.queue.TotalTracks,
		shared.FormatDuration(m.queue.TotalDuration),
		onOff(m.queue.ShuffleEnabled),
		m.queue.RepeatMode,
	)
}

func (m *Model) selectedItem() (queueItem, bool) {
	if !m.listReady {
		return queueItem{}, false
	}
	selected := m.queueList.SelectedItem()
	if selected == nil {
		return queueItem{}, false
	}
	item, ok := selected.(queueItem)
	return item, ok
}

// nextRepeatMode cycles off → all → one → off.
func (m *Model) nextRepeatMode() string {
	if m.queue == nil {
		return string(models.RepeatOff)
	}
	switch m.queue.RepeatMode {
	case models.RepeatOff:
		return string(models.RepeatAll)
	case models.RepeatAll:
		return string(models.RepeatOne)
	default:
		return string(models.RepeatOff)
	}
}

func (m *Model) renderQueueList() string {
	if !m.listReady {
		return styles.help.Render("Loading queue...")
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.next, m.keys.shuffle, m.keys.repeat, m.keys.remove, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	status := ""
	if m.status != "" {
		status = styles.ok.Render(m.status) + "\n"
	}

	return fmt.Sprintf("%s\n%s\n%s", m.queueList.View(), status, helpView)
}

func (m *Model) renderConfirmClear() string {
	title := styles.title.Render(fmt.Sprintf("Clear all %d tracks from the queue?", m.queue.TotalTracks))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s", title, helpView)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
