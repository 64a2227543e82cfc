// Package launcher implements the interactive quick-launcher session: a
// text input whose edits are debounced into Search requests, a result
// list fed by pushed response frames, and clamped cursor selection with
// confirm/cancel as the only ways out.
//
// All session state lives in one Model mutated exclusively by the
// bubbletea update loop. Socket reads happen on a transport goroutine but
// are funneled through a channel into that same loop, so no two handlers
// ever touch the state concurrently. Responses carry no request ids:
// whatever frame arrives next replaces the display, and a slow response
// to an old query can overwrite a newer one. That race is a documented
// simplicity trade-off.
package launcher

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"quickfile/internal/activitylog"
	"quickfile/internal/protocol"
	"quickfile/internal/transport"
)

// Options configures a launcher session.
type Options struct {
	RequestPath  string
	ResponsePath string
	Debounce     time.Duration
	SearchLimit  int
	OpenCommand  []string
	Log          *activitylog.Logger
}

// sender is the slice of the transport the model needs.
type sender interface {
	Send(*protocol.Request) bool
	Connected() bool
	Close()
}

type frameMsg struct {
	resp *protocol.Response
}

type debounceMsg struct {
	gen int
}

type framesClosedMsg struct{}

// Model is the single owned session state.
type Model struct {
	opts   Options
	input  textinput.Model
	conn   sender
	frames <-chan *protocol.Response
	open   func(path string) error

	// Debounce: every edit bumps gen and schedules a tick carrying it;
	// only the tick matching the current gen dispatches.
	gen            int
	lastDispatched string
	dispatched     bool

	// Snapshot, replaced wholesale per response frame.
	results    []protocol.SearchResult
	totalFiles int
	status     string

	selected int
	offset   int // first visible result row
	width    int
	height   int
}

func newModel(opts Options, conn sender, frames <-chan *protocol.Response) *Model {
	if opts.Debounce <= 0 {
		opts.Debounce = 100 * time.Millisecond
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = protocol.DefaultSearchLimit
	}
	if opts.Log == nil {
		opts.Log = activitylog.Nop()
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "type to search"
	ti.Focus()

	m := &Model{
		opts:   opts,
		input:  ti,
		conn:   conn,
		frames: frames,
		height: 24,
		width:  80,
	}
	m.open = func(path string) error {
		args := append([]string{}, opts.OpenCommand...)
		if len(args) == 0 {
			args = []string{"xdg-open"}
		}
		args = append(args, path)
		return exec.Command(args[0], args[1:]...).Start()
	}
	return m
}

// Run arms the inbound listener, connects the outbound socket, and drives
// the session until Confirm or Cancel. The listener must be armed before
// the first request goes out or the pre-population response is lost.
func Run(opts Options) error {
	frames := make(chan *protocol.Response, 32)
	duplex := transport.New(func(r *protocol.Response) { frames <- r })

	if err := duplex.Listen(opts.ResponsePath); err != nil {
		return fmt.Errorf("arm response listener: %w", err)
	}
	defer duplex.Close()

	if err := duplex.Dial(opts.RequestPath); err == nil {
		opts.Log.Connected(opts.RequestPath)
	}
	// A failed dial is not fatal: the session runs disconnected and the
	// status line shows it. Reconnection policy is external.

	m := newModel(opts, duplex, frames)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	opts.Log.Disconnected()
	return err
}

func (m *Model) Init() tea.Cmd {
	// Pre-populate the list with the unfiltered index.
	m.dispatch(m.input.Value())
	return tea.Batch(textinput.Blink, m.waitForFrame())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureVisible()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case debounceMsg:
		if msg.gen == m.gen {
			m.dispatch(m.input.Value())
		}
		return m, nil

	case frameMsg:
		m.applyFrame(msg.resp)
		return m, m.waitForFrame()

	case framesClosedMsg:
		return m, nil
	}

	return m, m.updateInput(msg)
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		// Cancel: immediate, unconditional teardown.
		m.conn.Close()
		return m, tea.Quit

	case tea.KeyEnter:
		return m, m.confirm()

	case tea.KeyUp:
		m.selected = moveUp(m.selected, len(m.results))
		m.ensureVisible()
		return m, nil

	case tea.KeyDown:
		m.selected = moveDown(m.selected, len(m.results))
		m.ensureVisible()
		return m, nil
	}

	return m, m.updateInput(msg)
}

func (m *Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	row := msg.Y - resultRowOffset + m.offset
	if row < 0 || row >= len(m.results) {
		return m, nil
	}
	switch {
	case msg.Action == tea.MouseActionMotion:
		// Pointer hover selects the row, nothing else.
		m.selected = row
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.selected = row
		return m, m.confirm()
	}
	return m, nil
}

// updateInput routes a message to the textinput and restarts the
// debounce countdown when the text changed.
func (m *Model) updateInput(msg tea.Msg) tea.Cmd {
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return cmd
	}
	m.gen++
	gen := m.gen
	return tea.Batch(cmd, tea.Tick(m.opts.Debounce, func(time.Time) tea.Msg {
		return debounceMsg{gen: gen}
	}))
}

// dispatch sends a Search for query if it differs from the last
// dispatched text and the transport is connected. When disconnected
// nothing is sent and nothing is recorded, so the text is retried only
// if a later edit restarts the countdown.
func (m *Model) dispatch(query string) {
	if m.dispatched && query == m.lastDispatched {
		return
	}
	if !m.conn.Connected() {
		return
	}
	if m.conn.Send(protocol.NewSearch(query, m.opts.SearchLimit)) {
		m.lastDispatched = query
		m.dispatched = true
		m.opts.Log.Dispatch(protocol.RequestSearch, query)
	}
}

// applyFrame folds one pushed response into the snapshot. Matching is by
// arrival order only; there is nothing to correlate against.
func (m *Model) applyFrame(resp *protocol.Response) {
	switch resp.Type {
	case protocol.ResponseSearchResults:
		m.results = resp.Results
		m.totalFiles = resp.TotalFiles
		m.selected = 0
		m.offset = 0
		m.status = ""
		m.opts.Log.Frame(resp.Type, len(resp.Results))

	case protocol.ResponseError:
		m.results = nil
		m.totalFiles = 0
		m.selected = 0
		m.offset = 0
		m.status = resp.Message
		m.opts.Log.Frame(resp.Type, 0)

	case protocol.ResponseRefreshComplete:
		m.totalFiles = resp.FilesCount
		m.status = fmt.Sprintf("index refreshed, %d files", resp.FilesCount)

	case protocol.ResponseStatus:
		m.totalFiles = resp.FilesCount
		m.status = fmt.Sprintf("%d files indexed", resp.FilesCount)

	default:
		// Unknown frame kinds are ignored, never an error.
	}
}

// confirm opens the selected file and ends the session. With no valid
// selection it does nothing.
func (m *Model) confirm() tea.Cmd {
	if len(m.results) == 0 || m.selected < 0 || m.selected >= len(m.results) {
		return nil
	}
	path := m.results[m.selected].Path
	if err := m.open(path); err == nil {
		m.opts.Log.Open(path)
	}
	m.conn.Close()
	return tea.Quit
}

func (m *Model) waitForFrame() tea.Cmd {
	return func() tea.Msg {
		resp, ok := <-m.frames
		if !ok {
			return framesClosedMsg{}
		}
		return frameMsg{resp: resp}
	}
}
