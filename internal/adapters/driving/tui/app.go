package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/teampilot/internal/core/domain"
)

// entryKind distinguishes transcript entries.
type entryKind int

const (
	entryUser entryKind = iota
	entryAnswer
	entryError
)

// entry is one item in the conversation transcript.
type entry struct {
	kind entryKind
	text string
}

// Messages produced by the streaming commands.
type (
	// queryStarted carries the token channel of a fresh query.
	queryStarted struct {
		tokens <-chan domain.Token
	}

	// answerToken carries one fragment of the streamed answer.
	answerToken struct {
		text string
	}

	// answerDone signals that the stream closed normally.
	answerDone struct{}

	// answerFailed signals that the query could not start or the stream
	// ended with an error.
	answerFailed struct {
		err error
	}
)

// App is the chat TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// cancelQuery aborts the in-flight query, if any.
	cancelQuery context.CancelFunc

	// styles holds the TUI styles.
	styles *Styles

	// input is the question prompt.
	input textinput.Model

	// transcript shows the conversation and scrolls independently.
	transcript viewport.Model

	// spin indicates that the agent is working.
	spin spinner.Model

	// entries is the finished conversation so far.
	entries []entry

	// answer accumulates the in-flight streamed answer.
	answer string

	// tokens is the channel of the in-flight query.
	tokens <-chan domain.Token

	// streaming is true while an answer is being received.
	streaming bool

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := DefaultStyles()

	input := textinput.New()
	input.Placeholder = "Ask about your documents..."
	input.CharLimit = 512
	input.Width = 50
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = s.Muted

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		input:      input,
		transcript: viewport.New(80, 18),
		spin:       spin,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.SetWindowTitle("teampilot chat"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.input.Width = max(msg.Width-8, 20)
		a.transcript.Width = msg.Width
		// Reserve space for the header, prompt box and status line.
		a.transcript.Height = max(msg.Height-7, 3)
		a.refreshTranscript()
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case queryStarted:
		a.tokens = msg.tokens
		return a, waitForToken(msg.tokens)

	case answerToken:
		a.answer += msg.text
		a.refreshTranscript()
		return a, waitForToken(a.tokens)

	case answerDone:
		a.finishAnswer()
		return a, a.input.Focus()

	case answerFailed:
		a.finishAnswer()
		a.entries = append(a.entries, entry{kind: entryError, text: msg.err.Error()})
		a.refreshTranscript()
		return a, a.input.Focus()

	case spinner.TickMsg:
		if !a.streaming {
			return a, nil
		}
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}

	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleKeyMsg processes keyboard input.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		a.stopQuery()
		return a, tea.Quit

	case tea.KeyEnter:
		if a.streaming {
			return a, nil
		}
		text := strings.TrimSpace(a.input.Value())
		if text == "" {
			return a, nil
		}
		return a, a.submit(text)

	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		a.transcript, cmd = a.transcript.Update(msg)
		return a, cmd
	}

	if !a.streaming {
		a.input, cmd = a.input.Update(msg)
	}
	return a, cmd
}

// submit records the question and starts streaming the answer.
func (a *App) submit(text string) tea.Cmd {
	a.entries = append(a.entries, entry{kind: entryUser, text: text})
	a.answer = ""
	a.streaming = true
	a.input.Reset()
	a.input.Blur()
	a.refreshTranscript()

	ctx, cancel := context.WithCancel(a.ctx)
	a.cancelQuery = cancel

	return tea.Batch(a.spin.Tick, a.startQuery(ctx, text))
}

// startQuery asks the chat service for a token stream.
func (a *App) startQuery(ctx context.Context, text string) tea.Cmd {
	chat := a.ports.Chat
	return func() tea.Msg {
		tokens, err := chat.Query(ctx, text)
		if err != nil {
			return answerFailed{err: err}
		}
		return queryStarted{tokens: tokens}
	}
}

// waitForToken reads the next token from the stream. The command is
// re-issued after every token until the channel closes.
func waitForToken(tokens <-chan domain.Token) tea.Cmd {
	return func() tea.Msg {
		token, ok := <-tokens
		if !ok {
			return answerDone{}
		}
		if token.Err != nil {
			return answerFailed{err: token.Err}
		}
		return answerToken{text: token.Text}
	}
}

// finishAnswer moves the in-flight answer into the transcript and returns
// the prompt to the user.
func (a *App) finishAnswer() {
	if a.answer != "" {
		a.entries = append(a.entries, entry{kind: entryAnswer, text: a.answer})
		a.answer = ""
	}
	a.streaming = false
	a.tokens = nil
	a.stopQuery()
	a.refreshTranscript()
}

// stopQuery cancels the in-flight query context, if any.
func (a *App) stopQuery() {
	if a.cancelQuery != nil {
		a.cancelQuery()
		a.cancelQuery = nil
	}
}

// refreshTranscript re-renders the conversation into the viewport and
// scrolls to the latest entry.
func (a *App) refreshTranscript() {
	width := max(a.width-4, 20)

	blocks := make([]string, 0, len(a.entries)+1)
	for _, e := range a.entries {
		blocks = append(blocks, a.renderEntry(e, width))
	}
	if a.streaming && a.answer != "" {
		blocks = append(blocks, a.renderEntry(entry{kind: entryAnswer, text: a.answer}, width))
	}

	a.transcript.SetContent(strings.Join(blocks, "\n\n"))
	a.transcript.GotoBottom()
}

// renderEntry renders one transcript entry as a labelled text block.
func (a *App) renderEntry(e entry, width int) string {
	var label, body string
	switch e.kind {
	case entryUser:
		label = a.styles.UserLabel.Render("You")
		body = a.styles.Normal.Width(width).Render(e.text)
	case entryAnswer:
		label = a.styles.AgentLabel.Render("Teampilot")
		body = a.styles.Normal.Width(width).Render(e.text)
	case entryError:
		label = a.styles.Error.Render("Error")
		body = a.styles.Error.Width(width).Render(e.text)
	}
	return label + "\n" + body
}

// View implements tea.Model.
// It renders the chat interface as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	header := a.styles.Title.Render("Teampilot Chat")
	prompt := a.styles.InputField.Width(max(a.width-2, 20)).Render(a.input.View())

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		a.transcript.View(),
		"",
		prompt,
		a.statusLine(),
	)
}

// statusLine renders the spinner while streaming, keybinding hints
// otherwise.
func (a *App) statusLine() string {
	if a.streaming {
		return a.spin.View() + a.styles.Muted.Render("thinking...")
	}
	return a.styles.Help.Render("enter: send • esc: quit")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// Streaming returns whether an answer is currently being received.
func (a *App) Streaming() bool {
	return a.streaming
}

// Query returns the current prompt contents.
func (a *App) Query() string {
	return a.input.Value()
}

// Transcript returns the conversation so far as plain text, including any
// partially streamed answer.
func (a *App) Transcript() string {
	var b strings.Builder
	for _, e := range a.entries {
		switch e.kind {
		case entryUser:
			fmt.Fprintf(&b, "You: %s\n", e.text)
		case entryAnswer:
			fmt.Fprintf(&b, "Teampilot: %s\n", e.text)
		case entryError:
			fmt.Fprintf(&b, "Error: %s\n", e.text)
		}
	}
	if a.streaming && a.answer != "" {
		fmt.Fprintf(&b, "Teampilot: %s\n", a.answer)
	}
	return b.String()
}
