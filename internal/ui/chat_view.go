package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"legal-chat/internal/chat"
	"legal-chat/internal/logging"
	"legal-chat/internal/models"
)

const (
	headerHeight   = 4
	textareaHeight = 4
	helpHeight     = 2
	padding        = 3
)

// DocumentLister is the read-only view of the host's document catalog
type DocumentLister interface {
	ListDocuments(ctx context.Context) ([]models.DocumentSummary, error)
}

type ChatViewModel struct {
	conversation *chat.Conversation
	dispatcher   *chat.Dispatcher
	documents    DocumentLister
	params       models.GenerationParameters
	scroll       *scrollSignal
	docs         []models.DocumentSummary
	viewport     viewport.Model
	textarea     textarea.Model
	spinner      spinner.Model
	docsOverlay  DocumentsOverlayModel
	quickIndex   int
	width        int
	height       int
	mdRenderer   *glamour.TermRenderer
}

// TurnSettled carries the outcome of the single outstanding request
type TurnSettled struct {
	Result chat.TurnResult
}

type DocumentsLoaded struct {
	Documents []models.DocumentSummary
	Show      bool
}

type OpenSettings struct{}

// scrollSignal is the conversation's notifier. The update loop drains it
// after every mutation and scrolls the viewport to the newest message.
type scrollSignal struct {
	pending bool
	count   int
}

func (s *scrollSignal) ScrollToLatest(count int) {
	s.pending = true
	s.count = count
}

// createMarkdownRenderer creates a markdown renderer with fallback handling
func createMarkdownRenderer(width int) *glamour.TermRenderer {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-14),
	)
	if err == nil {
		return renderer
	}

	logging.Error("Failed to create markdown renderer with auto style: %v, trying fallback", err)

	renderer, err = glamour.NewTermRenderer(
		glamour.WithWordWrap(width - 14),
	)
	if err == nil {
		return renderer
	}

	logging.Error("Failed to create markdown renderer: %v, using plain text", err)
	return nil
}

// safeRenderMarkdown renders markdown and falls back to the raw text
func (m *ChatViewModel) safeRenderMarkdown(content string) (out string) {
	out = content
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Panic in markdown rendering: %v", r)
			out = content
		}
	}()

	if m.mdRenderer == nil || content == "" {
		return content
	}

	rendered, err := m.mdRenderer.Render(content)
	if err != nil {
		logging.Error("Markdown rendering error: %v, falling back to plain text", err)
		return content
	}

	return strings.Trim(rendered, "\n")
}

func NewChatViewModel(conversation *chat.Conversation, dispatcher *chat.Dispatcher, documents DocumentLister, params models.GenerationParameters, width, height int) ChatViewModel {
	ta := textarea.New()
	ta.Placeholder = "Nhập câu hỏi của bạn về pháp luật..."
	ta.Focus()
	ta.CharLimit = 0 // questions are sent as typed, whatever their length
	ta.SetWidth(width - 4)
	ta.SetHeight(2)
	ta.ShowLineNumbers = false

	// Enter sends; Ctrl+J inserts a line break
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("ctrl+j"))
	ta.KeyMap.LineNext = key.NewBinding()
	ta.KeyMap.LinePrevious = key.NewBinding()

	vp := viewport.New(width-6, 10)
	vp.MouseWheelDelta = 2

	vp.KeyMap.Down = key.NewBinding(key.WithKeys("down"))
	vp.KeyMap.Up = key.NewBinding(key.WithKeys("up"))
	vp.KeyMap.PageDown = key.NewBinding(key.WithKeys("pgdown"))
	vp.KeyMap.PageUp = key.NewBinding(key.WithKeys("pgup"))
	vp.KeyMap.HalfPageDown = key.NewBinding()
	vp.KeyMap.HalfPageUp = key.NewBinding()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	overlay := NewDocumentsOverlayModel()
	overlay.UpdateSize(width, height)

	scroll := &scrollSignal{}
	conversation.SetNotifier(scroll)

	m := ChatViewModel{
		conversation: conversation,
		dispatcher:   dispatcher,
		documents:    documents,
		params:       params,
		scroll:       scroll,
		viewport:     vp,
		textarea:     ta,
		spinner:      sp,
		docsOverlay:  overlay,
		width:        width,
		height:       height,
		mdRenderer:   createMarkdownRenderer(width),
	}
	m.layout()
	m.renderMessages()
	m.viewport.GotoBottom()
	return m
}

func (m ChatViewModel) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.loadDocuments(false),
	)
}

// SetParams replaces the parameters used by the next turn
func (m *ChatViewModel) SetParams(params models.GenerationParameters) {
	m.params = params
}

func (m ChatViewModel) Params() models.GenerationParameters {
	return m.params
}

func (m ChatViewModel) Conversation() *chat.Conversation {
	return m.conversation
}

func (m ChatViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case DocumentsOverlayClosed:
		m.docsOverlay.Hide()
		m.textarea.Focus()
		return m, nil

	case TurnSettled:
		// Settlement must never be swallowed by the overlay
		m.conversation.ResolveTurn(msg.Result)
		m.syncAfterMutation()
		return m, nil
	}

	if m.docsOverlay.IsVisible() {
		if _, ok := msg.(spinner.TickMsg); !ok {
			return m, m.docsOverlay.UpdateOverlay(msg)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textarea.SetWidth(msg.Width - 4)
		m.docsOverlay.UpdateSize(msg.Width, msg.Height)
		m.mdRenderer = createMarkdownRenderer(msg.Width)
		m.layout()
		m.renderMessages()
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+x":
			return m, tea.Quit

		case "ctrl+s":
			return m, func() tea.Msg { return OpenSettings{} }

		case "ctrl+d":
			m.textarea.Blur()
			return m, m.loadDocuments(true)

		case "tab":
			if m.conversation.ShowQuickQuestions() && len(chat.QuickQuestions) > 0 {
				m.textarea.SetValue(chat.QuickQuestions[m.quickIndex%len(chat.QuickQuestions)])
				m.quickIndex++
			}
			return m, nil

		case "enter":
			m.conversation.SetInput(m.textarea.Value())
			userMsg, ok := m.conversation.Submit()
			if !ok {
				return m, nil
			}
			m.textarea.Reset()
			m.syncAfterMutation()
			return m, tea.Batch(m.dispatchTurn(userMsg.Content), m.spinner.Tick)
		}

	case DocumentsLoaded:
		m.docs = msg.Documents
		if msg.Show {
			m.docsOverlay.SetDocuments(msg.Documents)
			m.docsOverlay.Show()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Typing stays possible while a turn is composing; only sending is blocked
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m ChatViewModel) View() string {
	var b strings.Builder

	b.WriteString(TitleWithPaddingStyle.Render("Tư Vấn Pháp Luật") + "\n")
	b.WriteString(SubtitleStyle.Render("Đặt câu hỏi về pháp luật Việt Nam") + "\n")
	b.WriteString(statusBarStyle.Render(m.statusLine()) + "\n\n")

	b.WriteString(RenderViewportWithBorder(m.viewport.View()))
	b.WriteString("\n")

	if scrollInfo := m.renderScrollIndicator(); scrollInfo != "" {
		b.WriteString(scrollInfo)
	}
	b.WriteString("\n")

	if m.conversation.ShowQuickQuestions() {
		b.WriteString(m.renderQuickQuestions())
	}

	b.WriteString(m.textarea.View() + "\n")

	helpText := "Enter: Gửi • Ctrl+J: Xuống dòng • Tab: Câu hỏi gợi ý • ↑/↓: Cuộn • Ctrl+S: Cài đặt • Ctrl+D: Tài liệu • Ctrl+X: Thoát"
	b.WriteString(helpStyle.Render(helpText))

	return m.docsOverlay.RenderOverlay(b.String())
}

func (m ChatViewModel) statusLine() string {
	docsMode := "OFF"
	if m.params.UseDocs {
		docsMode = "ON"
	}

	line := fmt.Sprintf("Model: %s | TopK: %d | Alpha: %.2f | Temp: %.1f | Max: %d | Style: %s | Docs: %s",
		m.params.Model,
		m.params.TopK,
		m.params.SemanticWeight,
		m.params.Temperature,
		m.params.MaxTokens,
		m.params.ResponseStyle,
		docsMode,
	)

	if len(m.docs) > 0 {
		line += " | " + DocumentCountStyle.Render(fmt.Sprintf("Tài liệu: %d", len(m.docs)))
	}

	if m.conversation.Composing() {
		line += " | " + m.spinner.View() + " " + ComposingStyle.Render(chat.ComposingText)
	}

	return line
}

func (m ChatViewModel) dispatchTurn(query string) tea.Cmd {
	dispatcher := m.dispatcher
	params := m.params
	return func() tea.Msg {
		// no cancellation: the request runs until it settles
		return TurnSettled{Result: dispatcher.Dispatch(context.Background(), query, params)}
	}
}

func (m ChatViewModel) loadDocuments(show bool) tea.Cmd {
	documents := m.documents
	return func() tea.Msg {
		if documents == nil {
			return DocumentsLoaded{Show: show}
		}
		docs, err := documents.ListDocuments(context.Background())
		if err != nil {
			logging.Error("Failed to load documents: %v", err)
			return DocumentsLoaded{Show: show}
		}
		return DocumentsLoaded{Documents: docs, Show: show}
	}
}

// syncAfterMutation re-renders and scrolls when the conversation signalled a change
func (m *ChatViewModel) syncAfterMutation() {
	m.layout()
	if !m.scroll.pending {
		return
	}
	m.scroll.pending = false
	m.renderMessages()
	m.viewport.GotoBottom()
}

// layout sizes the viewport around the fixed chrome; the quick questions
// block only takes space until the first question is asked.
func (m *ChatViewModel) layout() {
	reserved := headerHeight + textareaHeight + helpHeight + padding
	if m.conversation.ShowQuickQuestions() {
		reserved += len(chat.QuickQuestions) + 1
	}

	vpHeight := m.height - reserved
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = m.width - 6
	m.viewport.Height = vpHeight
}

func (m *ChatViewModel) renderMessages() {
	var b strings.Builder

	for _, msg := range m.conversation.Messages() {
		timestamp := TimestampStyle.Render(FormatTimestamp(msg.Timestamp))
		content := m.safeRenderMarkdown(msg.Content)

		if msg.IsUser() {
			label := UserMessageLabelStyle.Render("Bạn") + " " + timestamp
			b.WriteString(GetUserMessageContentStyle(m.width).Render(label + "\n" + content))
		} else {
			label := AssistantMessageLabelStyle.Render("Trợ lý") + " " + timestamp
			body := label + "\n" + content
			if badges := RenderSourceBadges(msg.Sources); badges != "" {
				body += "\n" + badges
			}
			b.WriteString(GetAssistantMessageContentStyle(m.width).Render(body))
		}
		b.WriteString("\n\n")
	}

	m.viewport.SetContent(b.String())
}

func (m ChatViewModel) renderQuickQuestions() string {
	var b strings.Builder
	b.WriteString(QuickQuestionTitleStyle.Render("Câu hỏi gợi ý (Tab để chọn):") + "\n")
	for i, q := range chat.QuickQuestions {
		b.WriteString(QuickQuestionStyle.Render(fmt.Sprintf("%d. %s", i+1, q)) + "\n")
	}
	return b.String()
}

func (m ChatViewModel) renderScrollIndicator() string {
	if m.viewport.TotalLineCount() <= m.viewport.Height {
		return ""
	}

	scrollPercent := int(m.viewport.ScrollPercent() * 100)
	return ScrollIndicatorStyle.Render(fmt.Sprintf("Cuộn: %d%% ↕", scrollPercent))
}

// FormatTimestamp renders message times the way vi-VN shows them: 24h HH:MM
func FormatTimestamp(t time.Time) string {
	return t.Format("15:04")
}

// RenderSourceBadges renders one badge per source label, or "" for none
func RenderSourceBadges(sources []string) string {
	if len(sources) == 0 {
		return ""
	}

	badges := make([]string, len(sources))
	for i, src := range sources {
		badges[i] = SourceBadgeStyle.Render(src)
	}
	return SourceLabelStyle.Render("Nguồn:") + " " + strings.Join(badges, " ")
}
