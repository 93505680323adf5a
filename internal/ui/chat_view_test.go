package ui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-chat/internal/backend"
	"legal-chat/internal/chat"
	"legal-chat/internal/models"
)

type stubBackend struct {
	resp  *backend.ChatResponse
	err   error
	calls int
	last  backend.ChatRequest
}

func (s *stubBackend) Chat(ctx context.Context, req backend.ChatRequest) (*backend.ChatResponse, error) {
	s.calls++
	s.last = req
	return s.resp, s.err
}

type stubLister struct {
	docs []models.DocumentSummary
}

func (s stubLister) ListDocuments(ctx context.Context) ([]models.DocumentSummary, error) {
	return s.docs, nil
}

func newTestChatView(t *testing.T, b chat.Backend) ChatViewModel {
	t.Helper()
	clock := func() time.Time { return time.Date(2026, 3, 9, 14, 5, 0, 0, time.Local) }
	conversation := chat.NewConversation(chat.WithClock(clock))
	return NewChatViewModel(conversation, chat.NewDispatcher(b), stubLister{}, models.DefaultGenerationParameters(), 100, 40)
}

func update(t *testing.T, m ChatViewModel, msg tea.Msg) (ChatViewModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	cv, ok := next.(ChatViewModel)
	require.True(t, ok)
	return cv, cmd
}

// collect runs a command tree and returns every message it produces
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findSettled(t *testing.T, msgs []tea.Msg) TurnSettled {
	t.Helper()
	for _, msg := range msgs {
		if settled, ok := msg.(TurnSettled); ok {
			return settled
		}
	}
	require.Fail(t, "no TurnSettled message produced")
	return TurnSettled{}
}

func enterKey() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, 1, 1, 9, 5, 0, 0, time.UTC), "09:05"},
		{time.Date(2026, 1, 1, 14, 30, 59, 0, time.UTC), "14:30"},
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "00:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTimestamp(tt.in))
	}
}

func TestNewChatViewShowsGreeting(t *testing.T) {
	m := newTestChatView(t, &stubBackend{})

	assert.Equal(t, 1, m.Conversation().Len())
	assert.Equal(t, chat.GreetingText, m.Conversation().Last().Content)
	assert.Contains(t, m.View(), "Tư Vấn Pháp Luật")
}

func TestEnterRunsOneTurn(t *testing.T) {
	b := &stubBackend{resp: &backend.ChatResponse{
		Answer:  json.RawMessage(`"Theo Điều 139 Bộ luật Lao động 2019..."`),
		Sources: []json.RawMessage{json.RawMessage(`{"title":"Bộ luật Lao động 2019"}`)},
	}}
	m := newTestChatView(t, b)

	m.textarea.SetValue("Nghỉ thai sản bao lâu?")
	m, cmd := update(t, m, enterKey())
	require.NotNil(t, cmd)

	assert.Equal(t, 2, m.Conversation().Len())
	assert.True(t, m.Conversation().Composing())
	assert.Empty(t, m.textarea.Value())
	assert.Contains(t, m.View(), chat.ComposingText)

	settled := findSettled(t, collect(cmd))
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, "Nghỉ thai sản bao lâu?", b.last.Query)

	m, _ = update(t, m, settled)
	require.Equal(t, 3, m.Conversation().Len())
	assert.False(t, m.Conversation().Composing())

	last := m.Conversation().Last()
	assert.Equal(t, models.RoleAssistant, last.Role)
	assert.Equal(t, "Theo Điều 139 Bộ luật Lao động 2019...", last.Content)
	assert.Equal(t, []string{"Bộ luật Lao động 2019"}, last.Sources)
	assert.True(t, m.viewport.AtBottom())
}

func TestEnterIgnoredWhileComposing(t *testing.T) {
	m := newTestChatView(t, &stubBackend{resp: &backend.ChatResponse{}})

	m.textarea.SetValue("Câu hỏi thứ nhất")
	m, cmd := update(t, m, enterKey())
	require.NotNil(t, cmd)

	m.textarea.SetValue("Câu hỏi thứ hai")
	m, cmd = update(t, m, enterKey())
	assert.Nil(t, cmd)
	assert.Equal(t, 2, m.Conversation().Len())
	assert.Equal(t, "Câu hỏi thứ hai", m.textarea.Value())
}

func TestLongPastedQuestionSentWhole(t *testing.T) {
	b := &stubBackend{resp: &backend.ChatResponse{}}
	m := newTestChatView(t, b)

	long := strings.Repeat("Điều 1 khoản 2 ", 450)
	require.Greater(t, utf8.RuneCountInString(long), 6000)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(long), Paste: true})
	require.Equal(t, long, m.textarea.Value())

	_, cmd := update(t, m, enterKey())
	findSettled(t, collect(cmd))

	assert.Equal(t, long, b.last.Query)
}

func TestEnterIgnoresBlankInput(t *testing.T) {
	b := &stubBackend{}
	m := newTestChatView(t, b)

	m.textarea.SetValue("   ")
	m, cmd := update(t, m, enterKey())
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.Conversation().Len())
	assert.False(t, m.Conversation().Composing())
	assert.Zero(t, b.calls)
}

func TestFailedTurnShowsErrorText(t *testing.T) {
	b := &stubBackend{err: errors.New("connection refused")}
	m := newTestChatView(t, b)

	m.textarea.SetValue("Thủ tục ly hôn?")
	m, cmd := update(t, m, enterKey())
	m, _ = update(t, m, findSettled(t, collect(cmd)))

	last := m.Conversation().Last()
	assert.Equal(t, chat.ErrorText, last.Content)
	assert.Empty(t, last.Sources)
	assert.False(t, m.Conversation().Composing())
}

func TestTurnSettlesWhileDocumentsOpen(t *testing.T) {
	m := newTestChatView(t, &stubBackend{resp: &backend.ChatResponse{Answer: json.RawMessage(`"ok"`)}})

	m.textarea.SetValue("Hỏi")
	m, cmd := update(t, m, enterKey())
	settled := findSettled(t, collect(cmd))

	m, _ = update(t, m, DocumentsLoaded{Show: true})
	require.True(t, m.docsOverlay.IsVisible())

	m, _ = update(t, m, settled)
	assert.Equal(t, 3, m.Conversation().Len())
	assert.False(t, m.Conversation().Composing())
}

func TestTabCyclesQuickQuestions(t *testing.T) {
	m := newTestChatView(t, &stubBackend{})
	require.True(t, m.Conversation().ShowQuickQuestions())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, chat.QuickQuestions[0], m.textarea.Value())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, chat.QuickQuestions[1], m.textarea.Value())
}

func TestQuickQuestionsHiddenAfterFirstQuestion(t *testing.T) {
	m := newTestChatView(t, &stubBackend{resp: &backend.ChatResponse{}})
	assert.Contains(t, m.View(), chat.QuickQuestions[0])

	m.textarea.SetValue("Hỏi")
	m, _ = update(t, m, enterKey())
	assert.False(t, m.Conversation().ShowQuickQuestions())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Empty(t, m.textarea.Value())
}

func TestCtrlSOpensSettings(t *testing.T) {
	m := newTestChatView(t, &stubBackend{})

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.IsType(t, OpenSettings{}, cmd())
}

func TestCtrlDLoadsDocuments(t *testing.T) {
	docs := []models.DocumentSummary{{ID: "1", Name: "luat-dat-dai-2024.pdf", Status: models.DocumentCompleted}}
	clock := func() time.Time { return time.Now() }
	m := NewChatViewModel(chat.NewConversation(chat.WithClock(clock)), chat.NewDispatcher(&stubBackend{}), stubLister{docs: docs}, models.DefaultGenerationParameters(), 100, 40)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	require.NotNil(t, cmd)

	loaded, ok := cmd().(DocumentsLoaded)
	require.True(t, ok)
	assert.True(t, loaded.Show)

	m, _ = update(t, m, loaded)
	assert.True(t, m.docsOverlay.IsVisible())
	assert.Contains(t, m.statusLine(), "Tài liệu: 1")

	m, _ = update(t, m, DocumentsOverlayClosed{})
	assert.False(t, m.docsOverlay.IsVisible())
}

func TestSetParamsAppliesToNextTurn(t *testing.T) {
	b := &stubBackend{resp: &backend.ChatResponse{}}
	m := newTestChatView(t, b)

	params := models.DefaultGenerationParameters()
	params.TopK = 12
	params.Model = "gpt-4o"
	m.SetParams(params)

	m.textarea.SetValue("Hỏi")
	_, cmd := update(t, m, enterKey())
	findSettled(t, collect(cmd))

	assert.Equal(t, 12, b.last.TopK)
	assert.Equal(t, "gpt-4o", b.last.Model)
	assert.Equal(t, backend.ModeHybrid, b.last.Mode)
}

func TestRenderSourceBadges(t *testing.T) {
	assert.Empty(t, RenderSourceBadges(nil))
	assert.Empty(t, RenderSourceBadges([]string{}))

	out := RenderSourceBadges([]string{"Luật Đất đai 2024", "Nghị định 102/2024"})
	assert.Contains(t, out, "Nguồn:")
	assert.Contains(t, out, "Luật Đất đai 2024")
	assert.Contains(t, out, "Nghị định 102/2024")
}
