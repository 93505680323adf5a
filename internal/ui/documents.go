package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"legal-chat/internal/models"
)

const maxVisibleDocuments = 10

// DocumentsModel lists the host's document catalog. It is read-only:
// the chat never uploads or deletes anything from here.
type DocumentsModel struct {
	docs          []models.DocumentSummary
	filteredDocs  []models.DocumentSummary
	filterInput   textinput.Model
	selectedIndex int
	width         int
	height        int
}

// DocumentsOverlayClosed is sent when the documents overlay is dismissed
type DocumentsOverlayClosed struct{}

func NewDocumentsModel() DocumentsModel {
	ti := textinput.New()
	ti.Placeholder = "Gõ để lọc..."
	ti.CharLimit = 100
	ti.Width = 40

	return DocumentsModel{
		docs:         []models.DocumentSummary{},
		filteredDocs: []models.DocumentSummary{},
		filterInput:  ti,
	}
}

func (m DocumentsModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *DocumentsModel) SetDocuments(docs []models.DocumentSummary) {
	m.docs = docs
	m.filterInput.SetValue("")
	m.filterInput.Focus()
	m.updateFilteredDocs()
	m.selectedIndex = 0
}

func (m *DocumentsModel) updateFilteredDocs() {
	filterText := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))

	if filterText == "" {
		m.filteredDocs = m.docs
		return
	}

	m.filteredDocs = []models.DocumentSummary{}
	for _, doc := range m.docs {
		if strings.Contains(strings.ToLower(doc.Name), filterText) {
			m.filteredDocs = append(m.filteredDocs, doc)
		}
	}
}

func (m *DocumentsModel) refilter() {
	oldLen := len(m.filteredDocs)
	m.updateFilteredDocs()
	if oldLen != len(m.filteredDocs) || m.selectedIndex >= len(m.filteredDocs) {
		m.selectedIndex = 0
	}
}

func (m DocumentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up"))):
			if m.selectedIndex > 0 {
				m.selectedIndex--
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("down"))):
			if m.selectedIndex < len(m.filteredDocs)-1 {
				m.selectedIndex++
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("esc", "ctrl+d"))):
			// Esc clears an active filter before closing
			if msg.String() == "esc" && m.filterInput.Value() != "" {
				m.filterInput.SetValue("")
				m.updateFilteredDocs()
				m.selectedIndex = 0
				return m, nil
			}
			return m, func() tea.Msg {
				return DocumentsOverlayClosed{}
			}

		case key.Matches(msg, key.NewBinding(key.WithKeys("backspace"))):
			m.filterInput, cmd = m.filterInput.Update(msg)
			m.refilter()
			return m, cmd

		default:
			if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
				m.filterInput, cmd = m.filterInput.Update(msg)
				m.refilter()
				return m, cmd
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filterInput.Width = m.overlayWidth() - 12
	}

	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m DocumentsModel) overlayWidth() int {
	w := m.width / 2
	if w < 40 {
		w = 40
	}
	return w
}

func (m DocumentsModel) View() string {
	if len(m.docs) == 0 {
		return m.renderEmpty()
	}
	return m.renderList()
}

func (m DocumentsModel) renderEmpty() string {
	width := m.overlayWidth()

	var content strings.Builder
	content.WriteString(OverlayTitleStyle.Render("Tài liệu"))
	content.WriteString("\n\n")
	content.WriteString(OverlayMessageStyle.Width(width - 8).Render("Chưa có tài liệu nào"))
	content.WriteString("\n\n")
	content.WriteString(HelpTextSimpleStyle.Render("Esc: Đóng"))

	return GetOverlayBorderStyle(width).Render(content.String())
}

func (m DocumentsModel) renderList() string {
	width := m.overlayWidth()

	var content strings.Builder

	title := fmt.Sprintf("Tài liệu (%d)", len(m.docs))
	if len(m.filteredDocs) != len(m.docs) {
		title = fmt.Sprintf("Tài liệu (%d / %d)", len(m.filteredDocs), len(m.docs))
	}
	content.WriteString(OverlayTitleStyle.Render(title))
	content.WriteString("\n\n")

	content.WriteString(OverlayFilterLabelStyle.Render("Lọc: "))
	content.WriteString(m.filterInput.View())
	content.WriteString("\n\n")

	if len(m.filteredDocs) == 0 {
		content.WriteString(OverlayMessageStyle.Width(width - 8).Render("Không có tài liệu phù hợp"))
		content.WriteString("\n\n")
		content.WriteString(HelpTextSimpleStyle.Render("Gõ để lọc • Esc: Xóa bộ lọc"))
		return GetOverlayBorderStyle(width).Render(content.String())
	}

	start, end := visibleRange(m.selectedIndex, len(m.filteredDocs), maxVisibleDocuments)

	for i := start; i < end; i++ {
		doc := m.filteredDocs[i]
		name := truncateFileName(doc.Name, width-24)

		indicator := "  "
		if i == m.selectedIndex {
			indicator = "▶ "
		}
		line := indicator + name + "  " + RenderDocumentStatus(doc.Status)
		content.WriteString(GetOverlayItemStyle(width, i == m.selectedIndex).Render(line))
		content.WriteString("\n")
	}

	if len(m.filteredDocs) > maxVisibleDocuments {
		content.WriteString("\n")
		content.WriteString(OverlayDimmedItemStyle.Render(
			fmt.Sprintf("Hiển thị %d-%d / %d", start+1, end, len(m.filteredDocs)),
		))
	}

	content.WriteString("\n")

	helpText := "Gõ để lọc • ↑/↓: Di chuyển • Esc: "
	if m.filterInput.Value() != "" {
		helpText += "Xóa bộ lọc"
	} else {
		helpText += "Đóng"
	}
	content.WriteString(HelpTextSimpleStyle.Render(helpText))

	return GetOverlayBorderStyle(width).Render(content.String())
}

// visibleRange keeps the selected row inside a window of at most max rows
func visibleRange(selected, total, max int) (int, int) {
	if total <= max {
		return 0, total
	}

	start := selected - max/2
	if start < 0 {
		start = 0
	}
	end := start + max
	if end > total {
		end = total
		start = end - max
	}
	return start, end
}

func truncateFileName(name string, maxLen int) string {
	runes := []rune(name)
	if maxLen < 8 || len(runes) <= maxLen {
		return name
	}

	ext := filepath.Ext(name)
	base := []rune(strings.TrimSuffix(name, ext))
	keep := maxLen - len([]rune(ext)) - 3
	if keep < 1 {
		return string(runes[:maxLen])
	}
	return string(base[:keep]) + "..." + ext
}

// RenderDocumentStatus renders the Vietnamese status marker for a document
func RenderDocumentStatus(status models.DocumentStatus) string {
	switch status {
	case models.DocumentCompleted:
		return StatusCompletedStyle.Render("✓ Hoàn tất")
	case models.DocumentProcessing:
		return StatusProcessingStyle.Render("… Đang xử lý")
	default:
		return StatusErrorStyle.Render("✗ Lỗi")
	}
}

// DocumentsOverlayModel draws the documents list over the chat view
type DocumentsOverlayModel struct {
	documents DocumentsModel
	visible   bool
}

func NewDocumentsOverlayModel() DocumentsOverlayModel {
	return DocumentsOverlayModel{
		documents: NewDocumentsModel(),
	}
}

func (m *DocumentsOverlayModel) SetDocuments(docs []models.DocumentSummary) {
	m.documents.SetDocuments(docs)
}

func (m *DocumentsOverlayModel) Show() {
	m.visible = true
}

func (m *DocumentsOverlayModel) Hide() {
	m.visible = false
}

func (m *DocumentsOverlayModel) IsVisible() bool {
	return m.visible
}

func (m *DocumentsOverlayModel) UpdateSize(width, height int) {
	m.documents.width = width
	m.documents.height = height
	m.documents.filterInput.Width = m.documents.overlayWidth() - 12
}

func (m *DocumentsOverlayModel) UpdateOverlay(msg tea.Msg) tea.Cmd {
	if !m.visible {
		return nil
	}

	mdl, cmd := m.documents.Update(msg)
	m.documents = mdl.(DocumentsModel)
	return cmd
}

func (m DocumentsOverlayModel) RenderOverlay(backgroundView string) string {
	if !m.visible {
		return backgroundView
	}

	overlayModel := overlay.New(
		m.documents,
		&staticViewModel{content: backgroundView},
		overlay.Center,
		overlay.Top,
		0,
		1,
	)

	return overlayModel.View()
}

// staticViewModel renders a fixed background string
type staticViewModel struct {
	content string
}

func (m staticViewModel) Init() tea.Cmd {
	return nil
}

func (m staticViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

func (m staticViewModel) View() string {
	return m.content
}
