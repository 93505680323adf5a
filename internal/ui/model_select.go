package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type ModelSelectModel struct {
	list    list.Model
	current string
	width   int
	height  int
}

type modelItem struct {
	name    string
	current bool
}

func (i modelItem) Title() string { return i.name }
func (i modelItem) Description() string {
	if i.current {
		return "Đang dùng"
	}
	return ""
}
func (i modelItem) FilterValue() string { return i.name }

type ModelSelected struct {
	Model string
}

type ModelSelectCancelled struct{}

func NewModelSelectModel(choices []string, current string, width, height int) ModelSelectModel {
	items := make([]list.Item, len(choices))
	selected := 0
	for i, name := range choices {
		items[i] = modelItem{name: name, current: name == current}
		if name == current {
			selected = i
		}
	}

	l := list.New(items, CreateThemedDelegate(), width, height-4)
	l.Title = "Chọn mô hình"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	ConfigureListStyles(&l)
	l.Select(selected)

	return ModelSelectModel{
		list:    l,
		current: current,
		width:   width,
		height:  height,
	}
}

func (m ModelSelectModel) Init() tea.Cmd {
	return nil
}

func (m ModelSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Let the list own keys while the filter is being typed
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "ctrl+c", "ctrl+x":
			return m, tea.Quit

		case "enter":
			selectedItem := m.list.SelectedItem()
			if selectedItem == nil {
				return m, nil
			}
			name := selectedItem.(modelItem).name
			return m, func() tea.Msg { return ModelSelected{Model: name} }

		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}
			return m, func() tea.Msg { return ModelSelectCancelled{} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m ModelSelectModel) View() string {
	helpText := "↑/↓: Di chuyển • /: Lọc • Enter: Chọn • Esc: Quay lại • Ctrl+X: Thoát"

	return lipgloss.JoinVertical(lipgloss.Left,
		m.list.View(),
		statusBarStyle.Render("Hiện tại: "+m.current),
		helpStyle.Render(helpText),
	)
}
