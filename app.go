package main

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"legal-chat/internal/chat"
	"legal-chat/internal/config"
	"legal-chat/internal/ui"
)

type appState int

const (
	stateChat appState = iota
	stateSettings
	stateModelSelect
)

type app struct {
	state appState
	cfg   *config.Config

	chatViewModel    ui.ChatViewModel
	settingsModel    ui.SettingsModel
	modelSelectModel ui.ModelSelectModel

	width  int
	height int
}

func newApp(cfg *config.Config, dispatcher *chat.Dispatcher, documents ui.DocumentLister, width, height int) app {
	conversation := chat.NewConversation()
	return app{
		state:         stateChat,
		cfg:           cfg,
		chatViewModel: ui.NewChatViewModel(conversation, dispatcher, documents, cfg.Generation.Defaults, width, height),
		width:         width,
		height:        height,
	}
}

func (m app) Init() tea.Cmd {
	return m.chatViewModel.Init()
}

func (m app) updateChat(msg tea.Msg) (app, tea.Cmd) {
	newModel, cmd := m.chatViewModel.Update(msg)
	m.chatViewModel = newModel.(ui.ChatViewModel)
	return m, cmd
}

func (m app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		var cmds []tea.Cmd
		var cmd tea.Cmd
		m, cmd = m.updateChat(msg)
		cmds = append(cmds, cmd)

		switch m.state {
		case stateSettings:
			newModel, cmd := m.settingsModel.Update(msg)
			m.settingsModel = newModel.(ui.SettingsModel)
			cmds = append(cmds, cmd)
		case stateModelSelect:
			newModel, cmd := m.modelSelectModel.Update(msg)
			m.modelSelectModel = newModel.(ui.ModelSelectModel)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	// A turn may settle while another screen is open
	case ui.TurnSettled, ui.DocumentsLoaded, spinner.TickMsg:
		return m.updateChat(msg)

	case ui.OpenSettings:
		m.settingsModel = ui.NewSettingsModel(m.chatViewModel.Params(), m.width, m.height)
		m.state = stateSettings
		return m, m.settingsModel.Init()

	case ui.OpenModelPicker:
		m.modelSelectModel = ui.NewModelSelectModel(m.cfg.ModelChoices(), msg.Current, m.width, m.height)
		m.state = stateModelSelect
		return m, m.modelSelectModel.Init()

	case ui.ModelSelected:
		m.settingsModel.SetModel(msg.Model)
		m.state = stateSettings
		return m, nil

	case ui.ModelSelectCancelled:
		m.state = stateSettings
		return m, nil

	case ui.ParametersChanged:
		m.chatViewModel.SetParams(msg.Params)
		m.state = stateChat
		return m, nil

	case ui.SettingsCancelled:
		m.state = stateChat
		return m, nil
	}

	switch m.state {
	case stateSettings:
		newModel, cmd := m.settingsModel.Update(msg)
		m.settingsModel = newModel.(ui.SettingsModel)
		return m, cmd
	case stateModelSelect:
		newModel, cmd := m.modelSelectModel.Update(msg)
		m.modelSelectModel = newModel.(ui.ModelSelectModel)
		return m, cmd
	default:
		return m.updateChat(msg)
	}
}

func (m app) View() string {
	switch m.state {
	case stateSettings:
		return m.settingsModel.View()
	case stateModelSelect:
		return m.modelSelectModel.View()
	default:
		return m.chatViewModel.View()
	}
}
