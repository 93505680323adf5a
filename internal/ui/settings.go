package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"legal-chat/internal/models"
)

type settingsField int

const (
	fieldModel settingsField = iota
	fieldSystemPrompt
	fieldTemperature
	fieldMaxTokens
	fieldTopK
	fieldSemanticWeight
	fieldResponseStyle
	fieldUseDocs
	fieldSaveButton
)

// SettingsModel edits the generation parameters used by the next turns.
// Changes take effect only when saved; a turn already in flight keeps the
// parameters it was sent with.
type SettingsModel struct {
	model               string
	systemPromptArea    textarea.Model
	temperatureInput    textinput.Model
	maxTokensInput      textinput.Model
	topKInput           textinput.Model
	semanticWeightInput textinput.Model
	responseStyle       string
	useDocs             bool
	currentField        settingsField
	width               int
	height              int
	errors              ValidationFailed
}

// ParametersChanged carries the validated parameters back to the chat
type ParametersChanged struct {
	Params models.GenerationParameters
}

type SettingsCancelled struct{}

// OpenModelPicker asks the app to show the model list
type OpenModelPicker struct {
	Current string
}

type ValidationFailed struct {
	TemperatureError    string
	MaxTokensError      string
	TopKError           string
	SemanticWeightError string
}

func (v ValidationFailed) empty() bool {
	return v.TemperatureError == "" && v.MaxTokensError == "" && v.TopKError == "" && v.SemanticWeightError == ""
}

func newNumberInput(value string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = value
	ti.SetValue(value)
	ti.CharLimit = limit
	ti.Width = 10
	return ti
}

func NewSettingsModel(params models.GenerationParameters, width, height int) SettingsModel {
	promptArea := textarea.New()
	promptArea.Placeholder = models.DefaultSystemPrompt
	promptArea.SetWidth(70)
	promptArea.SetHeight(4)
	promptArea.CharLimit = 2000
	promptArea.ShowLineNumbers = false
	promptArea.SetValue(params.SystemPrompt)

	return SettingsModel{
		model:               params.Model,
		systemPromptArea:    promptArea,
		temperatureInput:    newNumberInput(strconv.FormatFloat(params.Temperature, 'f', -1, 64), 4),
		maxTokensInput:      newNumberInput(strconv.Itoa(params.MaxTokens), 6),
		topKInput:           newNumberInput(strconv.Itoa(params.TopK), 3),
		semanticWeightInput: newNumberInput(strconv.FormatFloat(params.SemanticWeight, 'f', -1, 64), 4),
		responseStyle:       params.ResponseStyle,
		useDocs:             params.UseDocs,
		currentField:        fieldModel,
		width:               width,
		height:              height,
	}
}

func (m SettingsModel) Init() tea.Cmd {
	return textinput.Blink
}

// SetModel is called when the model picker returns
func (m *SettingsModel) SetModel(model string) {
	m.model = model
}

func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ValidationFailed:
		m.errors = msg
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+x":
			return m, tea.Quit

		case "esc":
			return m, func() tea.Msg { return SettingsCancelled{} }

		case "tab":
			m.nextField()
			return m, nil

		case "shift+tab":
			m.prevField()
			return m, nil

		case "enter":
			switch m.currentField {
			case fieldSystemPrompt:
				var cmd tea.Cmd
				m.systemPromptArea, cmd = m.systemPromptArea.Update(msg)
				return m, cmd
			case fieldModel:
				current := m.model
				return m, func() tea.Msg { return OpenModelPicker{Current: current} }
			case fieldSaveButton:
				return m, m.save()
			}
			m.nextField()
			return m, nil

		case " ":
			switch m.currentField {
			case fieldResponseStyle:
				m.responseStyle = models.NextResponseStyle(m.responseStyle)
				return m, nil
			case fieldUseDocs:
				m.useDocs = !m.useDocs
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.currentField {
	case fieldSystemPrompt:
		m.systemPromptArea, cmd = m.systemPromptArea.Update(msg)
	case fieldTemperature:
		m.temperatureInput, cmd = m.temperatureInput.Update(msg)
		m.errors.TemperatureError = ""
	case fieldMaxTokens:
		m.maxTokensInput, cmd = m.maxTokensInput.Update(msg)
		m.errors.MaxTokensError = ""
	case fieldTopK:
		m.topKInput, cmd = m.topKInput.Update(msg)
		m.errors.TopKError = ""
	case fieldSemanticWeight:
		m.semanticWeightInput, cmd = m.semanticWeightInput.Update(msg)
		m.errors.SemanticWeightError = ""
	}

	return m, cmd
}

func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Cài đặt") + "\n\n")

	modelLabel := RenderFieldLabel("Mô hình:", m.currentField == fieldModel)
	b.WriteString(modelLabel + " " + m.model + " " + HelpTextSimpleStyle.Render("(Enter để chọn)") + "\n\n")

	b.WriteString(RenderFieldLabel("System prompt:", m.currentField == fieldSystemPrompt) + "\n")
	b.WriteString(m.systemPromptArea.View() + "\n\n")

	writeNumberField(&b, "Temperature (0-2):", m.temperatureInput, m.errors.TemperatureError, m.currentField == fieldTemperature)
	writeNumberField(&b, "Max tokens (> 0):", m.maxTokensInput, m.errors.MaxTokensError, m.currentField == fieldMaxTokens)
	writeNumberField(&b, "Top K (1-100):", m.topKInput, m.errors.TopKError, m.currentField == fieldTopK)
	writeNumberField(&b, "Alpha - trọng số ngữ nghĩa (0-1):", m.semanticWeightInput, m.errors.SemanticWeightError, m.currentField == fieldSemanticWeight)

	styleLabel := RenderFieldLabel("Phong cách trả lời:", m.currentField == fieldResponseStyle)
	b.WriteString(styleLabel + " " + m.responseStyle + "\n\n")

	docsLabel := RenderFieldLabel("Dùng tài liệu:", m.currentField == fieldUseDocs)
	checkbox := "[ ]"
	if m.useDocs {
		checkbox = "[✓]"
	}
	b.WriteString(docsLabel + " " + checkbox + "\n\n")

	b.WriteString(RenderButton("Lưu", m.currentField == fieldSaveButton) + "\n\n")

	helpText := "Tab/Shift+Tab: Chuyển trường • Enter: Tiếp/Lưu • Space: Đổi • Esc: Quay lại • Ctrl+X: Thoát"
	b.WriteString(helpStyle.Render(helpText))

	return b.String()
}

func writeNumberField(b *strings.Builder, label string, input textinput.Model, errMsg string, active bool) {
	b.WriteString(RenderFieldLabel(label, active) + "\n")
	b.WriteString(input.View() + "\n")
	if errMsg != "" {
		b.WriteString(RenderError(errMsg) + "\n")
	}
	b.WriteString("\n")
}

func (m *SettingsModel) nextField() {
	m.currentField++
	if m.currentField > fieldSaveButton {
		m.currentField = fieldModel
	}
	m.updateFocus()
}

func (m *SettingsModel) prevField() {
	m.currentField--
	if m.currentField < fieldModel {
		m.currentField = fieldSaveButton
	}
	m.updateFocus()
}

func (m *SettingsModel) updateFocus() {
	m.systemPromptArea.Blur()
	m.temperatureInput.Blur()
	m.maxTokensInput.Blur()
	m.topKInput.Blur()
	m.semanticWeightInput.Blur()

	switch m.currentField {
	case fieldSystemPrompt:
		m.systemPromptArea.Focus()
	case fieldTemperature:
		m.temperatureInput.Focus()
	case fieldMaxTokens:
		m.maxTokensInput.Focus()
	case fieldTopK:
		m.topKInput.Focus()
	case fieldSemanticWeight:
		m.semanticWeightInput.Focus()
	}
}

// Parameters parses the form. The returned ValidationFailed is empty when
// every field is valid.
func (m SettingsModel) Parameters() (models.GenerationParameters, ValidationFailed) {
	var verr ValidationFailed
	params := models.GenerationParameters{
		Model:         m.model,
		SystemPrompt:  strings.TrimSpace(m.systemPromptArea.Value()),
		ResponseStyle: m.responseStyle,
		UseDocs:       m.useDocs,
	}
	if params.SystemPrompt == "" {
		params.SystemPrompt = models.DefaultSystemPrompt
	}

	if v, err := strconv.ParseFloat(strings.TrimSpace(m.temperatureInput.Value()), 64); err != nil {
		verr.TemperatureError = "Temperature phải là số"
	} else if v < 0 || v > 2 {
		verr.TemperatureError = "Temperature phải nằm trong khoảng 0 đến 2"
	} else {
		params.Temperature = v
	}

	if v, err := strconv.Atoi(strings.TrimSpace(m.maxTokensInput.Value())); err != nil {
		verr.MaxTokensError = "Max tokens phải là số nguyên"
	} else if v <= 0 {
		verr.MaxTokensError = "Max tokens phải lớn hơn 0"
	} else {
		params.MaxTokens = v
	}

	if v, err := strconv.Atoi(strings.TrimSpace(m.topKInput.Value())); err != nil {
		verr.TopKError = "Top K phải là số nguyên"
	} else if v < 1 || v > 100 {
		verr.TopKError = "Top K phải nằm trong khoảng 1 đến 100"
	} else {
		params.TopK = v
	}

	if v, err := strconv.ParseFloat(strings.TrimSpace(m.semanticWeightInput.Value()), 64); err != nil {
		verr.SemanticWeightError = "Alpha phải là số"
	} else if v < 0 || v > 1 {
		verr.SemanticWeightError = "Alpha phải nằm trong khoảng 0 đến 1"
	} else {
		params.SemanticWeight = v
	}

	return params, verr
}

func (m SettingsModel) save() tea.Cmd {
	return func() tea.Msg {
		params, verr := m.Parameters()
		if !verr.empty() {
			return verr
		}
		if err := params.Validate(); err != nil {
			return ValidationFailed{TemperatureError: fmt.Sprintf("Tham số không hợp lệ: %v", err)}
		}
		return ParametersChanged{Params: params}
	}
}
