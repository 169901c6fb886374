package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agentbuilder-dev/agentbuilder/internal/cli/agent/tui/theme"
	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
)

type wizardStep int

const (
	stepName wizardStep = iota
	stepDescription
	stepModel
	stepPrompt
	stepTools
	stepConfirm
	stepDone
)

const totalSteps = int(stepConfirm) + 1

// AgentWizard collects an agent configuration step by step.
type AgentWizard struct {
	width  int
	height int

	step   wizardStep
	result models.AgentConfig
	ok     bool
	errMsg string

	nameInput        textinput.Model
	descriptionInput textinput.Model
	modelList        list.Model
	promptInput      textarea.Model
	toolList         list.Model
}

// NewAgentWizard builds a wizard over the given tool catalog, optionally pre-filled from seed.
func NewAgentWizard(catalog []models.Tool, seed *models.AgentConfig) *AgentWizard {
	if seed == nil {
		seed = &models.AgentConfig{}
	}

	mk := func(ph string, w int) textinput.Model {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = ph
		ti.Width = w
		return ti
	}

	modelItems := make([]list.Item, len(models.AvailableModels))
	selectedModel := 0
	wantModel := seed.Model
	if wantModel == "" {
		wantModel = models.DefaultModel
	}
	for i, m := range models.AvailableModels {
		modelItems[i] = choiceItem{label: m.Label, value: m.Value}
		if m.Value == wantModel {
			selectedModel = i
		}
	}
	ml := newChoiceList(modelItems, choiceDelegate{}, "Choose a model")
	ml.Select(selectedModel)

	preselected := make(map[string]bool, len(seed.Tools))
	for _, id := range seed.Tools {
		preselected[id] = true
	}
	toolItems := make([]list.Item, len(catalog))
	for i, t := range catalog {
		toolItems[i] = &toolItem{tool: t, checked: preselected[t.ID]}
	}
	tl := newChoiceList(toolItems, toolDelegate{}, "Select tools (space to toggle)")

	pi := textarea.New()
	pi.Placeholder = "You are a helpful assistant..."
	pi.SetWidth(60)
	pi.SetHeight(8)
	pi.ShowLineNumbers = false

	w := &AgentWizard{
		step:             stepName,
		nameInput:        mk("agent name", 40),
		descriptionInput: mk("optional description", 50),
		modelList:        ml,
		promptInput:      pi,
		toolList:         tl,
	}
	w.nameInput.SetValue(seed.Name)
	w.descriptionInput.SetValue(seed.Description)
	w.promptInput.SetValue(seed.SystemPrompt)
	w.nameInput.Focus()
	return w
}

func newChoiceList(items []list.Item, delegate list.ItemDelegate, title string) list.Model {
	l := list.New(items, delegate, 50, 12)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = lipgloss.NewStyle().Bold(true)
	l.Styles.PaginationStyle = list.DefaultStyles().PaginationStyle.PaddingLeft(2)
	return l
}

func (w *AgentWizard) Ok() bool                   { return w.ok }
func (w *AgentWizard) Result() models.AgentConfig { return w.result }

func (w *AgentWizard) Init() tea.Cmd {
	return textinput.Blink
}

// Update routes keys to the current step's component.
func (w *AgentWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		w.width, w.height = m.Width, m.Height
		return w, nil
	case tea.KeyMsg:
		switch m.String() {
		case "ctrl+c":
			return w, tea.Quit
		case "esc":
			if w.step == stepName {
				return w, tea.Quit
			}
			w.errMsg = ""
			w.prevStep()
			return w, nil
		case "enter":
			if w.step != stepPrompt {
				return w, w.onEnter()
			}
		case "ctrl+s":
			if w.step == stepPrompt {
				return w, w.onEnter()
			}
		case " ":
			if w.step == stepTools {
				w.toggleSelectedTool()
				return w, nil
			}
		}
	}

	var cmd tea.Cmd
	switch w.step {
	case stepName:
		w.nameInput, cmd = w.nameInput.Update(msg)
	case stepDescription:
		w.descriptionInput, cmd = w.descriptionInput.Update(msg)
	case stepModel:
		w.modelList, cmd = w.modelList.Update(msg)
	case stepPrompt:
		w.promptInput, cmd = w.promptInput.Update(msg)
	case stepTools:
		w.toolList, cmd = w.toolList.Update(msg)
	}
	return w, cmd
}

func (w *AgentWizard) onEnter() tea.Cmd {
	w.errMsg = ""
	switch w.step {
	case stepName:
		if strings.TrimSpace(w.nameInput.Value()) == "" {
			w.errMsg = "agent name is required"
			return nil
		}
		w.focusStep(stepDescription)
	case stepDescription:
		w.focusStep(stepModel)
	case stepModel:
		w.focusStep(stepPrompt)
		return textarea.Blink
	case stepPrompt:
		if strings.TrimSpace(w.promptInput.Value()) == "" {
			w.errMsg = "system prompt is required"
			return nil
		}
		w.focusStep(stepTools)
	case stepTools:
		w.buildResult()
		w.focusStep(stepConfirm)
	case stepConfirm:
		w.ok = true
		w.step = stepDone
		return tea.Quit
	}
	return nil
}

func (w *AgentWizard) focusStep(step wizardStep) {
	w.nameInput.Blur()
	w.descriptionInput.Blur()
	w.promptInput.Blur()
	w.step = step
	switch step {
	case stepName:
		w.nameInput.Focus()
	case stepDescription:
		w.descriptionInput.Focus()
	case stepPrompt:
		w.promptInput.Focus()
	}
}

func (w *AgentWizard) prevStep() {
	if w.step > stepName {
		w.focusStep(w.step - 1)
	}
}

func (w *AgentWizard) toggleSelectedTool() {
	if it, ok := w.toolList.SelectedItem().(*toolItem); ok {
		it.checked = !it.checked
	}
}

// SelectedTools returns the ids of the checked tools in catalog order.
func (w *AgentWizard) SelectedTools() []string {
	ids := []string{}
	for _, it := range w.toolList.Items() {
		if ti, ok := it.(*toolItem); ok && ti.checked {
			ids = append(ids, ti.tool.ID)
		}
	}
	return ids
}

func (w *AgentWizard) buildResult() {
	model := models.DefaultModel
	if it, ok := w.modelList.SelectedItem().(choiceItem); ok {
		model = it.value
	}
	w.result = models.AgentConfig{
		Name:         strings.TrimSpace(w.nameInput.Value()),
		Description:  strings.TrimSpace(w.descriptionInput.Value()),
		Model:        model,
		SystemPrompt: w.promptInput.Value(),
		Tools:        w.SelectedTools(),
		Capabilities: []string{},
	}
}

// View renders the current step inside a centered box.
func (w *AgentWizard) View() string {
	header := theme.HeadingStyle().Render(fmt.Sprintf("New Agent  ·  Step %d/%d", min(int(w.step)+1, totalSteps), totalSteps))

	var body string
	switch w.step {
	case stepName:
		body = w.labeled("Name", w.nameInput.View())
	case stepDescription:
		body = w.labeled("Description", w.descriptionInput.View())
	case stepModel:
		body = w.modelList.View()
	case stepPrompt:
		body = theme.StatusStyle().Render("System prompt (ctrl+s to continue)") + "\n" + w.promptInput.View()
	case stepTools:
		body = w.toolList.View()
	case stepConfirm:
		body = w.renderSummary()
	case stepDone:
		body = theme.HeadingStyle().Render("Done")
	}
	body += w.errorView()

	inner := lipgloss.JoinVertical(lipgloss.Left, header, body)
	if w.width == 0 {
		return inner
	}
	boxWidth := min(max(60, (w.width*8)/10), w.width-4)
	box := lipgloss.NewStyle().Width(boxWidth).Padding(1, 2).Render(inner)
	return lipgloss.Place(w.width, w.height, lipgloss.Center, lipgloss.Center, box)
}

func (w *AgentWizard) renderSummary() string {
	tools := "-"
	if len(w.result.Tools) > 0 {
		tools = strings.Join(w.result.Tools, ", ")
	}
	rows := []string{
		w.labeled("Name", w.result.Name),
		w.labeled("Model", models.ModelLabel(w.result.Model)),
		w.labeled("Tools", tools),
	}
	if w.result.Description != "" {
		rows = append(rows, w.labeled("Description", w.result.Description))
	}
	rows = append(rows, "", theme.StatusStyle().Render("Press Enter to create, Esc to go back"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (w *AgentWizard) labeled(label, view string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left, theme.StatusStyle().Render(label+": "), view)
}

func (w *AgentWizard) errorView() string {
	if strings.TrimSpace(w.errMsg) == "" {
		return ""
	}
	return theme.ErrorStyle().Render("\nError: " + w.errMsg)
}

// choice list items
type choiceItem struct {
	label string
	value string
}

func (i choiceItem) Title() string       { return i.label }
func (i choiceItem) Description() string { return i.value }
func (i choiceItem) FilterValue() string { return i.label }

type choiceDelegate struct{}

func (d choiceDelegate) Height() int                             { return 1 }
func (d choiceDelegate) Spacing() int                            { return 0 }
func (d choiceDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d choiceDelegate) Render(w io.Writer, m list.Model, index int, it list.Item) {
	i, ok := it.(choiceItem)
	if !ok {
		return
	}
	str := fmt.Sprintf("%d. %s", index+1, i.Title())
	normal := lipgloss.NewStyle().PaddingLeft(2)
	selected := lipgloss.NewStyle().PaddingLeft(1).Foreground(theme.ColorPrimary)
	if index == m.Index() {
		_, _ = w.Write([]byte(selected.Render("> " + str)))
	} else {
		_, _ = w.Write([]byte(normal.Render(str)))
	}
}

type toolItem struct {
	tool    models.Tool
	checked bool
}

func (i *toolItem) Title() string { return i.tool.DisplayName }
func (i *toolItem) Description() string {
	if i.tool.Description == nil {
		return ""
	}
	return *i.tool.Description
}
func (i *toolItem) FilterValue() string { return i.tool.Name }

type toolDelegate struct{}

func (d toolDelegate) Height() int                             { return 1 }
func (d toolDelegate) Spacing() int                            { return 0 }
func (d toolDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d toolDelegate) Render(w io.Writer, m list.Model, index int, it list.Item) {
	i, ok := it.(*toolItem)
	if !ok {
		return
	}
	box := "[ ]"
	if i.checked {
		box = theme.CheckedStyle().Render("[x]")
	}
	str := fmt.Sprintf("%s %s (%s)", box, i.Title(), i.tool.Category)
	if index == m.Index() {
		_, _ = w.Write([]byte(lipgloss.NewStyle().PaddingLeft(1).Foreground(theme.ColorPrimary).Render("> " + str)))
	} else {
		_, _ = w.Write([]byte(lipgloss.NewStyle().PaddingLeft(3).Render(str)))
	}
}
