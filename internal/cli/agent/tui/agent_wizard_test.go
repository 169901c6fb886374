package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
)

func testCatalog() []models.Tool {
	return []models.Tool{
		{ID: "calculator", Name: "calculator", DisplayName: "Calculator", Category: "Math"},
		{ID: "web-search", Name: "webSearch", DisplayName: "Web Search", Category: "Search"},
	}
}

func send(w *AgentWizard, msgs ...tea.Msg) {
	for _, msg := range msgs {
		w.Update(msg)
	}
}

func typeText(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	space = tea.KeyMsg{Type: tea.KeySpace}
	save  = tea.KeyMsg{Type: tea.KeyCtrlS}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestAgentWizard_FullFlow(t *testing.T) {
	w := NewAgentWizard(testCatalog(), nil)

	send(w, typeText("Helper"), enter)
	require.Equal(t, stepDescription, w.step)

	send(w, typeText("Answers questions"), enter)
	require.Equal(t, stepModel, w.step)

	send(w, down, enter)
	require.Equal(t, stepPrompt, w.step)

	send(w, typeText("Be helpful."), save)
	require.Equal(t, stepTools, w.step)

	send(w, down, space, enter)
	require.Equal(t, stepConfirm, w.step)
	assert.Contains(t, w.View(), "Helper")

	send(w, enter)
	require.True(t, w.Ok())

	cfg := w.Result()
	assert.Equal(t, "Helper", cfg.Name)
	assert.Equal(t, "Answers questions", cfg.Description)
	assert.Equal(t, models.AvailableModels[1].Value, cfg.Model)
	assert.Equal(t, "Be helpful.", cfg.SystemPrompt)
	assert.Equal(t, []string{"web-search"}, cfg.Tools)
	assert.Equal(t, []string{}, cfg.Capabilities)
}

func TestAgentWizard_RequiresName(t *testing.T) {
	w := NewAgentWizard(testCatalog(), nil)
	send(w, enter)
	assert.Equal(t, stepName, w.step)
	assert.Contains(t, w.View(), "agent name is required")
}

func TestAgentWizard_EscGoesBack(t *testing.T) {
	w := NewAgentWizard(testCatalog(), nil)
	send(w, typeText("Helper"), enter, enter)
	require.Equal(t, stepModel, w.step)

	send(w, esc)
	assert.Equal(t, stepDescription, w.step)
	assert.False(t, w.Ok())
}

func TestAgentWizard_Seed(t *testing.T) {
	seed := &models.AgentConfig{Name: "Existing", Model: "claude-3-haiku", SystemPrompt: "Stay brief.", Tools: []string{"calculator"}}
	w := NewAgentWizard(testCatalog(), seed)

	assert.Equal(t, []string{"calculator"}, w.SelectedTools())

	send(w, enter, enter, enter, save, enter)
	require.Equal(t, stepConfirm, w.step)
	assert.Equal(t, "claude-3-haiku", w.Result().Model)
	assert.Equal(t, "Stay brief.", w.Result().SystemPrompt)
}
