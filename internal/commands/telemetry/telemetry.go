package telemetry

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"

	"github.com/miaoxn/soliditytool/internal/config"
	"github.com/miaoxn/soliditytool/internal/output"
	"github.com/miaoxn/soliditytool/internal/telemetry"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			MarginBottom(1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "telemetry",
		Usage: "Configure anonymous usage telemetry",
		Subcommands: []*cli.Command{
			{
				Name:  "enable",
				Usage: "Enable telemetry",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "anonymous",
						Usage: "Do not attach the context's chain id",
					},
				},
				Action: func(c *cli.Context) error {
					if c.Bool("anonymous") {
						return applyTelemetryConfig(c.App.Writer, choiceEnableAnonymous)
					}
					return applyTelemetryConfig(c.App.Writer, choiceEnableFull)
				},
			},
			{
				Name:  "disable",
				Usage: "Disable telemetry completely",
				Action: func(c *cli.Context) error {
					return applyTelemetryConfig(c.App.Writer, choiceDisable)
				},
			},
			{
				Name:   "status",
				Usage:  "Show current telemetry configuration",
				Action: showStatus,
			},
			{
				Name:    "configure",
				Aliases: []string{"config"},
				Usage:   "Configure telemetry interactively",
				Action:  telemetryWizard,
			},
		},
	}
}

func showStatus(c *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	status, mode := "Disabled", "N/A"
	if cfg.TelemetryEnabled != nil && *cfg.TelemetryEnabled {
		status, mode = "Enabled", "Full"
		if cfg.TelemetryAnonymous != nil && *cfg.TelemetryAnonymous {
			mode = "Anonymous"
		}
	}

	apiKeyStatus := "Not configured"
	if cfg.PostHogAPIKey != "" {
		apiKeyStatus = "Configured"
	}

	data := map[string]interface{}{
		"status":  status,
		"mode":    mode,
		"api_key": apiKeyStatus,
	}

	envOverrides := make(map[string]string)
	if v := os.Getenv(telemetry.EnvTelemetryEnabled); v != "" {
		envOverrides[telemetry.EnvTelemetryEnabled] = v
	}
	if os.Getenv(telemetry.EnvPostHogKey) != "" {
		envOverrides[telemetry.EnvPostHogKey] = "***configured***"
	}
	if v := os.Getenv(telemetry.EnvPostHogEndpoint); v != "" {
		envOverrides[telemetry.EnvPostHogEndpoint] = v
	}
	if len(envOverrides) > 0 {
		data["env_overrides"] = envOverrides
	}

	return output.NewFormatterWithWriter(c.String("output"), c.App.Writer).Print(data)
}

func telemetryWizard(c *cli.Context) error {
	fmt.Fprintln(c.App.Writer, titleStyle.Render("Telemetry Configuration"))
	fmt.Fprintln(c.App.Writer, "Usage metrics are anonymous and never include arguments, addresses or keys.")
	fmt.Fprintln(c.App.Writer)

	finalModel, err := tea.NewProgram(newWizardModel(), tea.WithContext(c.Context)).Run()
	if err != nil {
		return fmt.Errorf("failed to run wizard: %w", err)
	}

	m, ok := finalModel.(wizardModel)
	if !ok {
		return nil
	}
	if m.cancelled {
		fmt.Fprintln(c.App.Writer, helpStyle.Render("Configuration cancelled"))
		return nil
	}
	if m.completed {
		return applyTelemetryConfig(c.App.Writer, m.choice)
	}
	return nil
}

type choice string

const (
	choiceEnableFull      choice = "enable_full"
	choiceEnableAnonymous choice = "enable_anonymous"
	choiceDisable         choice = "disable"
)

type wizardItem struct {
	title       string
	description string
	choice      choice
}

func (i wizardItem) Title() string       { return i.title }
func (i wizardItem) Description() string { return i.description }
func (i wizardItem) FilterValue() string { return i.title }

type wizardModel struct {
	list      list.Model
	choice    choice
	completed bool
	cancelled bool
}

func newWizardModel() wizardModel {
	items := []list.Item{
		wizardItem{"Enable Telemetry", "Collect usage data including the context's chain id", choiceEnableFull},
		wizardItem{"Enable Anonymous Telemetry", "Collect usage data without the chain id", choiceEnableAnonymous},
		wizardItem{"Disable Telemetry", "Do not collect any data", choiceDisable},
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Choose telemetry configuration:"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return wizardModel{list: l}
}

func (m wizardModel) Init() tea.Cmd {
	return nil
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit

		case tea.KeyEnter:
			if item, ok := m.list.SelectedItem().(wizardItem); ok {
				m.choice = item.choice
				m.completed = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m wizardModel) View() string {
	if m.completed || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("Use ↑/↓ to navigate, Enter to select, Esc to cancel"))
	return b.String()
}

func applyTelemetryConfig(w io.Writer, c choice) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	enabled := c != choiceDisable
	anonymous := c == choiceEnableAnonymous
	cfg.TelemetryEnabled = &enabled
	cfg.TelemetryAnonymous = &anonymous

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	switch c {
	case choiceEnableFull:
		fmt.Fprintln(w, successStyle.Render("✓ Telemetry enabled"))
	case choiceEnableAnonymous:
		fmt.Fprintln(w, successStyle.Render("✓ Telemetry enabled (anonymous mode)"))
	case choiceDisable:
		fmt.Fprintln(w, successStyle.Render("✓ Telemetry disabled"))
	}
	return nil
}
