package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/ebadge-upload/internal/discovery"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenDiscovery  Screen = "discovery"
	ScreenFileSelect Screen = "fileselect"
	ScreenUploading  Screen = "uploading"
	ScreenSuccess    Screen = "success"
	ScreenFailure    Screen = "failure"
)

// resultKeyMap defines key bindings shared by the success and failure screens
type resultKeyMap struct {
	Retry    key.Binding
	Discover key.Binding
	Quit     key.Binding
}

func (k resultKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Retry, k.Discover, k.Quit}
}

func (k resultKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Retry, k.Discover, k.Quit},
	}
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen  Screen
	PreviousScreen Screen

	DiscoveryModel  DiscoveryModel
	FileSelectModel FileSelectModel
	UploadModel     UploadModel

	SelectedDevice *discovery.Device
	LastRequest    UploadRequest
	LastError      error

	Width  int
	Height int

	Help        help.Model
	ResultKeys  resultKeyMap
}

// NewAppModel creates a new application model starting at device discovery.
func NewAppModel() AppModel {
	h := help.New()

	resultKeys := resultKeyMap{
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Discover: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "discover another display"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	return AppModel{
		CurrentScreen: ScreenDiscovery,
		DiscoveryModel: NewDiscoveryModel(),
		Help:          h,
		ResultKeys:    resultKeys,
	}
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.Init()
	default:
		return nil
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.DiscoveryModel.Width = msg.Width
		m.DiscoveryModel.Height = msg.Height
		m.FileSelectModel.Width = msg.Width
		m.FileSelectModel.Height = msg.Height
		m.UploadModel.Width = msg.Width
		m.UploadModel.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenDiscovery:
		updated, c := m.DiscoveryModel.Update(msg)
		m.DiscoveryModel = updated.(DiscoveryModel)
		cmd = c

		if m.DiscoveryModel.Selected {
			m.SelectedDevice = m.DiscoveryModel.GetSelectedDevice()
			if m.SelectedDevice != nil {
				return m.transitionTo(ScreenFileSelect)
			}
		}

	case ScreenFileSelect:
		updated, c := m.FileSelectModel.Update(msg)
		m.FileSelectModel = updated.(FileSelectModel)
		cmd = c

		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
			return m.transitionTo(ScreenDiscovery)
		}

		if m.FileSelectModel.Ready {
			width, height, interval := m.FileSelectModel.Geometry(64, 32, 50)
			m.LastRequest = UploadRequest{
				Device:   m.SelectedDevice,
				Path:     m.FileSelectModel.Path(),
				UseTest:  m.FileSelectModel.UseTest,
				Width:    width,
				Height:   height,
				Interval: interval,
			}
			return m.transitionTo(ScreenUploading)
		}

	case ScreenUploading:
		updated, c := m.UploadModel.Update(msg)
		m.UploadModel = updated.(UploadModel)
		cmd = c

		if m.UploadModel.Done {
			m.LastError = m.UploadModel.Err
			if m.LastError != nil {
				return m.transitionTo(ScreenFailure)
			}
			return m.transitionTo(ScreenSuccess)
		}

	case ScreenSuccess:
		return m.handleResultScreen(msg)

	case ScreenFailure:
		return m.handleResultScreen(msg)
	}

	return m, cmd
}

// handleResultScreen handles user input on the success/failure screens
func (m AppModel) handleResultScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "r":
			return m.transitionTo(ScreenFileSelect)

		case "d":
			return m.transitionTo(ScreenDiscovery)

		case "q":
			return m, tea.Quit
		}
	}

	return m, nil
}

// transitionTo transitions to a new screen, (re-)initializing its model.
func (m AppModel) transitionTo(screen Screen) (tea.Model, tea.Cmd) {
	m.PreviousScreen = m.CurrentScreen
	m.CurrentScreen = screen

	var cmd tea.Cmd

	switch screen {
	case ScreenDiscovery:
		m.DiscoveryModel = NewDiscoveryModel()
		m.DiscoveryModel.Width = m.Width
		m.DiscoveryModel.Height = m.Height
		cmd = m.DiscoveryModel.Init()

	case ScreenFileSelect:
		m.FileSelectModel = NewFileSelectModel()
		m.FileSelectModel.Width = m.Width
		m.FileSelectModel.Height = m.Height
		cmd = m.FileSelectModel.Init()

	case ScreenUploading:
		m.UploadModel = NewUploadModel(m.LastRequest)
		m.UploadModel.Width = m.Width
		m.UploadModel.Height = m.Height
		cmd = m.UploadModel.Init()

	case ScreenSuccess, ScreenFailure:
		cmd = nil
	}

	return m, cmd
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.View()
	case ScreenFileSelect:
		return m.FileSelectModel.View()
	case ScreenUploading:
		return m.UploadModel.View()
	case ScreenSuccess:
		return m.renderResultScreen(true)
	case ScreenFailure:
		return m.renderResultScreen(false)
	default:
		return "Unknown screen"
	}
}

// renderResultScreen renders the success or failure result screen
func (m AppModel) renderResultScreen(success bool) string {
	var content string
	if success {
		content = m.buildSuccessContent()
	} else {
		content = m.buildFailureContent()
	}

	helpText := m.Help.View(m.ResultKeys)
	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

func (m AppModel) buildSuccessContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("✓ Upload Complete"))
	b.WriteString("\n\n")

	if m.SelectedDevice != nil {
		b.WriteString(SuccessBoxStyle.Render("Delivered to " + m.SelectedDevice.String()))
		b.WriteString("\n\n")
	}

	b.WriteString("What would you like to do next?\n\n")
	b.WriteString(MenuItemStyle.Render("  r - Upload something else to this display"))
	b.WriteString("\n")
	b.WriteString(MenuItemStyle.Render("  d - Discover another display"))
	b.WriteString("\n")
	b.WriteString(MenuItemStyle.Render("  q - Exit"))
	b.WriteString("\n")

	return b.String()
}

func (m AppModel) buildFailureContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("✗ Upload Failed"))
	b.WriteString("\n\n")

	if m.LastError != nil {
		b.WriteString(ErrorBoxStyle.Render(fmt.Sprintf("Error: %v", m.LastError)))
		b.WriteString("\n\n")
	}

	b.WriteString("Troubleshooting:\n")
	b.WriteString("  • Check the display is powered on and in range\n")
	b.WriteString("  • Confirm the file path and content type are supported\n")
	b.WriteString("  • Try a smaller target width/height or a shorter animation\n\n")

	b.WriteString("What would you like to do?\n\n")
	b.WriteString(MenuItemStyle.Render("  r - Retry"))
	b.WriteString("\n")
	b.WriteString(MenuItemStyle.Render("  d - Discover another display"))
	b.WriteString("\n")
	b.WriteString(MenuItemStyle.Render("  q - Exit"))
	b.WriteString("\n")

	return b.String()
}
