package tui

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/ebadge-upload/internal/mediasniff"
)

// field identifies a single input on the file select screen.
type field int

const (
	fieldPath field = iota
	fieldWidth
	fieldHeight
	fieldInterval
	fieldCount
)

// fileSelectKeyMap defines key bindings for the file select screen
type fileSelectKeyMap struct {
	Next      key.Binding
	Prev      key.Binding
	TestImage key.Binding
	Confirm   key.Binding
	Back      key.Binding
	Quit      key.Binding
}

func (k fileSelectKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.TestImage, k.Confirm, k.Back, k.Quit}
}

func (k fileSelectKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Confirm},
		{k.TestImage, k.Back, k.Quit},
	}
}

// FileSelectModel collects the source content and target geometry for an
// upload before handing off to the uploading screen.
type FileSelectModel struct {
	Inputs      [fieldCount]textinput.Model
	Focused     field
	UseTest     bool
	Err         error
	Ready       bool
	Width       int
	Height      int
	Help        help.Model
	Keys        fileSelectKeyMap
}

// NewFileSelectModel creates a new file select screen model.
func NewFileSelectModel() FileSelectModel {
	path := textinput.New()
	path.Placeholder = "photo.jpg, dance.gif, clip.mp4..."
	path.Focus()

	width := textinput.New()
	width.Placeholder = "64"
	width.CharLimit = 5

	height := textinput.New()
	height.Placeholder = "32"
	height.CharLimit = 5

	interval := textinput.New()
	interval.Placeholder = "50"
	interval.CharLimit = 3

	keys := fileSelectKeyMap{
		Next:      key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		TestImage: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "toggle test pattern")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start upload")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}

	return FileSelectModel{
		Inputs:  [fieldCount]textinput.Model{path, width, height, interval},
		Focused: fieldPath,
		Help:    help.New(),
		Keys:    keys,
	}
}

func (m FileSelectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m FileSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "ctrl+t":
			m.UseTest = !m.UseTest
			return m, nil

		case "tab", "down":
			m.Focused = (m.Focused + 1) % fieldCount
			return m, m.focusCmd()

		case "shift+tab", "up":
			m.Focused = (m.Focused - 1 + fieldCount) % fieldCount
			return m, m.focusCmd()

		case "enter":
			if err := m.validate(); err != nil {
				m.Err = err
				return m, nil
			}
			m.Err = nil
			m.Ready = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.Inputs[m.Focused], cmd = m.Inputs[m.Focused].Update(msg)
	return m, cmd
}

func (m *FileSelectModel) focusCmd() tea.Cmd {
	for i := range m.Inputs {
		m.Inputs[i].Blur()
	}
	m.Inputs[m.Focused].Focus()
	return nil
}

// validate checks the path (unless using a test pattern) and any
// numeric fields the user has filled in.
func (m FileSelectModel) validate() error {
	if !m.UseTest && strings.TrimSpace(m.Inputs[fieldPath].Value()) == "" {
		return errFileRequired
	}
	for _, idx := range []field{fieldWidth, fieldHeight, fieldInterval} {
		v := strings.TrimSpace(m.Inputs[idx].Value())
		if v == "" {
			continue
		}
		if _, err := strconv.Atoi(v); err != nil {
			return errNumericField
		}
	}
	return nil
}

// Path returns the trimmed file path entered by the user.
func (m FileSelectModel) Path() string {
	return strings.TrimSpace(m.Inputs[fieldPath].Value())
}

// Geometry returns the configured width, height, and frame interval,
// falling back to the supplied defaults for any blank field.
func (m FileSelectModel) Geometry(defaultWidth, defaultHeight uint16, defaultInterval int) (width, height uint16, interval int) {
	width, height, interval = defaultWidth, defaultHeight, defaultInterval
	if v, err := strconv.Atoi(strings.TrimSpace(m.Inputs[fieldWidth].Value())); err == nil {
		width = uint16(v)
	}
	if v, err := strconv.Atoi(strings.TrimSpace(m.Inputs[fieldHeight].Value())); err == nil {
		height = uint16(v)
	}
	if v, err := strconv.Atoi(strings.TrimSpace(m.Inputs[fieldInterval].Value())); err == nil {
		interval = v
	}
	return
}

func (m FileSelectModel) View() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Choose content to upload"))
	b.WriteString("\n\n")

	if m.UseTest {
		b.WriteString(SuccessBoxStyle.Render("Using a generated checkerboard test pattern"))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.renderField("File path", fieldPath))
		b.WriteString("\n\n")
		if ext := filepath.Ext(m.Path()); ext != "" {
			kind := mediasniff.Sniff(nil, ext)
			b.WriteString(SubtitleStyle.Render("Detected by extension: " + kind.String()))
			b.WriteString("\n\n")
		}
	}

	b.WriteString(m.renderField("Width (px, default 64)", fieldWidth))
	b.WriteString("\n")
	b.WriteString(m.renderField("Height (px, default 32)", fieldHeight))
	b.WriteString("\n")
	b.WriteString(m.renderField("Frame interval ms (default 50)", fieldInterval))
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(RenderError(m.Err.Error()))
		b.WriteString("\n\n")
	}

	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}

func (m FileSelectModel) renderField(label string, f field) string {
	style := BlurredInputStyle
	if m.Focused == f {
		style = FocusedInputStyle
	}
	return "  " + style.Render(label+":") + "  " + m.Inputs[f].View()
}

var (
	errFileRequired = fieldErr("a file path is required unless the test pattern is selected (ctrl+t)")
	errNumericField = fieldErr("width, height, and interval must be whole numbers")
)

type fieldErr string

func (e fieldErr) Error() string { return string(e) }
