package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/panelize/panelize/pkg/errors"
	"github.com/panelize/panelize/pkg/figlayout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// cellRow is one selectable cell in the picker.
type cellRow struct {
	ID      string
	Index   int    // reading-order position, 0-based
	Label   string // panel label if assigned
	Content string // image basename, nested reference, or "empty"
}

// CellPickerModel is the bubbletea model for interactive cell selection.
// Cells appear in reading order, the same order auto-labeling uses.
type CellPickerModel struct {
	Title    string
	Cells    []cellRow
	Cursor   int
	Selected *cellRow
}

// NewCellPickerModel builds a picker over the document's cells.
func NewCellPickerModel(title string, d *figlayout.Document) CellPickerModel {
	var rows []cellRow
	for i, id := range d.Tree.Leaves() {
		n, ok := d.Tree.Node(id)
		if !ok {
			continue
		}
		content := "empty"
		switch {
		case n.Nested != "":
			content = "nested " + filepath.Base(n.Nested)
		case n.Image != "":
			content = filepath.Base(n.Image)
		}
		rows = append(rows, cellRow{ID: id, Index: i, Label: n.Label, Content: content})
	}
	return CellPickerModel{Title: title, Cells: rows}
}

func (m CellPickerModel) Init() tea.Cmd {
	return nil
}

func (m CellPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Cells)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = &m.Cells[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m CellPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, cell := range m.Cells {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		label := cell.Label
		if label == "" {
			label = fmt.Sprintf("#%d", cell.Index+1)
		}

		line := fmt.Sprintf("%s%-6s %s", cursor, label, listDimStyle.Render(cell.Content))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Cells))))

	return b.String()
}

// pickCell runs the interactive picker and returns the chosen cell ID.
func pickCell(title string, d *figlayout.Document) (string, error) {
	model := NewCellPickerModel(title, d)
	if len(model.Cells) == 0 {
		return "", errors.New(errors.ErrCodeInvalidTree, "document has no cells")
	}

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", err
	}
	result, ok := final.(CellPickerModel)
	if !ok || result.Selected == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "no cell selected")
	}
	return result.Selected.ID, nil
}
