package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sisugv/sisugv/pkg/curriculum"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// pickerRow is one course in the picker.
type pickerRow struct {
	course *curriculum.Course
	module string
}

// pickerRows lists every tree course once, in depth-first order, with the
// name of the module it first appears in.
func pickerRows(p *curriculum.Programme) []pickerRow {
	var rows []pickerRow
	seen := make(map[string]bool)
	p.Walk(func(m, _ *curriculum.Module) {
		for _, c := range m.Courses {
			if seen[c.Key()] {
				continue
			}
			seen[c.Key()] = true
			rows = append(rows, pickerRow{course: c, module: m.Name})
		}
	})
	return rows
}

// PickerModel is the bubbletea model for choosing blacklisted courses.
type PickerModel struct {
	Rows      []pickerRow
	Marked    []bool
	Cursor    int
	Height    int
	Offset    int
	Done      bool
	Cancelled bool

	// keep holds blacklist entries that name no listed course (modules,
	// unknown codes); they pass through unchanged.
	keep []string
}

// NewPickerModel creates a picker with the courses named by blacklist
// already marked.
func NewPickerModel(p *curriculum.Programme, blacklist []string) PickerModel {
	rows := pickerRows(p)
	m := PickerModel{Rows: rows, Marked: make([]bool, len(rows)), Height: 15}
	for _, ident := range blacklist {
		matched := false
		for i, r := range rows {
			if r.course.Matches(ident) {
				m.Marked[i] = true
				matched = true
			}
		}
		if !matched {
			m.keep = append(m.keep, ident)
		}
	}
	return m
}

// Blacklist returns the unmatched original entries followed by the keys of
// the marked courses.
func (m PickerModel) Blacklist() []string {
	out := slices.Clone(m.keep)
	for i, r := range m.Rows {
		if m.Marked[i] {
			out = append(out, r.course.Key())
		}
	}
	return out
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Cancelled = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Rows) > 0 {
				m.Marked = slices.Clone(m.Marked)
				m.Marked[m.Cursor] = !m.Marked[m.Cursor]
			}
		case "enter":
			m.Done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Leave out courses"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  ⏎ done  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "[ ]"
		if m.Marked[i] {
			mark = "[x]"
		}
		rows = append(rows, []string{cursor, mark, r.course.Code, r.course.Name, r.module})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Code", "Course", "Module").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if m.Marked[idx] {
				base = base.Foreground(colorRed)
			} else if col == 4 {
				base = base.Foreground(colorDim)
			}
			if idx == m.Cursor {
				base = base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	marked := 0
	for _, on := range m.Marked {
		if on {
			marked++
		}
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %d marked", m.Cursor+1, len(m.Rows), marked)))
	return b.String()
}

// pickBlacklist runs the picker on w and returns the chosen blacklist.
// Quitting without confirming returns context.Canceled.
func pickBlacklist(ctx context.Context, w io.Writer, p *curriculum.Programme, blacklist []string) ([]string, error) {
	model := NewPickerModel(p, blacklist)
	if len(model.Rows) == 0 {
		return blacklist, nil
	}
	final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(w)).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	m := final.(PickerModel)
	if !m.Done {
		return nil, context.Canceled
	}
	return m.Blacklist(), nil
}
