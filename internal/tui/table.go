package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/vvka-141/bookseed/pkg/bookseed"
)

// TableRenderer prints database tables to a writer. Styled output uses
// rounded borders and colors; plain output uses ASCII borders only.
type TableRenderer struct {
	out    io.Writer
	styled bool
}

var _ bookseed.TableRenderer = (*TableRenderer)(nil)

func NewTableRenderer(out io.Writer, styled bool) *TableRenderer {
	return &TableRenderer{out: out, styled: styled}
}

// NewAutoTableRenderer picks styled output when DetectMode reports an interactive terminal.
func NewAutoTableRenderer(out io.Writer) *TableRenderer {
	return NewTableRenderer(out, IsInteractive())
}

// Render writes a title line, the table and a row count.
func (r *TableRenderer) Render(t *bookseed.Table) error {
	title := t.Name
	footer := rowCount(len(t.Rows))
	if r.styled {
		title = TitleStyle.Render(title)
		footer = FooterStyle.Render(footer)
	}

	if _, err := fmt.Fprintln(r.out, title); err != nil {
		return err
	}
	if len(t.Columns) > 0 {
		if _, err := fmt.Fprintln(r.out, r.build(t).String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(r.out, footer)
	return err
}

func (r *TableRenderer) build(t *bookseed.Table) *table.Table {
	tbl := table.New().
		Headers(t.Columns...).
		Rows(t.Rows...)

	if !r.styled {
		return tbl.
			Border(lipgloss.ASCIIBorder()).
			StyleFunc(func(_, _ int) lipgloss.Style { return plainCellStyle })
	}

	return tbl.
		Border(lipgloss.RoundedBorder()).
		BorderStyle(BorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			if row >= 0 && row < len(t.Rows) && col < len(t.Rows[row]) && t.Rows[row][col] == "" {
				return NullCellStyle
			}
			return CellStyle
		})
}

func rowCount(n int) string {
	if n == 1 {
		return "(1 row)"
	}
	return fmt.Sprintf("(%d rows)", n)
}
