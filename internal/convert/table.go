package convert

import (
	"regexp"
	"strings"
)

// separatorCells holds only pipes, colons, dashes and spaces.
var separatorCells = regexp.MustCompile(`^[\s|:-]+$`)

// Alignment is the horizontal alignment of a table column.
type Alignment string

// Column alignments, named after their CSS text-align values.
const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// tableState is the line scanner state.
type tableState int

const (
	scanning tableState = iota
	inTable
)

// tables finds pipe tables and replaces each with a single-line <table>.
// Lines that look like table rows but lack a separator pass through.
func tables(s *state) {
	lines := strings.Split(s.text, "\n")
	out := make([]string, 0, len(lines))
	var rows []string
	st := scanning

	emit := func() {
		out = append(out, renderTable(rows)...)
		rows = nil
		st = scanning
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch st {
		case scanning:
			if strings.Contains(line, "|") && i+1 < len(lines) && isSeparatorRow(lines[i+1]) {
				rows = append(rows, line, lines[i+1])
				st = inTable
				i++
				continue
			}
			out = append(out, line)
		case inTable:
			if strings.Contains(line, "|") {
				rows = append(rows, line)
				continue
			}
			emit()
			out = append(out, line)
		}
	}
	if st == inTable {
		emit()
	}
	s.text = strings.Join(out, "\n")
}

// isSeparatorRow reports whether line is a header separator such as
// "|:---|:---:|---:|".
func isSeparatorRow(line string) bool {
	return strings.Contains(line, "|") &&
		strings.Contains(line, "-") &&
		separatorCells.MatchString(line)
}

// splitRow splits a table row into trimmed cells. Edge pipes are optional
// and trailing empty cells are dropped.
func splitRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	cells := strings.Split(line, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// parseAlignment reads the alignment of a separator cell from its colons.
func parseAlignment(cell string) Alignment {
	left := strings.HasPrefix(cell, ":")
	right := strings.HasSuffix(cell, ":")
	switch {
	case left && right:
		return AlignCenter
	case right:
		return AlignRight
	default:
		return AlignLeft
	}
}

// renderTable converts buffered rows (header, separator, data rows) to HTML.
// A header without cells is returned unchanged.
func renderTable(rows []string) []string {
	header := splitRow(rows[0])
	if len(header) == 0 {
		return rows
	}

	seps := splitRow(rows[1])
	aligns := make([]Alignment, len(header))
	for i := range aligns {
		aligns[i] = AlignLeft
		if i < len(seps) {
			aligns[i] = parseAlignment(seps[i])
		}
	}

	var b strings.Builder
	b.WriteString("<table><thead><tr>")
	for i, cell := range header {
		writeCell(&b, "th", aligns[i], cell)
	}
	b.WriteString("</tr></thead>")

	if len(rows) > 2 {
		b.WriteString("<tbody>")
		for _, row := range rows[2:] {
			cells := splitRow(row)
			b.WriteString("<tr>")
			for i := 0; i < len(header) || i < len(cells); i++ {
				align := AlignLeft
				if i < len(aligns) {
					align = aligns[i]
				}
				cell := ""
				if i < len(cells) {
					cell = cells[i]
				}
				writeCell(&b, "td", align, cell)
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</tbody>")
	}
	b.WriteString("</table>")
	return []string{b.String()}
}

func writeCell(b *strings.Builder, tag string, align Alignment, content string) {
	b.WriteString("<")
	b.WriteString(tag)
	b.WriteString(` style="text-align: `)
	b.WriteString(string(align))
	b.WriteString(`">`)
	b.WriteString(content)
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">")
}
