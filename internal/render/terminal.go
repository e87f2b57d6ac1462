package render

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"novelhub/pkg/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true)
)

// Table renders the list view for a terminal: one row per novel with the
// same columns as the HTML rows, plus the id a detail lookup needs.
func Table(novels []models.Novel) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Title", "Status", "Genres", "Volumes", "Image").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, n := range novels {
		t.Row(strconv.Itoa(n.ID), n.Title, n.Status, string(n.Genres), strconv.Itoa(n.NumVolumes), n.Image)
	}
	return t.String()
}

// DetailText renders the detail fields for a terminal.
func DetailText(f DetailFields) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Underline(true).Render(f.Title))
	b.WriteString("\n\n")
	for _, kv := range [...]struct{ label, value string }{
		{"Status", f.Status},
		{"Genres", f.Genres},
		{"Volumes", f.Volumes},
		{"Image", f.ImageSrc},
	} {
		b.WriteString(labelStyle.Render(kv.label + ":"))
		b.WriteString(" ")
		b.WriteString(kv.value)
		b.WriteString("\n")
	}
	if f.Synopsis != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(80).Render(f.Synopsis))
		b.WriteString("\n")
	}
	return b.String()
}
